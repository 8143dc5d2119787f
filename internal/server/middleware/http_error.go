package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusClientClosedRequest is reported when the client went away.
const StatusClientClosedRequest = 499

type grpcStatus interface {
	GRPCStatus() *status.Status
}

// ErrorHandler return custom http error handler.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := ResolveError(err)
		if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
			resp.Status = StatusClientClosedRequest
		}
		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.Message = "no route matched"
		}
		if resp.Status >= http.StatusInternalServerError {
			log.Errorw("request failed", "status", resp.Status, "uri", c.Request().RequestURI, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}

// ResolveError maps err to the envelope sent to the client. Status errors
// from the usecases keep their own message, anything unknown becomes a 500.
func ResolveError(err error) *ResponseError {
	var re *ResponseError
	if errors.As(err, &re) {
		return re
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return NewResponseError(he.Code, fmt.Sprint(he.Message), err)
	}

	var se grpcStatus
	if errors.As(err, &se) {
		st := se.GRPCStatus()
		return NewResponseError(HTTPStatusFromCode(st.Code()), st.Message(), err)
	}

	return NewResponseError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), err)
}

func HTTPStatusFromCode(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Canceled:
		return StatusClientClosedRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
