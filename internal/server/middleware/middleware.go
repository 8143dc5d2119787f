package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

var (
	DefaultSkipper = func(c echo.Context) bool {
		return false
	}
)

type Skipper func(c echo.Context) bool

type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Debugw(template string, args ...interface{})
	Infow(template string, args ...interface{})
	Warnw(template string, args ...interface{})
	Errorw(template string, args ...interface{})
}

// ResponseError is the error envelope written for every failed request.
type ResponseError struct {
	Status  int    `json:"-"`
	Err     error  `json:"-"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewResponseError(status int, message string, err error) *ResponseError {
	return &ResponseError{
		Status:  status,
		Err:     err,
		Message: message,
	}
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("status: %d, message: %s; cause: %+v", e.Status, e.Message, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}
