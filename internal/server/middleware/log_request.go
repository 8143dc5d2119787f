package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// LogRequestConfig selects what the access log records. Unset switches fall
// back to: bodies and form values on, query and path params off.
type LogRequestConfig struct {
	Logger       Logger
	Enabled      func(c echo.Context) bool
	RequestID    func(c echo.Context) string
	RequestBody  func(c echo.Context) bool
	ResponseBody func(c echo.Context) bool
	FormValues   func(c echo.Context) bool
	QueryParams  func(c echo.Context) bool
	ParamValues  func(c echo.Context) bool
	KeyAndValues func(c echo.Context) []interface{}
}

// uploadedFile is how a multipart file shows up in the access log.
type uploadedFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type bodyDumpWriter struct {
	io.Writer
	http.ResponseWriter
}

func always(echo.Context) bool { return true }

func never(echo.Context) bool { return false }

func (config LogRequestConfig) withDefaults() LogRequestConfig {
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Enabled == nil {
		config.Enabled = always
	}
	if config.RequestBody == nil {
		config.RequestBody = always
	}
	if config.ResponseBody == nil {
		config.ResponseBody = always
	}
	if config.FormValues == nil {
		config.FormValues = always
	}
	if config.QueryParams == nil {
		config.QueryParams = never
	}
	if config.ParamValues == nil {
		config.ParamValues = never
	}
	if config.RequestID == nil {
		config.RequestID = GetRequestID
	}
	if config.KeyAndValues == nil {
		config.KeyAndValues = func(echo.Context) []interface{} { return nil }
	}
	return config
}

// LogRequest writes one access log entry per request, at info, warn or error
// level depending on the status class. Only JSON bodies are dumped, uploads
// are summarized by file name and size.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	config = config.withDefaults()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Enabled(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()

			var reqBody json.RawMessage
			dumpReq := config.RequestBody(c)
			if dumpReq && isJSON(req.Header.Get(echo.HeaderContentType)) {
				reqBody, _ = io.ReadAll(req.Body)
				req.Body = io.NopCloser(bytes.NewReader(reqBody))
				if len(reqBody) == 0 {
					reqBody = nil
				}
			}

			var resBuf bytes.Buffer
			dumpRes := config.ResponseBody(c)
			if dumpRes {
				res.Writer = &bodyDumpWriter{
					Writer:         io.MultiWriter(res.Writer, &resBuf),
					ResponseWriter: res.Writer,
				}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := []interface{}{
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"latency_ms", time.Since(start).Milliseconds(),
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			}
			if route := c.Path(); route != "" {
				args = append(args, "route", route)
			}
			if config.QueryParams(c) && len(c.QueryParams()) > 0 {
				args = append(args, "query", c.QueryParams())
			}
			if config.FormValues(c) {
				args = append(args, formArgs(req)...)
			}
			if config.ParamValues(c) {
				args = append(args, paramArgs(c)...)
			}
			args = append(args, "request_id", config.RequestID(c))
			args = append(args, config.KeyAndValues(c)...)
			if dumpReq {
				args = append(args, "request_body", reqBody)
			}
			if dumpRes {
				var resBody interface{}
				if isJSON(res.Header().Get(echo.HeaderContentType)) {
					resBody = json.RawMessage(resBuf.Bytes())
				}
				args = append(args, "response_body", resBody)
			}

			const message = "http request"
			switch {
			case res.Status >= http.StatusInternalServerError:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				config.Logger.Errorw(message, args...)
			case res.Status >= http.StatusBadRequest:
				config.Logger.Warnw(message, args...)
			default:
				config.Logger.Infow(message, args...)
			}

			return err
		}
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
}

func formArgs(req *http.Request) []interface{} {
	var args []interface{}
	if len(req.Form) > 0 {
		args = append(args, "form", req.Form)
	}
	if req.MultipartForm != nil && len(req.MultipartForm.File) > 0 {
		args = append(args, "files", summarizeFiles(req.MultipartForm))
	}
	return args
}

func summarizeFiles(form *multipart.Form) map[string][]uploadedFile {
	files := make(map[string][]uploadedFile, len(form.File))
	for field, headers := range form.File {
		for _, fh := range headers {
			files[field] = append(files[field], uploadedFile{Name: fh.Filename, Size: fh.Size})
		}
	}
	return files
}

func paramArgs(c echo.Context) []interface{} {
	names := c.ParamNames()
	if len(names) == 0 {
		return nil
	}
	params := make(map[string]string, len(names))
	for _, name := range names {
		params[name] = c.Param(name)
	}
	return []interface{}{"params", params}
}

func (w *bodyDumpWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}
