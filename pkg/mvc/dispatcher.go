package mvc

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Response bodies written by the dispatcher
const (
	NotFoundBody        = "404 Not Found"
	ExceptionBodyPrefix = "500 Exception Detail: "

	RequestIDHeader = "X-Request-Id"
)

// Dispatcher resolves a request path to a route and invokes its handler
type Dispatcher struct {
	table  *RouteTable
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher over a built route table
func NewDispatcher(table *RouteTable, opts ...Option) *Dispatcher {
	o := buildOptions(opts)
	if table == nil {
		table = &RouteTable{routes: map[string]*Route{}}
	}
	return &Dispatcher{table: table, logger: o.logger}
}

// ServeHTTP implements http.Handler using the URL path and the parsed form
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		d.logger.Debug("form parse failed", "path", r.URL.Path, "error", err)
	}
	d.Handle(r.URL.Path, r.Form, r, w)
}

// Handle dispatches one request. Failures never escape: they are written
// to w as 404 or 500 responses.
func (d *Dispatcher) Handle(rawPath string, params map[string][]string, req *http.Request, w http.ResponseWriter) {
	reqID := uuid.NewString()
	log := d.logger.With("request_id", reqID)
	w.Header().Set(RequestIDHeader, reqID)

	tw := &trackingWriter{ResponseWriter: w}

	path := NormalizePath(rawPath)
	route, ok := d.table.Lookup(path)
	if !ok {
		log.Info("no route", "path", path)
		tw.WriteHeader(http.StatusNotFound)
		d.write(log, tw, []byte(NotFoundBody))
		return
	}

	result, err := d.invoke(route, params, req, tw)
	if err != nil {
		detail := err.Error()
		var me *Error
		if errors.As(err, &me) && me.Stack != "" {
			detail += "\n" + me.Stack
		}
		log.Error("handler failed", "path", path, "handler", route.Handler(), "error", err)
		if !tw.wrote {
			tw.WriteHeader(http.StatusInternalServerError)
		}
		d.write(log, tw, []byte(ExceptionBodyPrefix+detail))
		return
	}

	log.Debug("handled", "path", path, "handler", route.Handler())
	if !route.Method.Returns || isNil(result) || tw.wrote {
		return
	}
	switch v := result.(type) {
	case []byte:
		d.write(log, tw, v)
	default:
		d.write(log, tw, []byte(fmt.Sprint(v)))
	}
}

func (d *Dispatcher) write(log *slog.Logger, w http.ResponseWriter, body []byte) {
	if _, err := w.Write(body); err != nil {
		log.Debug("response write failed", "error", err)
	}
}

func (d *Dispatcher) invoke(route *Route, params map[string][]string, req *http.Request, w http.ResponseWriter) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			e := newError(HandlerInvocationErrorCode, nil, "handler %s panicked: %v", route.Handler(), p)
			e.Stack = stackSummary(4)
			err = e
		}
	}()

	args := make([]any, len(route.Method.Params))
	for _, b := range route.Plan {
		switch b.Kind {
		case BindRequest:
			args[b.Position] = req
		case BindResponse:
			args[b.Position] = w
		case BindNamed:
			values, present := params[b.Name]
			if !present {
				continue
			}
			v, cerr := convert(strings.Join(values, ","), b)
			if cerr != nil {
				cerr.Stack = stackSummary(2)
				return nil, cerr
			}
			args[b.Position] = v
		}
	}

	result, err = route.Method.Invoke(route.Controller.Instance(), args)
	if err != nil {
		e := newError(HandlerInvocationErrorCode, err, "handler %s failed", route.Handler())
		e.Stack = stackSummary(2)
		return nil, e
	}
	return result, nil
}

// isNil reports whether v is nil or a typed nil behind an interface
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func convert(raw string, b ParamBinding) (any, *Error) {
	switch b.Type {
	case TypeString:
		return raw, nil
	case TypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, newError(BindingErrorCode, err, "parameter %q is not an int", b.Name)
		}
		return n, nil
	default:
		return nil, newError(BindingErrorCode, nil, "parameter %q has unsupported type %s", b.Name, b.Type)
	}
}

// stackSummary lists up to 16 frames of the current goroutine, one per line
func stackSummary(skip int) string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "\tat %s (%s:%d)\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// trackingWriter records whether the handler touched the response
type trackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (t *trackingWriter) WriteHeader(status int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(status)
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(p)
}

func (t *trackingWriter) Flush() {
	if f, ok := t.ResponseWriter.(http.Flusher); ok {
		t.wrote = true
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController
func (t *trackingWriter) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}
