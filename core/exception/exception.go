// Package exception defines the values cells panic with when they are
// misused. Each exception is identified by its message alone, so a recovered
// panic can be matched with errors.Is against a fresh constructor call.
package exception

import (
	"Inskape/singleton/internal/global"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

var (
	debug            bool = global.Debug
	StackTraceHeight int  = 20
)

const (
	exceptionStacktraceHeight int = 3 // skip `Err...`, `New` and `withStackTrace` functions
)

// An Exception reports a misuse of a cell. Exceptions are raised as panics:
// each one marks a programming error, not a condition to handle.
type Exception struct {
	message       string
	details       []string
	wrappedErrors []error
	stackTrace    string
}

// New creates a New exception with the given message.
func New(message string, errs ...error) Exception {
	e := Exception{message: message}
	for _, err := range errs {
		e = e.Wrap(err)
	}
	return e.withStackTrace()
}

// Is reports whether err is an Exception with the same message. Details,
// wrapped errors and stack traces are ignored.
func (e Exception) Is(err error) bool {
	if ex, ok := err.(Exception); !ok || err == nil {
		return false
	} else if e.message == ex.message {
		return true
	}
	return false
}

// Unwrap returns the errors e wraps, for errors.Is and errors.As.
func (e Exception) Unwrap() []error {
	return e.wrappedErrors
}

// Message renders the message, its details and any wrapped errors, without
// stack traces. Raise logs this form.
func (e Exception) Message() string {
	err := e.message

	if len(e.details) > 0 {
		err = fmt.Sprintf("%s (%s)", err, strings.Join(e.details, ", "))
	}

	if len(e.wrappedErrors) > 0 {
		errs := make([]string, 0, len(e.wrappedErrors))
		for _, err := range e.wrappedErrors {
			if ex, ok := err.(Exception); ok {
				errs = append(errs, ex.Message())
			} else {
				errs = append(errs, err.Error())
			}
		}
		err = fmt.Sprintf("%s [%s]", err, strings.Join(errs, " | "))
	}

	return err
}

func (e Exception) withStackTrace() Exception {
	if debug && e.stackTrace == "" {
		stackTrace := ""
		for i := exceptionStacktraceHeight; i < exceptionStacktraceHeight+StackTraceHeight; i++ {
			if pc, file, line, ok := runtime.Caller(i); ok {
				stackTrace += fmt.Sprintf("%s:%d\n", file, line)

				if f := runtime.FuncForPC(pc); f != nil {
					stackTrace += fmt.Sprintf("\t%s\n", f.Name())
				}
			} else {
				break
			}
		}
		e.stackTrace = fmt.Sprintf("%s\n%s", e.stackTrace, stackTrace)
	}
	return e
}
func (e Exception) stackTraceString() (msg string) {
	if debug && e.stackTrace != "" {
		msg = fmt.Sprintf("%s\n%s", msg, e.stackTrace)
	}

	for _, err := range e.wrappedErrors {
		if ex, ok := err.(Exception); ok {
			msg = fmt.Sprintf("%s\n%s", msg, ex.stackTraceString())
		}
	}
	return msg
}

// Error is Message followed, in debug builds, by the stack traces of e and
// of the exceptions it wraps.
func (e Exception) Error() (msg string) {
	msg = e.Message()

	if debug && e.stackTrace != "" {
		msg = fmt.Sprintf("%s\n%s", msg, e.stackTraceString())
	}

	return msg
}

// WithDetail appends a detail shown in parentheses after the message. It does
// not change what Is matches.
func (e Exception) WithDetail(detail string) Exception {
	if e.details == nil {
		e.details = make([]string, 0, 1)
	}
	e.details = append(e.details, detail)
	return e
}

func (e Exception) WithDetailf(detail string, args ...any) Exception {
	if e.details == nil {
		e.details = make([]string, 0, 1)
	}
	e.details = append(e.details, fmt.Sprintf(detail, args...))
	return e
}

// Wrap wraps the given error with the exception.
//
// If the given error is nil, the exception is returned as is.
//
// If the given error is being wrapped by the same exception type, the given error is returned with any additional context this exception has.
//
// If the exception already has wrapped errors, the given error is appended to the list.
//
// If the error to be wrapped has a stack trace, is it copied to the returned exception unless a stacktrace already exists.
func (e Exception) Wrap(err error) Exception {
	if err == nil {
		return e
	} else if ex, ok := err.(Exception); !ok {
		// if the error is not an exception, just add it to this one as a wrapped exception
	} else if e.Is(ex) {
		// if the wrapped error is the same type as this one, merge them
		ex.details = append(ex.details, e.details...)
		ex.wrappedErrors = append(ex.wrappedErrors, e.wrappedErrors...)
		return ex
	} else if ex.stackTrace != "" && e.stackTrace == "" {
		// if the wrapped error has a stack trace and this one does not, copy it
		e.stackTrace = ex.stackTrace
	}

	if e.wrappedErrors == nil {
		e.wrappedErrors = []error{err}
	} else {
		e.wrappedErrors = append(e.wrappedErrors, err)
	}
	return e
}

// Raise logs e at error level together with fields and panics with e.
func Raise(e Exception, fields ...zap.Field) {
	global.Logger().Error(e.Message(), fields...)
	panic(e)
}

func ErrAlreadyBorrowed(err ...error) Exception {
	return New("value is already borrowed", err...)
}

func ErrAlreadyInitialized(err ...error) Exception {
	return New("cell has already been initialized", err...)
}

func ErrAlreadyMutablyBorrowed(err ...error) Exception {
	return New("value is already mutably borrowed", err...)
}

func ErrCrossGoroutineAccess(err ...error) Exception {
	return New("cell accessed from a goroutine other than its owner", err...)
}

func ErrDestroyed(err ...error) Exception {
	return New("cell has been destroyed", err...)
}

func ErrNilFill(err ...error) Exception {
	return New("lazy cell has no fill function", err...)
}

func ErrRecursiveInit(err ...error) Exception {
	return New("lazy cell accessed from its own fill function", err...)
}

func ErrReleasedView(err ...error) Exception {
	return New("view has already been released", err...)
}

func ErrUninitialized(err ...error) Exception {
	return New("cell has not been initialized yet", err...)
}
