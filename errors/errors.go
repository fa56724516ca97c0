package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInput stands for general input problems.
	ErrInput = Register(2, "invalid input")

	// ErrState is returned when an object is in an invalid state, for
	// example when an operation requires an initialized engine.
	ErrState = Register(3, "invalid state")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(4, "not found")

	// ErrDatabase is returned when the storage layer misbehaves.
	ErrDatabase = Register(5, "database error")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(6, "value overflow")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but extensions may
// want to declare custom codes. This function ensures that no error code
// is used twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No
// two error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Code 1 is restricted for wrapped non-coded errors.
}

// Error represents a root error.
//
// The engine uses root errors to categorize issues. Each instance created
// during the runtime should wrap one of the declared root errors. This
// allows error tests and returning all errors to the caller in a safe
// manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the numeric code of the root error.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set
// to this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is checks if given error instance is of a given kind/type. This
// involves unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If err is nil, this returns nil, avoiding the need for an if statement
// when wrapping an error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet,
	// attach one. This should be done only once per error at the lowest
	// frame possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap with additional functionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Code returns the code of the wrapped root error, or 1 when the cause
// chain does not contain a coded error.
func (e *wrappedError) Code() uint32 {
	type coder interface {
		Code() uint32
	}
	for err := error(e); err != nil; {
		if c, ok := err.(coder); ok {
			if _, isWrap := err.(*wrappedError); !isWrap {
				return c.Code()
			}
		}
		cause, ok := err.(causer)
		if !ok {
			break
		}
		err = cause.Cause()
	}
	return 1
}

// stackTrace returns the first found stack trace frame carried by given
// error or its wrapped errors.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// Recover captures a panic and stops its propagation. If panic happens it
// is transformed into an error and assigned to given pointer. Errors
// raised via Fatal keep their own root, anything else is reported as
// ErrPanic. Call this function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		if f, ok := r.(fatal); ok {
			*err = f.err
			return
		}
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// Fatal interrupts the current call by panicking with the given error.
// Use it for failures that must abort the whole call rather than be
// returned for the caller to inspect. The host boundary converts it back
// into an error with Recover.
func Fatal(err error) {
	panic(fatal{err: err})
}

type fatal struct {
	err error
}

func (f fatal) String() string {
	return f.err.Error()
}

// causer is an interface implemented by an error that supports wrapping.
// Use it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}
