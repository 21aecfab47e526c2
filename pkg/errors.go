package pkg

import (
	"errors"
	"fmt"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

// Message. error message without the wrapped cause, safe to show to API clients.
func (e *Error) Message() string {
	return e.msg
}

// ErrorCode returns the code of the first *Error in err's chain, ErrInternalServerError if there is none.
func ErrorCode(err error) error {
	var e *Error
	if errors.As(err, &e) && e.code != nil {
		return e.code
	}
	return ErrInternalServerError
}

var (
	ErrInternalServerError = errors.New("internal Server Error")
	ErrNotFound            = errors.New("your requested Item is not found")
	ErrConflict            = errors.New("your Item already exist")
	ErrBadParamInput       = errors.New("given Param is not valid")
)

var MessageInternalServerError string = "internal server error"
