package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Class partitions failures into the categories the HTTP edge maps to
// status codes. Config marks data-integrity bugs in upstream configuration
// rather than user input errors.
type Class int

const (
	ClassUnknown Class = iota
	ClassBadRequest
	ClassNotFound
	ClassForbidden
	ClassConfig
)

type Error struct {
	Class   Class
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(msg string) *Error {
	return &Error{Class: ClassBadRequest, Message: msg}
}

func BadRequestf(format string, args ...any) *Error {
	return &Error{Class: ClassBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(msg string) *Error {
	return &Error{Class: ClassNotFound, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Class: ClassForbidden, Message: msg}
}

func Config(msg string) *Error {
	return &Error{Class: ClassConfig, Message: msg}
}

// ClassOf extracts the class of err, or ClassUnknown for plain errors.
func ClassOf(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return ClassUnknown
}

func IsBadRequest(err error) bool { return ClassOf(err) == ClassBadRequest }
func IsNotFound(err error) bool   { return ClassOf(err) == ClassNotFound }
func IsForbidden(err error) bool  { return ClassOf(err) == ClassForbidden }

// HTTPStatus maps an error to the status code the controller should answer
// with. Unknown and config errors both surface as internal failures.
func HTTPStatus(err error) int {
	switch ClassOf(err) {
	case ClassBadRequest:
		return http.StatusBadRequest
	case ClassNotFound:
		return http.StatusNotFound
	case ClassForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
