package maaerr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeAlreadyExists    = "ALREADY_EXISTS"
	CodeInternalError    = "INTERNAL_ERROR"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrUnauthorized is returned when the request lacks valid credentials.
	ErrUnauthorized = New(fiber.StatusUnauthorized, CodeUnauthorized, "valid credentials are required to access this resource")

	// ErrPermissionDenied is returned when the requester is authenticated
	// but not allowed to act on the target resource.
	ErrPermissionDenied = New(fiber.StatusForbidden, CodePermissionDenied, "you are not allowed to act on this resource")

	// ErrAlreadyExists is returned on unique-constraint conflicts.
	ErrAlreadyExists = New(fiber.StatusConflict, CodeAlreadyExists, "resource already exists")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")
)

type Extras map[string]any

type MaaError struct {
	StatusCode int    `example:"400"`
	ErrorCode  string `example:"INVALID_REQUEST"`
	Message    string `example:"invalid request: some or all request parameters are invalid"`
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *MaaError {
	return &MaaError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Msg returns a copy of e with a formatted message. The receiver is a value
// so the sentinel errors above stay immutable.
func (e MaaError) Msg(format string, parts ...any) *MaaError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e MaaError) WithExtras(extras Extras) *MaaError {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations any) *MaaError {
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *MaaError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}
