package domain

import "fmt"

// Error is a domain-level error carrying a stable code. Two errors with the
// same code match under errors.Is, so a detailed error still matches its sentinel.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is a domain error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInvalidDate     = "INVALID_DATE"
	CodeInvalidQuantity = "INVALID_QUANTITY"
)

var (
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrInvalidInput    = &Error{Code: CodeInvalidInput, Message: "invalid input provided"}
	ErrInvalidDate     = &Error{Code: CodeInvalidDate, Message: "invalid date"}
	ErrInvalidQuantity = &Error{Code: CodeInvalidQuantity, Message: "invalid quantity"}
)

// NotFound returns an ErrNotFound with a specific message, e.g. "Supplier not found".
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func InvalidInput(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func InvalidDate(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidDate, Message: fmt.Sprintf(format, args...)}
}

func InvalidQuantity(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidQuantity, Message: fmt.Sprintf(format, args...)}
}
