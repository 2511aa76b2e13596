package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Other Kind = iota
	Unauthorized
	Validation
	Upload
	Delete
	Store
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Validation:
		return "validation error"
	case Upload:
		return "upload error"
	case Delete:
		return "delete error"
	case Store:
		return "store error"
	case NotFound:
		return "not found"
	default:
		return "internal error"
	}
}

// Error is the error type returned by the project lifecycle. Message is shown
// to the caller verbatim; Err keeps the underlying cause for errors.Is/As.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func E(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func NewUnauthorized(op string) *Error {
	return &Error{Kind: Unauthorized, Op: op, Message: "Unauthorized"}
}

func NewNotFound(op, entity string) *Error {
	return &Error{Kind: NotFound, Op: op, Message: entity + " not found"}
}

func NewValidation(op, message string) *Error {
	return &Error{Kind: Validation, Op: op, Message: message}
}

// KindOf reports the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case Unauthorized:
		return http.StatusUnauthorized
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Upload, Delete:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
