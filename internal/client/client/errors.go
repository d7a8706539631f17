package client

import (
	"errors"

	"github.com/dmitrijs2005/recipebook/internal/common"
)

var (
	// ErrUnavailable wraps transport failures: the endpoint gave no answer.
	ErrUnavailable = errors.New("identity endpoint unavailable")

	ErrEmailExists     = errors.New("email exists")
	ErrEmailNotFound   = errors.New("email not found")
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUnknown matches every *UnknownError.
	ErrUnknown = errors.New("unknown identity error")
)

// UnknownError carries an error code the client does not recognise, or a
// description of a response it could not parse.
type UnknownError struct {
	Raw string
}

func (e *UnknownError) Error() string {
	return "identity endpoint error: " + e.Raw
}

func (e *UnknownError) Is(target error) bool {
	return target == ErrUnknown
}

// classify maps the endpoint's error.message code by exact match.
func classify(code string) error {
	switch code {
	case common.CodeEmailExists:
		return ErrEmailExists
	case common.CodeEmailNotFound:
		return ErrEmailNotFound
	case common.CodeInvalidPassword:
		return ErrInvalidPassword
	default:
		return &UnknownError{Raw: code}
	}
}
