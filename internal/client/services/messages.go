package services

import (
	"errors"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
)

// User-facing failure messages.
const (
	MessageUnknown         = "An unknown error occurred"
	MessageEmailExists     = "This email exists already"
	MessageEmailNotFound   = "This email does not exist"
	MessageInvalidPassword = "This password is not correct"
)

// FailureReason turns an identity client error into the message shown to
// the user. Transport failures and unrecognised codes share MessageUnknown.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, client.ErrEmailExists):
		return MessageEmailExists
	case errors.Is(err, client.ErrEmailNotFound):
		return MessageEmailNotFound
	case errors.Is(err, client.ErrInvalidPassword):
		return MessageInvalidPassword
	default:
		return MessageUnknown
	}
}
