package mailer

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates no HTML content was provided.
	ErrNoContent = errors.New("email must have HTML content")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrNoReceipt indicates the provider accepted the call but returned no receipt.
	ErrNoReceipt = errors.New("provider returned no receipt")

	// ErrTransient marks a provider failure worth retrying, such as a rate limit.
	// Senders join it with the provider error.
	ErrTransient = errors.New("transient provider failure")
)

// IsRetryable reports whether a failed send may succeed if repeated.
// Cancellation is never retryable; rejections of the email itself are not either.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
