package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoLiquidity is reported when a quote is requested while the
	// respective book side has no price levels.
	ErrNoLiquidity = errors.New("order book side has no price levels")

	// ErrUnknownOrder is reported when an order id was never placed through
	// this process and therefore is not tracked by the local cache.
	ErrUnknownOrder = errors.New("order is not tracked by the local order cache")
)

// StatusError is a transport failure: a non-success response from the
// exchange. It carries a machine-readable code and the raw response body.
type StatusError struct {
	Code       string
	StatusCode int
	Body       string
}

func NewStatusError(statusCode int, body string) *StatusError {
	return &StatusError{
		Code:       "HTTP_STATUS",
		StatusCode: statusCode,
		Body:       body,
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-success status %d: %s", e.StatusCode, e.Body)
}

// RejectionError is a business rejection of an order placement (e.g.
// insufficient balance). It is translated into a rejected-status order by the
// exchange surface and is never surfaced to callers as a failure.
type RejectionError struct {
	Code   string
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("order rejected by exchange: %s (%s)", e.Reason, e.Code)
}
