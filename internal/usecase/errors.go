package usecase

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Only ErrUpstreamUnavailable is retryable;
// every other kind means the request itself is invalid or the financial state
// disagrees with it.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrEmptyOrder          = errors.New("order has no line items")
	ErrUnknownProduct      = errors.New("unknown product")
	ErrTotalMismatch       = errors.New("claimed total does not match computed total")
	ErrOrderNotFound       = errors.New("order not found")
	ErrAlreadyPaid         = errors.New("order already paid with a different transaction")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrAmountMismatch      = errors.New("processor amount does not match order total")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// upstream classifies store/catalog failures as retryable. Errors the repos
// already translated to a sentinel kind pass through unchanged.
func upstream(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrUnknownProduct) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}
