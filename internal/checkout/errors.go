package checkout

import "errors"

var (
	// ErrMissingCheckoutURL is returned when a redirect is requested
	// without a target URL.
	ErrMissingCheckoutURL = errors.New("checkout URL is required")

	// ErrCoordinatorClosed is returned by Begin after Close.
	ErrCoordinatorClosed = errors.New("checkout coordinator is closed")

	// ErrLinkNotFound is returned when a short code has no active link.
	ErrLinkNotFound = errors.New("checkout link not found")
)
