package fetcher

import "errors"

var (
	// ErrInvalidURL is returned when the URL cannot be parsed or uses a
	// scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP is returned when the host resolves to a loopback, private
	// or link-local address.
	ErrPrivateIP = errors.New("URL resolves to a private IP address")

	// ErrTooManyRedirects is returned when the redirect chain exceeds MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge is returned when the response exceeds MaxBodySize.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout is returned when a single request exceeds Timeout.
	ErrTimeout = errors.New("content fetch timeout")

	// ErrReadabilityFailed is returned when no readable article could be
	// extracted from the page.
	ErrReadabilityFailed = errors.New("readability extraction failed")
)

// IsClientError reports whether err was caused by the requested URL rather
// than by the remote site or the network.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrPrivateIP) ||
		errors.Is(err, ErrTooManyRedirects)
}
