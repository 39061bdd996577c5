// Package feed fetches package feed documents: source validation, the HTTP
// transport with its failure classification, and the bundled sample feed.
package feed

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidInput means the user-supplied source is not a usable address.
// No fetch is attempted.
var ErrInvalidInput = errors.New("invalid feed address")

// ValidateSource parses a user-supplied feed address. It must be an absolute
// http or https URL with a host.
func ValidateSource(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: address is empty", ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidInput, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidInput)
	}
	return u, nil
}
