package feed

import (
	"errors"
	"fmt"
)

// ErrFetchInProgress is returned when a fetch is started while another one
// is still pending.
var ErrFetchInProgress = errors.New("a feed fetch is already in progress")

// Kind classifies a transport failure.
type Kind string

const (
	KindCrossOriginBlocked Kind = "cross-origin-blocked"
	KindConnectionFailed   Kind = "connection-failed"
	KindBadStatus          Kind = "bad-status"
	KindFetchFailed        Kind = "fetch-failed"
)

// TransportError is a classified network failure while fetching a feed.
type TransportError struct {
	Kind       Kind
	StatusCode int // set for KindBadStatus
	URL        string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Kind == KindBadStatus {
		return fmt.Sprintf("fetch %s: %s %d", e.URL, e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage is the message shown in the failure banner.
func (e *TransportError) UserMessage() string {
	switch e.Kind {
	case KindCrossOriginBlocked:
		return "Access to this feed was blocked: the address or a redirect leaves the allowed origins. " +
			"Add the host to feed.allowed_hosts or serve the file locally."
	case KindConnectionFailed:
		return "Could not connect to the server. Check the network connection and that the address is correct."
	case KindBadStatus:
		return fmt.Sprintf("HTTP error: %d", e.StatusCode)
	default:
		if e.Err != nil {
			return "Failed to fetch the feed: " + e.Err.Error()
		}
		return "Failed to fetch the feed."
	}
}
