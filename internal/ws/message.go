package ws

import (
	"time"

	"github.com/HerbHall/pkgshelf/internal/event"
)

// Message is the envelope pushed to dashboards. Type is the event topic
// (feed.loaded, feed.page_changed, ...) and Data its payload.
type Message struct {
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// FromEvent converts a bus event to a WebSocket message.
func FromEvent(e event.Event) Message {
	return Message{
		Type:      e.Topic,
		Source:    e.Source,
		Timestamp: e.Timestamp,
		Data:      e.Payload,
	}
}
