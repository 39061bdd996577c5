package event

import (
	"context"
	"time"
)

// Topics published by the feed session.
const (
	TopicFeedLoaded       = "feed.loaded"
	TopicFeedLoadFailed   = "feed.load_failed"
	TopicFeedLoadStarted  = "feed.load_started"
	TopicFeedQueryChanged = "feed.query_changed"
	TopicFeedPageChanged  = "feed.page_changed"
)

// Event is a message on the bus.
type Event struct {
	Topic     string
	Source    string // component that emitted the event
	Timestamp time.Time
	Payload   any // type depends on topic
}

// Handler processes events from the bus.
type Handler func(ctx context.Context, event Event)

// Publisher is the publishing half of the bus. Components depend on it
// rather than on *Bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	PublishAsync(ctx context.Context, event Event)
}

// New stamps an event with the current time.
func New(topic, source string, payload any) Event {
	return Event{Topic: topic, Source: source, Timestamp: time.Now().UTC(), Payload: payload}
}
