package session

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/HerbHall/pkgshelf/internal/event"
	"github.com/HerbHall/pkgshelf/internal/feed"
	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

// SampleSource names the bundled sample feed in events and logs.
const SampleSource = "sample"

// Fetcher downloads a feed document.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Loader feeds documents from their sources into a Session.
type Loader struct {
	fetcher Fetcher
	session *Session
	logger  *zap.Logger
}

// NewLoader creates a Loader.
func NewLoader(fetcher Fetcher, s *Session, logger *zap.Logger) *Loader {
	return &Loader{fetcher: fetcher, session: s, logger: logger}
}

// Session returns the session the loader writes to.
func (l *Loader) Session() *Session { return l.session }

// LoadURL validates and fetches rawURL, then loads it. Validation and
// transport failures leave the session unchanged.
func (l *Loader) LoadURL(ctx context.Context, rawURL string) (*catalog.Catalog, error) {
	l.session.publish(ctx, event.TopicFeedLoadStarted, map[string]string{"source": rawURL})
	raw, err := l.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		l.session.fail(ctx, rawURL, err)
		return nil, err
	}
	return l.session.LoadFromSource(ctx, rawURL, raw)
}

// LoadSample loads the bundled sample feed.
func (l *Loader) LoadSample(ctx context.Context) (*catalog.Catalog, error) {
	return l.session.LoadFromSource(ctx, SampleSource, feed.Sample())
}

// LoadFile loads a feed document from disk.
func (l *Loader) LoadFile(ctx context.Context, path string) (*catalog.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("read feed file: %w", err)
		l.session.fail(ctx, path, err)
		return nil, err
	}
	return l.session.LoadFromSource(ctx, path, raw)
}
