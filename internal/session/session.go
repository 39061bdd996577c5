// Package session holds the viewer state of one pkgshelf instance: the
// current catalog, the search query and the page being observed.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/pkgshelf/internal/event"
	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

const eventSource = "session"

var (
	// ErrUnknownPackage is returned for an index outside the current catalog.
	ErrUnknownPackage = errors.New("unknown package")
	// ErrNoDownload is returned for a package without platform downloads.
	ErrNoDownload = errors.New("package has no downloads")
	// ErrStaleCatalog is returned when a package is addressed through a view
	// of a catalog that has since been replaced.
	ErrStaleCatalog = errors.New("catalog was reloaded since the page was viewed")
)

// PageView is the rendered state of the session.
type PageView struct {
	Loaded       bool                            `json:"loaded"`
	LoadID       string                          `json:"load_id,omitempty"`
	Source       string                          `json:"source,omitempty"`
	Query        string                          `json:"query"`
	SearchActive bool                            `json:"search_active"`
	ResultCount  int                             `json:"result_count"`
	Stats        catalog.Stats                   `json:"stats"`
	Page         catalog.Page[catalog.ViewModel] `json:"page"`
}

// LoadedPayload is published on event.TopicFeedLoaded.
type LoadedPayload struct {
	LoadID string        `json:"load_id"`
	Source string        `json:"source"`
	Stats  catalog.Stats `json:"stats"`
}

// FailedPayload is published on event.TopicFeedLoadFailed.
type FailedPayload struct {
	Source string `json:"source"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// QueryPayload is published on event.TopicFeedQueryChanged.
type QueryPayload struct {
	LoadID      string `json:"load_id"`
	Query       string `json:"query"`
	ResultCount int    `json:"result_count"`
}

// PagePayload is published on event.TopicFeedPageChanged.
type PagePayload struct {
	LoadID     string `json:"load_id"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}

// Session is the single owner of the mutable viewer state. Every derived
// value is recomputed from the catalog and query on each change.
type Session struct {
	mu     sync.Mutex
	cat    *catalog.Catalog
	loadID string
	source string
	result catalog.SearchResult
	page   int

	dates  *catalog.DateFormatter
	events event.Publisher
	logger *zap.Logger
}

// New creates an empty session. events may be nil.
func New(dates *catalog.DateFormatter, events event.Publisher, logger *zap.Logger) *Session {
	if dates == nil {
		dates = catalog.DefaultDateFormatter()
	}
	return &Session{
		page:   1,
		dates:  dates,
		events: events,
		logger: logger,
	}
}

// LoadFromSource parses raw and, on success, replaces the catalog wholesale,
// clearing the query and returning to page 1. On failure the session is
// left exactly as it was.
func (s *Session) LoadFromSource(ctx context.Context, source string, raw []byte) (*catalog.Catalog, error) {
	c, err := catalog.Parse(raw)
	if err != nil {
		s.fail(ctx, source, err)
		return nil, err
	}

	s.mu.Lock()
	s.cat = c
	s.loadID = uuid.New().String()
	s.source = source
	s.result = catalog.Filter(c.Records, "")
	s.page = 1
	payload := LoadedPayload{LoadID: s.loadID, Source: source, Stats: c.Stats()}
	s.mu.Unlock()

	feedLoadsTotal.WithLabelValues(loadResult(nil)).Inc()
	catalogRecords.Set(float64(c.Len()))
	s.logger.Info("feed loaded",
		zap.String("load_id", payload.LoadID),
		zap.String("source", source),
		zap.Int("records", payload.Stats.TotalCount),
		zap.Int("categories", payload.Stats.DistinctCategoryCount),
	)
	s.publish(ctx, event.TopicFeedLoaded, payload)
	return c, nil
}

// fail records a load that did not reach the catalog.
func (s *Session) fail(ctx context.Context, source string, err error) {
	result := loadResult(err)
	feedLoadsTotal.WithLabelValues(result).Inc()
	if errors.Is(err, catalog.ErrEmptyCatalog) {
		s.logger.Info("feed has no packages", zap.String("source", source))
	} else {
		s.logger.Warn("feed load failed",
			zap.String("source", source),
			zap.String("result", result),
			zap.Error(err),
		)
	}
	s.publish(ctx, event.TopicFeedLoadFailed, FailedPayload{Source: source, Result: result, Error: err.Error()})
}

// SetQuery filters the catalog and returns to page 1.
func (s *Session) SetQuery(ctx context.Context, query string) PageView {
	s.mu.Lock()
	var records []catalog.Record
	if s.cat != nil {
		records = s.cat.Records
	}
	s.result = catalog.Filter(records, query)
	s.page = 1
	view := s.viewLocked()
	s.mu.Unlock()

	if view.SearchActive {
		searchQueriesTotal.Inc()
	}
	s.publish(ctx, event.TopicFeedQueryChanged, QueryPayload{
		LoadID:      view.LoadID,
		Query:       query,
		ResultCount: view.ResultCount,
	})
	return view
}

// SetPage moves to page n, clamped into range.
func (s *Session) SetPage(ctx context.Context, n int) PageView {
	return s.movePage(ctx, func(int) int { return n })
}

// NextPage advances one page if there is one.
func (s *Session) NextPage(ctx context.Context) PageView {
	return s.movePage(ctx, func(cur int) int { return cur + 1 })
}

// PrevPage goes back one page if there is one.
func (s *Session) PrevPage(ctx context.Context) PageView {
	return s.movePage(ctx, func(cur int) int { return cur - 1 })
}

func (s *Session) movePage(ctx context.Context, target func(cur int) int) PageView {
	s.mu.Lock()
	prev := s.page
	s.page = catalog.ClampPage(target(prev), catalog.TotalPages(s.result.Count(), catalog.PageSize))
	view := s.viewLocked()
	s.mu.Unlock()

	if view.Page.Number != prev {
		s.publish(ctx, event.TopicFeedPageChanged, PagePayload{
			LoadID:     view.LoadID,
			Page:       view.Page.Number,
			TotalPages: view.Page.TotalPages,
		})
	}
	return view
}

// CurrentPage returns the view models of the page being observed.
func (s *Session) CurrentPage() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Stats summarises the current catalog.
func (s *Session) Stats() catalog.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Stats()
}

// Download returns the download action of the package at index, as
// addressed by ViewModel.Index. loadID is the PageView.LoadID the index was
// taken from; an index from any other load is rejected with ErrStaleCatalog.
func (s *Session) Download(loadID string, index int) (*catalog.DownloadAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat == nil {
		return nil, ErrUnknownPackage
	}
	if loadID != s.loadID {
		return nil, ErrStaleCatalog
	}
	if index < 0 || index >= len(s.cat.Records) {
		return nil, ErrUnknownPackage
	}
	action := catalog.NewDownloadAction(s.cat.Records[index].Platforms)
	if action == nil {
		return nil, ErrNoDownload
	}
	return action, nil
}

// viewLocked must be called with mu held.
func (s *Session) viewLocked() PageView {
	positions := catalog.Paginate(s.result.Indices, catalog.PageSize, s.page)
	page := catalog.MapPage(positions, func(i int) catalog.ViewModel {
		return catalog.NewViewModel(i, s.cat.Records[i], s.dates)
	})
	return PageView{
		Loaded:       s.cat != nil,
		LoadID:       s.loadID,
		Source:       s.source,
		Query:        s.result.Query,
		SearchActive: s.result.Active,
		ResultCount:  s.result.Count(),
		Stats:        s.cat.Stats(),
		Page:         page,
	}
}

func (s *Session) publish(ctx context.Context, topic string, payload any) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, event.New(topic, eventSource, payload))
}
