package session

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/HerbHall/pkgshelf/internal/feed"
	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

var (
	feedLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pkgshelf_feed_loads_total",
			Help: "Feed load attempts by result.",
		},
		[]string{"result"},
	)
	catalogRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pkgshelf_catalog_records",
			Help: "Number of records in the current catalog.",
		},
	)
	searchQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pkgshelf_search_queries_total",
			Help: "Non-blank search queries applied to the catalog.",
		},
	)
)

func init() {
	prometheus.MustRegister(feedLoadsTotal)
	prometheus.MustRegister(catalogRecords)
	prometheus.MustRegister(searchQueriesTotal)
}

// loadResult is the result label for a load outcome.
func loadResult(err error) string {
	var terr *feed.TransportError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, catalog.ErrEmptyCatalog):
		return "empty"
	case errors.Is(err, catalog.ErrMalformedDocument):
		return "malformed"
	case errors.Is(err, feed.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, feed.ErrFetchInProgress):
		return "in_progress"
	case errors.As(err, &terr):
		return string(terr.Kind)
	default:
		return "error"
	}
}
