package session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/HerbHall/pkgshelf/internal/feed"
	"github.com/HerbHall/pkgshelf/internal/server"
	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

// LoadRequest asks the session to fetch a feed.
// @Description Request body for loading a feed from a URL.
type LoadRequest struct {
	URL string `json:"url" example:"https://qnapclub.cn/repo.xml"`
}

// QueryRequest sets the search query.
// @Description Request body for changing the search query. An empty query clears the search.
type QueryRequest struct {
	Query string `json:"query" example:"docker"`
}

// PageRequest jumps to a page.
// @Description Request body for moving to a page. Out-of-range pages are clamped.
type PageRequest struct {
	Page int `json:"page" example:"2"`
}

// LoadResponse reports the outcome of a load.
// @Description Result of a feed load. Status is "loaded" or "empty".
type LoadResponse struct {
	Status string    `json:"status" example:"loaded"`
	Detail string    `json:"detail,omitempty"`
	View   *PageView `json:"view,omitempty"`
}

// DownloadResponse carries the resolved download URL.
// @Description Resolved download location for a package.
type DownloadResponse struct {
	URL string `json:"url" example:"https://www.myqnap.org/repo/Docker_24.0.7_x86_64.qpkg"`
}

// DownloadChoice lists the platforms to choose from.
// @Description Returned with 300 Multiple Choices when a package has several platform builds.
type DownloadChoice struct {
	Options []catalog.Platform `json:"options"`
}

// Handler exposes the session over HTTP.
type Handler struct {
	loader *Loader
	logger *zap.Logger
}

// NewHandler creates a session Handler.
func NewHandler(loader *Loader, logger *zap.Logger) *Handler {
	return &Handler{loader: loader, logger: logger}
}

// RegisterRoutes registers the feed routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/feed/load", h.handleLoad)
	mux.HandleFunc("POST /api/v1/feed/sample", h.handleSample)
	mux.HandleFunc("GET /api/v1/feed/stats", h.handleStats)
	mux.HandleFunc("PUT /api/v1/feed/query", h.handleSetQuery)
	mux.HandleFunc("GET /api/v1/feed/page", h.handleGetPage)
	mux.HandleFunc("PUT /api/v1/feed/page", h.handleSetPage)
	mux.HandleFunc("POST /api/v1/feed/page/next", h.handleNextPage)
	mux.HandleFunc("POST /api/v1/feed/page/prev", h.handlePrevPage)
	mux.HandleFunc("GET /api/v1/feed/packages/{index}/download", h.handleDownload)
}

// handleLoad fetches a feed and replaces the catalog.
//
//	@Summary		Load feed
//	@Description	Fetch the feed at the given URL and replace the catalog. A failed load leaves the previous catalog untouched.
//	@Tags			feed
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoadRequest		true	"Feed address"
//	@Success		200		{object}	LoadResponse	"Feed loaded, or well-formed but empty"
//	@Failure		400		{object}	server.Problem	"Invalid address"
//	@Failure		409		{object}	server.Problem	"A fetch is already in progress"
//	@Failure		422		{object}	server.Problem	"Malformed document"
//	@Failure		502		{object}	server.Problem	"Transport failure"
//	@Router			/feed/load [post]
func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid-request", "invalid request body", "")
		return
	}
	_, err := h.loader.LoadURL(r.Context(), req.URL)
	h.writeLoadResult(w, r, err)
}

// handleSample loads the bundled sample feed.
//
//	@Summary		Load sample feed
//	@Description	Replace the catalog with the bundled three-package sample feed.
//	@Tags			feed
//	@Produce		json
//	@Success		200	{object}	LoadResponse	"Sample loaded"
//	@Router			/feed/sample [post]
func (h *Handler) handleSample(w http.ResponseWriter, r *http.Request) {
	_, err := h.loader.LoadSample(r.Context())
	h.writeLoadResult(w, r, err)
}

func (h *Handler) writeLoadResult(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		view := h.loader.Session().CurrentPage()
		server.WriteJSON(w, http.StatusOK, LoadResponse{Status: "loaded", View: &view})
		return
	}

	var terr *feed.TransportError
	switch {
	case errors.Is(err, catalog.ErrEmptyCatalog):
		server.WriteJSON(w, http.StatusOK, LoadResponse{Status: "empty", Detail: "no packages found in the feed"})
	case errors.Is(err, feed.ErrInvalidInput):
		writeProblem(w, r, http.StatusBadRequest, "invalid-input", err.Error(), "")
	case errors.Is(err, feed.ErrFetchInProgress):
		writeProblem(w, r, http.StatusConflict, "fetch-in-progress", err.Error(), "")
	case errors.Is(err, catalog.ErrMalformedDocument):
		writeProblem(w, r, http.StatusUnprocessableEntity, "malformed-document", err.Error(), "")
	case errors.As(err, &terr):
		writeProblem(w, r, http.StatusBadGateway, "transport-error", terr.UserMessage(), string(terr.Kind))
	default:
		h.logger.Error("feed load failed", zap.Error(err))
		writeProblem(w, r, http.StatusInternalServerError, "internal-error", "failed to load feed", "")
	}
}

// handleGetPage returns the current page.
//
//	@Summary		Current page
//	@Description	Get the view models of the page being observed, with search and pagination state.
//	@Tags			feed
//	@Produce		json
//	@Success		200	{object}	PageView
//	@Router			/feed/page [get]
func (h *Handler) handleGetPage(w http.ResponseWriter, _ *http.Request) {
	server.WriteJSON(w, http.StatusOK, h.loader.Session().CurrentPage())
}

// handleSetPage moves to a page.
//
//	@Summary		Go to page
//	@Description	Move to the given page. The page is clamped into range.
//	@Tags			feed
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PageRequest		true	"Target page"
//	@Success		200		{object}	PageView
//	@Failure		400		{object}	server.Problem	"Invalid request body"
//	@Router			/feed/page [put]
func (h *Handler) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid-request", "invalid request body", "")
		return
	}
	server.WriteJSON(w, http.StatusOK, h.loader.Session().SetPage(r.Context(), req.Page))
}

// handleNextPage advances one page.
//
//	@Summary		Next page
//	@Tags			feed
//	@Produce		json
//	@Success		200	{object}	PageView
//	@Router			/feed/page/next [post]
func (h *Handler) handleNextPage(w http.ResponseWriter, r *http.Request) {
	server.WriteJSON(w, http.StatusOK, h.loader.Session().NextPage(r.Context()))
}

// handlePrevPage goes back one page.
//
//	@Summary		Previous page
//	@Tags			feed
//	@Produce		json
//	@Success		200	{object}	PageView
//	@Router			/feed/page/prev [post]
func (h *Handler) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	server.WriteJSON(w, http.StatusOK, h.loader.Session().PrevPage(r.Context()))
}

// handleSetQuery changes the search query.
//
//	@Summary		Search
//	@Description	Filter the catalog by name, description, developer, category and type. Always returns to page 1.
//	@Tags			feed
//	@Accept			json
//	@Produce		json
//	@Param			request	body		QueryRequest	true	"Search query"
//	@Success		200		{object}	PageView
//	@Failure		400		{object}	server.Problem	"Invalid request body"
//	@Router			/feed/query [put]
func (h *Handler) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid-request", "invalid request body", "")
		return
	}
	server.WriteJSON(w, http.StatusOK, h.loader.Session().SetQuery(r.Context(), req.Query))
}

// handleStats returns catalog statistics.
//
//	@Summary		Catalog statistics
//	@Tags			feed
//	@Produce		json
//	@Success		200	{object}	catalog.Stats
//	@Router			/feed/stats [get]
func (h *Handler) handleStats(w http.ResponseWriter, _ *http.Request) {
	server.WriteJSON(w, http.StatusOK, h.loader.Session().Stats())
}

// handleDownload resolves the download URL of a package.
//
//	@Summary		Resolve download
//	@Description	Resolve the download URL of the package at index on the page identified by load. Packages with several platforms need the platform parameter.
//	@Tags			feed
//	@Produce		json
//	@Param			index		path		int					true	"Package index"
//	@Param			load		query		string				true	"load_id of the page the index was taken from"
//	@Param			platform	query		string				false	"Platform ID"
//	@Success		200			{object}	DownloadResponse	"Download URL"
//	@Success		204			"Invalid or cancelled platform choice; nothing to download"
//	@Success		300			{object}	DownloadChoice		"A platform must be chosen"
//	@Failure		400			{object}	server.Problem		"Invalid index or missing load ID"
//	@Failure		404			{object}	server.Problem		"Unknown package or no downloads"
//	@Failure		409			{object}	server.Problem		"The catalog was reloaded since the page was viewed"
//	@Router			/feed/packages/{index}/download [get]
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid-request", "package index must be an integer", "")
		return
	}

	loadID := r.URL.Query().Get("load")
	if loadID == "" {
		writeProblem(w, r, http.StatusBadRequest, "invalid-request", "load parameter is required", "")
		return
	}

	action, err := h.loader.Session().Download(loadID, index)
	switch {
	case errors.Is(err, ErrStaleCatalog):
		writeProblem(w, r, http.StatusConflict, "stale-catalog", err.Error(), "")
		return
	case err != nil:
		writeProblem(w, r, http.StatusNotFound, "not-found", err.Error(), "")
		return
	}

	platform := r.URL.Query().Get("platform")
	if action.NeedsChoice() && platform == "" {
		server.WriteJSON(w, http.StatusMultipleChoices, DownloadChoice{Options: action.Options})
		return
	}

	url, err := action.Resolve(r.Context(), catalog.ChooseByID(platform))
	if err != nil {
		if errors.Is(err, catalog.ErrNoSelection) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.logger.Error("download resolution failed", zap.Int("index", index), zap.Error(err))
		writeProblem(w, r, http.StatusInternalServerError, "internal-error", "failed to resolve download", "")
		return
	}
	server.WriteJSON(w, http.StatusOK, DownloadResponse{URL: url})
}

// writeProblem writes a feed problem through the shared RFC 7807 writer.
// kind is set only for transport failures.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, name, detail, kind string) {
	p := server.StatusProblem(r, status, server.ProblemType(name), detail)
	p.Kind = kind
	server.WriteProblem(w, p)
}
