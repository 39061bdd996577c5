package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/pkgshelf/internal/event"
)

// Subscriber is the subscribing half of the event bus.
type Subscriber interface {
	SubscribeAll(handler event.Handler) (unsubscribe func())
}

// Handler serves the dashboard event stream.
type Handler struct {
	hub         *Hub
	logger      *zap.Logger
	unsubscribe func()
}

// NewHandler creates a handler that forwards every bus event to connected
// dashboards. Call Close to detach it from the bus.
func NewHandler(bus Subscriber, logger *zap.Logger) *Handler {
	h := &Handler{hub: NewHub(logger), logger: logger}
	h.unsubscribe = bus.SubscribeAll(func(_ context.Context, e event.Event) {
		h.hub.Broadcast(FromEvent(e))
	})
	return h
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/feed", h.handleFeedStream)
}

// Hub exposes the client registry.
func (h *Handler) Hub() *Hub { return h.hub }

// Close stops forwarding bus events.
func (h *Handler) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

// handleFeedStream godoc
//
//	@Summary		Stream session events
//	@Description	Upgrades to a WebSocket that receives every feed session event as JSON.
//	@Tags			feed
//	@Success		101
//	@Router			/ws/feed [get]
func (h *Handler) handleFeedStream(w http.ResponseWriter, r *http.Request) {
	// The server write timeout must not end long-lived streams.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	// Default options enforce a same-origin handshake.
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan Message, sendBuffer),
		logger: h.logger,
	}
	h.hub.Register(client)

	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	client.readPump(ctx)

	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}
