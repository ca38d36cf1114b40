package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"metrobowling/internal/metrics"
	"metrobowling/internal/site"
	"metrobowling/pkg/realtime"
	"metrobowling/views/components"
)

const keepAliveInterval = 25 * time.Second

type GameHandler struct {
	store   *site.Store
	clock   realtime.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
	present *presenter
}

func NewGameHandler(deps Deps) *GameHandler {
	deps = deps.withDefaults()
	return &GameHandler{
		store:   deps.Store,
		clock:   deps.Clock,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		present: newPresenter(deps),
	}
}

// RegisterRoutes mounts the short-lived game endpoints.
func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Post("/game/roll", h.roll)
	r.Get("/game/celebration", h.celebration)
}

// RegisterStream mounts the SSE endpoint, which must not sit behind a
// request timeout.
func (h *GameHandler) RegisterStream(r chi.Router) {
	r.Get("/game/stream", h.stream)
}

func (h *GameHandler) roll(w http.ResponseWriter, r *http.Request) {
	view, ok := fragmentView(w, r, h.store, h.clock.Now())
	if !ok {
		return
	}
	result := view.Lane().Roll()
	h.metrics.ObserveRoll(result.Pins, result.Strike)
	h.logger.Debug("roll",
		slog.String("view", view.ID),
		slog.Int("pins", result.Pins),
		slog.Int("score", result.Score),
		slog.Bool("strike", result.Strike),
	)

	if !isHTMX(r) {
		_ = view.Select(site.SectionGame)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, components.GamePanel(h.present.game(view.Lane().Snapshot())))
}

func (h *GameHandler) celebration(w http.ResponseWriter, r *http.Request) {
	view, ok := fragmentView(w, r, h.store, h.clock.Now())
	if !ok {
		return
	}
	render(w, r, components.Celebration(h.present.celebration(view.Lane().Celebration())))
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	// A reconnect after the session expired starts a new one, so the
	// next fragment request lands on a view this stream is listening to.
	view, _ := currentView(w, r, h.store, h.clock.Now())
	hub, ok := h.store.Broadcaster(view.ID)
	if !ok {
		http.Error(w, "session expired", http.StatusGone)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := hub.Subscribe()
	defer cancel()

	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			view.Touch(h.clock.Now())
			switch event {
			case realtime.EventCelebration:
				writeSSE(w, event, renderToString(r, components.Celebration(h.present.celebration(view.Lane().Celebration()))))
			case realtime.EventSound:
				writeSSE(w, event, renderToString(r, components.StrikeCue()))
			default:
				continue
			}
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		}
	}
}
