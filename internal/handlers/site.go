package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"metrobowling/internal/metrics"
	"metrobowling/internal/site"
	"metrobowling/pkg/realtime"
	"metrobowling/views/components"
	"metrobowling/views/pages"
)

type SiteHandler struct {
	store   *site.Store
	clock   realtime.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
	present *presenter
}

func NewSiteHandler(deps Deps) *SiteHandler {
	deps = deps.withDefaults()
	return &SiteHandler{
		store:   deps.Store,
		clock:   deps.Clock,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		present: newPresenter(deps),
	}
}

func (h *SiteHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.page)
	r.Get("/sections/{id}", h.selectSection)
}

func (h *SiteHandler) page(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	view, _ := currentView(w, r, h.store, now)
	render(w, r, pages.SitePage(h.present.page(view, now)))
}

func (h *SiteHandler) selectSection(w http.ResponseWriter, r *http.Request) {
	view, ok := fragmentView(w, r, h.store, h.clock.Now())
	if !ok {
		return
	}
	section, err := view.SelectRaw(chi.URLParam(r, "id"))
	if errors.Is(err, site.ErrUnknownSection) {
		http.NotFound(w, r)
		return
	}
	h.metrics.ObserveSelection(string(section))
	h.logger.Debug("section selected", slog.String("view", view.ID), slog.String("section", string(section)))

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, templ.Join(
		components.Panel(h.present.panel(section, view.Lane())),
		components.Nav(h.present.nav(section), true),
	))
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
