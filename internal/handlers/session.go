package handlers

import (
	"net/http"
	"time"

	"metrobowling/internal/site"
)

const sessionCookieName = "metro_session"

// currentView returns the visitor's view, starting a new session when the
// cookie is missing or has expired server-side. created reports the latter.
func currentView(w http.ResponseWriter, r *http.Request, store *site.Store, now time.Time) (view *site.View, created bool) {
	if view, ok := existingView(r, store); ok {
		view.Touch(now)
		return view, false
	}
	view = store.CreateView()
	setSessionCookie(w, view.ID)
	return view, true
}

// fragmentView is currentView for htmx fragment requests. A fragment cannot
// carry a fresh session into a page whose event stream is bound to the old
// one, so the page is told to reload instead and ok is false.
func fragmentView(w http.ResponseWriter, r *http.Request, store *site.Store, now time.Time) (*site.View, bool) {
	view, created := currentView(w, r, store, now)
	if created && isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return nil, false
	}
	return view, true
}

func existingView(r *http.Request, store *site.Store) (*site.View, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, false
	}
	return store.GetView(cookie.Value)
}

func setSessionCookie(w http.ResponseWriter, viewID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    viewID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
