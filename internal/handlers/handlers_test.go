package handlers

import (
	"bufio"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"metrobowling/internal/bowling"
	"metrobowling/internal/logging"
	"metrobowling/internal/metrics"
	"metrobowling/internal/site"
	"metrobowling/internal/venue"
	"metrobowling/pkg/realtime"
)

type testEnv struct {
	router  chi.Router
	store   *site.Store
	clock   *realtime.ManualClock
	metrics *metrics.Metrics
	cookies []*http.Cookie
}

func newTestEnv(t *testing.T, rolls ...int) *testEnv {
	t.Helper()
	clock := realtime.NewManualClock(time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC))
	store := site.NewStore(site.StoreOptions{
		Clock:  clock,
		Logger: logging.Discard(),
		NewSource: func() bowling.Source {
			return bowling.NewSequence(rolls...)
		},
	})
	m := metrics.New(store.Len)
	deps := Deps{
		Store:    store,
		Venue:    testVenue(t),
		Clock:    clock,
		Metrics:  m,
		Logger:   logging.Discard(),
		Locale:   language.French,
		SoundURL: "/static/strike-sound.wav",
	}
	r := chi.NewRouter()
	NewSiteHandler(deps).RegisterRoutes(r)
	game := NewGameHandler(deps)
	game.RegisterRoutes(r)
	game.RegisterStream(r)
	r.Get("/healthz", Health)
	return &testEnv{router: r, store: store, clock: clock, metrics: m}
}

func testVenue(t *testing.T) *venue.Venue {
	t.Helper()
	v, err := venue.Default()
	require.NoError(t, err)
	return v
}

func (e *testEnv) do(t *testing.T, method, path string, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return rec
}

func (e *testEnv) view(t *testing.T) *site.View {
	t.Helper()
	require.NotEmpty(t, e.cookies, "no session cookie")
	view, ok := e.store.GetView(e.cookies[0].Value)
	require.True(t, ok, "session view missing")
	return view
}

func TestSitePage_DefaultsToHome(t *testing.T) {
	env := newTestEnv(t, 0)
	rec := env.do(t, http.MethodGet, "/", false)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.cookies, 1)
	require.Equal(t, sessionCookieName, env.cookies[0].Name)
	require.True(t, env.cookies[0].HttpOnly)

	body := rec.Body.String()
	require.Contains(t, body, `<html lang="fr">`)
	require.Contains(t, body, `data-section="home"`)
	require.Contains(t, body, `hx-get="/sections/home" hx-target="#main" hx-swap="innerHTML transition:true" aria-current="page"`)
	require.Equal(t, 1, strings.Count(body, `aria-current="page"`))
	require.Contains(t, body, "🎳 © 2025 Metro Bowling Lille — Let&#39;s Roll!")

	last := -1
	for _, s := range site.Sections() {
		idx := strings.Index(body, `hx-get="/sections/`+string(s.ID)+`"`)
		require.Greater(t, idx, last, "nav out of order at %s", s.ID)
		require.Contains(t, body, ">"+s.Label+"</button>")
		last = idx
	}
}

func TestSitePage_ReusesSession(t *testing.T) {
	env := newTestEnv(t, 0)
	env.do(t, http.MethodGet, "/", false)
	first := env.cookies[0].Value

	rec := env.do(t, http.MethodGet, "/", false)
	require.Empty(t, rec.Result().Cookies())
	require.Equal(t, first, env.cookies[0].Value)
	require.Equal(t, 1, env.store.Len())
}

func TestSelectSection_HTMX(t *testing.T) {
	env := newTestEnv(t, 0)
	env.do(t, http.MethodGet, "/", false)

	rec := env.do(t, http.MethodGet, "/sections/pricing", true)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `data-section="pricing"`)
	require.Equal(t, 1, strings.Count(body, `data-section=`))
	require.Contains(t, body, `hx-swap-oob="true"`)
	require.Contains(t, body, `hx-get="/sections/pricing" hx-target="#main" hx-swap="innerHTML transition:true" aria-current="page"`)
	require.NotContains(t, body, "<html")

	require.Equal(t, site.SectionPricing, env.view(t).Active())
	require.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Selections.WithLabelValues("pricing")))

	page := env.do(t, http.MethodGet, "/", false).Body.String()
	require.Contains(t, page, `data-section="pricing"`)
}

func TestSelectSection_EachSectionRendersOnlyItsPanel(t *testing.T) {
	env := newTestEnv(t, 0)
	env.do(t, http.MethodGet, "/", false)
	for _, s := range site.Sections() {
		rec := env.do(t, http.MethodGet, "/sections/"+string(s.ID), true)
		require.Equal(t, http.StatusOK, rec.Code, s.ID)
		body := rec.Body.String()
		require.Contains(t, body, `data-section="`+string(s.ID)+`"`)
		require.Equal(t, 1, strings.Count(body, `data-section=`), s.ID)
		require.Equal(t, 1, strings.Count(body, `aria-current="page"`), s.ID)
	}
}

func TestSelectSection_PlainRequestRedirects(t *testing.T) {
	env := newTestEnv(t, 0)
	rec := env.do(t, http.MethodGet, "/sections/contact", false)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	require.Equal(t, site.SectionContact, env.view(t).Active())
}

func TestSelectSection_UnknownLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t, 0)
	env.do(t, http.MethodGet, "/", false)
	env.do(t, http.MethodGet, "/sections/dining", true)

	rec := env.do(t, http.MethodGet, "/sections/bar", true)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, site.SectionDining, env.view(t).Active())
}

func TestRoll_StrikeSequence(t *testing.T) {
	env := newTestEnv(t, 3, 10, 0)
	env.do(t, http.MethodGet, "/", false)
	env.do(t, http.MethodGet, "/sections/game", true)

	body := env.do(t, http.MethodPost, "/game/roll", true).Body.String()
	require.Contains(t, body, "Score : <strong>3</strong> points")
	require.Contains(t, body, "Dernier lancer : 3 quilles")
	require.NotContains(t, body, "strike-banner")

	body = env.do(t, http.MethodPost, "/game/roll", true).Body.String()
	require.Contains(t, body, "Score : <strong>13</strong> points")
	require.Contains(t, body, "strike-banner")
	require.Equal(t, bowling.PinCount, strings.Count(body, `class="pin"`))

	body = env.do(t, http.MethodPost, "/game/roll", true).Body.String()
	require.Contains(t, body, "Score : <strong>13</strong> points")
	require.Contains(t, body, "strike-banner", "celebration still running")

	require.Equal(t, 3.0, testutil.ToFloat64(env.metrics.Rolls))
	require.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Strikes))

	env.clock.Advance(bowling.BannerDuration)
	body = env.do(t, http.MethodGet, "/game/celebration", true).Body.String()
	require.NotContains(t, body, "strike-banner")
	require.Contains(t, body, `class="pins"`)

	env.clock.Advance(bowling.PinsDuration - bowling.BannerDuration)
	body = env.do(t, http.MethodGet, "/game/celebration", true).Body.String()
	require.NotContains(t, body, "strike-banner")
	require.NotContains(t, body, `class="pins"`)
}

func TestRoll_PlainRequestRedirectsToGame(t *testing.T) {
	env := newTestEnv(t, 4)
	rec := env.do(t, http.MethodPost, "/game/roll", false)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	view := env.view(t)
	require.Equal(t, site.SectionGame, view.Active())
	require.Equal(t, 4, view.Lane().Score())

	page := env.do(t, http.MethodGet, "/", false).Body.String()
	require.Contains(t, page, "Score : <strong>4</strong> points")
}

func TestFragment_WithoutSessionRefreshesPage(t *testing.T) {
	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/sections/pricing"},
		{http.MethodPost, "/game/roll"},
		{http.MethodGet, "/game/celebration"},
	} {
		env := newTestEnv(t, 10)
		rec := env.do(t, tc.method, tc.path, true)
		require.Equal(t, http.StatusOK, rec.Code, tc.path)
		require.Equal(t, "true", rec.Header().Get("HX-Refresh"), tc.path)
		require.Empty(t, rec.Body.String(), tc.path)
		view := env.view(t)
		require.Equal(t, 0, view.Lane().Rolls(), tc.path)
		require.Equal(t, site.SectionHome, view.Active(), tc.path)
	}
}

func TestFragment_ExpiredSessionRefreshesPage(t *testing.T) {
	env := newTestEnv(t, 10)
	env.do(t, http.MethodGet, "/", false)
	stale := env.cookies[0].Value

	env.clock.Advance(3 * time.Hour)
	require.Equal(t, 1, env.store.Sweep(env.clock.Now(), 2*time.Hour))

	rec := env.do(t, http.MethodPost, "/game/roll", true)
	require.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	require.NotEqual(t, stale, env.cookies[0].Value)
	require.Equal(t, 0, env.view(t).Lane().Score())
}

func TestStream_StartsSessionWhenMissing(t *testing.T) {
	env := newTestEnv(t, 0)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/game/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, env.store.Len())

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	_, ok := env.store.GetView(session.Value)
	require.True(t, ok)
}

func TestStream_PushesSoundAndCelebration(t *testing.T) {
	env := newTestEnv(t, 10)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}

	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	stream, err := client.Get(srv.URL + "/game/stream")
	require.NoError(t, err)
	defer stream.Body.Close()
	require.Equal(t, http.StatusOK, stream.StatusCode)
	require.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	lines := bufio.NewReader(stream.Body)
	readUntil := func(prefix string) string {
		t.Helper()
		for {
			line, err := lines.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, prefix) {
				return strings.TrimSpace(line)
			}
		}
	}
	readUntil(": connected")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/game/roll", nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "event: sound", readUntil("event: "))
	require.Equal(t, `data: <span data-cue="strike"></span>`, readUntil("data: "))

	env.clock.Advance(bowling.BannerDuration)
	require.Equal(t, "event: celebration", readUntil("event: "))
	data := readUntil("data: ")
	require.NotContains(t, data, "strike-banner")
	require.Contains(t, data, `class="pins"`)

	env.clock.Advance(bowling.PinsDuration - bowling.BannerDuration)
	require.Equal(t, "event: celebration", readUntil("event: "))
	require.NotContains(t, readUntil("data: "), `class="pins"`)
}

func TestStream_ReconnectAfterExpiryKeepsOverlayLive(t *testing.T) {
	env := newTestEnv(t, 10)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}

	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	env.clock.Advance(3 * time.Hour)
	require.Equal(t, 1, env.store.Sweep(env.clock.Now(), 2*time.Hour))

	stream, err := client.Get(srv.URL + "/game/stream")
	require.NoError(t, err)
	defer stream.Body.Close()
	require.Equal(t, http.StatusOK, stream.StatusCode)
	lines := bufio.NewReader(stream.Body)
	for {
		line, err := lines.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, ": connected") {
			break
		}
	}

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/game/roll", nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Empty(t, resp.Header.Get("HX-Refresh"))
	require.Equal(t, 1, env.store.Len())

	var hub *realtime.Broadcaster
	for _, c := range jar.Cookies(req.URL) {
		if c.Name == sessionCookieName {
			h, ok := env.store.Broadcaster(c.Value)
			require.True(t, ok)
			hub = h
		}
	}
	require.NotNil(t, hub)
	require.Equal(t, 1, hub.Subscribers())

	env.clock.Advance(bowling.PinsDuration)
	for {
		line, err := lines.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") && !strings.Contains(line, "data-cue") &&
			!strings.Contains(line, "strike-banner") && !strings.Contains(line, `class="pins"`) {
			break
		}
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 0)
	rec := env.do(t, http.MethodGet, "/healthz", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
