package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hashjamm/portfolio/internal/analytics"
	"github.com/hashjamm/portfolio/internal/archive"
	"github.com/hashjamm/portfolio/internal/config"
	"github.com/hashjamm/portfolio/internal/content"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:             "0",
		Env:              "development",
		PublicDir:        t.TempDir(),
		PlaceholderImage: "/static/placeholder.svg",
		RetentionDays:    365,
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig(t)
	}
	if opts.Store == nil {
		store, err := content.Default()
		require.NoError(t, err)
		opts.Store = store
	}
	if opts.Profile.Name == "" {
		profile, err := content.DefaultProfile()
		require.NoError(t, err)
		opts.Profile = profile
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{Config: testConfig(t)})
	assert.Error(t, err)
}

func TestHome(t *testing.T) {
	s := newTestServer(t, Options{})
	w := get(t, s.Handler(), "/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "CoTDeX: Dynamic Disease Network")
	assert.Contains(t, body, "mosaic-column hero")
	assert.Contains(t, body, `<body class="">`)
	assert.NotContains(t, body, "archive-overlay")
	assert.NotContains(t, body, "menu-overlay")
	assert.Contains(t, body, "/static/placeholder.svg", "missing thumbnails fall back to the placeholder")
}

func TestHomeStripSettings(t *testing.T) {
	s := newTestServer(t, Options{})
	body := get(t, s.Handler(), "/").Body.String()

	assert.Contains(t, body, `data-drag-threshold="5"`)
	assert.Contains(t, body, `data-active-ratio="0.5"`)
	assert.Contains(t, body, `data-autoplay-interval="4000"`)
	assert.Regexp(t, `class="mosaic-counter" data-total="\d+">01 / \d\d<`, body)
	assert.NotContains(t, body, "archive-search")

	body = get(t, s.Handler(), "/?archive=true").Body.String()
	assert.Contains(t, body, `<form class="archive-search" method="get" action="/" data-nav="replace">`)
}

func TestHomeMenu(t *testing.T) {
	s := newTestServer(t, Options{})
	body := get(t, s.Handler(), "/?menu=true").Body.String()

	assert.Contains(t, body, "menu-overlay")
	assert.Contains(t, body, `<body class="scroll-locked">`)
	assert.Contains(t, body, `data-nav="back"`)
}

func TestHomeIgnoresNonTrueFlags(t *testing.T) {
	s := newTestServer(t, Options{})
	body := get(t, s.Handler(), "/?menu=1&archive=yes").Body.String()

	assert.NotContains(t, body, "menu-overlay")
	assert.NotContains(t, body, "archive-overlay")
	assert.Contains(t, body, `<body class="">`)
}

func TestArchiveOverlay(t *testing.T) {
	s := newTestServer(t, Options{})

	t.Run("group filter", func(t *testing.T) {
		q := url.Values{"archive": {"true"}, "group": {string(archive.DataAI)}}
		body := get(t, s.Handler(), "/?"+q.Encode()).Body.String()

		require.Contains(t, body, "archive-overlay")
		assert.Contains(t, body, `<body class="scroll-locked">`)

		i := strings.Index(body, `class="filter active"`)
		require.NotEqual(t, -1, i)
		active := body[i : i+strings.Index(body[i:], "</a>")]
		assert.Contains(t, active, "Data &amp; AI")
	})

	t.Run("unknown group falls back to all", func(t *testing.T) {
		body := get(t, s.Handler(), "/?archive=true&group=Nope").Body.String()

		i := strings.Index(body, `class="filter active"`)
		require.NotEqual(t, -1, i)
		active := body[i : i+strings.Index(body[i:], "</a>")]
		assert.Contains(t, active, ">All <span>")
	})

	t.Run("no matches", func(t *testing.T) {
		body := get(t, s.Handler(), "/?archive=true&q=kubernetes").Body.String()
		assert.Contains(t, body, "No projects match")
	})

	t.Run("group without archive is dropped", func(t *testing.T) {
		body := get(t, s.Handler(), "/?group=Engineering").Body.String()
		assert.NotContains(t, body, "archive-overlay")
		assert.Contains(t, body, `<body class="">`)
	})
}

func TestEveryProjectRenders(t *testing.T) {
	s := newTestServer(t, Options{})
	for _, p := range s.store.All() {
		t.Run(p.ID, func(t *testing.T) {
			w := get(t, s.Handler(), "/projects/"+p.ID)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "project-pager")
			assert.NotContains(t, w.Body.String(), "diagram-error")
		})
	}
}

func TestProjectNotFound(t *testing.T) {
	s := newTestServer(t, Options{})
	w := get(t, s.Handler(), "/projects/does-not-exist")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Project not found.")
}

func TestProjectLabels(t *testing.T) {
	s := newTestServer(t, Options{})

	research := get(t, s.Handler(), "/projects/health-recsys").Body.String()
	assert.Contains(t, research, "Hypothesis &amp; Approach")
	assert.Contains(t, research, "Key Findings")
	assert.Contains(t, research, `<span class="kind">Research</span>`)
	assert.NotContains(t, research, "Review</h2>", "blank review is omitted")

	eng := get(t, s.Handler(), "/projects/cotdex").Body.String()
	assert.Contains(t, eng, "System Architecture")
	assert.Contains(t, eng, `<pre class="mermaid">`)
	assert.Contains(t, eng, "ProcessPoolExecutor", "code excerpts are rendered")
}

func TestLightbox(t *testing.T) {
	s := newTestServer(t, Options{})

	t.Run("open", func(t *testing.T) {
		body := get(t, s.Handler(), "/projects/cotdex?image=0").Body.String()

		assert.Contains(t, body, "overlay lightbox")
		assert.Contains(t, body, `<body class="scroll-locked">`)
		assert.Contains(t, body, `class="lightbox-next" href="/projects/cotdex?image=1" data-nav="replace"`)
		assert.Contains(t, body, `class="lightbox-prev" href="/projects/cotdex?image=2" data-nav="replace"`)
		assert.Contains(t, body, "1 / 3")
	})

	t.Run("last wraps to first", func(t *testing.T) {
		body := get(t, s.Handler(), "/projects/cotdex?image=2").Body.String()
		assert.Contains(t, body, `class="lightbox-next" href="/projects/cotdex?image=0"`)
	})

	t.Run("out of range is closed", func(t *testing.T) {
		body := get(t, s.Handler(), "/projects/cotdex?image=99").Body.String()
		assert.NotContains(t, body, "overlay lightbox")
		assert.Contains(t, body, `<body class="">`)
	})

	t.Run("no gallery", func(t *testing.T) {
		body := get(t, s.Handler(), "/projects/medinavi?image=0").Body.String()
		assert.NotContains(t, body, "overlay lightbox")
	})
}

func TestDiagramViewer(t *testing.T) {
	s := newTestServer(t, Options{})

	body := get(t, s.Handler(), "/projects/cotdex?diagram=true").Body.String()
	assert.Contains(t, body, "diagram-overlay")
	assert.Contains(t, body, `<body class="scroll-locked">`)

	body = get(t, s.Handler(), "/projects/covid-longitudinal?diagram=true").Body.String()
	assert.NotContains(t, body, "diagram-overlay", "project without a diagram keeps the viewer closed")
	assert.Contains(t, body, `<body class="">`)
}

func TestAPIProjects(t *testing.T) {
	s := newTestServer(t, Options{})

	var resp projectsResponse
	w := get(t, s.Handler(), "/api/projects?group=Nope")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, archive.All, resp.Group)
	assert.Len(t, resp.Projects, s.store.Len())
	require.Len(t, resp.Counts, 3)
	assert.Equal(t, s.store.Len(), resp.Counts[0].Count)

	w = get(t, s.Handler(), "/api/projects?q=duckdb")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "cotdex", resp.Projects[0].ID)
}

func TestAPIProject(t *testing.T) {
	s := newTestServer(t, Options{})

	var resp projectResponse
	w := get(t, s.Handler(), "/api/projects/cotdex")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cotdex", resp.Project.ID)
	assert.Equal(t, "medinavi", resp.Next)
	assert.Equal(t, "healthcare-kpi", resp.Prev)

	w = get(t, s.Handler(), "/api/projects/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "project not found")

	w = get(t, s.Handler(), "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestAPIMosaic(t *testing.T) {
	s := newTestServer(t, Options{})

	var resp mosaicResponse
	w := get(t, s.Handler(), "/api/mosaic")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, []int{1, 2, 2}, resp.Pattern)
	assert.Equal(t, 5.0, resp.DragThreshold)
	require.NotEmpty(t, resp.Columns)
	assert.Len(t, resp.Columns[0].Projects, 1)

	total := 0
	for _, c := range resp.Columns {
		total += len(c.Projects)
	}
	assert.Equal(t, len(s.store.Archived()), total)
}

func TestHealthAndPrivacy(t *testing.T) {
	s := newTestServer(t, Options{})

	w := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = get(t, s.Handler(), "/privacy")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "does not record page views")
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, Options{})
	for _, p := range []string{"/static/site.css", "/static/overlay.js", "/static/placeholder.svg"} {
		assert.Equal(t, http.StatusOK, get(t, s.Handler(), p).Code, p)
	}
}

func openAnalytics(t *testing.T) *analytics.Store {
	t.Helper()
	db, err := analytics.Open(context.Background(), filepath.Join(t.TempDir(), "views.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestViewTracking(t *testing.T) {
	db := openAnalytics(t)
	tracker := analytics.NewTracker(db, zap.NewNop(), 16)
	ctx, cancel := context.WithCancel(context.Background())
	go tracker.Run(ctx)

	s := newTestServer(t, Options{Analytics: db, Tracker: tracker})
	h := s.Handler()

	get(t, h, "/")
	get(t, h, "/projects/cotdex")
	get(t, h, "/projects/nope")
	get(t, h, "/api/projects")
	get(t, h, "/static/site.css")

	req := httptest.NewRequest(http.MethodGet, "/projects/medinavi", nil)
	req.Header.Set("DNT", "1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	cancel()
	select {
	case <-tracker.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("tracker did not stop")
	}

	stats, err := db.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalViews)
	require.Len(t, stats.TopProjects, 1)
	assert.Equal(t, "cotdex", stats.TopProjects[0].ProjectID)
}

func TestAdmin(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminUsername = "admin"
	cfg.AdminPassword = "hunter2"
	s := newTestServer(t, Options{Config: cfg, Analytics: openAnalytics(t)})
	h := s.Handler()

	login := func(user, pass string) *httptest.ResponseRecorder {
		form := url.Values{"username": {user}, "password": {pass}}
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := get(t, h, "/admin/dashboard")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = login("admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	w = login("admin", "hunter2")
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	authed := func(method, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w = authed(http.MethodGet, "/admin/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "total views")

	w = authed(http.MethodGet, "/admin/api/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_views":0`)

	w = authed(http.MethodGet, "/admin/export/stats")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	w = authed(http.MethodPost, "/admin/privacy/cleanup")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":0`)

	req := httptest.NewRequest(http.MethodPost, "/admin/privacy/cleanup", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminDisabledWithoutCredentials(t *testing.T) {
	s := newTestServer(t, Options{Analytics: openAnalytics(t)})
	w := get(t, s.Handler(), "/admin/login")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
