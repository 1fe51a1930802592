package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/pagehydrate/internal/content"
	"github.com/ziadkadry99/pagehydrate/internal/fetch"
	"github.com/ziadkadry99/pagehydrate/internal/hydrate"
)

const indexPage = `<!DOCTYPE html><html><head><title data-content="site.title">Static</title></head>` +
	`<body><h1 data-content="hero.title">Static hero</h1></body></html>`

const contentJSON = `{"site":{"title":"Bright Steps"},"hero":{"title":"Care that comes to you"}}`

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func staticSource(t *testing.T) fetch.Source {
	t.Helper()
	doc, err := content.Parse([]byte(contentJSON))
	require.NoError(t, err)
	return fetch.Static{Doc: doc}
}

type failingSource struct{}

func (failingSource) Location() string { return "broken" }
func (failingSource) Load(context.Context) (*content.Document, error) {
	return nil, &fetch.StatusError{URL: "broken", StatusCode: http.StatusNotFound}
}

func TestGenerateHydratesPagesAndCopiesAssets(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html":       indexPage,
		"about/index.html": indexPage,
		"css/site.css":     "body{color:red}",
		"drafts/wip.html":  indexPage,
	})
	out := filepath.Join(root, "dist")

	g := &SiteGenerator{
		SiteDir:   root,
		OutputDir: out,
		Include:   []string{"**/*.html"},
		Exclude:   []string{"drafts/**"},
		Hydrator:  hydrate.New(hydrate.DefaultOptions(), nil),
		Source:    staticSource(t),
	}

	result, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 1, result.Assets)
	assert.True(t, result.Hydrated)
	assert.Equal(t, 4, result.Populated)

	for _, rel := range []string{"index.html", "about/index.html"} {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<h1 data-content=\"hero.title\">Care that comes to you</h1>")
		assert.Contains(t, string(data), "<title data-content=\"site.title\">Bright Steps</title>")
	}

	css, err := os.ReadFile(filepath.Join(out, "css", "site.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{color:red}", string(css))

	_, err = os.Stat(filepath.Join(out, "drafts", "wip.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateRebuildSkipsOutputDir(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": indexPage})
	out := filepath.Join(root, "dist")

	g := &SiteGenerator{
		SiteDir:   root,
		OutputDir: out,
		Include:   []string{"**/*.html"},
		Hydrator:  hydrate.New(hydrate.DefaultOptions(), nil),
		Source:    staticSource(t),
	}

	_, err := g.Generate(context.Background())
	require.NoError(t, err)
	result, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pages)

	_, err = os.Stat(filepath.Join(out, "dist"))
	assert.True(t, os.IsNotExist(err), "output must not be copied into itself")
}

func TestGenerateContentUnavailable(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": indexPage})
	out := filepath.Join(root, "dist")

	g := &SiteGenerator{
		SiteDir:   root,
		OutputDir: out,
		Include:   []string{"**/*.html"},
		Hydrator:  hydrate.New(hydrate.DefaultOptions(), nil),
		Source:    failingSource{},
	}

	result, err := g.Generate(context.Background())
	require.Error(t, err)
	assert.True(t, IsContentUnavailable(err))
	var statusErr *fetch.StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.False(t, result.Hydrated)
	assert.Equal(t, 1, result.Pages)

	data, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Static hero")
}

func TestGenerateRefusesSiteDirAsOutput(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": indexPage})

	g := &SiteGenerator{
		SiteDir:   root,
		OutputDir: root + string(filepath.Separator),
		Include:   []string{"**/*.html"},
		Hydrator:  hydrate.New(hydrate.DefaultOptions(), nil),
		Source:    staticSource(t),
	}
	_, err := g.Generate(context.Background())
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(root, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, indexPage, string(data), "authored page must be left alone")
}

func TestGenerateNoPages(t *testing.T) {
	root := writeSite(t, map[string]string{"style.css": "x"})
	g := &SiteGenerator{
		SiteDir:   root,
		OutputDir: filepath.Join(root, "dist"),
		Include:   []string{"**/*.html"},
		Hydrator:  hydrate.New(hydrate.DefaultOptions(), nil),
		Source:    staticSource(t),
	}
	_, err := g.Generate(context.Background())
	assert.Error(t, err)
}

type recordingReporter struct {
	total   int
	updates []string
	done    bool
}

func (r *recordingReporter) Start(total int)              { r.total = total }
func (r *recordingReporter) Update(_ int, message string) { r.updates = append(r.updates, message) }
func (r *recordingReporter) Finish()                      { r.done = true }

func TestGenerateReportsProgress(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": indexPage,
		"logo.svg":   "<svg/>",
	})
	rep := &recordingReporter{}
	g := &SiteGenerator{
		SiteDir:   root,
		OutputDir: filepath.Join(root, "dist"),
		Include:   []string{"**/*.html"},
		Hydrator:  hydrate.New(hydrate.DefaultOptions(), nil),
		Source:    staticSource(t),
		Reporter:  rep,
	}
	_, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.total)
	assert.Equal(t, []string{"index.html"}, rep.updates)
	assert.True(t, rep.done)
}

func newTestHandler(t *testing.T, root string, src fetch.Source) *PageHandler {
	t.Helper()
	return NewPageHandler(root, hydrate.New(hydrate.DefaultOptions(), nil), src, nil)
}

func TestPageHandlerHydratesPerRequest(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html":      indexPage,
		"about/page.html": indexPage,
	})
	h := newTestHandler(t, root, staticSource(t))

	for _, target := range []string{"/", "/index.html", "/about/page.html"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "Care that comes to you", target)
		assert.NotContains(t, w.Body.String(), LiveReloadPath)
	}
}

func TestPageHandlerServesAssetsUntouched(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html":   indexPage,
		"css/site.css": `[data-content="hero.title"]{color:red}`,
	})
	h := newTestHandler(t, root, staticSource(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/css/site.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `[data-content="hero.title"]{color:red}`, w.Body.String())
}

func TestPageHandlerExcludedPageIsStatic(t *testing.T) {
	root := writeSite(t, map[string]string{"drafts/a.html": indexPage})
	h := newTestHandler(t, root, staticSource(t))
	h.Exclude = []string{"drafts/**"}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/drafts/a.html", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Static hero")
}

func TestPageHandlerContentFailureServesStaticPage(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": indexPage})
	h := newTestHandler(t, root, failingSource{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Static hero")
}

func TestPageHandlerMissingFile(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": indexPage})
	h := newTestHandler(t, root, staticSource(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPageHandlerRejectsTraversal(t *testing.T) {
	parent := writeSite(t, map[string]string{"secret.html": indexPage, "site/index.html": indexPage})
	h := newTestHandler(t, filepath.Join(parent, "site"), staticSource(t))

	rel, _, ok := h.resolvePage("/../secret.html")
	assert.False(t, ok, "resolved %q outside the site", rel)
}

func TestPageHandlerInjectsLiveReload(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": indexPage})
	h := newTestHandler(t, root, staticSource(t))
	h.LiveReload = true

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	body := w.Body.String()
	assert.Contains(t, body, LiveReloadPath)
	assert.Less(t, strings.Index(body, LiveReloadPath), strings.Index(body, "</body>"))
}

func TestPageHandlerHead(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": indexPage})
	h := newTestHandler(t, root, staticSource(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestReloadHubBroadcast(t *testing.T) {
	hub := NewReloadHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, hub.Broadcast())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))
}

func TestReloadHubDropsClosedClients(t *testing.T) {
	hub := NewReloadHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestReloadHubBroadcastSkipsBackedUpClient(t *testing.T) {
	hub := NewReloadHub(nil)
	defer hub.Close()

	stalled := &reloadClient{send: make(chan []byte, 1)}
	stalled.send <- []byte(reloadMessage)
	hub.mu.Lock()
	hub.clients[stalled] = struct{}{}
	hub.mu.Unlock()

	done := make(chan int, 1)
	go func() { done <- hub.Broadcast() }()

	select {
	case n := <-done:
		assert.Equal(t, 0, n)
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a client that is not reading")
	}
	assert.Equal(t, 1, hub.Clients(), "a slow page stays connected")
}

func TestReloadHubCloseDisconnectsPages(t *testing.T) {
	hub := NewReloadHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestWatcherReportsChanges(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": indexPage})

	var (
		mu      sync.Mutex
		changes []string
	)
	w := &Watcher{
		Dir:      root,
		SkipDir:  filepath.Join(root, "dist"),
		Debounce: 20 * time.Millisecond,
		OnChange: func(path string) {
			mu.Lock()
			changes = append(changes, path)
			mu.Unlock()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(changes)
	}

	// The watch set is registered asynchronously; keep touching the file
	// until a change arrives.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(root, "index.html"), []byte(indexPage+"\n"), 0o644)
		return count() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestIsWithin(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, isWithin(filepath.Join(dir, "a", "b.html"), dir))
	assert.True(t, isWithin(dir, dir))
	assert.False(t, isWithin(filepath.Dir(dir), dir))
	assert.False(t, isWithin(filepath.Join(filepath.Dir(dir), "other"), dir))
}
