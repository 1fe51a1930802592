package site

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/pagehydrate/internal/fetch"
	"github.com/ziadkadry99/pagehydrate/internal/hydrate"
	"github.com/ziadkadry99/pagehydrate/internal/walker"
)

// LiveReloadPath is where pages connect to be told about site changes.
const LiveReloadPath = "/_livereload"

const liveReloadSnippet = `<script>(function(){var s=location.protocol==="https:"?"wss://":"ws://";` +
	`var ws=new WebSocket(s+location.host+"` + LiveReloadPath + `");` +
	`ws.onmessage=function(){location.reload();};})();</script>`

// PageHandler serves a site directory. Pages are hydrated on every request
// against a freshly loaded content document; other files are served as is.
type PageHandler struct {
	Dir      string
	Include  []string
	Exclude  []string
	Hydrator *hydrate.Hydrator
	Source   fetch.Source
	Logger   *slog.Logger

	// LiveReload injects the reload client into served pages.
	LiveReload bool

	static http.Handler
}

// NewPageHandler returns a handler serving dir.
func NewPageHandler(dir string, h *hydrate.Hydrator, src fetch.Source, logger *slog.Logger) *PageHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PageHandler{
		Dir:      dir,
		Include:  []string{"**/*.html"},
		Hydrator: h,
		Source:   src,
		Logger:   logger,
		static:   http.FileServer(http.Dir(dir)),
	}
}

func (ph *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel, file, ok := ph.resolvePage(r.URL.Path)
	if !ok || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		ph.static.ServeHTTP(w, r)
		return
	}

	f, err := os.Open(file)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	p, err := hydrate.ParsePage(f)
	f.Close()
	if err != nil {
		ph.Logger.Error("parsing page", "page", rel, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// A failed load is logged by Run; the page goes out as authored.
	if stats, err := ph.Hydrator.Run(r.Context(), p, ph.Source); err == nil {
		ph.Logger.Debug("page hydrated", "page", rel, "pass_id", stats.PassID, "populated", stats.Populated())
	}

	if ph.LiveReload {
		p.Find("body").AppendHtml(liveReloadSnippet)
	}

	body, err := p.HTML()
	if err != nil {
		ph.Logger.Error("rendering page", "page", rel, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(body))
	}
}

// resolvePage maps a URL path to a page file on disk. Directory paths
// resolve to their index.html.
func (ph *PageHandler) resolvePage(urlPath string) (rel, file string, ok bool) {
	rel = strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	file = filepath.Join(ph.Dir, filepath.FromSlash(rel))

	info, err := os.Stat(file)
	if err != nil {
		return "", "", false
	}
	if info.IsDir() {
		rel = path.Join(rel, "index.html")
		file = filepath.Join(file, "index.html")
		if info, err = os.Stat(file); err != nil || info.IsDir() {
			return "", "", false
		}
	}

	ext := strings.ToLower(path.Ext(rel))
	if ext != ".html" && ext != ".htm" {
		return "", "", false
	}
	if !walker.MatchesInclude(rel, ph.Include) || walker.MatchesExclude(rel, ph.Exclude) {
		return "", "", false
	}
	return rel, file, true
}
