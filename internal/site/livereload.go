package site

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pagehydrate/internal/walker"
)

const reloadMessage = "reload"

// writeWait bounds a single websocket write.
const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dev server only
	},
}

// reloadClient is one connected page. Writes go through send so that the
// hub never waits on a slow socket.
type reloadClient struct {
	conn *websocket.Conn
	send chan []byte
}

// ReloadHub tracks connected pages and tells them to reload.
type ReloadHub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*reloadClient]struct{}
}

// NewReloadHub creates an empty hub.
func NewReloadHub(logger *slog.Logger) *ReloadHub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReloadHub{logger: logger, clients: make(map[*reloadClient]struct{})}
}

// ServeHTTP upgrades the request and holds the connection until the page
// goes away.
func (h *ReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("livereload: websocket upgrade", "error", err)
		return
	}

	c := &reloadClient{conn: conn, send: make(chan []byte, 1)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	defer h.drop(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("livereload: websocket read", "error", err)
			}
			return
		}
	}
}

// writeLoop delivers queued messages to one page until it is dropped.
func (h *ReloadHub) writeLoop(c *reloadClient) {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("livereload: websocket write", "error", err)
			h.drop(c)
			return
		}
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(writeWait))
}

// Clients returns the number of connected pages.
func (h *ReloadHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues a reload for every connected page and returns how many
// accepted it. A page that still has a reload pending is skipped.
func (h *ReloadHub) Broadcast() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for c := range h.clients {
		select {
		case c.send <- []byte(reloadMessage):
			sent++
		default:
		}
	}
	return sent
}

// Close disconnects every page.
func (h *ReloadHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// drop forgets c and stops its write loop. It is safe to call more than once.
func (h *ReloadHub) drop(c *reloadClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Watcher reports changes under a directory tree, coalescing bursts of
// events into one callback.
type Watcher struct {
	Dir      string
	SkipDir  string
	Debounce time.Duration
	OnChange func(path string)
	Logger   *slog.Logger
}

// Run watches until ctx is cancelled. Directories created while running
// are added to the watch set.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	skip := ""
	if w.SkipDir != "" {
		skip, _ = filepath.Abs(w.SkipDir)
	}
	if err := w.addTree(fw, w.Dir, skip); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		changed string
		mu      sync.Mutex
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if skip != "" && isWithin(event.Name, skip) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, event.Name, skip); err != nil {
						logger.Warn("watching new directory", "path", event.Name, "error", err)
					}
				}
			}

			mu.Lock()
			changed = event.Name
			mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				mu.Lock()
				p := changed
				mu.Unlock()
				if w.OnChange != nil {
					w.OnChange(p)
				}
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		}
	}
}

// addTree adds root and its subdirectories to fw.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root, skip string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && walker.IsExcludedDir(d.Name()) {
			return filepath.SkipDir
		}
		if skip != "" && isWithin(path, skip) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isWithin(path, dir string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
