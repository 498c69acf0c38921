package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	staticpub "github.com/alnah/go-staticpub"
	"github.com/alnah/go-staticpub/internal/fileutil"
	"github.com/alnah/go-staticpub/internal/logger"
)

// runServeCmd executes the serve command and returns an exit code.
func runServeCmd(args []string, env *Environment) int {
	flags, _, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return ExitUsage
	}
	configureLogger(flags.common, env)

	// The config is needed to locate the output directory and, with
	// --watch, to rebuild it. An explicit --dir alone can skip it.
	var cfg *staticpub.Config
	dir := flags.dir
	if dir == "" || flags.watch {
		cfg, err = loadServeConfig(flags, env)
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		if dir == "" {
			dir = cfg.Paths.InstanceFiles
		}
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	hub := newReloadHub()

	if flags.watch {
		gen, genErr := staticpub.NewGenerator(cfg, staticpub.WithClock(env.Now))
		if genErr != nil {
			fmt.Fprintln(env.Stderr, genErr)
			return exitCodeFor(genErr)
		}
		result, buildErr := gen.Generate(ctx)
		if buildErr != nil {
			fmt.Fprintln(env.Stderr, buildErr)
			return exitCodeFor(buildErr)
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Generated %d files (%d notes) in %s\n",
				len(result.Files), result.Notes, dir)
		}
		go func() {
			watchErr := watchAndRebuild(ctx, gen, cfg, env, flags.common.quiet, hub.Broadcast)
			if watchErr != nil && !errors.Is(watchErr, context.Canceled) {
				logger.Warn("watcher stopped: %v", watchErr)
			}
		}()
	}

	if !fileutil.DirExists(dir) {
		fmt.Fprintf(env.Stderr, "serve directory %s does not exist (run generate first)\n", dir)
		return ExitIO
	}

	return serveHTTP(ctx, flags, dir, hub, env)
}

// loadServeConfig resolves the config for serve: --config, then
// STATICPUB_CONFIG, then the default name search.
func loadServeConfig(flags *serveFlags, env *Environment) (*staticpub.Config, error) {
	name := flags.common.config
	if name == "" {
		name = env.Getenv("STATICPUB_CONFIG")
	}
	if name == "" {
		name = defaultConfigName
	}
	return staticpub.LoadConfig(name)
}

// serveHTTP runs the HTTP server until ctx is canceled.
func serveHTTP(ctx context.Context, flags *serveFlags, dir string, hub *reloadHub, env *Environment) int {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Get("/livereload", hub.handle)
	r.Get("/*", instanceHandler(dir))

	ln, err := net.Listen("tcp", flags.addr)
	if err != nil {
		fmt.Fprintf(env.Stderr, "cannot listen on %s: %v\n", flags.addr, err)
		return ExitGeneral
	}

	server := &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s on http://%s\n", dir, ln.Addr())
	}

	done := make(chan error, 1)
	go func() { done <- server.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ExitSuccess
	case serveErr := <-done:
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			fmt.Fprintln(env.Stderr, serveErr)
			return ExitGeneral
		}
		return ExitSuccess
	}
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// instanceHandler serves the built instance tree. Extensionless
// ActivityPub documents get their JSON media type, matching how a
// production static host must be configured.
func instanceHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if p == "/" {
			p = "/index.html"
		}

		full := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(p, "/")))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		if ct := contentTypeFor(p); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		http.ServeFile(w, r, full)
	}
}

// contentTypeFor returns the Content-Type for an emitted file, or ""
// to let the file server sniff it (media files).
func contentTypeFor(urlPath string) string {
	base := path.Base(urlPath)
	switch base {
	case "index.html":
		return "text/html; charset=utf-8"
	case "webfinger":
		return "application/jrd+json"
	case "CNAME", ".nojekyll":
		return "text/plain; charset=utf-8"
	}
	if path.Ext(base) == "" {
		return "application/activity+json"
	}
	return ""
}

// reloadHub tracks livereload websocket clients and tells them when the
// instance has been rebuilt.
type reloadHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newReloadHub() *reloadHub {
	return &reloadHub{clients: make(map[*websocket.Conn]struct{})}
}

// upgrader accepts any origin: livereload is a local development aid.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handle upgrades a livereload client connection.
func (h *reloadHub) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("livereload upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	logger.Debug("livereload client connected")

	// Drain incoming frames until the client disconnects.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()
}

func (h *reloadHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Broadcast tells every connected client to reload.
func (h *reloadHub) Broadcast() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			h.drop(c)
		}
	}
}
