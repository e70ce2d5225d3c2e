// Package web serves the task board to a browser. The page drags tasks between
// the unscheduled list and day cells; every gesture is sent to the server, which
// owns the board state and the task files.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"tableflip.dev/taskboard/pkg/board"
	"tableflip.dev/taskboard/pkg/logging"
)

//go:embed templates/*.tmpl static/*
var assets embed.FS

// Runner coordinates web server startup.
type Runner struct {
	Board  *board.Board
	Logger *log.Logger

	// ListenAddr defaults to 127.0.0.1:8080.
	ListenAddr  string
	OnListening func(net.Addr)
	// Watch reloads the board when the task directory changes on disk.
	Watch bool

	follow  follower
	baseCtx context.Context
}

// Do serves until ctx is done.
func (r *Runner) Do(ctx context.Context) error {
	if r.Board == nil {
		return errors.New("web runner requires a board")
	}
	if r.Logger == nil {
		r.Logger = logging.Discard()
	}
	r.baseCtx = ctx

	handler, err := r.Handler()
	if err != nil {
		return err
	}

	listenAddr := r.ListenAddr
	if listenAddr == "" {
		listenAddr = "127.0.0.1:8080"
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	if r.OnListening != nil {
		r.OnListening(ln.Addr())
	}

	if r.Watch {
		r.follow.start(ctx, r.Board, r.Logger)
	}
	defer r.follow.stop()

	httpSrv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	err = httpSrv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler builds the gin engine serving the page and the API.
func (r *Runner) Handler() (http.Handler, error) {
	if r.Logger == nil {
		r.Logger = logging.Discard()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestID(), accessLog(r.Logger), gin.Recovery())

	tmpl, err := template.New("").Funcs(template.FuncMap{"dayLabel": dayLabel}).ParseFS(assets, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}
	engine.StaticFS("/static", http.FS(static))

	h := &handlers{board: r.Board, log: r.Logger, onOpen: func() {
		if !r.Watch {
			return
		}
		parent := r.baseCtx
		if parent == nil {
			parent = context.Background()
		}
		r.follow.start(parent, r.Board, r.Logger)
	}}
	h.register(engine)
	return engine, nil
}

// follower keeps at most one directory watch running.
type follower struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (f *follower) start(parent context.Context, b *board.Board, logger *log.Logger) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if b.Dir() == "" {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	go func() {
		if err := b.Follow(ctx, nil); err != nil && !errors.Is(err, board.ErrNoDirectory) {
			logger.Warn("watching task directory stopped", "dir", b.Dir(), "err", err)
		}
	}()
}

func (f *follower) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
