package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/erkantaylan/md-printer/internal/document"
	"github.com/erkantaylan/md-printer/internal/i18n"
	"github.com/erkantaylan/md-printer/internal/render"
)

//go:embed static
var staticFiles embed.FS

// maxBodyBytes bounds uploaded documents and render requests.
const maxBodyBytes = 10 << 20

// Options configures a Server.
type Options struct {
	Addr string
	// BrowserHint uses each request's Accept-Language header as the locale
	// hint, so the first request decides the initial language.
	BrowserHint bool
}

// Server handles HTTP and WebSocket
type Server struct {
	hub      *Hub
	store    *i18n.Store
	renderer *render.Renderer
	docs     *document.Loader
	opts     Options
	index    *template.Template
	server   *http.Server
	unsub    func()
}

func New(hub *Hub, store *i18n.Store, renderer *render.Renderer, docs *document.Loader, opts Options) (*Server, error) {
	s := &Server{
		hub:      hub,
		store:    store,
		renderer: renderer,
		docs:     docs,
		opts:     opts,
	}

	index, err := template.New("index.html").
		Funcs(template.FuncMap{"t": store.Translate}).
		ParseFS(staticFiles, "static/index.html")
	if err != nil {
		return nil, err
	}
	s.index = index

	s.unsub = store.Subscribe(func(ev i18n.Event) {
		hub.SetLanguage(string(ev.Language))
	})
	return s, nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	// Writer goroutine
	go func() {
		defer func() {
			conn.Close()
		}()

		for message := range client.send {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		}
	}()

	// Reader goroutine (just to detect disconnect)
	go func() {
		defer func() {
			select {
			case s.hub.unregister <- client:
			case <-s.hub.done:
			}
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)

	staticFS, _ := fs.Sub(staticFiles, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/i18n", s.handleGetI18n)
	mux.HandleFunc("PUT /api/i18n/language", s.handleSetLanguage)
	mux.HandleFunc("GET /api/i18n/t", s.handleTranslate)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("POST /api/document", s.handleDocument)
	mux.HandleFunc("GET /print", s.handlePrintCurrent)
	mux.HandleFunc("POST /print", s.handlePrint)

	// WebSocket endpoint
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return s.withLocale(mux)
}

// withLocale makes sure the translation store is initialized before any
// handler runs, using the request's Accept-Language header when configured.
func (s *Server) withLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.opts.BrowserHint {
			ctx = i18n.ContextWithHint(ctx, i18n.AcceptLanguageHint(r.Header.Get("Accept-Language")))
		}
		// Initialize runs once for the process; a cancelled request must not
		// leave the store without a table.
		if err := s.store.Initialize(context.WithoutCancel(ctx)); err != nil {
			log.Printf("server: %v", err)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Lang      string
		Supported []i18n.Language
		Watching  string
	}{
		Lang:      string(s.store.CurrentLanguage()),
		Supported: s.store.Supported(),
		Watching:  s.hub.Current().Filename,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, data); err != nil {
		log.Printf("server: render index: %v", err)
	}
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.unsub != nil {
		s.unsub()
	}
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
