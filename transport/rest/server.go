package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/bullscows-backend/internal/entity"
)

const handlerTimeout = 10 * time.Second

type roomRepo interface {
	GetByID(ctx context.Context, id string) (*entity.RoomSnapshot, error)
}

type Server struct {
	logger    *slog.Logger
	roomRepo  roomRepo
	publicURL string

	router *chi.Mux
}

// New builds the HTTP surface. ws serves the WebSocket upgrade at /ws.
func New(logger *slog.Logger, roomRepo roomRepo, ws http.Handler, publicURL string) *Server {
	server := &Server{
		logger:    logger.With("component", "rest"),
		roomRepo:  roomRepo,
		publicURL: publicURL,

		router: chi.NewRouter(),
	}

	server.router.Use(chimw.RequestID)
	server.router.Use(chimw.RealIP)
	server.router.Use(chimw.Recoverer)

	server.router.Method(http.MethodGet, "/ws", ws)

	server.router.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(handlerTimeout))

		r.Get("/ping", server.handlePing)
		r.Get("/rooms/{roomId}", server.handleGetRoom)
		r.Get("/rooms/{roomId}/qr", server.handleRoomQR)
	})

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// NewHTTPServer wraps handler with the timeouts every listener uses. The write
// timeout is left open because WebSocket connections outlive any request.
func NewHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
