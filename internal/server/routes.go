package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/store"
)

const requestTimeout = 30 * time.Second

// NewRouter mounts the record API over s.
func NewRouter(s *store.Watched, log logging.Logger) http.Handler {
	if log == nil {
		log = logging.Discard()
	}
	h := &handlers{store: s, log: log.With("component", "server")}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Get("/siswa", h.list)
		r.Post("/siswa", h.create)
		r.Get("/siswa/{id}", h.get)
		r.Put("/siswa/{id}", h.update)
		r.Delete("/siswa/{id}", h.remove)
	})
	return r
}

func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
