// Package server serves the siswa record collection over HTTP for siswad.
package server

import (
	"net/http"
	"time"
)

// New wraps handler in an http.Server listening on addr.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
