package httpserver

import (
	"net/http"
	"time"
)

// New builds the resolver's HTTP server. Responses are small JSON payloads,
// but the AI proxy route can block for the remote lookup's full deadline, so
// the write timeout sits above the 30s handler timeout rather than near the
// typical sub-millisecond resolution.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
