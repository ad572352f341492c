// Package httpserver constructs the process's http.Server. Timeouts live
// here so main does not restate them.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server wired to the router. WriteTimeout exceeds the
// per-request middleware timeout so handlers hit the context deadline
// before the connection is cut.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
