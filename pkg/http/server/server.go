package http_server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

type Config struct {
	Port    int
	Timeout time.Duration
}

// New. handler requests get ctx as their base context, cancelling ctx cancels in-flight analyses.
func New(ctx context.Context, handler http.Handler, config Config) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.Timeout,
		WriteTimeout:      config.Timeout,
		IdleTimeout:       2 * config.Timeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}
