package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/contactimport/internal/core"
)

// clientIP returns the request's client address without the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// withClient carries the caller's IP and User-Agent into service logs.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), clientIP(r), r.UserAgent())
}
