// SPDX-License-Identifier: MIT

// Package middleware holds the HTTP middleware stack for the API server.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	xlog "github.com/h-iptv/iptv/internal/log"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the context and echoes it in the
// response. An incoming X-Request-ID header is honored; otherwise a new
// UUID is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := xlog.ContextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
