package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const defaultRequestIDHeader = "X-Request-Id"

// maxRequestIDLen caps inbound ids so a client cannot inflate log lines.
const maxRequestIDLen = 64

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by RequestIDMiddleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// RequestIDMiddleware propagates the caller's request id, or mints one when
// it is absent or oversized, and echoes it on the response.
func RequestIDMiddleware(headerName string) func(next http.Handler) http.Handler {
	if strings.TrimSpace(headerName) == "" {
		headerName = defaultRequestIDHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get(headerName))
			if rid == "" || len(rid) > maxRequestIDLen {
				rid = uuid.NewString()
			}
			w.Header().Set(headerName, rid)
			ctx := context.WithValue(r.Context(), requestIDKey{}, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
