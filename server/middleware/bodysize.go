package middleware

import (
	"net/http"

	"github.com/docker/go-units"
)

// DefaultMaxBodySize applies when the configured size cannot be parsed.
const DefaultMaxBodySize = 1 << 20

// BodySizeLimit caps request bodies at maxSize, e.g. "1MB" or "512KiB".
func BodySizeLimit(maxSize string) Middleware {
	size, err := units.RAMInBytes(maxSize)
	if err != nil || size <= 0 {
		size = DefaultMaxBodySize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, size)
			}
			next.ServeHTTP(w, r)
		})
	}
}
