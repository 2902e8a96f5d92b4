package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/kbukum/dagdeps/observability"
)

// Telemetry opens an http.request span per request and, when metrics is
// non-nil, records request count, duration and in-flight requests. The
// OperationContext is available to handlers through the request context.
func Telemetry(service string, metrics *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			oc := observability.NewOperationContext(service, r.Method+" "+r.URL.Path,
				RequestIDFromContext(r.Context()), metrics)
			ctx, span := oc.Start(r.Context(), observability.SpanHTTPRequest)

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			var err error
			if sw.status >= 500 {
				err = fmt.Errorf("%s", http.StatusText(sw.status))
			}
			oc.End(ctx, span, strconv.Itoa(sw.status), err)
		})
	}
}
