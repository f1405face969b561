package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			fields := logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).String(),
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				fields["request_id"] = id
			}
			if claims := ClaimsFromContext(r.Context()); claims != nil {
				fields["user_id"] = claims.UserID.String()
			}

			entry := log.WithFields(fields)
			switch {
			case ww.Status() >= 500:
				entry.Error("request")
			case ww.Status() >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
		})
	}
}
