package httpserver

import (
	"net/http"
	"time"

	"github.com/fdg312/nutrition-hub/internal/userctx"
	"github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RequestLogMiddleware logs one line per request. The auth subject is set
// further down the chain and comes back through a holder in the context.
func RequestLogMiddleware(logger logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		var subject string
		next.ServeHTTP(rec, r.WithContext(withSubjectHolder(r.Context(), &subject)))

		entry := logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"bytes":    rec.bytes,
			"duration": time.Since(start).String(),
		})
		if subject != "" {
			entry = entry.WithField("sub", subject)
		}

		switch {
		case rec.status >= 500:
			entry.Error("request")
		case rec.status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	})
}

// captureSubject copies the authenticated subject into the holder placed by
// RequestLogMiddleware. Mounted just inside the auth middleware.
func captureSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if holder := subjectHolder(r.Context()); holder != nil {
			if sub, ok := userctx.Subject(r.Context()); ok {
				*holder = sub
			}
		}
		next.ServeHTTP(w, r)
	})
}
