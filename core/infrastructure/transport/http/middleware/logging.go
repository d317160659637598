package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	sharedctx "github.com/scriptbridge/scriptbridge/core/shared/context"
)

// RequestLogger logs every request through the tagged logger and copies the
// chi request ID into the shared context so downstream logs can carry it.
// It must run after chi's RequestID middleware.
func RequestLogger(next http.Handler) http.Handler {
	log := logging.New("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimiddleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = sharedctx.GenerateRequestID()
		}
		r = r.WithContext(sharedctx.WithRequestID(r.Context(), requestID))

		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.With("request_id", requestID).
			Debugf("%s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}
