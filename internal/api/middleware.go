package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"collection-route-service/internal/platform/obs"
)

var requestSeq atomic.Int64

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// logRequests tags each request with a sequence id, carried in the
// context so deferred timing logs downstream correlate with the access
// line.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := strconv.FormatInt(requestSeq.Add(1), 10)
		ctx := context.WithValue(r.Context(), obs.RequestIDKey, reqID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		log.Printf("req_id=%s method=%s path=%s status=%d dur=%s",
			reqID, r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}
