package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
)

type ctxKey struct{}

// entryFrom returns the request-scoped log entry.
func entryFrom(ctx context.Context) *logger.Entry {
	if e, ok := ctx.Value(ctxKey{}).(*logger.Entry); ok {
		return e
	}
	return logger.With()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = s.ids.New()
		}
		w.Header().Set("X-Request-ID", id)

		entry := logger.With("request_id", id, "method", r.Method, "route", r.URL.Path)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, entry)))

		entry.With("status", rec.status, "duration_ms", time.Since(start).Milliseconds()).
			Debug("%s %s -> %d", r.Method, r.URL.Path, rec.status)
	})
}

func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				entryFrom(r.Context()).Error("panic: %v", v)
				writeJSON(w, http.StatusInternalServerError, errorBody{Status: "error", Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// cors answers preflights and marks every response as readable cross-origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow rejects any method not listed with 405.
func allow(h http.HandlerFunc, methods ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, m := range methods {
			if r.Method == m {
				h(w, r)
				return
			}
		}
		w.Header().Set("Allow", strings.Join(methods, ", ")+", OPTIONS")
		writeError(w, errs.New(errs.MethodNotAllowed))
	})
}
