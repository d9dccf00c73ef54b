package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/boxlayout/pkg/observability"
)

type stateKey struct{}

// requestState carries the handler error back to observe.
type requestState struct {
	err error
}

// observe logs every request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		st := &requestState{}
		ctx := context.WithValue(r.Context(), stateKey{}, st)
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		if st.err != nil {
			hooks.OnError(ctx, r.Method, r.URL.Path, st.err)
		}
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, dur)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(ctx),
		}
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error("request failed", append(fields, "err", st.err)...)
		case st.err != nil:
			s.logger.Warn("request rejected", append(fields, "err", st.err)...)
		default:
			s.logger.Debug("request", fields...)
		}
	})
}
