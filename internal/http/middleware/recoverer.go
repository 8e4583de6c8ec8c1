package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/tuanvumaihuynh/openshop/internal/http/apierr"
)

// Recoverer turns a panicking handler into a 500 carrying the same body as
// any other unexpected failure. The stack is logged, never returned.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	body, err := json.Marshal(apierr.InternalServerErr)
	if err != nil {
		panic(err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				// aborted responses must stay aborted
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				log.ErrorContext(r.Context(), "panic while handling request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("recover", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				// headers already went out; nothing sane left to write
				if ww.Status() != 0 {
					return
				}

				ww.Header().Set("Content-Type", "application/json")
				ww.WriteHeader(apierr.InternalServerErr.StatusCode)
				//nolint:errcheck
				ww.Write(body)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
