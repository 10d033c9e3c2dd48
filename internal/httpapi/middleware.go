package httpapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"cpr-quiz/internal/auth"
)

// requireSession is the route guard: it resolves the session cookie to a
// principal exactly once and threads it through the request context. A
// missing or dead session redirects to /login with the given notice, never
// an error status.
func (a *API) requireSession(notice string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			redirectWithNotice(w, r, "/login", notice)
			return
		}

		session, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			clearSessionCookie(w)
			redirectWithNotice(w, r, "/login", notice)
			return
		}

		principal := &auth.Principal{
			Username:  session.Username,
			SessionID: session.ID,
		}
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	logBody      bytes.Buffer
	truncated    bool
	maxLogBytes  int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	written, err := r.ResponseWriter.Write(p)
	r.bytesWritten += written

	if r.maxLogBytes > 0 {
		remaining := r.maxLogBytes - r.logBody.Len()
		switch {
		case remaining >= len(p):
			r.logBody.Write(p)
		case remaining > 0:
			r.logBody.Write(p[:remaining])
			r.truncated = true
		default:
			if len(p) > 0 {
				r.truncated = true
			}
		}
	}
	return written, err
}

const maxLoggedBodyBytes = 512

func withRequestLogging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxLoggedBodyBytes,
		}

		start := time.Now()
		next.ServeHTTP(recorder, r)

		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.statusCode,
			"bytes", recorder.bytesWritten,
			"duration", time.Since(start),
		)
		if recorder.statusCode >= http.StatusInternalServerError {
			log.Error("request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.statusCode,
				"body", recorder.logBody.String(),
				"truncated", recorder.truncated,
			)
		}
	})
}
