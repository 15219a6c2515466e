package http

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"cyberguard-quiz-service/internal/domain"
	"go.uber.org/zap"
)

type identityKey struct{}

func withIdentity(ctx context.Context, who domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, who)
}

// identityFrom returns the identity stored by requireIdentity.
func identityFrom(ctx context.Context) domain.Identity {
	who, _ := ctx.Value(identityKey{}).(domain.Identity)
	return who
}

// requireIdentity resolves the session cookie and redirects to the login page
// when there is no valid session.
func (h *Handler) requireIdentity(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cookie.Name)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		who, err := h.identity.CurrentUser(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, domain.ErrNoIdentity) {
				h.log.Error("resolve session failed", zap.Error(err))
			}
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(withIdentity(r.Context(), who)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
