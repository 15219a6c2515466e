package http

import (
	"net/http"
	"time"

	"cyberguard-quiz-service/internal/app"
	"go.uber.org/zap"
)

// CookieSettings controls the session cookie written by the auth callback.
type CookieSettings struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Handler serves the HTML pages and the live quiz socket.
type Handler struct {
	catalog  *app.CatalogService
	quizzes  *app.QuizService
	tips     *app.TipService
	identity app.IdentityProvider
	cookie   CookieSettings
	log      *zap.Logger
	pages    *pages
	ws       *WSHandler
}

func NewHandler(backend app.Backend, quizzes *app.QuizService, cookie CookieSettings, log *zap.Logger) (*Handler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cookie.Name == "" {
		cookie.Name = "cyberguard_session"
	}
	tmpl, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Handler{
		catalog:  app.NewCatalogService(backend, log),
		quizzes:  quizzes,
		tips:     app.NewTipService(backend.Tips, log),
		identity: backend.Identity,
		cookie:   cookie,
		log:      log,
		pages:    tmpl,
		ws:       NewWSHandler(quizzes, log),
	}, nil
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /auth/login", h.login)
	mux.HandleFunc("GET /auth/sign-up-success", h.signUpSuccess)
	mux.HandleFunc("GET /auth/callback", h.callback)
	mux.HandleFunc("POST /auth/logout", h.logout)

	mux.Handle("GET /dashboard", h.requireIdentity(h.dashboard))
	mux.Handle("GET /quiz/{id}", h.requireIdentity(h.quizPage))
	mux.Handle("POST /quiz/{id}/submit", h.requireIdentity(h.submitAnswer))
	mux.Handle("POST /quiz/{id}/next", h.requireIdentity(h.nextQuestion))
	mux.Handle("GET /quiz/{id}/ws", h.requireIdentity(h.ws.ServeWS))

	return h.logRequests(mux)
}
