package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"cyberguard-quiz-service/internal/app"
	"cyberguard-quiz-service/internal/domain"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageNames = []string{"login.html", "signup_success.html", "dashboard.html", "quiz.html"}

type pages struct {
	byName map[string]*template.Template
}

var difficultyClasses = map[domain.Difficulty]string{
	domain.DifficultyBeginner:     "badge-green",
	domain.DifficultyIntermediate: "badge-yellow",
	domain.DifficultyAdvanced:     "badge-red",
}

func parsePages() (*pages, error) {
	funcs := template.FuncMap{
		"difficultyClass": func(d domain.Difficulty) string {
			if class, ok := difficultyClasses[d]; ok {
				return class
			}
			return "badge-slate"
		},
		"deref": func(b *bool) bool { return b != nil && *b },
	}
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html")
	if err != nil {
		return nil, err
	}
	p := &pages{byName: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFiles, "templates/"+name); err != nil {
			return nil, err
		}
		p.byName[name] = t
	}
	return p, nil
}

// render buffers the page so a template error never leaves a half-written response.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := h.pages.byName[name]
	if !ok {
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		h.log.Error("render page failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", nil)
}

func (h *Handler) signUpSuccess(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "signup_success.html", nil)
}

// callback is the landing page of the confirmation link. It checks the token
// with the identity provider before storing it in the session cookie.
func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if _, err := h.identity.CurrentUser(r.Context(), token); err != nil {
		if !errors.Is(err, domain.ErrNoIdentity) {
			h.log.Error("resolve session failed", zap.Error(err))
		}
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if err := h.identity.SignOut(r.Context(), cookie.Value); err != nil {
			h.log.Error("sign out failed", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

type dashboardPage struct {
	app.Dashboard
	ShowTip bool
	Tip     *domain.Tip
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	who := identityFrom(r.Context())
	d, err := h.catalog.Dashboard(r.Context(), who)
	if err != nil {
		// The client went away; nothing to render.
		return
	}

	page := dashboardPage{Dashboard: d, ShowTip: r.URL.Query().Get("tip") != "dismissed"}
	if page.ShowTip {
		if tip, ok := h.tips.TipOfDay(r.Context()); ok {
			page.Tip = &tip
		}
	}
	h.render(w, http.StatusOK, "dashboard.html", page)
}

type quizPage struct {
	Email string
	View  app.View
}

func (h *Handler) quizPage(w http.ResponseWriter, r *http.Request) {
	who := identityFrom(r.Context())
	quizID := r.PathValue("id")

	if r.URL.Query().Get("new") == "1" {
		if _, err := h.quizzes.Start(r.Context(), who, quizID); err != nil {
			h.fail(w, err, quizID)
			return
		}
		http.Redirect(w, r, "/quiz/"+quizID, http.StatusSeeOther)
		return
	}

	view, err := h.quizzes.Current(r.Context(), who, quizID)
	if err != nil {
		h.fail(w, err, quizID)
		return
	}
	status := http.StatusOK
	if view.Phase == app.PhaseNotFound {
		status = http.StatusNotFound
	}
	h.render(w, status, "quiz.html", quizPage{Email: who.Email, View: view})
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("id")
	token, ok := h.formToken(w, r)
	if !ok {
		return
	}
	_, err := h.quizzes.Submit(r.Context(), identityFrom(r.Context()), quizID, token, r.PostFormValue("option"))
	h.afterMutation(w, r, quizID, err)
}

func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("id")
	token, ok := h.formToken(w, r)
	if !ok {
		return
	}
	_, err := h.quizzes.Next(r.Context(), identityFrom(r.Context()), quizID, token)
	h.afterMutation(w, r, quizID, err)
}

func (h *Handler) formToken(w http.ResponseWriter, r *http.Request) (int, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return 0, false
	}
	token, err := strconv.Atoi(r.PostFormValue("token"))
	if err != nil {
		http.Redirect(w, r, "/quiz/"+r.PathValue("id"), http.StatusSeeOther)
		return 0, false
	}
	return token, true
}

// afterMutation redirects back to the quiz page (post/redirect/get). Requests
// from stale pages or out of order are dropped without touching the attempt.
func (h *Handler) afterMutation(w http.ResponseWriter, r *http.Request, quizID string, err error) {
	if err != nil && !isRejected(err) {
		h.fail(w, err, quizID)
		return
	}
	if err != nil {
		h.log.Debug("quiz action rejected", zap.String("quiz_id", quizID), zap.Error(err))
	}
	http.Redirect(w, r, "/quiz/"+quizID, http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, err error, quizID string) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	h.log.Error("quiz request failed", zap.String("quiz_id", quizID), zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func isRejected(err error) bool {
	switch {
	case errors.Is(err, domain.ErrStaleView),
		errors.Is(err, domain.ErrNoSelection),
		errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrNotSubmitted),
		errors.Is(err, domain.ErrAttemptComplete):
		return true
	}
	return false
}
