package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"cyberguard-quiz-service/internal/app"
	"cyberguard-quiz-service/internal/content"
	"cyberguard-quiz-service/internal/domain"
	"cyberguard-quiz-service/internal/infra/memory"
)

const cookieName = "test_session"

type testEnv struct {
	handler  http.Handler
	store    *memory.Store
	sessions *memory.IdentityStore
	token    string
}

func testContent() content.Content {
	quiz := content.Quiz{Quiz: domain.Quiz{
		ID:          "quiz-1",
		Title:       "Phishing Basics",
		Description: "Spot the tricks.",
		Difficulty:  domain.DifficultyBeginner,
		Category:    "Email Security",
	}}
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("q%d", i)
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:          id,
			QuizID:      "quiz-1",
			Text:        "Question text " + id,
			Explanation: "Explanation for " + id,
			Options: []domain.AnswerOption{
				{ID: id + "-a", QuestionID: id, Text: "Right answer", Correct: true},
				{ID: id + "-b", QuestionID: id, Text: "Wrong answer"},
			},
		})
	}
	return content.Content{
		Quizzes: []content.Quiz{quiz},
		Tips:    []domain.Tip{{ID: "t1", Title: "Hover first", Content: "Check links before clicking.", Category: "Email"}},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore(testContent())
	sessions := memory.NewIdentityStore()
	backend := app.Backend{Quizzes: store, Profiles: store, Scores: store, Tips: store, Identity: sessions}
	service := app.NewQuizService(backend, memory.NewAttemptStore(), nil)

	h, err := NewHandler(backend, service, CookieSettings{Name: cookieName, MaxAge: time.Hour}, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	token, err := sessions.Issue(context.Background(), domain.Identity{UserID: "u1", Email: "alice@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return &testEnv{handler: h.Routes(), store: store, sessions: sessions, token: token}
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if e.token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: e.token})
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

func expectBody(t *testing.T, rec *httptest.ResponseRecorder, fragments ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, f := range fragments {
		if !strings.Contains(body, f) {
			t.Fatalf("expected body to contain %q\n%s", f, body)
		}
	}
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""
	for _, target := range []string{"/dashboard", "/quiz/quiz-1"} {
		expectRedirect(t, env.do(t, http.MethodGet, target, nil), "/auth/login")
	}

	env.token = "not-a-session"
	expectRedirect(t, env.do(t, http.MethodGet, "/dashboard", nil), "/auth/login")
}

func TestRootRedirectsToDashboard(t *testing.T) {
	env := newTestEnv(t)
	expectRedirect(t, env.do(t, http.MethodGet, "/", nil), "/dashboard")
}

func TestPublicAuthPages(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	rec := env.do(t, http.MethodGet, "/auth/sign-up-success", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	expectBody(t, rec, "Check your email", "Back to Login")

	rec = env.do(t, http.MethodGet, "/auth/login", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCallbackSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	token := env.token
	env.token = ""

	rec := env.do(t, http.MethodGet, "/auth/callback?token="+token, nil)
	expectRedirect(t, rec, "/dashboard")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cookieName || cookies[0].Value != token || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookies)
	}

	rec = env.do(t, http.MethodGet, "/auth/callback?token=bogus", nil)
	expectRedirect(t, rec, "/auth/login")
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("expected no cookie for an unknown token")
	}
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/logout", url.Values{})
	expectRedirect(t, rec, "/auth/login")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected the session cookie to be cleared, got %+v", cookies)
	}
	if _, err := env.sessions.CurrentUser(context.Background(), env.token); err == nil {
		t.Fatal("expected session to be revoked")
	}
	expectRedirect(t, env.do(t, http.MethodGet, "/dashboard", nil), "/auth/login")
}

func TestDashboardRendersCatalogAndTip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	expectBody(t, rec,
		"CyberGuard",
		"alice@example.com",
		"Phishing Basics",
		"badge-green",
		`href="/quiz/quiz-1?new=1"`,
		"Tip of the Day",
		"Hover first",
		"Got it!",
	)
	if env.store.ProfileCount() != 1 {
		t.Fatalf("expected the first visit to create a profile, got %d", env.store.ProfileCount())
	}

	rec = env.do(t, http.MethodGet, "/dashboard?tip=dismissed", nil)
	if strings.Contains(rec.Body.String(), "Tip of the Day") {
		t.Fatal("expected dismissed tip modal to stay hidden")
	}
	if env.store.ProfileCount() != 1 {
		t.Fatalf("expected one profile after two visits, got %d", env.store.ProfileCount())
	}
}

func TestUnknownQuizIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/quiz/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	expectBody(t, rec, "Quiz not found or has no questions.")
}

func answerForm(token int, option string) url.Values {
	form := url.Values{"token": {fmt.Sprint(token)}}
	if option != "" {
		form.Set("option", option)
	}
	return form
}

func TestQuizPageFlow(t *testing.T) {
	env := newTestEnv(t)
	if err := env.store.CreateProfile(context.Background(), domain.Profile{ID: "u1"}); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	expectRedirect(t, env.do(t, http.MethodGet, "/quiz/quiz-1?new=1", nil), "/quiz/quiz-1")

	rec := env.do(t, http.MethodGet, "/quiz/quiz-1", nil)
	expectBody(t, rec, "Phishing Basics", "Question 1 of 3", "Question text q1", "Submit Answer")
	if strings.Contains(rec.Body.String(), "Explanation for q1") {
		t.Fatal("explanation must stay hidden before submission")
	}

	answers := []string{"q1-a", "q2-a", "q3-b"}
	for i, opt := range answers {
		token := i + 1
		expectRedirect(t, env.do(t, http.MethodPost, "/quiz/quiz-1/submit", answerForm(token, opt)), "/quiz/quiz-1")

		rec = env.do(t, http.MethodGet, "/quiz/quiz-1", nil)
		want := "Correct!"
		if strings.HasSuffix(opt, "-b") {
			want = "Incorrect"
		}
		label := "Next Question"
		if i == len(answers)-1 {
			label = "See Results"
		}
		expectBody(t, rec, want, fmt.Sprintf("Explanation for q%d", i+1), label)

		expectRedirect(t, env.do(t, http.MethodPost, "/quiz/quiz-1/next", answerForm(token, "")), "/quiz/quiz-1")
	}

	rec = env.do(t, http.MethodGet, "/quiz/quiz-1", nil)
	expectBody(t, rec, "Quiz Complete!", "67%", "2 out of 3", "Not bad, but keep learning to improve.", "Keep Learning")

	scores := env.store.Scores("u1")
	if len(scores) != 1 || scores[0].Score != 2 || scores[0].TotalQuestions != 3 || scores[0].Percentage != 67 {
		t.Fatalf("expected one {2,3,67} score record, got %+v", scores)
	}

	rec = env.do(t, http.MethodGet, "/dashboard?tip=dismissed", nil)
	expectBody(t, rec, `<div class="stat">2</div>`, `<div class="stat">1</div>`)
}

func TestStaleFormPostIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	expectRedirect(t, env.do(t, http.MethodGet, "/quiz/quiz-1?new=1", nil), "/quiz/quiz-1")

	env.do(t, http.MethodPost, "/quiz/quiz-1/submit", answerForm(1, "q1-a"))
	env.do(t, http.MethodPost, "/quiz/quiz-1/next", answerForm(1, ""))

	// Resubmitting the first page must not touch question 2.
	expectRedirect(t, env.do(t, http.MethodPost, "/quiz/quiz-1/submit", answerForm(1, "q2-b")), "/quiz/quiz-1")
	expectRedirect(t, env.do(t, http.MethodPost, "/quiz/quiz-1/next", answerForm(1, "")), "/quiz/quiz-1")
	expectRedirect(t, env.do(t, http.MethodPost, "/quiz/quiz-1/next", answerForm(0, "")), "/quiz/quiz-1")

	rec := env.do(t, http.MethodGet, "/quiz/quiz-1", nil)
	expectBody(t, rec, "Question 2 of 3", "Submit Answer")
	if strings.Contains(rec.Body.String(), "Incorrect") {
		t.Fatal("stale submission was applied")
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response %d %q", rec.Code, rec.Body.String())
	}
}
