package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/app"
	"github.com/abhisek/mathquest/internal/completion"
	"github.com/abhisek/mathquest/internal/llm"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/tutor"
)

const testSecret = "test-secret"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, provider llm.Provider, opts Options) *Server {
	t.Helper()
	logger := quietLogger()
	svc := app.NewDefault(completion.NewStore(store.NewMemoryKV(), logger), logger)
	var tu *tutor.Tutor
	if provider != nil {
		tu = tutor.New(provider, tutor.DefaultConfig(), logger)
	}
	return NewServer(svc, tu, logger, opts)
}

func do(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	rr := do(t, s, http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	body := decode[map[string]any](t, rr)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["tutorReady"])
}

func TestHealthz_StoreDown(t *testing.T) {
	s := newTestServer(t, nil, Options{Health: func(context.Context) error {
		return errors.New("connection refused")
	}})
	rr := do(t, s, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestTopics_GradeFilter(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rr := do(t, s, http.MethodGet, "/api/topics?grade=4", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]progress.TopicProgress](t, rr)
	require.NotEmpty(t, list)
	for _, p := range list {
		assert.Equal(t, 4, p.Grade)
		assert.Equal(t, 0, p.Percent)
	}

	rr = do(t, s, http.MethodGet, "/api/topics?grade=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(t, s, http.MethodGet, "/api/topics?grade=42", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTopic_NotFound(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	rr := do(t, s, http.MethodGet, "/api/topics/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "topic not found", decode[map[string]string](t, rr)["error"])
}

func TestCompleteLevel_Flow(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rr := do(t, s, http.MethodPost, "/api/topics/g4-topic1/levels/1/complete", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Topic           progress.TopicProgress `json:"topic"`
		CompletedLevels []string               `json:"completedLevels"`
		NewBadges       []badgeResponse        `json:"newBadges"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 20, body.Topic.Percent)
	assert.Equal(t, []string{"1"}, body.CompletedLevels)
	require.Len(t, body.NewBadges, 1)
	assert.Equal(t, "first-steps", body.NewBadges[0].ID)
	assert.True(t, body.NewBadges[0].Earned)

	rr = do(t, s, http.MethodGet, "/api/topics/g4-topic1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	detail := decode[app.TopicDetail](t, rr)
	assert.Equal(t, 20, detail.Progress.Percent)
	require.NotEmpty(t, detail.Levels)
	assert.True(t, detail.Levels[0].Completed)
	assert.False(t, detail.Levels[1].Completed)
}

func TestCompleteLevel_Unknown(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rr := do(t, s, http.MethodPost, "/api/topics/nope/levels/1/complete", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, s, http.MethodPost, "/api/topics/g4-topic1/levels/99/complete", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "level not found", decode[map[string]string](t, rr)["error"])

	rr = do(t, s, http.MethodGet, "/api/topics/g4-topic1/levels/1/complete", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestProgressAndBadges(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	do(t, s, http.MethodPost, "/api/topics/g8-topic9/levels/1/complete", nil, "")

	rr := do(t, s, http.MethodGet, "/api/progress", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var sum struct {
		Overall     int                      `json:"overall"`
		Topics      []progress.TopicProgress `json:"topics"`
		Suggestions []struct {
			Topic   progress.TopicProgress `json:"topic"`
			Reason  string                 `json:"reason"`
			Message string                 `json:"message"`
		} `json:"suggestions"`
		BadgesEarned int `json:"badgesEarned"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.BadgesEarned)
	require.NotEmpty(t, sum.Suggestions)
	assert.Equal(t, "g8-topic9", sum.Suggestions[0].Topic.TopicID)
	assert.Equal(t, "closest to finishing", sum.Suggestions[0].Reason)
	assert.NotEmpty(t, sum.Suggestions[0].Message)

	rr = do(t, s, http.MethodGet, "/api/badges", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]badgeResponse](t, rr)
	require.NotEmpty(t, list)
	earned := map[string]bool{}
	for _, b := range list {
		earned[b.ID] = b.Earned
		assert.NotEmpty(t, b.Criterion)
	}
	assert.True(t, earned["first-steps"])
	assert.False(t, earned["algebra-ace"])
}

func TestSuggestions_Limit(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rr := do(t, s, http.MethodGet, "/api/suggestions?limit=1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]suggestionResponse](t, rr), 1)

	rr = do(t, s, http.MethodGet, "/api/suggestions?limit=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGradeSettings(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rr := do(t, s, http.MethodGet, "/api/settings/grade", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, completion.DefaultGrade, decode[gradeBody](t, rr).Grade)

	rr = do(t, s, http.MethodPut, "/api/settings/grade", gradeBody{Grade: 6}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, s, http.MethodGet, "/api/settings/grade", nil, "")
	assert.Equal(t, 6, decode[gradeBody](t, rr).Grade)

	rr = do(t, s, http.MethodPut, "/api/settings/grade", gradeBody{Grade: 2}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/settings/grade", bytes.NewBufferString(`{"grade":"six"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdentity_ScopesRecords(t *testing.T) {
	s := newTestServer(t, nil, Options{JWTSecret: testSecret})

	alice, err := signToken([]byte(testSecret), "alice", time.Hour)
	require.NoError(t, err)
	bob, err := signToken([]byte(testSecret), "bob", time.Hour)
	require.NoError(t, err)

	rr := do(t, s, http.MethodPost, "/api/topics/g4-topic1/levels/1/complete", nil, alice)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, s, http.MethodGet, "/api/topics/g4-topic1", nil, alice)
	assert.Equal(t, 20, decode[app.TopicDetail](t, rr).Progress.Percent)

	rr = do(t, s, http.MethodGet, "/api/topics/g4-topic1", nil, bob)
	assert.Equal(t, 0, decode[app.TopicDetail](t, rr).Progress.Percent)

	rr = do(t, s, http.MethodGet, "/api/topics/g4-topic1", nil, "")
	assert.Equal(t, 0, decode[app.TopicDetail](t, rr).Progress.Percent)
}

func TestIdentity_RejectsBadTokens(t *testing.T) {
	s := newTestServer(t, nil, Options{JWTSecret: testSecret})

	forged, err := signToken([]byte("other-secret"), "alice", time.Hour)
	require.NoError(t, err)
	expired, err := signToken([]byte(testSecret), "alice", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"wrong secret", "Bearer " + forged, "Invalid token"},
		{"expired", "Bearer " + expired, "Token has expired"},
		{"garbage", "Bearer not-a-jwt", "Invalid token"},
		{"bad scheme", "Basic abc", "Invalid Authorization header format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/badges", nil)
			req.Header.Set("Authorization", tt.header)
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, tt.want, decode[map[string]string](t, rr)["error"])
		})
	}
}

func TestIdentity_IgnoredWithoutSecret(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	rr := do(t, s, http.MethodGet, "/api/badges", nil, "whatever")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"detailedExplanation":"### Step-by-Step Solution\nAdd.","videoExplanationUrl":""}`))
	s := newTestServer(t, mock, Options{})

	rr := do(t, s, http.MethodPost, "/api/tutor/explain", tutor.ExplainRequest{
		Problem: "2+2", GradeLevel: "4", Topic: "Addition",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get(FallbackHeader))

	body := decode[map[string]any](t, rr)
	assert.Contains(t, body["detailedExplanation"], "Step-by-Step")
	_, hasVideo := body["videoExplanationUrl"]
	assert.False(t, hasVideo)
}

func TestExplain_Fallback(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rr := do(t, s, http.MethodPost, "/api/tutor/explain", tutor.ExplainRequest{Problem: "2+2"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, string(tutor.FailureNotConfigured), rr.Header().Get(FallbackHeader))
	assert.Equal(t, tutor.FallbackExplanation, decode[map[string]any](t, rr)["detailedExplanation"])
}

func TestExplain_Validation(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rr := do(t, s, http.MethodPost, "/api/tutor/explain", tutor.ExplainRequest{Problem: "  "}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, s, http.MethodPost, "/api/tutor/explain", map[string]string{"unexpected": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChat(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"answer":"A prime has exactly two divisors."}`))
	s := newTestServer(t, mock, Options{})

	rr := do(t, s, http.MethodPost, "/api/chat", tutor.ChatRequest{Question: "What is a prime?", StudentGrade: 6}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "A prime has exactly two divisors.", decode[map[string]string](t, rr)["answer"])

	req, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Contains(t, req.Messages[0].Content, tutor.DefaultChatTopic)
}

func TestChat_ProviderDown(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	s := newTestServer(t, mock, Options{})

	rr := do(t, s, http.MethodPost, "/api/chat", tutor.ChatRequest{Question: "Why?"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, string(tutor.FailureUnavailable), rr.Header().Get(FallbackHeader))
	assert.Equal(t, tutor.FallbackAnswer, decode[map[string]string](t, rr)["answer"])

	rr = do(t, s, http.MethodPost, "/api/chat", tutor.ChatRequest{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotFound_JSON(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	rr := do(t, s, http.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestAPIRoutes_JSONErrors(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"wrong method", http.MethodDelete, "/api/badges", http.StatusMethodNotAllowed},
		{"wrong method on settings", http.MethodPost, "/api/settings/grade", http.StatusMethodNotAllowed},
		{"unknown api path", http.MethodGet, "/api/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, tt.method, tt.path, nil, "")
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.NotEmpty(t, decode[map[string]string](t, rr)["error"])
		})
	}
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func signToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
