package tutor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/abhisek/mathquest/internal/llm"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTutor(p llm.Provider) *Tutor {
	return New(p, DefaultConfig(), quietLogger())
}

func sampleExplain() ExplainRequest {
	return ExplainRequest{Problem: "What is 3/4 + 1/8?", GradeLevel: "6", Topic: "Fractions"}
}

func TestExplain_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{
		"detailedExplanation": "### Step-by-Step Solution\n1. Use eighths...",
		"videoExplanationUrl": "https://www.youtube.com/watch?v=abc123"
	}`))
	tu := newTestTutor(mock)

	res := tu.Explain(context.Background(), sampleExplain())
	if res.Failure != nil {
		t.Fatalf("unexpected failure: %v", res.Failure)
	}
	if !strings.HasPrefix(res.DetailedExplanation, "### Step-by-Step Solution") {
		t.Errorf("unexpected explanation: %q", res.DetailedExplanation)
	}
	if res.VideoExplanationURL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("unexpected video url: %q", res.VideoExplanationURL)
	}

	req, _ := mock.LastRequest()
	if req.Schema != ExplanationSchema {
		t.Error("expected the explanation schema on the request")
	}
	if !strings.Contains(req.Messages[0].Content, "What is 3/4 + 1/8?") {
		t.Error("expected the problem in the user message")
	}
	if !strings.Contains(req.Messages[0].Content, "Grade Level: 6") {
		t.Error("expected the grade in the user message")
	}
}

func TestExplain_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
		kind FailureKind
	}{
		{"provider down", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}}, FailureUnavailable},
		{"rate limited", llm.MockResponse{Err: &llm.ErrRateLimit{}}, FailureUnavailable},
		{"network error", llm.MockResponse{Err: errors.New("dial tcp: refused")}, FailureUnavailable},
		{"malformed json", llm.MockText(`{"detailedExplanation":`), FailureInvalidResponse},
		{"schema violation", llm.MockText(`{"detailedExplanation": 42, "videoExplanationUrl": ""}`), FailureInvalidResponse},
		{"empty explanation", llm.MockText(`{"detailedExplanation": "  ", "videoExplanationUrl": "https://example.com/v"}`), FailureInvalidResponse},
		{"truncated", llm.MockResponse{Err: &llm.ErrMaxTokensExceeded{}}, FailureInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu := newTestTutor(llm.NewMockProvider(tt.resp))
			res := tu.Explain(context.Background(), sampleExplain())

			if res.DetailedExplanation != FallbackExplanation {
				t.Errorf("expected fallback explanation, got %q", res.DetailedExplanation)
			}
			if res.VideoExplanationURL != "" {
				t.Errorf("expected no video url, got %q", res.VideoExplanationURL)
			}
			if res.Failure == nil || res.Failure.Kind != tt.kind {
				t.Errorf("expected failure kind %q, got %+v", tt.kind, res.Failure)
			}
		})
	}
}

func TestExplain_NotConfigured(t *testing.T) {
	tu := newTestTutor(nil)
	if tu.Configured() {
		t.Fatal("tutor without provider should not be configured")
	}

	res := tu.Explain(context.Background(), sampleExplain())
	if res.DetailedExplanation != FallbackExplanation || res.VideoExplanationURL != "" {
		t.Fatalf("unexpected result: %+v", res.Explanation)
	}
	if res.Failure == nil || res.Failure.Kind != FailureNotConfigured {
		t.Fatalf("expected not_configured, got %+v", res.Failure)
	}
	if !errors.Is(res.Failure, llm.ErrNotConfigured) {
		t.Error("expected failure to wrap llm.ErrNotConfigured")
	}
}

type panickingProvider struct{}

func (panickingProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	panic("boom")
}

func (panickingProvider) ModelID() string { return "panic" }

func TestExplain_ProviderPanicIsContained(t *testing.T) {
	res := newTestTutor(panickingProvider{}).Explain(context.Background(), sampleExplain())
	if res.DetailedExplanation != FallbackExplanation {
		t.Fatalf("expected fallback, got %q", res.DetailedExplanation)
	}
	if res.Failure == nil || res.Failure.Kind != FailureUnavailable {
		t.Fatalf("expected unavailable, got %+v", res.Failure)
	}
}

func TestExplain_BadVideoURLIsDropped(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{
		"detailedExplanation": "Add the numerators.",
		"videoExplanationUrl": "not a url"
	}`))
	res := newTestTutor(mock).Explain(context.Background(), sampleExplain())
	if res.Failure != nil {
		t.Fatalf("unexpected failure: %v", res.Failure)
	}
	if res.DetailedExplanation != "Add the numerators." {
		t.Errorf("unexpected explanation: %q", res.DetailedExplanation)
	}
	if res.VideoExplanationURL != "" {
		t.Errorf("expected url to be dropped, got %q", res.VideoExplanationURL)
	}
}

func TestRepairVideoURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"https://youtu.be/xyz", "https://youtu.be/xyz"},
		{"  http://example.com/watch?v=1  ", "http://example.com/watch?v=1"},
		{"HTTPS://www.youtube.com/watch?v=2", "https://www.youtube.com/watch?v=2"},
		{"ftp://example.com/video", ""},
		{"javascript:alert(1)", ""},
		{"www.youtube.com/watch?v=3", ""},
		{"/relative/path", ""},
		{"https://", ""},
	}
	for _, tt := range tests {
		if got := repairVideoURL(tt.in); got != tt.want {
			t.Errorf("repairVideoURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAsk_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"answer":"7 x 8 = 56"}`))
	tu := newTestTutor(mock)

	res := tu.Ask(context.Background(), ChatRequest{Question: "What is 7 times 8?", StudentGrade: 4})
	if res.Failure != nil {
		t.Fatalf("unexpected failure: %v", res.Failure)
	}
	if res.Answer != "7 x 8 = 56" {
		t.Errorf("unexpected answer: %q", res.Answer)
	}

	req, _ := mock.LastRequest()
	msg := req.Messages[0].Content
	if !strings.Contains(msg, "Topic: General Math") {
		t.Errorf("expected default topic in message, got %q", msg)
	}
	if !strings.Contains(msg, "Student grade: 4") {
		t.Errorf("expected grade in message, got %q", msg)
	}
}

func TestAsk_Fallback(t *testing.T) {
	tests := []struct {
		name string
		p    llm.Provider
		kind FailureKind
	}{
		{"no provider", nil, FailureNotConfigured},
		{"empty queue", llm.NewMockProvider(), FailureUnavailable},
		{"empty answer", llm.NewMockProvider(llm.MockText(`{"answer":""}`)), FailureInvalidResponse},
		{"missing answer", llm.NewMockProvider(llm.MockText(`{"reply":"hi"}`)), FailureInvalidResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestTutor(tt.p).Ask(context.Background(), ChatRequest{Question: "hi", Topic: "Algebra"})
			if res.Answer != FallbackAnswer {
				t.Errorf("expected fallback, got %q", res.Answer)
			}
			if res.Failure == nil || res.Failure.Kind != tt.kind {
				t.Errorf("expected kind %q, got %+v", tt.kind, res.Failure)
			}
		})
	}
}

func TestPurposeIsTagged(t *testing.T) {
	var purposes []string
	p := purposeSpy{fn: func(ctx context.Context) { purposes = append(purposes, llm.PurposeFrom(ctx)) }}
	tu := newTestTutor(p)

	tu.Explain(context.Background(), sampleExplain())
	tu.Ask(context.Background(), ChatRequest{Question: "hi"})

	if len(purposes) != 2 || purposes[0] != llm.PurposeTutoring || purposes[1] != llm.PurposeChat {
		t.Fatalf("unexpected purposes: %v", purposes)
	}
}

type purposeSpy struct {
	fn func(context.Context)
}

func (s purposeSpy) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	s.fn(ctx)
	return nil, &llm.ErrProviderUnavailable{}
}

func (purposeSpy) ModelID() string { return "spy" }
