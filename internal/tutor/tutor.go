// Package tutor turns student questions into model requests and always
// hands back a displayable reply, substituting fixed fallback text when the
// model cannot be used.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/abhisek/mathquest/internal/llm"
)

// Fallback texts shown when no usable reply is available.
const (
	FallbackExplanation = "I'm sorry, I'm currently unable to generate an explanation due to high demand. Please try again in a few moments."
	FallbackAnswer      = "Sorry, I'm having trouble connecting right now. Please try again later."
)

// DefaultChatTopic labels chat questions asked outside a topic page.
const DefaultChatTopic = "General Math"

// FailureKind classifies why a fallback was used.
type FailureKind string

const (
	FailureNotConfigured   FailureKind = "not_configured"
	FailureUnavailable     FailureKind = "unavailable"
	FailureInvalidResponse FailureKind = "invalid_response"
)

// Failure describes a degraded reply.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// ExplainRequest asks for a worked explanation of one problem.
type ExplainRequest struct {
	Problem    string `json:"problem"`
	GradeLevel string `json:"gradeLevel"`
	Topic      string `json:"topic"`
}

// Explanation is the reply shown to the student. VideoExplanationURL is
// empty or an absolute http(s) URL.
type Explanation struct {
	DetailedExplanation string `json:"detailedExplanation"`
	VideoExplanationURL string `json:"videoExplanationUrl,omitempty"`
}

// ExplainResult always carries a displayable Explanation. Failure is set
// when the fallback text was substituted.
type ExplainResult struct {
	Explanation
	Failure *Failure `json:"-"`
}

// ChatRequest is one free-text question.
type ChatRequest struct {
	Question     string `json:"question"`
	StudentGrade int    `json:"studentGrade"`
	Topic        string `json:"topic"`
}

// ChatResult always carries a displayable Answer.
type ChatResult struct {
	Answer  string   `json:"answer"`
	Failure *Failure `json:"-"`
}

// Tutor serves tutoring and chat requests through a Provider. A Tutor with
// a nil provider answers every request with the fallback texts.
type Tutor struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger
}

// New creates a Tutor. provider may be nil.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Tutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tutor{provider: provider, cfg: cfg, logger: logger}
}

// Configured reports whether a provider is attached.
func (t *Tutor) Configured() bool {
	return t != nil && t.provider != nil
}

// Explain returns a structured explanation of req.Problem.
func (t *Tutor) Explain(ctx context.Context, req ExplainRequest) ExplainResult {
	var out Explanation
	fail := t.generate(llm.WithPurpose(ctx, llm.PurposeTutoring), llm.Request{
		System:      explainSystemPrompt,
		Messages:    llm.UserMessage(buildExplainUserMessage(req)),
		Schema:      ExplanationSchema,
		MaxTokens:   t.cfg.ExplainMaxTokens,
		Temperature: t.cfg.Temperature,
	}, &out)

	if fail == nil && strings.TrimSpace(out.DetailedExplanation) == "" {
		fail = &Failure{Kind: FailureInvalidResponse, Err: errors.New("empty explanation")}
	}
	if fail != nil {
		t.logFailure("explain", req.Topic, fail)
		return ExplainResult{
			Explanation: Explanation{DetailedExplanation: FallbackExplanation},
			Failure:     fail,
		}
	}

	out.VideoExplanationURL = repairVideoURL(out.VideoExplanationURL)
	return ExplainResult{Explanation: out}
}

// Ask answers a chat question. An empty topic is treated as
// DefaultChatTopic.
func (t *Tutor) Ask(ctx context.Context, req ChatRequest) ChatResult {
	if strings.TrimSpace(req.Topic) == "" {
		req.Topic = DefaultChatTopic
	}

	var out struct {
		Answer string `json:"answer"`
	}
	fail := t.generate(llm.WithPurpose(ctx, llm.PurposeChat), llm.Request{
		System:      chatSystemPrompt,
		Messages:    llm.UserMessage(buildChatUserMessage(req)),
		Schema:      AnswerSchema,
		MaxTokens:   t.cfg.ChatMaxTokens,
		Temperature: t.cfg.Temperature,
	}, &out)

	if fail == nil && strings.TrimSpace(out.Answer) == "" {
		fail = &Failure{Kind: FailureInvalidResponse, Err: errors.New("empty answer")}
	}
	if fail != nil {
		t.logFailure("chat", req.Topic, fail)
		return ChatResult{Answer: FallbackAnswer, Failure: fail}
	}
	return ChatResult{Answer: out.Answer}
}

// generate performs one provider call and decodes the reply into dst.
// Provider panics are reported as unavailability.
func (t *Tutor) generate(ctx context.Context, req llm.Request, dst any) (fail *Failure) {
	if !t.Configured() {
		return &Failure{Kind: FailureNotConfigured, Err: llm.ErrNotConfigured}
	}

	defer func() {
		if r := recover(); r != nil {
			fail = &Failure{Kind: FailureUnavailable, Err: fmt.Errorf("provider panic: %v", r)}
		}
	}()

	resp, err := t.provider.Generate(ctx, req)
	if err != nil {
		return classify(err)
	}
	if resp == nil {
		return &Failure{Kind: FailureInvalidResponse, Err: errors.New("nil response")}
	}
	if err := json.Unmarshal(resp.Content, dst); err != nil {
		return &Failure{Kind: FailureInvalidResponse, Err: fmt.Errorf("decode reply: %w", err)}
	}
	return nil
}

func classify(err error) *Failure {
	var (
		inv    *llm.ErrInvalidResponse
		maxTok *llm.ErrMaxTokensExceeded
	)
	if errors.As(err, &inv) || errors.As(err, &maxTok) {
		return &Failure{Kind: FailureInvalidResponse, Err: err}
	}
	return &Failure{Kind: FailureUnavailable, Err: err}
}

func (t *Tutor) logFailure(op, topic string, fail *Failure) {
	t.logger.Warn("tutor fallback", "op", op, "topic", topic, "kind", string(fail.Kind), "error", fail.Err)
}

// repairVideoURL keeps only absolute http(s) URLs with a host.
func repairVideoURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String()
	}
	return ""
}
