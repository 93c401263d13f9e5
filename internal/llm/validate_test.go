package llm_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/mathquest/internal/llm"
	"github.com/abhisek/mathquest/internal/tutor"
)

func TestValidateResponse_ExplanationSchema(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"with video", `{"detailedExplanation":"### Step-by-Step Solution\n1. Add.","videoExplanationUrl":"https://www.youtube.com/watch?v=abc"}`, false},
		{"empty video means none", `{"detailedExplanation":"### Step-by-Step Solution","videoExplanationUrl":""}`, false},
		{"video field missing", `{"detailedExplanation":"### Step-by-Step Solution"}`, true},
		{"explanation missing", `{"videoExplanationUrl":""}`, true},
		{"explanation wrong type", `{"detailedExplanation":42,"videoExplanationUrl":""}`, true},
		{"extra field", `{"detailedExplanation":"x","videoExplanationUrl":"","confidence":0.9}`, true},
		{"not an object", `["x"]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := llm.ValidateResponse(tutor.ExplanationSchema, json.RawMessage(tt.raw))
			if tt.wantErr {
				var inv *llm.ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateResponse_AnswerSchema(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"answer", `{"answer":"A prime has exactly two divisors."}`, false},
		{"empty answer passes schema", `{"answer":""}`, false},
		{"missing answer", `{}`, true},
		{"answer wrong type", `{"answer":["two"]}`, true},
		{"extra field", `{"answer":"4","topic":"Addition"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := llm.ValidateResponse(tutor.AnswerSchema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateResponse_MalformedJSON(t *testing.T) {
	for _, raw := range []string{`{"answer":`, ``, `answer: 4`} {
		err := llm.ValidateResponse(tutor.AnswerSchema, json.RawMessage(raw))
		var inv *llm.ErrInvalidResponse
		if !errors.As(err, &inv) {
			t.Fatalf("raw %q: expected ErrInvalidResponse, got %v", raw, err)
		}
		if string(inv.Content) != raw {
			t.Fatalf("raw %q: Content = %q", raw, inv.Content)
		}
	}
}

func TestValidateResponse_NilSchemaAcceptsAnything(t *testing.T) {
	if err := llm.ValidateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("expected no error with nil schema, got %v", err)
	}
}

func TestValidateResponse_BrokenSchemaIsInvalidResponse(t *testing.T) {
	schema := &llm.Schema{
		Name:       "broken-schema",
		Definition: map[string]any{"type": "no-such-type"},
	}
	err := llm.ValidateResponse(schema, json.RawMessage(`{}`))
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestMockProvider_EnforcesTutorSchema(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"detailedExplanation":"### Step-by-Step Solution"}`))
	_, err := mock.Generate(t.Context(), llm.Request{Schema: tutor.ExplanationSchema})
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse for missing video field, got %v", err)
	}
}
