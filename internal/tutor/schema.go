package tutor

import "github.com/abhisek/mathquest/internal/llm"

// ExplanationSchema is the structured reply for a tutoring request. The URL
// is always present so strict providers accept the schema; an empty string
// means no video.
var ExplanationSchema = &llm.Schema{
	Name:        "tutor-explanation",
	Description: "A structured explanation of a math problem with an optional video link",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"detailedExplanation": map[string]any{
				"type":        "string",
				"description": `Markdown explanation with the sections "### Step-by-Step Solution", "### Alternative Methods" and "### Real-Life Context"`,
			},
			"videoExplanationUrl": map[string]any{
				"type":        "string",
				"description": "URL of a relevant video from a reputable educational channel, or an empty string",
			},
		},
		"required":             []any{"detailedExplanation", "videoExplanationUrl"},
		"additionalProperties": false,
	},
}

// AnswerSchema is the structured reply for a chat question.
var AnswerSchema = &llm.Schema{
	Name:        "chat-answer",
	Description: "A short answer to a student's math question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"description": "The answer, written for the student's grade",
			},
		},
		"required":             []any{"answer"},
		"additionalProperties": false,
	},
}
