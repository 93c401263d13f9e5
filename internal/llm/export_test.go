package llm

// ValidateResponse exposes validateResponse to the external test package.
var ValidateResponse = validateResponse

// testSchema is a small learner profile used by the provider tests.
func testSchema() *Schema {
	return &Schema{
		Name:        "test-learner",
		Description: "A learner profile",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"grade": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
			},
			"required": []any{"name", "age"},
		},
	}
}
