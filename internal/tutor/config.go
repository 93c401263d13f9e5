package tutor

// Config holds generation settings for both request kinds.
type Config struct {
	ExplainMaxTokens int
	ChatMaxTokens    int
	Temperature      float64
}

// DefaultConfig returns the defaults used by the CLI and the API.
func DefaultConfig() Config {
	return Config{
		ExplainMaxTokens: 2048,
		ChatMaxTokens:    512,
		Temperature:      0.4,
	}
}
