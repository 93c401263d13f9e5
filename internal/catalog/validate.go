package catalog

import (
	"fmt"
	"strings"
)

// validateTopics checks structural rules on a topic list and returns one
// error listing every problem found.
func validateTopics(topics []Topic) error {
	var errs []string

	seen := make(map[string]bool, len(topics))
	for _, t := range topics {
		if t.ID == "" {
			errs = append(errs, fmt.Sprintf("topic %q has an empty ID", t.Name))
			continue
		}
		if seen[t.ID] {
			errs = append(errs, fmt.Sprintf("duplicate topic ID: %q", t.ID))
		}
		seen[t.ID] = true

		if !ValidGrade(t.Grade) {
			errs = append(errs, fmt.Sprintf("topic %q: grade must be in [%d, %d], got %d", t.ID, MinGrade, MaxGrade, t.Grade))
		}
		if t.Name == "" {
			errs = append(errs, fmt.Sprintf("topic %q has an empty name", t.ID))
		}

		// Explicit levels are numbered 1..N in order.
		for i, l := range t.Levels {
			if l.Number != i+1 {
				errs = append(errs, fmt.Sprintf("topic %q level %d: expected number %d, got %d", t.ID, i, i+1, l.Number))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
