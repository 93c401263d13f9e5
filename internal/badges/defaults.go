package badges

import "github.com/abhisek/mathquest/internal/catalog"

// Default returns the built-in badge list in display order.
func Default() []Badge {
	return []Badge{
		{
			ID:          "first-steps",
			Name:        "First Steps",
			Description: "Complete your first quiz level.",
			Criterion:   LevelsCompleted{Threshold: 1},
		},
		{
			ID:          "quick-learner",
			Name:        "Quick Learner",
			Description: "Complete 5 quiz levels.",
			Criterion:   LevelsCompleted{Threshold: 5},
		},
		{
			ID:          "topic-explorer",
			Name:        "Topic Explorer",
			Description: "Master your first topic by completing all its levels.",
			Criterion:   TopicCompleted{},
		},
		{
			ID:          "algebra-ace",
			Name:        "Algebra Ace",
			Description: "Complete the Grade 8 Algebra topic.",
			Criterion:   TopicCompleted{TopicID: "g8-topic9"},
		},
		{
			ID:          "geometry-genius",
			Name:        "Geometry Genius",
			Description: "Complete the Grade 7 Practical Geometry topic.",
			Criterion:   TopicCompleted{TopicID: "g7-topic10"},
		},
		{
			ID:          "probability-pro",
			Name:        "Probability Pro",
			Description: "Complete the Grade 9 Probability topic.",
			Criterion:   TopicCompleted{TopicID: "g9-topic15"},
		},
		{
			ID:          "numbers-ninja",
			Name:        "Numbers Ninja",
			Description: "Complete the Grade 10 Real Numbers topic.",
			Criterion:   TopicCompleted{TopicID: "g10-topic1"},
		},
		{
			ID:          "unstoppable",
			Name:        "Unstoppable",
			Description: "Complete 25 quiz levels.",
			Criterion:   LevelsCompleted{Threshold: 25},
		},
		{
			ID:          "grade-8-grad",
			Name:        "Grade 8 Graduate",
			Description: "Complete all topics in Grade 8.",
			Criterion:   GradeCompleted{Grade: 8},
		},
	}
}

// DefaultCatalog pairs the built-in badges with the embedded topics.
func DefaultCatalog() Catalog {
	return Catalog{Topics: catalog.Default().Topics(), Badges: Default()}
}
