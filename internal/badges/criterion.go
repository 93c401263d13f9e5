package badges

import "fmt"

// Criterion is the unlock rule of a badge. The set of variants is closed:
// LevelsCompleted, TopicCompleted and GradeCompleted.
type Criterion interface {
	satisfiedBy(f Facts) bool
	fmt.Stringer
}

// LevelsCompleted is met once the learner has finished at least Threshold
// levels across all topics.
type LevelsCompleted struct {
	Threshold int
}

func (c LevelsCompleted) satisfiedBy(f Facts) bool {
	return f.TotalLevelsCompleted >= c.Threshold
}

func (c LevelsCompleted) String() string {
	return fmt.Sprintf("complete %d levels", c.Threshold)
}

// TopicCompleted is met when the named topic is fully complete. An empty
// TopicID matches any topic.
type TopicCompleted struct {
	TopicID string
}

func (c TopicCompleted) satisfiedBy(f Facts) bool {
	if c.TopicID == "" {
		return len(f.CompletedTopics) > 0
	}
	return f.CompletedTopics[c.TopicID]
}

func (c TopicCompleted) String() string {
	if c.TopicID == "" {
		return "complete any topic"
	}
	return "complete topic " + c.TopicID
}

// GradeCompleted is met when every topic of the grade is complete. A zero
// Grade matches any grade.
type GradeCompleted struct {
	Grade int
}

func (c GradeCompleted) satisfiedBy(f Facts) bool {
	if c.Grade == 0 {
		return len(f.CompletedGrades) > 0
	}
	return f.CompletedGrades[c.Grade]
}

func (c GradeCompleted) String() string {
	if c.Grade == 0 {
		return "complete any grade"
	}
	return fmt.Sprintf("complete grade %d", c.Grade)
}
