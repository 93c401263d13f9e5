package catalog

import "strconv"

// Grade bounds for the curriculum.
const (
	MinGrade = 4
	MaxGrade = 10
)

// DefaultLevelCount is the number of quiz levels assumed for a topic that
// does not declare its own level list.
const DefaultLevelCount = 5

// Level is one quiz stage inside a topic. Levels are identified in
// completion records by the decimal string of Number.
type Level struct {
	Number      int    `yaml:"number" json:"number"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// ID returns the identifier used for this level in completion records.
func (l Level) ID() string {
	return strconv.Itoa(l.Number)
}

// Topic is a unit of curriculum belonging to exactly one grade.
type Topic struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Grade       int     `yaml:"grade" json:"grade"`
	Levels      []Level `yaml:"levels" json:"levels,omitempty"`
}

// TotalLevels returns the number of levels in the topic. A nil level list
// means the topic uses DefaultLevelCount levels; an explicit empty list
// means the topic has none.
func (t Topic) TotalLevels() int {
	if t.Levels == nil {
		return DefaultLevelCount
	}
	return len(t.Levels)
}

// LevelList returns the topic's levels, synthesizing numbered levels when
// the topic relies on the default count.
func (t Topic) LevelList() []Level {
	if t.Levels != nil {
		out := make([]Level, len(t.Levels))
		copy(out, t.Levels)
		return out
	}
	out := make([]Level, DefaultLevelCount)
	for i := range out {
		n := i + 1
		out[i] = Level{Number: n, Title: "Level " + strconv.Itoa(n)}
	}
	return out
}

// HasLevel reports whether levelID names one of the topic's levels.
func (t Topic) HasLevel(levelID string) bool {
	if t.Levels == nil {
		n, err := strconv.Atoi(levelID)
		return err == nil && n >= 1 && n <= DefaultLevelCount && strconv.Itoa(n) == levelID
	}
	for _, l := range t.Levels {
		if l.ID() == levelID {
			return true
		}
	}
	return false
}
