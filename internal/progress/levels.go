package progress

import (
	"github.com/abhisek/mathquest/internal/catalog"
	"github.com/abhisek/mathquest/internal/completion"
)

// LevelStatus pairs a level with whether the learner finished it.
type LevelStatus struct {
	catalog.Level
	Completed bool `json:"completed"`
}

// Label returns the status text shown next to a level.
func (s LevelStatus) Label() string {
	if s.Completed {
		return "Completed"
	}
	return "Not Started"
}

// LevelStatuses lists the levels of a topic in order with their status.
func LevelStatuses(topic catalog.Topic, rec completion.Record) []LevelStatus {
	levels := topic.LevelList()
	out := make([]LevelStatus, len(levels))
	for i, l := range levels {
		out[i] = LevelStatus{Level: l, Completed: rec.Has(topic.ID, l.ID())}
	}
	return out
}
