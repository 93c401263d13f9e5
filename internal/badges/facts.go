package badges

import (
	"github.com/abhisek/mathquest/internal/catalog"
	"github.com/abhisek/mathquest/internal/completion"
	"github.com/abhisek/mathquest/internal/progress"
)

// Facts are the aggregates every criterion is judged against. They are
// derived once per evaluation from the topic catalog and a record, and
// only topics present in the catalog contribute.
type Facts struct {
	TotalLevelsCompleted int
	CompletedTopics      map[string]bool
	CompletedGrades      map[int]bool
}

// DeriveFacts computes the aggregates for a record.
func DeriveFacts(topics []catalog.Topic, rec completion.Record) Facts {
	f := Facts{
		CompletedTopics: make(map[string]bool),
		CompletedGrades: make(map[int]bool),
	}

	byGrade := make(map[int][]string)
	for _, t := range topics {
		done := progress.CompletedLevels(t, rec)
		f.TotalLevelsCompleted += done

		// A topic with no levels can never be completed.
		if total := t.TotalLevels(); total > 0 && done >= total {
			f.CompletedTopics[t.ID] = true
		}
		byGrade[t.Grade] = append(byGrade[t.Grade], t.ID)
	}

	// Only grades that own at least one topic appear in byGrade.
	for grade, ids := range byGrade {
		all := true
		for _, id := range ids {
			if !f.CompletedTopics[id] {
				all = false
				break
			}
		}
		if all {
			f.CompletedGrades[grade] = true
		}
	}
	return f
}
