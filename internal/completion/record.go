// Package completion persists which quiz levels a learner has finished.
package completion

import "slices"

// Record maps a topic ID to the IDs of the levels completed in it. Each
// level list behaves as a set kept in completion order.
type Record map[string][]string

// Clone returns a deep copy of r. The copy of a nil record is empty.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for topicID, levels := range r {
		out[topicID] = slices.Clone(levels)
	}
	return out
}

// Levels returns the completed level IDs of a topic.
func (r Record) Levels(topicID string) []string {
	return slices.Clone(r[topicID])
}

// Has reports whether the level is recorded as complete.
func (r Record) Has(topicID, levelID string) bool {
	return slices.Contains(r[topicID], levelID)
}

// Count returns the number of level entries across all topics.
func (r Record) Count() int {
	n := 0
	for _, levels := range r {
		n += len(levels)
	}
	return n
}

// add records levelID under topicID. It reports whether r changed.
func (r Record) add(topicID, levelID string) bool {
	levels, ok := r[topicID]
	if ok && slices.Contains(levels, levelID) {
		return false
	}
	r[topicID] = append(levels, levelID)
	return true
}

// dedupe drops repeated level IDs, keeping first occurrences.
func dedupe(r Record) Record {
	out := make(Record, len(r))
	for topicID, levels := range r {
		set := make([]string, 0, len(levels))
		for _, l := range levels {
			if !slices.Contains(set, l) {
				set = append(set, l)
			}
		}
		out[topicID] = set
	}
	return out
}
