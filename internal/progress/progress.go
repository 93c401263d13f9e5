// Package progress turns a completion record into per-topic and overall
// completion percentages.
package progress

import (
	"github.com/abhisek/mathquest/internal/catalog"
	"github.com/abhisek/mathquest/internal/completion"
)

// TopicProgress is the derived completion state of one topic.
type TopicProgress struct {
	TopicID   string `json:"topicId"`
	Name      string `json:"name"`
	Grade     int    `json:"grade"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}

// State classifies a topic by its percent.
type State int

const (
	NotStarted State = iota
	InProgress
	Complete
)

// State returns the topic's completion state. It follows the rounded
// Percent so the state always matches the displayed value.
func (p TopicProgress) State() State {
	switch {
	case p.Percent <= 0:
		return NotStarted
	case p.Percent >= 100:
		return Complete
	default:
		return InProgress
	}
}

// CompletedLevels counts the distinct record entries for the topic that
// name one of its levels. Unknown level IDs are ignored so the count never
// exceeds TotalLevels.
func CompletedLevels(topic catalog.Topic, rec completion.Record) int {
	n := 0
	seen := make(map[string]bool)
	for _, id := range rec[topic.ID] {
		if seen[id] || !topic.HasLevel(id) {
			continue
		}
		seen[id] = true
		n++
	}
	return n
}

// TopicPercent returns round(100 * completed / total), or 0 for a topic
// with no levels.
func TopicPercent(topic catalog.Topic, rec completion.Record) int {
	return percent(CompletedLevels(topic, rec), topic.TotalLevels())
}

// percent rounds 100*n/d half up using integer arithmetic.
func percent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return (200*n + d) / (2 * d)
}

// ForTopic derives the progress of one topic.
func ForTopic(topic catalog.Topic, rec completion.Record) TopicProgress {
	done := CompletedLevels(topic, rec)
	total := topic.TotalLevels()
	return TopicProgress{
		TopicID:   topic.ID,
		Name:      topic.Name,
		Grade:     topic.Grade,
		Completed: done,
		Total:     total,
		Percent:   percent(done, total),
	}
}

// ForTopics derives progress for every topic, preserving input order.
func ForTopics(topics []catalog.Topic, rec completion.Record) []TopicProgress {
	out := make([]TopicProgress, len(topics))
	for i, t := range topics {
		out[i] = ForTopic(t, rec)
	}
	return out
}

// Overall is the rounded mean of the topic percents, or 0 for no topics.
func Overall(topics []catalog.Topic, rec completion.Record) int {
	return Mean(ForTopics(topics, rec))
}

// Mean is the rounded mean percent of a progress list.
func Mean(list []TopicProgress) int {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, p := range list {
		sum += p.Percent
	}
	return percent(sum, 100*len(list))
}

// FilterGrade keeps the entries of one grade.
func FilterGrade(list []TopicProgress, grade int) []TopicProgress {
	var out []TopicProgress
	for _, p := range list {
		if p.Grade == grade {
			out = append(out, p)
		}
	}
	return out
}
