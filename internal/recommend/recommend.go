// Package recommend picks the next topics to study from a progress list.
package recommend

import (
	"slices"

	"github.com/abhisek/mathquest/internal/progress"
)

// DefaultMax is the suggestion cap used by the app surfaces.
const DefaultMax = 3

// Reason explains why a topic was suggested.
type Reason string

const (
	ReasonClosestToFinishing Reason = "closest to finishing"
	ReasonExpandSkills       Reason = "expand skills"
	ReasonReviewForMastery   Reason = "review for mastery"
)

// Message returns the learner-facing sentence for a reason.
func (r Reason) Message() string {
	switch r {
	case ReasonClosestToFinishing:
		return "You're close! Keep up the momentum on this topic."
	case ReasonExpandSkills:
		return "A great topic to start next and expand your skills."
	case ReasonReviewForMastery:
		return "Great job completing topics! Why not review this one for mastery?"
	default:
		return string(r)
	}
}

// Suggestion is one recommended topic.
type Suggestion struct {
	Topic  progress.TopicProgress `json:"topic"`
	Reason Reason                 `json:"reason"`
}

// Suggest returns at most limit suggestions from list, which must be in
// catalog order. The first in-progress topic with the lowest percent comes
// first, then the first topic not yet started. When neither exists the
// lowest-percent topic is offered for review.
func Suggest(list []progress.TopicProgress, limit int) []Suggestion {
	if limit <= 0 {
		return nil
	}
	var out []Suggestion

	var inProgress []progress.TopicProgress
	for _, p := range list {
		if p.State() == progress.InProgress {
			inProgress = append(inProgress, p)
		}
	}
	slices.SortStableFunc(inProgress, func(a, b progress.TopicProgress) int {
		return a.Percent - b.Percent
	})
	if len(inProgress) > 0 {
		out = append(out, Suggestion{Topic: inProgress[0], Reason: ReasonClosestToFinishing})
	}

	if len(out) < limit {
		for _, p := range list {
			if p.State() == progress.NotStarted {
				out = append(out, Suggestion{Topic: p, Reason: ReasonExpandSkills})
				break
			}
		}
	}

	if len(out) == 0 && len(list) > 0 {
		lowest := list[0]
		for _, p := range list[1:] {
			if p.Percent < lowest.Percent {
				lowest = p
			}
		}
		out = append(out, Suggestion{Topic: lowest, Reason: ReasonReviewForMastery})
	}
	return out
}
