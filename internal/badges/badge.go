// Package badges derives which achievement badges a learner has earned.
// Earned status is never stored; it is recomputed from the completion
// record and the topic catalog on every evaluation.
package badges

import (
	"slices"

	"github.com/abhisek/mathquest/internal/catalog"
	"github.com/abhisek/mathquest/internal/completion"
)

// Badge is a static achievement definition.
type Badge struct {
	ID          string
	Name        string
	Description string
	Criterion   Criterion
}

// Catalog bundles what an evaluation is judged against.
type Catalog struct {
	Topics []catalog.Topic
	Badges []Badge
}

// Set is a set of earned badge IDs.
type Set map[string]bool

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	return s[id]
}

// IDs returns the members sorted.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Evaluate returns the IDs of the badges whose criterion the record
// satisfies.
func Evaluate(c Catalog, rec completion.Record) Set {
	f := DeriveFacts(c.Topics, rec)
	earned := make(Set)
	for _, b := range c.Badges {
		if b.Criterion != nil && b.Criterion.satisfiedBy(f) {
			earned[b.ID] = true
		}
	}
	return earned
}

// Status is a badge with its earned flag.
type Status struct {
	Badge
	Earned bool
}

// Statuses lists every badge of the catalog in order with its earned flag.
func Statuses(c Catalog, rec completion.Record) []Status {
	earned := Evaluate(c, rec)
	out := make([]Status, len(c.Badges))
	for i, b := range c.Badges {
		out[i] = Status{Badge: b, Earned: earned[b.ID]}
	}
	return out
}

// NewlyEarned returns the IDs present in after but not in before, sorted.
func NewlyEarned(before, after Set) []string {
	var out []string
	for _, id := range after.IDs() {
		if !before[id] {
			out = append(out, id)
		}
	}
	return out
}
