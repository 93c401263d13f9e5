package completion

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/abhisek/mathquest/internal/catalog"
)

// GradeKey is the storage key of the preferred grade.
const GradeKey = "userGrade"

// DefaultGrade is used until the learner picks a grade.
const DefaultGrade = 8

// ErrInvalidGrade is returned by SetGrade for grades outside the catalog.
var ErrInvalidGrade = errors.New("invalid grade")

// Settings reads and writes learner preferences.
type Settings struct {
	store *Store
	key   string
}

// Settings returns the preference accessor for a user.
func (s *Store) Settings(userID string) *Settings {
	return &Settings{store: s, key: scopedKey(GradeKey, userID)}
}

// Grade returns the stored grade, or DefaultGrade when it is missing,
// unreadable, or outside the curriculum range.
func (s *Settings) Grade(ctx context.Context) int {
	raw, found, err := s.store.kv.Get(ctx, s.key)
	if err != nil {
		s.store.logger.Warn("read grade setting", "key", s.key, "error", err)
		return DefaultGrade
	}
	if !found {
		return DefaultGrade
	}
	g, err := strconv.Atoi(raw)
	if err != nil || !catalog.ValidGrade(g) {
		s.store.logger.Warn("discarding grade setting", "key", s.key, "value", raw)
		return DefaultGrade
	}
	return g
}

// SetGrade stores the preferred grade.
func (s *Settings) SetGrade(ctx context.Context, grade int) error {
	if !catalog.ValidGrade(grade) {
		return fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidGrade, catalog.MinGrade, catalog.MaxGrade, grade)
	}
	if err := s.store.kv.Set(ctx, s.key, strconv.Itoa(grade)); err != nil {
		s.store.logger.Warn("write grade setting", "key", s.key, "error", err)
		return fmt.Errorf("save grade: %w", err)
	}
	return nil
}
