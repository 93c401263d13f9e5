// Package app is the application layer shared by the CLI and the HTTP API:
// it loads a learner's completion record and derives every view from it.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abhisek/mathquest/internal/badges"
	"github.com/abhisek/mathquest/internal/catalog"
	"github.com/abhisek/mathquest/internal/completion"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/recommend"
	"github.com/abhisek/mathquest/internal/report"
)

var (
	ErrUnknownTopic = errors.New("unknown topic")
	ErrUnknownLevel = errors.New("unknown level")
)

// Service answers learner queries. It is safe for concurrent use.
type Service struct {
	topics *catalog.Catalog
	badges badges.Catalog
	store  *completion.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Service over the given catalogs and completion store.
func New(topics *catalog.Catalog, bc badges.Catalog, store *completion.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{topics: topics, badges: bc, store: store, logger: logger, now: time.Now}
}

// NewDefault creates a Service over the built-in topic and badge catalogs.
func NewDefault(store *completion.Store, logger *slog.Logger) *Service {
	return New(catalog.Default(), badges.DefaultCatalog(), store, logger)
}

// Catalog returns the topic catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.topics
}

// Record returns the learner's completion record.
func (s *Service) Record(ctx context.Context, user string) completion.Record {
	return s.store.For(user).Load(ctx)
}

// Topics returns progress for every topic, or for one grade when grade is
// non-zero.
func (s *Service) Topics(ctx context.Context, user string, grade int) []progress.TopicProgress {
	list := progress.ForTopics(s.topics.Topics(), s.Record(ctx, user))
	if grade != 0 {
		list = progress.FilterGrade(list, grade)
	}
	return list
}

// TopicDetail is one topic with its level statuses.
type TopicDetail struct {
	Progress    progress.TopicProgress `json:"progress"`
	Description string                 `json:"description"`
	Levels      []progress.LevelStatus `json:"levels"`
}

// Topic returns the detail view of one topic.
func (s *Service) Topic(ctx context.Context, user, topicID string) (TopicDetail, error) {
	t, ok := s.topics.Get(topicID)
	if !ok {
		return TopicDetail{}, ErrUnknownTopic
	}
	rec := s.Record(ctx, user)
	return TopicDetail{
		Progress:    progress.ForTopic(t, rec),
		Description: t.Description,
		Levels:      progress.LevelStatuses(t, rec),
	}, nil
}

// CompleteResult reports the effect of finishing a level.
type CompleteResult struct {
	Topic     progress.TopicProgress `json:"topic"`
	NewBadges []badges.Badge         `json:"-"`
	Record    completion.Record      `json:"-"`
}

// CompleteLevel records a finished level and returns the topic's new
// progress plus any badges it unlocked. Unknown topics and levels are
// rejected before anything is written.
func (s *Service) CompleteLevel(ctx context.Context, user, topicID, levelID string) (CompleteResult, error) {
	t, ok := s.topics.Get(topicID)
	if !ok {
		return CompleteResult{}, ErrUnknownTopic
	}
	if !t.HasLevel(levelID) {
		return CompleteResult{}, ErrUnknownLevel
	}

	prev, rec := s.store.For(user).CompleteLevel(ctx, topicID, levelID)
	before := badges.Evaluate(s.badges, prev)
	after := badges.Evaluate(s.badges, rec)

	res := CompleteResult{Topic: progress.ForTopic(t, rec), Record: rec}
	for _, id := range badges.NewlyEarned(before, after) {
		if b, ok := s.badge(id); ok {
			res.NewBadges = append(res.NewBadges, b)
		}
	}
	if len(res.NewBadges) > 0 {
		s.logger.Info("badges earned", "user", user, "badges", badges.NewlyEarned(before, after))
	}
	return res, nil
}

func (s *Service) badge(id string) (badges.Badge, bool) {
	for _, b := range s.badges.Badges {
		if b.ID == id {
			return b, true
		}
	}
	return badges.Badge{}, false
}

// Summary is the dashboard view.
type Summary struct {
	Overall     int                      `json:"overall"`
	Topics      []progress.TopicProgress `json:"topics"`
	Suggestions []recommend.Suggestion   `json:"suggestions"`
	Earned      int                      `json:"badgesEarned"`
}

// Summary returns overall progress, per-topic progress (one grade when
// grade is non-zero) and suggestions. Overall and suggestions always cover
// the whole catalog.
func (s *Service) Summary(ctx context.Context, user string, grade int) Summary {
	rec := s.Record(ctx, user)
	all := progress.ForTopics(s.topics.Topics(), rec)

	shown := all
	if grade != 0 {
		shown = progress.FilterGrade(all, grade)
	}
	return Summary{
		Overall:     progress.Mean(all),
		Topics:      shown,
		Suggestions: recommend.Suggest(all, recommend.DefaultMax),
		Earned:      len(badges.Evaluate(s.badges, rec)),
	}
}

// Badges returns every badge with its earned flag.
func (s *Service) Badges(ctx context.Context, user string) []badges.Status {
	return badges.Statuses(s.badges, s.Record(ctx, user))
}

// Suggestions returns up to limit study suggestions over the whole
// catalog.
func (s *Service) Suggestions(ctx context.Context, user string, limit int) []recommend.Suggestion {
	return recommend.Suggest(s.Topics(ctx, user, 0), limit)
}

// Grade returns the learner's selected grade.
func (s *Service) Grade(ctx context.Context, user string) int {
	return s.store.Settings(user).Grade(ctx)
}

// SetGrade stores the learner's selected grade.
func (s *Service) SetGrade(ctx context.Context, user string, grade int) error {
	return s.store.Settings(user).SetGrade(ctx, grade)
}

// Snapshot gathers the report view for one learner.
func (s *Service) Snapshot(ctx context.Context, user string) report.Snapshot {
	rec := s.Record(ctx, user)
	list := progress.ForTopics(s.topics.Topics(), rec)
	return report.Snapshot{
		User:        user,
		GeneratedAt: s.now(),
		Grade:       s.Grade(ctx, user),
		Overall:     progress.Mean(list),
		Topics:      list,
		Badges:      badges.Statuses(s.badges, rec),
		Suggestions: recommend.Suggest(list, recommend.DefaultMax),
	}
}
