package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/repository"
)

// TagPreference pairs a tag with the user's current interest level for the
// preferences form: the full vocabulary is shown, absent rows as level 0.
type TagPreference struct {
	Tag   model.Tag `json:"tag"`
	Level int       `json:"level"`
}

// PreferenceService exposes the user's accumulated tag interests and the
// explicit bulk-replace path.
//
// TWO DISTINCT WRITE PATHS, ON PURPOSE:
// Rating an event ACCUMULATES interest (handled inside the review
// submission transaction, not here). The preferences form REPLACES the
// user's interest rows wholesale. The duality is intentional and the two
// paths are kept separate.
type PreferenceService struct {
	interests repository.InterestRepository
	tags      repository.TagRepository
	logger    *slog.Logger
}

func NewPreferenceService(
	interests repository.InterestRepository,
	tags repository.TagRepository,
	logger *slog.Logger,
) *PreferenceService {
	return &PreferenceService{
		interests: interests,
		tags:      tags,
		logger:    logger,
	}
}

// Preferences returns the full tag vocabulary with the user's current
// interest level per tag (0 where no row exists).
func (s *PreferenceService) Preferences(ctx context.Context, userID string) ([]TagPreference, error) {
	vocabulary, err := s.tags.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	levels, err := s.interests.InterestsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading interests: %w", err)
	}

	prefs := make([]TagPreference, 0, len(vocabulary))
	for _, t := range vocabulary {
		prefs = append(prefs, TagPreference{Tag: t, Level: levels[t.ID]})
	}
	return prefs, nil
}

// Interests returns the raw tagID → level mapping for the user.
func (s *PreferenceService) Interests(ctx context.Context, userID string) (map[string]int, error) {
	return s.interests.InterestsForUser(ctx, userID)
}

// Replace overwrites all of the user's interest rows with the given
// levels. Negative levels are rejected; zero levels are dropped (absence
// means 0). This is the reset path — it bypasses accumulation entirely.
func (s *PreferenceService) Replace(ctx context.Context, userID string, levels map[string]int) error {
	for tagID, level := range levels {
		if level < 0 {
			return apperror.ValidationFailed("interest",
				fmt.Sprintf("interest level for tag %s cannot be negative", tagID))
		}
	}

	if err := s.interests.ReplaceInterests(ctx, userID, levels); err != nil {
		s.logger.Error("failed to replace interests",
			slog.String("user", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("replacing interests: %w", err)
	}

	s.logger.Info("interests replaced",
		slog.String("user", userID),
		slog.Int("tags", len(levels)),
	)
	return nil
}
