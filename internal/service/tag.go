package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/repository"
)

const MaxTagNameLength = 50

// TagService manages the shared tag vocabulary. Creation is gated to
// organizers at the routing layer; the service only validates content.
type TagService struct {
	tags   repository.TagRepository
	logger *slog.Logger
}

func NewTagService(tags repository.TagRepository, logger *slog.Logger) *TagService {
	return &TagService{tags: tags, logger: logger}
}

// Create adds a new tag to the vocabulary. Duplicate names surface as a
// conflict from the store's unique constraint.
func (s *TagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "tag name is required")
	}
	if len(name) > MaxTagNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("tag name cannot exceed %d characters", MaxTagNameLength))
	}

	tag := &model.Tag{Name: name}
	if err := s.tags.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag created", slog.String("id", tag.ID), slog.String("name", tag.Name))
	return tag, nil
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.tags.ListTags(ctx)
}
