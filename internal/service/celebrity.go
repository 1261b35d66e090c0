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

const (
	MaxCelebrityNameLength = 100
	MaxCelebrityRoleLength = 50
)

// CelebrityService manages the celebrity directory and event line-ups.
type CelebrityService struct {
	celebrities repository.CelebrityRepository
	events      repository.EventRepository
	logger      *slog.Logger
}

func NewCelebrityService(
	celebrities repository.CelebrityRepository,
	events repository.EventRepository,
	logger *slog.Logger,
) *CelebrityService {
	return &CelebrityService{
		celebrities: celebrities,
		events:      events,
		logger:      logger,
	}
}

// CreateCelebrityInput carries the fields of a new directory entry.
type CreateCelebrityInput struct {
	Name        string
	Description string
	ImageURL    string
}

func (s *CelebrityService) Create(ctx context.Context, input CreateCelebrityInput) (*model.Celebrity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "celebrity name is required")
	}
	if len(name) > MaxCelebrityNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("celebrity name cannot exceed %d characters", MaxCelebrityNameLength))
	}

	celebrity := &model.Celebrity{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		ImageURL:    input.ImageURL,
	}
	if err := s.celebrities.CreateCelebrity(ctx, celebrity); err != nil {
		return nil, fmt.Errorf("creating celebrity: %w", err)
	}

	s.logger.Info("celebrity created",
		slog.String("id", celebrity.ID),
		slog.String("name", celebrity.Name),
	)
	return celebrity, nil
}

// Attach adds a celebrity to an event's line-up. Only the event's own
// organizer may modify the line-up; a duplicate pair is a conflict.
func (s *CelebrityService) Attach(ctx context.Context, eventID, celebrityID, role, requesterID string) error {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != requesterID {
		return apperror.Forbidden("only the event's organizer can change its line-up")
	}
	if _, err := s.celebrities.GetCelebrityByID(ctx, celebrityID); err != nil {
		return err
	}

	role = strings.TrimSpace(role)
	if len(role) > MaxCelebrityRoleLength {
		return apperror.ValidationFailed("role",
			fmt.Sprintf("role cannot exceed %d characters", MaxCelebrityRoleLength))
	}

	if err := s.celebrities.AttachCelebrity(ctx, eventID, celebrityID, role); err != nil {
		return err
	}

	s.logger.Info("celebrity attached",
		slog.String("event", eventID),
		slog.String("celebrity", celebrityID),
	)
	return nil
}

func (s *CelebrityService) List(ctx context.Context) ([]model.Celebrity, error) {
	return s.celebrities.ListCelebrities(ctx)
}

// Lineup returns the event's celebrity appearances with joined names.
func (s *CelebrityService) Lineup(ctx context.Context, eventID string) ([]model.EventCelebrity, error) {
	return s.celebrities.EventLineup(ctx, eventID)
}
