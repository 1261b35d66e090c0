package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/auth"
	"github.com/ykazlou/afisha/internal/model"
	sqliteRepo "github.com/ykazlou/afisha/internal/repository/sqlite"
)

// seed populates a fresh database with the demo accounts, the base tag
// vocabulary, and two demo events. It keys idempotence off the admin
// account: if admin exists, the database has been seeded before and
// nothing is touched.
func seed(ctx context.Context, db *sqliteRepo.DB, logger *slog.Logger) error {
	if _, err := db.GetUserByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("checking for existing seed: %w", err)
	}

	passwords := auth.NewPasswordService()

	seedUsers := []struct {
		username, password, role string
		isAdmin                  bool
	}{
		{"admin", "admin", model.RoleOrganizer, true},
		{"participant1", "pass123", model.RoleParticipant, false},
		{"organizer1", "org456", model.RoleOrganizer, false},
	}

	var organizer *model.User
	for _, su := range seedUsers {
		hash, err := passwords.Hash(su.password)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		user := &model.User{
			Username:     su.username,
			Email:        su.username + "@example.com",
			PasswordHash: hash,
			Role:         su.role,
			IsAdmin:      su.isAdmin,
		}
		if err := db.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seeding user %s: %w", su.username, err)
		}
		if su.username == "organizer1" {
			organizer = user
		}
	}

	tagIDs := make(map[string]string)
	for _, name := range []string{"музыка", "отдых", "искусство", "культура", "концерт"} {
		tag := &model.Tag{Name: name}
		if err := db.CreateTag(ctx, tag); err != nil {
			return fmt.Errorf("seeding tag %s: %w", name, err)
		}
		tagIDs[name] = tag.ID
	}

	// Demo events are scheduled relative to boot so they always show up as
	// upcoming.
	concertLat, concertLng := 53.90297238393145, 27.555303865441697
	exhibitionLat, exhibitionLng := 53.67958056885761, 23.83001131069645
	now := time.Now()

	seedEvents := []struct {
		event *model.Event
		tags  []string
	}{
		{
			event: &model.Event{
				Title:       "Концерт в Минске",
				Description: "Живой концерт популярной группы.",
				OrganizerID: organizer.ID,
				Format:      "offline",
				Location:    "ул. Ленина, 10, Минск",
				StartsAt:    now.AddDate(0, 0, 14).Truncate(time.Hour),
				Duration:    120,
				Lat:         &concertLat,
				Lng:         &concertLng,
				Category:    "Концерт",
			},
			tags: []string{"музыка", "концерт"},
		},
		{
			event: &model.Event{
				Title:       "Выставка картин",
				Description: "Экспозиция современных художников.",
				OrganizerID: organizer.ID,
				Format:      "offline",
				Location:    "ул. Советская, 5, Гродно",
				StartsAt:    now.AddDate(0, 0, 21).Truncate(time.Hour),
				Duration:    180,
				Lat:         &exhibitionLat,
				Lng:         &exhibitionLng,
				Category:    "Выставка",
			},
			tags: []string{"искусство", "культура"},
		},
	}

	for _, se := range seedEvents {
		ids := make([]string, 0, len(se.tags))
		for _, name := range se.tags {
			ids = append(ids, tagIDs[name])
		}
		if err := db.CreateEvent(ctx, se.event, ids); err != nil {
			return fmt.Errorf("seeding event %s: %w", se.event.Title, err)
		}
	}

	logger.Info("database seeded",
		slog.Int("users", len(seedUsers)),
		slog.Int("tags", len(tagIDs)),
		slog.Int("events", len(seedEvents)),
	)
	return nil
}
