package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/repository"
)

// =========================================================================
// MOCK STORE
// =========================================================================
//
// One in-memory store implements every repository interface, mirroring how
// the real sqlite.DB does. Services only see the interface they asked for,
// so a single mock keeps the test fixtures consistent: an event created
// through the mock is visible to the review mock's interest accumulation,
// exactly as it would be with the shared database.

type mockStore struct {
	users            map[string]*model.User
	tags             []model.Tag
	events           map[string]*model.Event
	eventTags        map[string][]string // eventID -> tagIDs
	eventReviews     map[string]*model.EventReview
	organizerReviews map[string]*model.OrganizerReview
	subscriptions    map[string]time.Time // "user|organizer" -> created
	interests        map[string]int       // "user|tag" -> level
	celebrities      map[string]*model.Celebrity
	lineup           map[string][]model.EventCelebrity
	nextID           int
}

var (
	_ repository.UserRepository            = (*mockStore)(nil)
	_ repository.TagRepository             = (*mockStore)(nil)
	_ repository.EventRepository           = (*mockStore)(nil)
	_ repository.EventReviewRepository     = (*mockStore)(nil)
	_ repository.OrganizerReviewRepository = (*mockStore)(nil)
	_ repository.SubscriptionRepository    = (*mockStore)(nil)
	_ repository.InterestRepository        = (*mockStore)(nil)
	_ repository.CelebrityRepository       = (*mockStore)(nil)
)

func newMockStore() *mockStore {
	return &mockStore{
		users:            make(map[string]*model.User),
		events:           make(map[string]*model.Event),
		eventTags:        make(map[string][]string),
		eventReviews:     make(map[string]*model.EventReview),
		organizerReviews: make(map[string]*model.OrganizerReview),
		subscriptions:    make(map[string]time.Time),
		interests:        make(map[string]int),
		celebrities:      make(map[string]*model.Celebrity),
		lineup:           make(map[string][]model.EventCelebrity),
	}
}

func (m *mockStore) id() string {
	m.nextID++
	return fmt.Sprintf("mock-%d", m.nextID)
}

func pairKey(a, b string) string { return a + "|" + b }

// --- users ---

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.ValidationFailed("username", "username is already taken")
		}
		if u.Email == user.Email {
			return apperror.ValidationFailed("email", "email is already registered")
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

// --- tags ---

func (m *mockStore) CreateTag(_ context.Context, tag *model.Tag) error {
	for _, t := range m.tags {
		if t.Name == tag.Name {
			return apperror.Conflict("tag", fmt.Sprintf("tag %q already exists", tag.Name))
		}
	}
	tag.ID = m.id()
	m.tags = append(m.tags, *tag)
	return nil
}

func (m *mockStore) GetTagByName(_ context.Context, name string) (*model.Tag, error) {
	for _, t := range m.tags {
		if t.Name == name {
			result := t
			return &result, nil
		}
	}
	return nil, apperror.NotFound("tag", name)
}

func (m *mockStore) ListTags(_ context.Context) ([]model.Tag, error) {
	return append([]model.Tag(nil), m.tags...), nil
}

// --- events ---

func (m *mockStore) CreateEvent(_ context.Context, event *model.Event, tagIDs []string) error {
	event.ID = m.id()
	event.CreatedAt = time.Now()
	event.IsActive = true
	stored := *event
	m.events[event.ID] = &stored
	m.eventTags[event.ID] = append([]string(nil), tagIDs...)
	return nil
}

func (m *mockStore) GetEventByID(_ context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, apperror.NotFound("event", id)
	}
	result := *e
	return &result, nil
}

func (m *mockStore) ListActiveEvents(_ context.Context) ([]model.Event, error) {
	result := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		if e.IsActive {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartsAt.Before(result[j].StartsAt)
	})
	return result, nil
}

func (m *mockStore) ListActiveEventsByTag(ctx context.Context, tagID string) ([]model.Event, error) {
	all, _ := m.ListActiveEvents(ctx)
	result := make([]model.Event, 0, len(all))
	for _, e := range all {
		for _, id := range m.eventTags[e.ID] {
			if id == tagID {
				result = append(result, e)
				break
			}
		}
	}
	return result, nil
}

func (m *mockStore) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	all, _ := m.ListActiveEvents(ctx)
	result := make([]model.Event, 0, len(all))
	for _, e := range all {
		if e.OrganizerID == organizerID {
			result = append(result, e)
		}
	}
	// Newest first, matching the profile page order.
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartsAt.After(result[j].StartsAt)
	})
	return result, nil
}

func (m *mockStore) TagsForEvent(_ context.Context, eventID string) ([]model.Tag, error) {
	result := []model.Tag{}
	for _, tagID := range m.eventTags[eventID] {
		for _, t := range m.tags {
			if t.ID == tagID {
				result = append(result, t)
			}
		}
	}
	return result, nil
}

// --- reviews ---

func (m *mockStore) SubmitEventReview(_ context.Context, review *model.EventReview, tagIDs []string) error {
	key := pairKey(review.EventID, review.UserID)
	if existing, ok := m.eventReviews[key]; ok {
		existing.Rating = review.Rating
		existing.Comment = review.Comment
		review.ID = existing.ID
		review.CreatedAt = existing.CreatedAt
	} else {
		review.ID = m.id()
		review.CreatedAt = time.Now()
		stored := *review
		m.eventReviews[key] = &stored
	}
	// Interest accrues on every submission, edits included.
	for _, tagID := range tagIDs {
		m.interests[pairKey(review.UserID, tagID)] += review.Rating
	}
	return nil
}

func (m *mockStore) ListEventReviews(_ context.Context, eventID string) ([]model.EventReview, error) {
	result := []model.EventReview{}
	for _, r := range m.eventReviews {
		if r.EventID == eventID {
			review := *r
			if u, ok := m.users[r.UserID]; ok {
				review.Username = u.Username
			}
			result = append(result, review)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockStore) SubmitOrganizerReview(_ context.Context, review *model.OrganizerReview) error {
	key := pairKey(review.OrganizerID, review.ReviewerID)
	if existing, ok := m.organizerReviews[key]; ok {
		existing.Rating = review.Rating
		existing.Comment = review.Comment
		review.ID = existing.ID
		review.CreatedAt = existing.CreatedAt
		return nil
	}
	review.ID = m.id()
	review.CreatedAt = time.Now()
	stored := *review
	m.organizerReviews[key] = &stored
	return nil
}

func (m *mockStore) ListOrganizerReviews(_ context.Context, organizerID string) ([]model.OrganizerReview, error) {
	result := []model.OrganizerReview{}
	for _, r := range m.organizerReviews {
		if r.OrganizerID == organizerID {
			review := *r
			if u, ok := m.users[r.ReviewerID]; ok {
				review.Username = u.Username
			}
			result = append(result, review)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// --- subscriptions ---

func (m *mockStore) ToggleSubscription(_ context.Context, userID, organizerID string, now time.Time) (bool, error) {
	key := pairKey(userID, organizerID)
	if _, ok := m.subscriptions[key]; ok {
		delete(m.subscriptions, key)
		return false, nil
	}
	m.subscriptions[key] = now
	return true, nil
}

func (m *mockStore) SubscriptionExists(_ context.Context, userID, organizerID string) (bool, error) {
	_, ok := m.subscriptions[pairKey(userID, organizerID)]
	return ok, nil
}

func (m *mockStore) CountSubscribers(_ context.Context, organizerID string) (int, error) {
	count := 0
	for key := range m.subscriptions {
		if strings.HasSuffix(key, "|"+organizerID) {
			count++
		}
	}
	return count, nil
}

// --- interests ---

func (m *mockStore) InterestsForUser(_ context.Context, userID string) (map[string]int, error) {
	result := make(map[string]int)
	prefix := userID + "|"
	for key, level := range m.interests {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			result[key[len(prefix):]] = level
		}
	}
	return result, nil
}

func (m *mockStore) ReplaceInterests(_ context.Context, userID string, levels map[string]int) error {
	prefix := userID + "|"
	for key := range m.interests {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(m.interests, key)
		}
	}
	for tagID, level := range levels {
		if level == 0 {
			continue
		}
		m.interests[pairKey(userID, tagID)] = level
	}
	return nil
}

// --- celebrities ---

func (m *mockStore) CreateCelebrity(_ context.Context, celebrity *model.Celebrity) error {
	celebrity.ID = m.id()
	celebrity.CreatedAt = time.Now()
	stored := *celebrity
	m.celebrities[celebrity.ID] = &stored
	return nil
}

func (m *mockStore) GetCelebrityByID(_ context.Context, id string) (*model.Celebrity, error) {
	c, ok := m.celebrities[id]
	if !ok {
		return nil, apperror.NotFound("celebrity", id)
	}
	result := *c
	return &result, nil
}

func (m *mockStore) ListCelebrities(_ context.Context) ([]model.Celebrity, error) {
	result := make([]model.Celebrity, 0, len(m.celebrities))
	for _, c := range m.celebrities {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockStore) AttachCelebrity(_ context.Context, eventID, celebrityID, role string) error {
	for _, ec := range m.lineup[eventID] {
		if ec.CelebrityID == celebrityID {
			return apperror.Conflict("celebrity", "celebrity is already in the line-up")
		}
	}
	m.lineup[eventID] = append(m.lineup[eventID], model.EventCelebrity{
		EventID:     eventID,
		CelebrityID: celebrityID,
		Role:        role,
	})
	return nil
}

func (m *mockStore) EventLineup(_ context.Context, eventID string) ([]model.EventCelebrity, error) {
	return append([]model.EventCelebrity(nil), m.lineup[eventID]...), nil
}

// =========================================================================
// FIXTURE HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func addUser(t *testing.T, store *mockStore, username, role string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("setup: CreateUser(%q) error = %v", username, err)
	}
	return user
}

func addTag(t *testing.T, store *mockStore, name string) model.Tag {
	t.Helper()
	tag := &model.Tag{Name: name}
	if err := store.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("setup: CreateTag(%q) error = %v", name, err)
	}
	return *tag
}

func addEvent(t *testing.T, store *mockStore, title, organizerID string, startsAt time.Time, tagIDs ...string) *model.Event {
	t.Helper()
	event := &model.Event{
		Title:       title,
		Description: "описание",
		OrganizerID: organizerID,
		Format:      "offline",
		Location:    "Минск",
		StartsAt:    startsAt,
		Duration:    90,
	}
	if err := store.CreateEvent(context.Background(), event, tagIDs); err != nil {
		t.Fatalf("setup: CreateEvent(%q) error = %v", title, err)
	}
	return event
}
