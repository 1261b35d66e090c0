package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/model"
)

func TestCreateEvent_WithTags(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	music := createTestTag(t, db, "музыка")
	concert := createTestTag(t, db, "концерт")

	event := createTestEvent(t, db, "Концерт в Минске", organizer.ID, time.Now().Add(24*time.Hour), music.ID, concert.ID)

	if event.ID == "" {
		t.Error("CreateEvent() did not set event.ID")
	}
	if !event.IsActive {
		t.Error("CreateEvent() should activate the event")
	}

	tags, err := db.TagsForEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("TagsForEvent() error = %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("TagsForEvent() returned %d tags, want 2", len(tags))
	}
}

func TestCreateEvent_Coordinates(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)

	lat, lng := 53.9006, 27.5590
	event := &model.Event{
		Title:       "Концерт в Минске",
		OrganizerID: organizer.ID,
		Format:      "offline",
		StartsAt:    time.Now(),
		Duration:    120,
		Lat:         &lat,
		Lng:         &lng,
	}
	if err := db.CreateEvent(context.Background(), event, nil); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	found, err := db.GetEventByID(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("GetEventByID() error = %v", err)
	}
	if !found.HasCoordinates() {
		t.Fatal("expected coordinates to round-trip")
	}
	if *found.Lat != lat || *found.Lng != lng {
		t.Errorf("coordinates = (%v, %v), want (%v, %v)", *found.Lat, *found.Lng, lat, lng)
	}
}

func TestCreateEvent_NoCoordinatesReadsBackNil(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	event := createTestEvent(t, db, "Онлайн-лекция", organizer.ID, time.Now())

	found, err := db.GetEventByID(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("GetEventByID() error = %v", err)
	}
	if found.HasCoordinates() {
		t.Error("expected nil coordinates for an event created without them")
	}
}

func TestGetEventByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetEventByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListActiveEvents_OrderedByStartTime(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	now := time.Now()
	createTestEvent(t, db, "Позже", organizer.ID, now.Add(48*time.Hour))
	createTestEvent(t, db, "Раньше", organizer.ID, now.Add(24*time.Hour))

	events, err := db.ListActiveEvents(context.Background())
	if err != nil {
		t.Fatalf("ListActiveEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("ListActiveEvents() returned %d events, want 2", len(events))
	}
	if events[0].Title != "Раньше" || events[1].Title != "Позже" {
		t.Errorf("order = [%q %q], want ascending start time", events[0].Title, events[1].Title)
	}
}

func TestListActiveEventsByTag(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	music := createTestTag(t, db, "музыка")
	art := createTestTag(t, db, "искусство")
	createTestEvent(t, db, "Концерт", organizer.ID, time.Now(), music.ID)
	createTestEvent(t, db, "Выставка", organizer.ID, time.Now(), art.ID)

	events, err := db.ListActiveEventsByTag(context.Background(), music.ID)
	if err != nil {
		t.Fatalf("ListActiveEventsByTag() error = %v", err)
	}
	if len(events) != 1 || events[0].Title != "Концерт" {
		t.Fatalf("ListActiveEventsByTag() = %v, want only the concert", events)
	}
}

func TestListEventsByOrganizer_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	other := createTestUser(t, db, "other", model.RoleOrganizer)
	now := time.Now()
	createTestEvent(t, db, "Раньше", organizer.ID, now.Add(24*time.Hour))
	createTestEvent(t, db, "Позже", organizer.ID, now.Add(48*time.Hour))
	createTestEvent(t, db, "Чужое", other.ID, now.Add(24*time.Hour))

	events, err := db.ListEventsByOrganizer(context.Background(), organizer.ID)
	if err != nil {
		t.Fatalf("ListEventsByOrganizer() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("ListEventsByOrganizer() returned %d events, want 2", len(events))
	}
	if events[0].Title != "Позже" {
		t.Errorf("first event = %q, want the newest", events[0].Title)
	}
}
