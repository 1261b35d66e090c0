package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ykazlou/afisha/internal/model"
)

func TestToggleSubscription_Cycle(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	alice := createTestUser(t, db, "alice", model.RoleParticipant)

	subscribed, err := db.ToggleSubscription(context.Background(), alice.ID, organizer.ID, time.Now())
	if err != nil {
		t.Fatalf("first ToggleSubscription() error = %v", err)
	}
	if !subscribed {
		t.Error("first toggle = false, want subscribed")
	}

	exists, err := db.SubscriptionExists(context.Background(), alice.ID, organizer.ID)
	if err != nil {
		t.Fatalf("SubscriptionExists() error = %v", err)
	}
	if !exists {
		t.Error("SubscriptionExists() = false after subscribing")
	}

	subscribed, err = db.ToggleSubscription(context.Background(), alice.ID, organizer.ID, time.Now())
	if err != nil {
		t.Fatalf("second ToggleSubscription() error = %v", err)
	}
	if subscribed {
		t.Error("second toggle = true, want unsubscribed")
	}

	exists, _ = db.SubscriptionExists(context.Background(), alice.ID, organizer.ID)
	if exists {
		t.Error("SubscriptionExists() = true after a full toggle cycle")
	}
}

func TestCountSubscribers(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	alice := createTestUser(t, db, "alice", model.RoleParticipant)
	bob := createTestUser(t, db, "bob", model.RoleParticipant)

	for _, userID := range []string{alice.ID, bob.ID} {
		if _, err := db.ToggleSubscription(context.Background(), userID, organizer.ID, time.Now()); err != nil {
			t.Fatalf("ToggleSubscription() error = %v", err)
		}
	}

	count, err := db.CountSubscribers(context.Background(), organizer.ID)
	if err != nil {
		t.Fatalf("CountSubscribers() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountSubscribers() = %d, want 2", count)
	}
}
