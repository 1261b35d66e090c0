package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ykazlou/afisha/internal/model"
)

func submitReview(t *testing.T, db *DB, eventID, userID string, rating int, comment string, tagIDs ...string) *model.EventReview {
	t.Helper()
	review := &model.EventReview{
		EventID: eventID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := db.SubmitEventReview(context.Background(), review, tagIDs); err != nil {
		t.Fatalf("SubmitEventReview() error = %v", err)
	}
	return review
}

// =========================================================================
// EVENT REVIEW UPSERT TESTS
// =========================================================================

// The UNIQUE(event_id, user_id) constraint turns a resubmission into an
// update: the row count must stay at one and the latest values must win.
func TestSubmitEventReview_UpsertKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	alice := createTestUser(t, db, "alice", model.RoleParticipant)
	event := createTestEvent(t, db, "Концерт", organizer.ID, time.Now())

	submitReview(t, db, event.ID, alice.ID, 2, "так себе")
	submitReview(t, db, event.ID, alice.ID, 5, "распробовал")

	reviews, err := db.ListEventReviews(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("ListEventReviews() error = %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("review count = %d after resubmission, want 1", len(reviews))
	}
	if reviews[0].Rating != 5 || reviews[0].Comment != "распробовал" {
		t.Errorf("review = (%d, %q), want the latest submission", reviews[0].Rating, reviews[0].Comment)
	}
}

func TestSubmitEventReview_DifferentUsersDifferentRows(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	alice := createTestUser(t, db, "alice", model.RoleParticipant)
	bob := createTestUser(t, db, "bob", model.RoleParticipant)
	event := createTestEvent(t, db, "Концерт", organizer.ID, time.Now())

	submitReview(t, db, event.ID, alice.ID, 5, "")
	submitReview(t, db, event.ID, bob.ID, 3, "")

	reviews, err := db.ListEventReviews(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("ListEventReviews() error = %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("review count = %d, want 2", len(reviews))
	}
}

func TestListEventReviews_JoinsUsername(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	alice := createTestUser(t, db, "alice", model.RoleParticipant)
	event := createTestEvent(t, db, "Концерт", organizer.ID, time.Now())

	submitReview(t, db, event.ID, alice.ID, 4, "хорошо")

	reviews, err := db.ListEventReviews(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("ListEventReviews() error = %v", err)
	}
	if reviews[0].Username != "alice" {
		t.Errorf("Username = %q, want %q", reviews[0].Username, "alice")
	}
}

// =========================================================================
// INTEREST ACCUMULATION TESTS
// =========================================================================

// The review upsert and the interest writes share one transaction, and
// interest accrues again on every submission, edits included.
func TestSubmitEventReview_InterestAccrualAcrossSubmissions(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	alice := createTestUser(t, db, "alice", model.RoleParticipant)
	music := createTestTag(t, db, "музыка")
	concert := createTestTag(t, db, "концерт")
	event := createTestEvent(t, db, "Концерт", organizer.ID, time.Now(), music.ID, concert.ID)

	submitReview(t, db, event.ID, alice.ID, 3, "", music.ID, concert.ID)
	submitReview(t, db, event.ID, alice.ID, 5, "", music.ID, concert.ID)

	levels, err := db.InterestsForUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("InterestsForUser() error = %v", err)
	}
	if levels[music.ID] != 8 {
		t.Errorf("interest[музыка] = %d, want 3+5=8", levels[music.ID])
	}
	if levels[concert.ID] != 8 {
		t.Errorf("interest[концерт] = %d, want 3+5=8", levels[concert.ID])
	}
}

// =========================================================================
// ORGANIZER REVIEW TESTS
// =========================================================================

func TestSubmitOrganizerReview_Upsert(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "org", model.RoleOrganizer)
	alice := createTestUser(t, db, "alice", model.RoleParticipant)

	first := &model.OrganizerReview{OrganizerID: organizer.ID, ReviewerID: alice.ID, Rating: 2}
	if err := db.SubmitOrganizerReview(context.Background(), first); err != nil {
		t.Fatalf("SubmitOrganizerReview() error = %v", err)
	}
	second := &model.OrganizerReview{OrganizerID: organizer.ID, ReviewerID: alice.ID, Rating: 5, Comment: "исправился"}
	if err := db.SubmitOrganizerReview(context.Background(), second); err != nil {
		t.Fatalf("SubmitOrganizerReview() resubmit error = %v", err)
	}

	reviews, err := db.ListOrganizerReviews(context.Background(), organizer.ID)
	if err != nil {
		t.Fatalf("ListOrganizerReviews() error = %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("review count = %d after resubmission, want 1", len(reviews))
	}
	if reviews[0].Rating != 5 {
		t.Errorf("Rating = %d, want the latest 5", reviews[0].Rating)
	}
	if reviews[0].Username != "alice" {
		t.Errorf("Username = %q, want %q", reviews[0].Username, "alice")
	}
}
