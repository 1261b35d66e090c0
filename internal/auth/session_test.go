package auth

import (
	"strings"
	"testing"
)

func newTestSessionService(t *testing.T) *SessionService {
	t.Helper()
	s, err := NewSessionService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	return s
}

func TestNewSessionService_ShortSecret(t *testing.T) {
	if _, err := NewSessionService("short"); err == nil {
		t.Fatal("NewSessionService() should reject secrets shorter than 16 chars")
	}
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	s := newTestSessionService(t)
	want := Identity{UserID: "user-abc-123", Role: "organizer"}

	token, err := s.Issue(want)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	// header.payload.signature
	if strings.Count(token, ".") != 2 {
		t.Errorf("Issue() token doesn't look like a JWT: %q", token)
	}

	got, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != want {
		t.Errorf("Validate() = %+v, want %+v", got, want)
	}
}

func TestValidate_GarbageToken(t *testing.T) {
	s := newTestSessionService(t)

	if _, err := s.Validate("not.a.jwt"); err == nil {
		t.Fatal("Validate() should reject a garbage token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := newTestSessionService(t)
	verifier, err := NewSessionService("a-different-secret-entirely!")
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}

	token, err := issuer.Issue(Identity{UserID: "user-1", Role: "participant"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Validate(token); err == nil {
		t.Fatal("Validate() should reject a token signed with a different secret")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	s := newTestSessionService(t)

	token, err := s.Issue(Identity{UserID: "user-1", Role: "participant"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.SplitN(token, ".", 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := s.Validate(tampered); err == nil {
		t.Fatal("Validate() should reject a tampered token")
	}
}
