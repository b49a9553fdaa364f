package session

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pindrop/core/internal/database"
	jwtpkg "github.com/pindrop/core/internal/pkg/jwt"
)

func TestIssueAndValidate(t *testing.T) {
	db, err := database.OpenTest()
	if err != nil {
		t.Fatalf("OpenTest: %v", err)
	}

	token, s, err := Issue(db, "user-1", "alice", "127.0.0.1", "test-agent", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected session id")
	}

	claims, err := jwtpkg.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.SessionID != s.ID {
		t.Errorf("token sid %q does not match session %q", claims.SessionID, s.ID)
	}

	active, err := IsActive(db, "user-1", s.ID)
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if !active {
		t.Error("expected fresh session to be active")
	}
}

func TestRevoke(t *testing.T) {
	db, err := database.OpenTest()
	if err != nil {
		t.Fatalf("OpenTest: %v", err)
	}

	_, s, err := Issue(db, "user-1", "alice", "", "", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := Revoke(db, "user-1", s.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	active, err := IsActive(db, "user-1", s.ID)
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if active {
		t.Error("expected revoked session to be inactive")
	}

	if err := Revoke(db, "user-1", s.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound on double revoke, got %v", err)
	}
}

func TestRevokeAll(t *testing.T) {
	db, err := database.OpenTest()
	if err != nil {
		t.Fatalf("OpenTest: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, _, err := Issue(db, "user-1", "alice", "", "", time.Hour); err != nil {
			t.Fatalf("Issue %d: %v", i, err)
		}
	}
	if _, _, err := Issue(db, "user-2", "bob", "", "", time.Hour); err != nil {
		t.Fatalf("Issue other user: %v", err)
	}

	if err := RevokeAll(db, "user-1"); err != nil {
		t.Fatalf("RevokeAll: %v", err)
	}

	sessions, err := ListActive(db, "user-1")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no live sessions for user-1, got %d", len(sessions))
	}

	other, err := ListActive(db, "user-2")
	if err != nil {
		t.Fatalf("ListActive other: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("expected user-2's session untouched, got %d", len(other))
	}
}

func TestExpiredSessionInactive(t *testing.T) {
	db, err := database.OpenTest()
	if err != nil {
		t.Fatalf("OpenTest: %v", err)
	}

	_, s, err := Issue(db, "user-1", "alice", "", "", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	past := time.Now().Add(-time.Minute)
	if err := db.Model(s).Update("expires_at", past).Error; err != nil {
		t.Fatalf("expire session: %v", err)
	}

	active, err := IsActive(db, "user-1", s.ID)
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if active {
		t.Error("expected expired session to be inactive")
	}
}
