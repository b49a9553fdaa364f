package user

import (
	"errors"
	"testing"

	"github.com/pindrop/core/internal/database"
	"github.com/pindrop/core/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenTest()
	if err != nil {
		t.Fatalf("OpenTest: %v", err)
	}
	return NewService(db)
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(&RegisterDTO{Username: "alice", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Password == "supersecret" {
		t.Error("password stored in plaintext")
	}

	var p models.ProfileModel
	if err := svc.db.First(&p, "username = ?", "alice").Error; err != nil {
		t.Fatalf("profile row missing: %v", err)
	}
	if p.Role != models.RoleAdmin {
		t.Errorf("expected first account to be admin, got %q", p.Role)
	}

	if _, err := svc.Register(&RegisterDTO{Username: "bob", Password: "supersecret"}); err != nil {
		t.Fatalf("Register second: %v", err)
	}
	// A fresh struct is required: reusing p would carry alice's primary key
	// into the WHERE clause and the lookup would never match bob's row.
	var p2 models.ProfileModel
	if err := svc.db.First(&p2, "username = ?", "bob").Error; err != nil {
		t.Fatalf("second profile row missing: %v", err)
	}
	if p2.Role != models.RoleUser {
		t.Errorf("expected second account to be a regular user, got %q", p2.Role)
	}
}

func TestRegisterRejectsGuestPatternUsername(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(&RegisterDTO{Username: "1234567", Password: "supersecret"})
	if !errors.Is(err, errGuestUsername) {
		t.Errorf("expected errGuestUsername for 7-digit username, got %v", err)
	}

	// 6 and 8 digits are not the guest pattern.
	if _, err := svc.Register(&RegisterDTO{Username: "123456", Password: "supersecret"}); err != nil {
		t.Errorf("6-digit username should register: %v", err)
	}
	if _, err := svc.Register(&RegisterDTO{Username: "12345678", Password: "supersecret"}); err != nil {
		t.Errorf("8-digit username should register: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(&RegisterDTO{Username: "ab", Password: "supersecret"}); !errors.Is(err, errUsernameTooShort) {
		t.Errorf("expected errUsernameTooShort, got %v", err)
	}
	if _, err := svc.Register(&RegisterDTO{Username: "alice", Password: "short"}); !errors.Is(err, errPasswordTooShort) {
		t.Errorf("expected errPasswordTooShort, got %v", err)
	}

	if _, err := svc.Register(&RegisterDTO{Username: "alice", Password: "supersecret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(&RegisterDTO{Username: "alice", Password: "othersecret"}); !errors.Is(err, errUsernameTaken) {
		t.Errorf("expected errUsernameTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(&RegisterDTO{Username: "alice", Password: "supersecret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, u, err := svc.Login("alice", "supersecret", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if u.LastLoginTime == nil {
		t.Error("expected last login time to be set")
	}
	if u.LastLoginIP != "127.0.0.1" {
		t.Errorf("expected last login ip recorded, got %q", u.LastLoginIP)
	}

	var sess models.UserSession
	if err := svc.db.First(&sess, "user_id = ?", u.ID).Error; err != nil {
		t.Fatalf("session row missing: %v", err)
	}

	if _, _, err := svc.Login("alice", "wrongpassword", "127.0.0.1", "test-agent"); !errors.Is(err, errWrongPassword) {
		t.Errorf("expected errWrongPassword, got %v", err)
	}
}
