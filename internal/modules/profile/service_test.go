package profile

import (
	"errors"
	"testing"

	"github.com/pindrop/core/internal/database"
	"github.com/pindrop/core/internal/models"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenTest()
	if err != nil {
		t.Fatalf("OpenTest: %v", err)
	}
	return NewService(db)
}

func seedProfile(t *testing.T, db *gorm.DB, username string) {
	t.Helper()
	if err := db.Create(&models.ProfileModel{Username: username, Role: models.RoleUser}).Error; err != nil {
		t.Fatalf("seed profile %s: %v", username, err)
	}
}

func TestGetByUsername(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc.db, "alice")

	p, err := svc.GetByUsername("alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if p == nil || p.Username != "alice" {
		t.Fatalf("expected alice's profile, got %+v", p)
	}

	p, err = svc.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("GetByUsername missing: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for unknown username, got %+v", p)
	}
}

func TestGuestUsernameSynthesizesProfile(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.GetByUsername("2345678")
	if err != nil {
		t.Fatalf("GetByUsername guest: %v", err)
	}
	if p == nil {
		t.Fatal("expected a synthesized guest profile")
	}
	if p.Role != models.RoleGuest {
		t.Errorf("expected guest role, got %q", p.Role)
	}
	if p.ID != "" {
		t.Errorf("guest profile must not carry a database id, got %q", p.ID)
	}

	// No row may exist for the guest.
	var count int64
	svc.db.Model(&models.ProfileModel{}).Where("username = ?", "2345678").Count(&count)
	if count != 0 {
		t.Errorf("guest lookup must not create rows, found %d", count)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc.db, "alice")

	about := "Hello from the island"
	contact := "alice@example.com"
	p, err := svc.Update("alice", &UpdateProfileDTO{AboutMe: &about, ContactInfo: &contact})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.AboutMe != about {
		t.Errorf("expected about me updated, got %q", p.AboutMe)
	}
	if p.ContactInfo != contact {
		t.Errorf("expected contact info updated, got %q", p.ContactInfo)
	}

	// Absent fields stay untouched.
	newAbout := "Changed"
	p, err = svc.Update("alice", &UpdateProfileDTO{AboutMe: &newAbout})
	if err != nil {
		t.Fatalf("Update partial: %v", err)
	}
	if p.ContactInfo != contact {
		t.Errorf("partial update clobbered contact info: %q", p.ContactInfo)
	}

	if _, err := svc.Update("nobody", &UpdateProfileDTO{AboutMe: &about}); !errors.Is(err, errProfileNotFound) {
		t.Errorf("expected errProfileNotFound, got %v", err)
	}
}

func TestSetPicture(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc.db, "alice")

	p, err := svc.SetPicture("alice", "picture_url", "https://cdn.example.com/a.jpg")
	if err != nil {
		t.Fatalf("SetPicture: %v", err)
	}
	if p.PictureURL != "https://cdn.example.com/a.jpg" {
		t.Errorf("expected picture url stored, got %q", p.PictureURL)
	}

	p, err = svc.SetPicture("alice", "banner_url", "https://cdn.example.com/b.jpg")
	if err != nil {
		t.Fatalf("SetPicture banner: %v", err)
	}
	if p.BannerURL != "https://cdn.example.com/b.jpg" {
		t.Errorf("expected banner url stored, got %q", p.BannerURL)
	}
}
