package pin

import (
	"context"
	"testing"
	"time"

	"github.com/pindrop/core/internal/database"
	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/pagination"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenTest()
	if err != nil {
		t.Fatalf("OpenTest: %v", err)
	}
	return NewService(db)
}

func TestCreateAndGetPin(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Create("alice", &CreatePinDTO{
		Latitude:    46.05,
		Longitude:   14.51,
		Description: "river bank",
		Images:      []string{"https://cdn.example.com/a.jpg"},
		Country:     "SI",
		City:        "Ljubljana",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" {
		t.Error("expected generated id")
	}

	got, err := svc.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Description != "river bank" {
		t.Fatalf("unexpected pin: %+v", got)
	}
	if got.LikeCount != 0 || got.CommentCount != 0 {
		t.Errorf("expected zero counters, got %d/%d", got.LikeCount, got.CommentCount)
	}

	missing, err := svc.GetByID("no-such-id")
	if err != nil {
		t.Fatalf("GetByID missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}
}

func TestListFiltersAndOrder(t *testing.T) {
	svc := newTestService(t)

	seed := []struct {
		username, country string
	}{
		{"alice", "SI"},
		{"bob", "SI"},
		{"alice", "AT"},
	}
	for i, s := range seed {
		p := models.PinModel{Username: s.username, Latitude: 1, Longitude: 1, Country: s.country}
		p.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := svc.db.Create(&p).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	q := pagination.Query{Page: 1, Size: 10}

	username := "alice"
	pins, _, err := svc.List(q, ListQuery{Username: &username})
	if err != nil {
		t.Fatalf("List by username: %v", err)
	}
	if len(pins) != 2 {
		t.Errorf("expected 2 pins for alice, got %d", len(pins))
	}

	country := "SI"
	pins, _, err = svc.List(q, ListQuery{Country: &country})
	if err != nil {
		t.Fatalf("List by country: %v", err)
	}
	if len(pins) != 2 {
		t.Errorf("expected 2 pins in SI, got %d", len(pins))
	}

	pins, _, err = svc.List(q, ListQuery{})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(pins) != 3 {
		t.Fatalf("expected 3 pins, got %d", len(pins))
	}
	for i := 1; i < len(pins); i++ {
		if pins[i-1].CreatedAt.Before(pins[i].CreatedAt) {
			t.Error("expected newest-first ordering")
			break
		}
	}
}

func TestDeleteCascades(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Create("alice", &CreatePinDTO{Latitude: 1, Longitude: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	db := svc.db
	if err := db.Create(&models.LikeModel{Username: "bob", PinID: p.ID}).Error; err != nil {
		t.Fatalf("seed like: %v", err)
	}
	if err := db.Create(&models.CommentModel{Username: "bob", PinID: p.ID, Text: "nice"}).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	if err := db.Create(&models.ChatMessageModel{Username: "bob", PinID: p.ID, Message: "hello"}).Error; err != nil {
		t.Fatalf("seed chat: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"likes", &models.LikeModel{}},
		{"comments", &models.CommentModel{}},
		{"chat messages", &models.ChatMessageModel{}},
	} {
		var count int64
		db.Model(check.model).Where("pin_id = ?", p.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected %s removed with the pin, found %d", check.name, count)
		}
	}

	got, err := svc.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if got != nil {
		t.Errorf("expected pin gone, got %+v", got)
	}
}

func TestIncrementCounters(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Create("alice", &CreatePinDTO{Latitude: 1, Longitude: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.IncrementLikeCount(p.ID, 1); err != nil {
		t.Fatalf("IncrementLikeCount: %v", err)
	}
	if err := svc.IncrementCommentCount(p.ID, 1); err != nil {
		t.Fatalf("IncrementCommentCount: %v", err)
	}

	got, _ := svc.GetByID(p.ID)
	if got.LikeCount != 1 || got.CommentCount != 1 {
		t.Errorf("expected counters 1/1, got %d/%d", got.LikeCount, got.CommentCount)
	}
}
