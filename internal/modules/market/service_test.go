package market

import (
	"errors"
	"testing"

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

func seedProfile(t *testing.T, svc *Service, username string) {
	t.Helper()
	if err := svc.db.Create(&models.ProfileModel{Username: username, Role: models.RoleUser}).Error; err != nil {
		t.Fatalf("seed profile %s: %v", username, err)
	}
}

func TestCreateRequiresProfile(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create("nobody", &CreateItemDTO{Title: "Bike", Price: 100})
	if !errors.Is(err, errNoProfile) {
		t.Fatalf("expected errNoProfile, got %v", err)
	}

	// The failed create must leave no row behind.
	var count int64
	svc.db.Model(&models.MarketItemModel{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no items after failed create, got %d", count)
	}
}

func TestCreateItem(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc, "alice")

	m, err := svc.Create("alice", &CreateItemDTO{Title: "  Bike  ", Description: "city bike", Price: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Title != "Bike" {
		t.Errorf("expected trimmed title, got %q", m.Title)
	}
	if !m.IsActive {
		t.Error("expected new items to start active")
	}

	if _, err := svc.Create("alice", &CreateItemDTO{Title: "Free money", Price: -1}); !errors.Is(err, errPriceNegative) {
		t.Errorf("expected errPriceNegative, got %v", err)
	}
}

func TestSoftDeactivateHidesFromList(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc, "alice")

	m, err := svc.Create("alice", &CreateItemDTO{Title: "Bike", Price: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inactive := false
	if _, err := svc.Update(m.ID, &UpdateItemDTO{IsActive: &inactive}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	items, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("deactivated item still listed, got %d items", len(items))
	}

	// Direct fetch still works so existing links keep resolving.
	got, err := svc.GetByID(m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.IsActive {
		t.Errorf("expected inactive item fetchable by id, got %+v", got)
	}
}

func TestListSellerFilter(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc, "alice")
	seedProfile(t, svc, "bob")

	svc.Create("alice", &CreateItemDTO{Title: "Bike", Price: 100})
	svc.Create("alice", &CreateItemDTO{Title: "Helmet", Price: 20})
	svc.Create("bob", &CreateItemDTO{Title: "Skis", Price: 250})

	items, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, ListQuery{Seller: "alice"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items from alice, got %d", len(items))
	}
	for _, m := range items {
		if m.SellerUsername != "alice" {
			t.Errorf("foreign item in filtered list: %+v", m)
		}
	}
}

func TestUpdateItem(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc, "alice")

	m, err := svc.Create("alice", &CreateItemDTO{Title: "Bike", Price: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	price := 80.0
	title := "Bike (reduced)"
	updated, err := svc.Update(m.ID, &UpdateItemDTO{Title: &title, Price: &price})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.Price != price {
		t.Errorf("unexpected updated item: %+v", updated)
	}
	if updated.Description != m.Description {
		t.Error("partial update clobbered description")
	}

	negative := -5.0
	if _, err := svc.Update(m.ID, &UpdateItemDTO{Price: &negative}); !errors.Is(err, errPriceNegative) {
		t.Errorf("expected errPriceNegative, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc, "alice")

	m, err := svc.Create("alice", &CreateItemDTO{Title: "Bike", Price: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := svc.GetByID(m.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if got != nil {
		t.Errorf("expected item gone, got %+v", got)
	}
}
