package like

import (
	"errors"
	"testing"

	"github.com/pindrop/core/internal/database"
	"github.com/pindrop/core/internal/models"
)

func newTestService(t *testing.T) (*Service, *models.PinModel) {
	t.Helper()
	db, err := database.OpenTest()
	if err != nil {
		t.Fatalf("OpenTest: %v", err)
	}

	pin := &models.PinModel{Username: "alice", Latitude: 1, Longitude: 1}
	if err := db.Create(pin).Error; err != nil {
		t.Fatalf("seed pin: %v", err)
	}
	return NewService(db), pin
}

func pinLikeCount(t *testing.T, svc *Service, pinID string) int {
	t.Helper()
	var p models.PinModel
	if err := svc.db.First(&p, "id = ?", pinID).Error; err != nil {
		t.Fatalf("fetch pin: %v", err)
	}
	return p.LikeCount
}

func TestLikeBumpsCounter(t *testing.T) {
	svc, pin := newTestService(t)

	l, err := svc.Like("bob", pin.ID, 0)
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if l.Username != "bob" || l.PinID != pin.ID {
		t.Errorf("unexpected like row: %+v", l)
	}
	if got := pinLikeCount(t, svc, pin.ID); got != 1 {
		t.Errorf("expected like_count 1, got %d", got)
	}

	// A like on a different image of the same pin is separate.
	if _, err := svc.Like("bob", pin.ID, 1); err != nil {
		t.Fatalf("Like second image: %v", err)
	}
	if got := pinLikeCount(t, svc, pin.ID); got != 2 {
		t.Errorf("expected like_count 2, got %d", got)
	}
}

func TestDuplicateLikeConflicts(t *testing.T) {
	svc, pin := newTestService(t)

	if _, err := svc.Like("bob", pin.ID, 0); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if _, err := svc.Like("bob", pin.ID, 0); !errors.Is(err, errAlreadyLiked) {
		t.Errorf("expected errAlreadyLiked, got %v", err)
	}
	if got := pinLikeCount(t, svc, pin.ID); got != 1 {
		t.Errorf("duplicate like must not move the counter, got %d", got)
	}
}

func TestLikeUnknownPin(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Like("bob", "no-such-pin", 0); !errors.Is(err, errPinNotFound) {
		t.Errorf("expected errPinNotFound, got %v", err)
	}
}

func TestUnlike(t *testing.T) {
	svc, pin := newTestService(t)

	if _, err := svc.Like("bob", pin.ID, 0); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if err := svc.Unlike("bob", pin.ID, 0); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if got := pinLikeCount(t, svc, pin.ID); got != 0 {
		t.Errorf("expected like_count back to 0, got %d", got)
	}

	if err := svc.Unlike("bob", pin.ID, 0); !errors.Is(err, errNotLiked) {
		t.Errorf("expected errNotLiked for repeated unlike, got %v", err)
	}
	if got := pinLikeCount(t, svc, pin.ID); got != 0 {
		t.Errorf("counter must never go negative, got %d", got)
	}
}

func TestListLikes(t *testing.T) {
	svc, pin := newTestService(t)

	svc.Like("bob", pin.ID, 0)
	svc.Like("carol", pin.ID, 0)
	svc.Like("bob", pin.ID, 1)

	byPin, err := svc.ListByPin(pin.ID)
	if err != nil {
		t.Fatalf("ListByPin: %v", err)
	}
	if len(byPin) != 3 {
		t.Errorf("expected 3 likes on pin, got %d", len(byPin))
	}

	byUser, err := svc.ListByUsername("bob")
	if err != nil {
		t.Fatalf("ListByUsername: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("expected 2 likes by bob, got %d", len(byUser))
	}
}
