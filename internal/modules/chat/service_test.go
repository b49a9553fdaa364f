package chat

import (
	"errors"
	"testing"

	"github.com/pindrop/core/internal/database"
	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/pagination"
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

func TestCreateMessage(t *testing.T) {
	svc, pin := newTestService(t)

	m, err := svc.Create("bob", pin.ID, &CreateMessageDTO{Message: "  anyone here?  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Message != "anyone here?" {
		t.Errorf("expected trimmed message, got %q", m.Message)
	}
	if m.PinID != pin.ID || m.Username != "bob" {
		t.Errorf("unexpected message row: %+v", m)
	}
}

func TestCreateMessageValidations(t *testing.T) {
	svc, pin := newTestService(t)

	if _, err := svc.Create("bob", pin.ID, &CreateMessageDTO{Message: "   "}); err == nil {
		t.Error("expected error for blank message")
	}
	if _, err := svc.Create("bob", "no-such-pin", &CreateMessageDTO{Message: "hi"}); !errors.Is(err, errPinNotFound) {
		t.Errorf("expected errPinNotFound, got %v", err)
	}
}

func TestListByPinIsScopedAndPaged(t *testing.T) {
	svc, pin := newTestService(t)

	other := &models.PinModel{Username: "carol", Latitude: 2, Longitude: 2}
	if err := svc.db.Create(other).Error; err != nil {
		t.Fatalf("seed other pin: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Create("bob", pin.ID, &CreateMessageDTO{Message: "msg"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := svc.Create("bob", other.ID, &CreateMessageDTO{Message: "elsewhere"}); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	msgs, pag, err := svc.ListByPin(pin.ID, pagination.Query{Page: 1, Size: 10})
	if err != nil {
		t.Fatalf("ListByPin: %v", err)
	}
	if len(msgs) != 3 {
		t.Errorf("expected 3 messages for the pin, got %d", len(msgs))
	}
	if pag.Total != 3 {
		t.Errorf("expected total 3, got %d", pag.Total)
	}
	for _, m := range msgs {
		if m.PinID != pin.ID {
			t.Errorf("message leaked from another pin: %+v", m)
		}
	}
}

func TestRoomForPin(t *testing.T) {
	if got := RoomForPin("abc"); got != "pin:abc" {
		t.Errorf("RoomForPin = %q, want pin:abc", got)
	}
}
