package comment

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

func pinCommentCount(t *testing.T, svc *Service, pinID string) int {
	t.Helper()
	var p models.PinModel
	if err := svc.db.First(&p, "id = ?", pinID).Error; err != nil {
		t.Fatalf("fetch pin: %v", err)
	}
	return p.CommentCount
}

func TestCreateCommentBumpsCounter(t *testing.T) {
	svc, pin := newTestService(t)

	c, err := svc.Create("bob", pin.ID, &CreateCommentDTO{Text: "  great spot  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Text != "great spot" {
		t.Errorf("expected trimmed text, got %q", c.Text)
	}
	if got := pinCommentCount(t, svc, pin.ID); got != 1 {
		t.Errorf("expected comment_count 1, got %d", got)
	}
}

func TestCreateCommentValidations(t *testing.T) {
	svc, pin := newTestService(t)

	if _, err := svc.Create("bob", pin.ID, &CreateCommentDTO{Text: "   "}); err == nil {
		t.Error("expected error for blank text")
	}
	if _, err := svc.Create("bob", "no-such-pin", &CreateCommentDTO{Text: "hello"}); !errors.Is(err, errPinNotFound) {
		t.Errorf("expected errPinNotFound, got %v", err)
	}
	if got := pinCommentCount(t, svc, pin.ID); got != 0 {
		t.Errorf("failed creates must not move the counter, got %d", got)
	}
}

func TestDeleteCommentDecrementsCounter(t *testing.T) {
	svc, pin := newTestService(t)

	c, err := svc.Create("bob", pin.ID, &CreateCommentDTO{Text: "hello"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := pinCommentCount(t, svc, pin.ID); got != 0 {
		t.Errorf("expected comment_count back to 0, got %d", got)
	}

	gone, err := svc.GetByID(c.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if gone != nil {
		t.Errorf("expected comment gone, got %+v", gone)
	}
}

func TestListByPinNewestFirst(t *testing.T) {
	svc, pin := newTestService(t)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.Create("bob", pin.ID, &CreateCommentDTO{Text: text}); err != nil {
			t.Fatalf("Create %q: %v", text, err)
		}
	}

	comments, pag, err := svc.ListByPin(pin.ID, pagination.Query{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("ListByPin: %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("expected page of 2, got %d", len(comments))
	}
	if pag.Total != 3 {
		t.Errorf("expected total 3, got %d", pag.Total)
	}
	for i := 1; i < len(comments); i++ {
		if comments[i-1].CreatedAt.Before(comments[i].CreatedAt) {
			t.Error("expected newest-first ordering")
			break
		}
	}
}
