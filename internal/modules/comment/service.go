package comment

import (
	"errors"
	"strings"

	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Service handles pin comments. Comments are immutable; only create and
// delete exist, and the pin's comment_count moves with both.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListByPin returns a page of a pin's comments, newest first.
func (s *Service) ListByPin(pinID string, q pagination.Query) ([]models.CommentModel, response.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).
		Where("pin_id = ?", pinID).
		Order("created_at DESC")

	var comments []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &comments)
	return comments, pag, err
}

// GetByID fetches one comment.
func (s *Service) GetByID(id string) (*models.CommentModel, error) {
	var c models.CommentModel
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a comment and bumps the pin counter in one transaction.
func (s *Service) Create(username, pinID string, dto *CreateCommentDTO) (*models.CommentModel, error) {
	text := strings.TrimSpace(dto.Text)
	if text == "" {
		return nil, errors.New("text is required")
	}

	var c models.CommentModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PinModel{}).Where("id = ?", pinID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errPinNotFound
		}

		c = models.CommentModel{Username: username, PinID: pinID, Text: text}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		return tx.Model(&models.PinModel{}).Where("id = ?", pinID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a comment and decrements the pin counter.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var c models.CommentModel
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&c).Error; err != nil {
			return err
		}
		return tx.Model(&models.PinModel{}).Where("id = ? AND comment_count > 0", c.PinID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
	})
}
