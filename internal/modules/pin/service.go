package pin

import (
	"context"
	"errors"

	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Service handles pin business logic. Pins are immutable after creation;
// only their counters move, and deletion cascades to likes, comments, chat
// and (best effort) stored objects.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns a paginated page of pins, newest first. Filters are equality
// on indexed columns only.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.PinModel, response.Pagination, error) {
	tx := s.db.Model(&models.PinModel{}).Order("created_at DESC")

	if lq.Username != nil && *lq.Username != "" {
		tx = tx.Where("username = ?", *lq.Username)
	}
	if lq.Country != nil && *lq.Country != "" {
		tx = tx.Where("country = ?", *lq.Country)
	}

	var pins []models.PinModel
	pag, err := pagination.Paginate(tx, q, &pins)
	return pins, pag, err
}

// GetByID fetches a single pin.
func (s *Service) GetByID(id string) (*models.PinModel, error) {
	var p models.PinModel
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a new pin for the given user.
func (s *Service) Create(username string, dto *CreatePinDTO) (*models.PinModel, error) {
	p := models.PinModel{
		Username:     username,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
		Description:  dto.Description,
		Images:       dto.Images,
		StoragePaths: dto.StoragePaths,
		Country:      dto.Country,
		Region:       dto.Region,
		City:         dto.City,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the pin and everything hanging off it in one transaction.
// Stored objects are the caller's concern (best-effort cleanup after commit).
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.LikeModel{}, "pin_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.CommentModel{}, "pin_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ChatMessageModel{}, "pin_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PinModel{}, "id = ?", id).Error
	})
}

// IncrementLikeCount moves the denormalized like counter by delta atomically.
func (s *Service) IncrementLikeCount(id string, delta int) error {
	return s.db.Model(&models.PinModel{}).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}

// IncrementCommentCount moves the denormalized comment counter atomically.
func (s *Service) IncrementCommentCount(id string, delta int) error {
	return s.db.Model(&models.PinModel{}).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}
