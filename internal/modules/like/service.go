package like

import (
	"errors"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/pindrop/core/internal/models"
	"gorm.io/gorm"
)

// Service handles likes on pin images. The pin's denormalized like_count is
// kept in step inside the same transaction as the like row.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListByPin returns all likes on a pin, newest first.
func (s *Service) ListByPin(pinID string) ([]models.LikeModel, error) {
	var likes []models.LikeModel
	err := s.db.Where("pin_id = ?", pinID).Order("created_at DESC").Find(&likes).Error
	return likes, err
}

// ListByUsername returns everything a user has liked, newest first.
func (s *Service) ListByUsername(username string) ([]models.LikeModel, error) {
	var likes []models.LikeModel
	err := s.db.Where("username = ?", username).Order("created_at DESC").Find(&likes).Error
	return likes, err
}

// Like records a like and bumps the pin counter. A duplicate like conflicts.
func (s *Service) Like(username, pinID string, imageIndex int) (*models.LikeModel, error) {
	var l models.LikeModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pinCount int64
		if err := tx.Model(&models.PinModel{}).Where("id = ?", pinID).Count(&pinCount).Error; err != nil {
			return err
		}
		if pinCount == 0 {
			return errPinNotFound
		}

		var count int64
		if err := tx.Model(&models.LikeModel{}).
			Where("username = ? AND pin_id = ? AND image_index = ?", username, pinID, imageIndex).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errAlreadyLiked
		}

		l = models.LikeModel{Username: username, PinID: pinID, ImageIndex: imageIndex}
		if err := tx.Create(&l).Error; err != nil {
			// Two concurrent likes can both pass the count check; the
			// unique index catches the loser.
			if isDuplicateLikeError(err) {
				return errAlreadyLiked
			}
			return err
		}
		return tx.Model(&models.PinModel{}).Where("id = ?", pinID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Unlike removes the user's like and decrements the pin counter.
func (s *Service) Unlike(username, pinID string, imageIndex int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("username = ? AND pin_id = ? AND image_index = ?", username, pinID, imageIndex).
			Delete(&models.LikeModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotLiked
		}
		return tx.Model(&models.PinModel{}).Where("id = ? AND like_count > 0", pinID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
}

func isDuplicateLikeError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
