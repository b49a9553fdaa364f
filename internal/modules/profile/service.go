package profile

import (
	"errors"

	"github.com/pindrop/core/internal/models"
	"gorm.io/gorm"
)

// Service handles profile reads and owner-only writes.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// GetByUsername fetches a public profile. Guest-pattern usernames (exactly
// 7 digits) never have a row; a guest record is synthesized without touching
// the database.
func (s *Service) GetByUsername(username string) (*models.ProfileModel, error) {
	if models.IsGuestUsername(username) {
		return GuestProfile(username), nil
	}

	var p models.ProfileModel
	if err := s.db.First(&p, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GuestProfile synthesizes the record served for guest usernames.
func GuestProfile(username string) *models.ProfileModel {
	return &models.ProfileModel{
		Username: username,
		Role:     models.RoleGuest,
		AboutMe:  "Guest user",
	}
}

// Update patches the caller's own profile and returns the fresh row.
func (s *Service) Update(username string, dto *UpdateProfileDTO) (*models.ProfileModel, error) {
	var p models.ProfileModel
	if err := s.db.First(&p, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProfileNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.AboutMe != nil {
		updates["about_me"] = *dto.AboutMe
	}
	if dto.ContactInfo != nil {
		updates["contact_info"] = *dto.ContactInfo
	}
	if dto.PictureURL != nil {
		updates["picture_url"] = *dto.PictureURL
	}
	if dto.BannerURL != nil {
		updates["banner_url"] = *dto.BannerURL
	}
	if len(updates) == 0 {
		return &p, nil
	}

	if err := s.db.Model(&p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPicture stores a freshly uploaded picture or banner URL.
func (s *Service) SetPicture(username, column, url string) (*models.ProfileModel, error) {
	if column != "picture_url" && column != "banner_url" {
		return nil, errors.New("invalid picture column")
	}
	res := s.db.Model(&models.ProfileModel{}).Where("username = ?", username).Update(column, url)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errProfileNotFound
	}
	return s.GetByUsername(username)
}
