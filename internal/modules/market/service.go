package market

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
)

// Service handles marketplace business logic. Selling requires an existing
// profile; deactivation is a soft flag so old listings stay linkable.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns a page of active items, newest first, optionally filtered
// by seller.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.MarketItemModel, response.Pagination, error) {
	tx := s.db.Model(&models.MarketItemModel{}).
		Where("is_active = ?", true).
		Order("created_at DESC")

	if seller := strings.TrimSpace(lq.Seller); seller != "" {
		tx = tx.Where("seller_username = ?", seller)
	}

	var items []models.MarketItemModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// GetByID fetches a single item, active or not.
func (s *Service) GetByID(id string) (*models.MarketItemModel, error) {
	var m models.MarketItemModel
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Create lists a new item. The seller must already have a profile row;
// guests synthesize profiles on read and never pass this check.
func (s *Service) Create(username string, dto *CreateItemDTO) (*models.MarketItemModel, error) {
	if dto.Price < 0 {
		return nil, errPriceNegative
	}

	var count int64
	if err := s.db.Model(&models.ProfileModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errNoProfile
	}

	m := models.MarketItemModel{
		SellerUsername: username,
		Title:          strings.TrimSpace(dto.Title),
		Description:    dto.Description,
		Price:          dto.Price,
		Images:         dto.Images,
		StoragePaths:   dto.StoragePaths,
		IsActive:       true,
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Update applies partial changes to an item.
func (s *Service) Update(id string, dto *UpdateItemDTO) (*models.MarketItemModel, error) {
	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Price != nil {
		if *dto.Price < 0 {
			return nil, errPriceNegative
		}
		updates["price"] = *dto.Price
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.MarketItemModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes an item permanently.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.MarketItemModel{}, "id = ?", id).Error
}
