package market

import (
	"errors"
	"time"

	"github.com/pindrop/core/internal/models"
)

var (
	errItemNotFound  = errors.New("item not found")
	errNoProfile     = errors.New("a profile is required to sell items")
	errPriceNegative = errors.New("price must not be negative")
)

type CreateItemDTO struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Images       []string `json:"images"`
	StoragePaths []string `json:"storage_paths"`
}

// UpdateItemDTO uses pointers so absent fields stay untouched.
// is_active=false is the soft deactivate path.
type UpdateItemDTO struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	IsActive    *bool    `json:"is_active"`
}

type ListQuery struct {
	Seller string `form:"seller"`
}

type itemResponse struct {
	ID             string    `json:"id"`
	SellerUsername string    `json:"seller_username"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Images         []string  `json:"images"`
	IsActive       bool      `json:"is_active"`
	Created        time.Time `json:"created_at"`
	Updated        time.Time `json:"updated_at"`
}

func toResponse(m *models.MarketItemModel) itemResponse {
	images := m.Images
	if images == nil {
		images = []string{}
	}
	return itemResponse{
		ID:             m.ID,
		SellerUsername: m.SellerUsername,
		Title:          m.Title,
		Description:    m.Description,
		Price:          m.Price,
		Images:         images,
		IsActive:       m.IsActive,
		Created:        m.CreatedAt,
		Updated:        m.UpdatedAt,
	}
}
