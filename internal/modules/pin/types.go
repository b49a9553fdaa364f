package pin

import (
	"time"

	"github.com/pindrop/core/internal/models"
)

type CreatePinDTO struct {
	Latitude     float64  `json:"latitude"  binding:"required"`
	Longitude    float64  `json:"longitude" binding:"required"`
	Description  string   `json:"description"`
	Images       []string `json:"images"`
	StoragePaths []string `json:"storage_paths"`
	Country      string   `json:"country"`
	Region       string   `json:"region"`
	City         string   `json:"city"`
}

type ListQuery struct {
	Username *string `form:"username"`
	Country  *string `form:"country"`
}

type pinResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Description  string    `json:"description"`
	Images       []string  `json:"images"`
	StoragePaths []string  `json:"storage_paths"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	Country      string    `json:"country"`
	Region       string    `json:"region"`
	City         string    `json:"city"`
	Created      time.Time `json:"created_at"`
}

func toResponse(p *models.PinModel) pinResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	paths := p.StoragePaths
	if paths == nil {
		paths = []string{}
	}
	return pinResponse{
		ID:           p.ID,
		Username:     p.Username,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Description:  p.Description,
		Images:       images,
		StoragePaths: paths,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		Country:      p.Country,
		Region:       p.Region,
		City:         p.City,
		Created:      p.CreatedAt,
	}
}
