package profile

import (
	"errors"
	"time"

	"github.com/pindrop/core/internal/models"
)

var errProfileNotFound = errors.New("profile not found")

type UpdateProfileDTO struct {
	AboutMe     *string `json:"about_me"`
	ContactInfo *string `json:"contact_info"`
	PictureURL  *string `json:"picture_url"`
	BannerURL   *string `json:"banner_url"`
}

type profileResponse struct {
	ID          string      `json:"id,omitempty"`
	Username    string      `json:"username"`
	Role        models.Role `json:"role"`
	AboutMe     string      `json:"about_me"`
	ContactInfo string      `json:"contact_info"`
	PictureURL  string      `json:"picture_url"`
	BannerURL   string      `json:"banner_url"`
	IsGuest     bool        `json:"is_guest"`
	Created     *time.Time  `json:"created_at,omitempty"`
	Modified    *time.Time  `json:"updated_at,omitempty"`
}

func toResponse(p *models.ProfileModel) profileResponse {
	r := profileResponse{
		Username:    p.Username,
		Role:        p.Role,
		AboutMe:     p.AboutMe,
		ContactInfo: p.ContactInfo,
		PictureURL:  p.PictureURL,
		BannerURL:   p.BannerURL,
		IsGuest:     p.Role == models.RoleGuest,
	}
	if p.ID != "" {
		r.ID = p.ID
		created := p.CreatedAt
		modified := p.UpdatedAt
		r.Created = &created
		r.Modified = &modified
	}
	return r
}
