package like

import (
	"errors"
	"time"

	"github.com/pindrop/core/internal/models"
)

var (
	errAlreadyLiked = errors.New("already liked")
	errNotLiked     = errors.New("not liked")
	errPinNotFound  = errors.New("pin not found")
)

type LikeDTO struct {
	ImageIndex int `json:"image_index"`
}

type likeResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	PinID      string    `json:"pin_id"`
	ImageIndex int       `json:"image_index"`
	Created    time.Time `json:"created_at"`
}

func toResponse(l *models.LikeModel) likeResponse {
	return likeResponse{
		ID:         l.ID,
		Username:   l.Username,
		PinID:      l.PinID,
		ImageIndex: l.ImageIndex,
		Created:    l.CreatedAt,
	}
}
