package comment

import (
	"errors"
	"time"

	"github.com/pindrop/core/internal/models"
)

var errPinNotFound = errors.New("pin not found")

type CreateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

type commentResponse struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	PinID    string    `json:"pin_id"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created_at"`
}

func toResponse(c *models.CommentModel) commentResponse {
	return commentResponse{
		ID:       c.ID,
		Username: c.Username,
		PinID:    c.PinID,
		Text:     c.Text,
		Created:  c.CreatedAt,
	}
}
