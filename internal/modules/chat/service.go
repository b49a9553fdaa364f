package chat

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
)

// Service persists per-pin chat history. Live delivery goes through the
// Hub; the service only owns the durable record.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListByPin returns a page of a pin's chat history, newest first.
func (s *Service) ListByPin(pinID string, q pagination.Query) ([]models.ChatMessageModel, response.Pagination, error) {
	tx := s.db.Model(&models.ChatMessageModel{}).
		Where("pin_id = ?", pinID).
		Order("created_at DESC")

	var msgs []models.ChatMessageModel
	pag, err := pagination.Paginate(tx, q, &msgs)
	return msgs, pag, err
}

// Create stores one chat message after verifying the pin exists.
func (s *Service) Create(username, pinID string, dto *CreateMessageDTO) (*models.ChatMessageModel, error) {
	text := strings.TrimSpace(dto.Message)
	if text == "" {
		return nil, errors.New("message is required")
	}

	var count int64
	if err := s.db.Model(&models.PinModel{}).Where("id = ?", pinID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errPinNotFound
	}

	m := models.ChatMessageModel{PinID: pinID, Username: username, Message: text}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
