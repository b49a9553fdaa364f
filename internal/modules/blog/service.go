package blog

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
)

// Service handles blog post business logic.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns a page of posts, newest first. Unless includeDrafts is set
// only published posts are returned.
func (s *Service) List(q pagination.Query, lq ListQuery, includeDrafts bool) ([]models.BlogPostModel, response.Pagination, error) {
	tx := s.db.Model(&models.BlogPostModel{}).Order("created_at DESC")

	if !includeDrafts {
		tx = tx.Where("is_published = ?", true)
	}
	if author := strings.TrimSpace(lq.Author); author != "" {
		tx = tx.Where("author_username = ?", author)
	}

	var posts []models.BlogPostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// GetByID fetches a single post without touching its view counter.
func (s *Service) GetByID(id string) (*models.BlogPostModel, error) {
	var p models.BlogPostModel
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetAndCountView fetches a post and atomically bumps its view counter.
// The returned post carries the pre-increment count; readers racing on the
// same post each get a consistent value without a row lock.
func (s *Service) GetAndCountView(id string) (*models.BlogPostModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}

	if err := s.db.Model(&models.BlogPostModel{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new post for the given author.
func (s *Service) Create(username string, dto *CreatePostDTO) (*models.BlogPostModel, error) {
	published := true
	if dto.IsPublished != nil {
		published = *dto.IsPublished
	}

	p := models.BlogPostModel{
		AuthorUsername: username,
		Title:          strings.TrimSpace(dto.Title),
		Content:        dto.Content,
		IsPublished:    published,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies partial changes. It reports whether the change flipped the
// post from draft to published, so the handler can emit the publish event
// exactly once.
func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.BlogPostModel, bool, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, errPostNotFound
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.IsPublished != nil {
		updates["is_published"] = *dto.IsPublished
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.BlogPostModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, false, err
		}
	}

	justPublished := dto.IsPublished != nil && *dto.IsPublished && !existing.IsPublished
	updated, err := s.GetByID(id)
	return updated, justPublished, err
}

// Delete removes a post permanently.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.BlogPostModel{}, "id = ?", id).Error
}
