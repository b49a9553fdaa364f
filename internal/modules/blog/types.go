package blog

import (
	"errors"
	"time"

	"github.com/pindrop/core/internal/models"
)

var errPostNotFound = errors.New("post not found")

type CreatePostDTO struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content" binding:"required"`
	IsPublished *bool  `json:"is_published"`
}

// UpdatePostDTO uses pointers so absent fields stay untouched.
type UpdatePostDTO struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	IsPublished *bool   `json:"is_published"`
}

type ListQuery struct {
	Author string `form:"author"`
	All    bool   `form:"all"`
}

type postResponse struct {
	ID             string    `json:"id"`
	AuthorUsername string    `json:"author_username"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	ContentHTML    string    `json:"content_html,omitempty"`
	IsPublished    bool      `json:"is_published"`
	ViewCount      int       `json:"view_count"`
	Created        time.Time `json:"created_at"`
	Updated        time.Time `json:"updated_at"`
}

func toResponse(p *models.BlogPostModel, withHTML bool) postResponse {
	r := postResponse{
		ID:             p.ID,
		AuthorUsername: p.AuthorUsername,
		Title:          p.Title,
		Content:        p.Content,
		IsPublished:    p.IsPublished,
		ViewCount:      p.ViewCount,
		Created:        p.CreatedAt,
		Updated:        p.UpdatedAt,
	}
	if withHTML {
		r.ContentHTML = renderHTML(p.Content)
	}
	return r
}
