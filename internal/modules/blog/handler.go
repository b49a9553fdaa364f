package blog

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pindrop/core/internal/middleware"
	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/events"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
)

// Handler handles blog HTTP requests.
type Handler struct {
	svc       *Service
	publisher *events.Publisher
}

func NewHandler(svc *Service, publisher *events.Publisher) *Handler {
	return &Handler{svc: svc, publisher: publisher}
}

// RegisterRoutes mounts blog routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	posts := rg.Group("/posts")

	posts.GET("", h.list)
	posts.GET("/:id", h.get)

	authed := posts.Group("", authMW)
	authed.POST("", h.create)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

// list GET /posts  [?author=, ?all=1]
// Drafts are included only when ?all=1 is asked for by their author or an
// admin.
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	includeDrafts := false
	if lq.All && middleware.IsAuthenticated(c) {
		username := middleware.CurrentUsername(c)
		includeDrafts = (lq.Author != "" && lq.Author == username) || isAdmin(h.svc.db, username)
	}

	posts, pag, err := h.svc.List(q, lq, includeDrafts)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := make([]postResponse, len(posts))
	for i, p := range posts {
		out[i] = toResponse(&p, false)
	}
	response.Paged(c, out, pag)
}

// get GET /posts/:id
// Returns the post with rendered HTML and its view count as read before
// this request's increment.
func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetAndCountView(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}

	if !p.IsPublished {
		username := middleware.CurrentUsername(c)
		if !middleware.IsAuthenticated(c) || (p.AuthorUsername != username && !isAdmin(h.svc.db, username)) {
			response.NotFound(c)
			return
		}
	}

	response.OK(c, toResponse(p, true))
}

// create POST /posts  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Create(middleware.CurrentUsername(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if p.IsPublished {
		h.publishEvent(p)
	}
	response.Created(c, toResponse(p, false))
}

// update PATCH /posts/:id  [auth, author or admin]
func (h *Handler) update(c *gin.Context) {
	p, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}

	username := middleware.CurrentUsername(c)
	if p.AuthorUsername != username && !isAdmin(h.svc.db, username) {
		response.Forbidden(c)
		return
	}

	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, justPublished, err := h.svc.Update(p.ID, &dto)
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	if justPublished {
		h.publishEvent(updated)
	}
	response.OK(c, toResponse(updated, false))
}

// delete DELETE /posts/:id  [auth, author or admin]
func (h *Handler) delete(c *gin.Context) {
	p, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}

	username := middleware.CurrentUsername(c)
	if p.AuthorUsername != username && !isAdmin(h.svc.db, username) {
		response.Forbidden(c)
		return
	}

	if err := h.svc.Delete(p.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) publishEvent(p *models.BlogPostModel) {
	if !h.publisher.Enabled() {
		return
	}
	go func(p models.BlogPostModel) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.publisher.Publish(ctx, events.RoutingBlogPostPublished, gin.H{
			"id":     p.ID,
			"author": p.AuthorUsername,
			"title":  p.Title,
		})
	}(*p)
}

func isAdmin(db *gorm.DB, username string) bool {
	var p models.ProfileModel
	if err := db.First(&p, "username = ?", username).Error; err != nil {
		return false
	}
	return p.IsAdmin()
}
