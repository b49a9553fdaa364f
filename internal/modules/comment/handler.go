package comment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/pindrop/core/internal/middleware"
	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Handler handles comment HTTP requests.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts comment routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/pins/:id/comments", h.listByPin)
	rg.POST("/pins/:id/comments", authMW, h.create)
	rg.DELETE("/comments/:id", authMW, h.delete)
}

// listByPin GET /pins/:id/comments
func (h *Handler) listByPin(c *gin.Context) {
	q := pagination.FromContext(c)
	comments, pag, err := h.svc.ListByPin(c.Param("id"), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]commentResponse, len(comments))
	for i, cm := range comments {
		items[i] = toResponse(&cm)
	}
	response.Paged(c, items, pag)
}

// create POST /pins/:id/comments  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cm, err := h.svc.Create(middleware.CurrentUsername(c), c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, errPinNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(cm))
}

// delete DELETE /comments/:id  [auth, author or admin]
func (h *Handler) delete(c *gin.Context) {
	cm, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cm == nil {
		response.NotFound(c)
		return
	}

	username := middleware.CurrentUsername(c)
	if cm.Username != username && !isAdmin(h.svc.db, username) {
		response.Forbidden(c)
		return
	}

	if err := h.svc.Delete(cm.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func isAdmin(db *gorm.DB, username string) bool {
	var p models.ProfileModel
	if err := db.First(&p, "username = ?", username).Error; err != nil {
		return false
	}
	return p.IsAdmin()
}
