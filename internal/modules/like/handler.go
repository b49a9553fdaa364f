package like

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/pindrop/core/internal/middleware"
	"github.com/pindrop/core/internal/pkg/response"
)

// Handler handles like HTTP requests.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts like routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/pins/:id/likes", h.listByPin)
	rg.GET("/likes", h.listByUsername)
	rg.POST("/pins/:id/likes", authMW, h.like)
	rg.DELETE("/pins/:id/likes", authMW, h.unlike)
}

// listByPin GET /pins/:id/likes
func (h *Handler) listByPin(c *gin.Context) {
	likes, err := h.svc.ListByPin(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]likeResponse, len(likes))
	for i, l := range likes {
		items[i] = toResponse(&l)
	}
	response.OK(c, items)
}

// listByUsername GET /likes?username=
func (h *Handler) listByUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.BadRequest(c, "username is required")
		return
	}
	likes, err := h.svc.ListByUsername(username)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]likeResponse, len(likes))
	for i, l := range likes {
		items[i] = toResponse(&l)
	}
	response.OK(c, items)
}

// like POST /pins/:id/likes  [auth]
func (h *Handler) like(c *gin.Context) {
	var dto LikeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	l, err := h.svc.Like(middleware.CurrentUsername(c), c.Param("id"), dto.ImageIndex)
	if err != nil {
		switch {
		case errors.Is(err, errAlreadyLiked):
			response.Conflict(c, err.Error())
		case errors.Is(err, errPinNotFound):
			response.NotFoundMsg(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toResponse(l))
}

// unlike DELETE /pins/:id/likes  [auth]
func (h *Handler) unlike(c *gin.Context) {
	var dto LikeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.svc.Unlike(middleware.CurrentUsername(c), c.Param("id"), dto.ImageIndex); err != nil {
		if errors.Is(err, errNotLiked) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
