package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pindrop/core/internal/middleware"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
)

// Handler handles chat HTTP requests. Live delivery is the Hub's job;
// the REST surface covers history and posting.
type Handler struct {
	svc *Service
	hub *Hub
}

func NewHandler(svc *Service, hub *Hub) *Handler { return &Handler{svc: svc, hub: hub} }

// RegisterRoutes mounts chat routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/pins/:id/chat", h.listByPin)
	rg.POST("/pins/:id/chat", authMW, h.create)
}

// RegisterSocket mounts the socket.io endpoint and hub stats.
func RegisterSocket(rg *gin.RouterGroup, hub *Hub) {
	handler := gin.WrapH(hub.Handler())
	rg.Any("/socket.io", handler)
	rg.Any("/socket.io/*any", handler)

	rg.GET("/chat/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"total": hub.ClientCount(""),
		})
	})
}

// listByPin GET /pins/:id/chat
func (h *Handler) listByPin(c *gin.Context) {
	q := pagination.FromContext(c)
	msgs, pag, err := h.svc.ListByPin(c.Param("id"), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]chatMessageResponse, len(msgs))
	for i, m := range msgs {
		items[i] = toResponse(&m)
	}
	response.Paged(c, items, pag)
}

// create POST /pins/:id/chat  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CreateMessageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	m, err := h.svc.Create(middleware.CurrentUsername(c), c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, errPinNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastPin(m.PinID, eventChatMessage, toResponse(m))
	}
	response.Created(c, toResponse(m))
}
