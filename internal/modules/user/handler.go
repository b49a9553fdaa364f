package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/pindrop/core/internal/middleware"
	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/pkg/response"
	sessionpkg "github.com/pindrop/core/internal/pkg/session"
	"gorm.io/gorm"
)

// Handler handles auth/account HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts user routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/user")

	g.POST("/register", h.register)
	g.POST("/login", h.login)

	a := g.Group("", authMW)
	a.GET("/me", h.me)
	a.POST("/logout", h.logout)
	a.GET("/sessions", h.listSessions)
	a.DELETE("/sessions/all", h.deleteAllSessions)
	a.DELETE("/sessions/:id", h.deleteSession)
}

// register POST /user/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.Register(&dto)
	if err != nil {
		switch {
		case errors.Is(err, errUsernameTaken):
			response.Conflict(c, err.Error())
		case errors.Is(err, errGuestUsername),
			errors.Is(err, errUsernameTooShort),
			errors.Is(err, errPasswordTooShort):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toResponse(u))
}

// login POST /user/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, u, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errWrongPassword) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"token": token, "user": toResponse(u)})
}

// me GET /user/me  [auth]
// The server-side counterpart of the client's getUser(): current identity.
func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, toResponse(u))
}

// logout POST /user/logout  [auth]
func (h *Handler) logout(c *gin.Context) {
	sid := middleware.CurrentSessionID(c)
	if sid != "" {
		if err := sessionpkg.Revoke(h.svc.db, middleware.CurrentUserID(c), sid); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			response.InternalError(c, err)
			return
		}
	}
	response.NoContent(c)
}

// listSessions GET /user/sessions  [auth]
func (h *Handler) listSessions(c *gin.Context) {
	sessions, err := sessionpkg.ListActive(h.svc.db, middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	current := middleware.CurrentSessionID(c)
	items := make([]sessionResponse, len(sessions))
	for i, s := range sessions {
		items[i] = sessionResponse{
			ID:        s.ID,
			IP:        s.IP,
			UA:        s.UA,
			ExpiresAt: s.ExpiresAt,
			LastSeen:  s.UpdatedAt,
			Current:   s.ID == current,
		}
	}
	response.OK(c, items)
}

// deleteSession DELETE /user/sessions/:id  [auth]
func (h *Handler) deleteSession(c *gin.Context) {
	err := sessionpkg.Revoke(h.svc.db, middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// deleteAllSessions DELETE /user/sessions/all  [auth]
func (h *Handler) deleteAllSessions(c *gin.Context) {
	if err := sessionpkg.RevokeAll(h.svc.db, middleware.CurrentUserID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func toResponse(u *models.UserModel) userResponse {
	return userResponse{
		ID:            u.ID,
		Username:      u.Username,
		LastLoginTime: u.LastLoginTime,
		LastLoginIP:   u.LastLoginIP,
		Created:       u.CreatedAt,
	}
}
