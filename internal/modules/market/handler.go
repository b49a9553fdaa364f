package market

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pindrop/core/internal/config"
	"github.com/pindrop/core/internal/middleware"
	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/modules/storage"
	"github.com/pindrop/core/internal/pkg/events"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
)

// Handler handles marketplace HTTP requests.
type Handler struct {
	svc        *Service
	storageSvc *storage.Service
	publisher  *events.Publisher
	bucket     string
}

func NewHandler(svc *Service, storageSvc *storage.Service, publisher *events.Publisher, buckets config.Buckets) *Handler {
	return &Handler{svc: svc, storageSvc: storageSvc, publisher: publisher, bucket: buckets.PinImages}
}

// RegisterRoutes mounts marketplace routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	market := rg.Group("/market")

	market.GET("", h.list)
	market.GET("/:id", h.get)

	authed := market.Group("", authMW)
	authed.POST("", h.create)
	authed.POST("/images", h.uploadImage)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

// list GET /market  [?seller=]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := make([]itemResponse, len(items))
	for i, m := range items {
		out[i] = toResponse(&m)
	}
	response.Paged(c, out, pag)
}

// get GET /market/:id
func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(m))
}

// create POST /market  [auth, profile required]
func (h *Handler) create(c *gin.Context) {
	var dto CreateItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	m, err := h.svc.Create(middleware.CurrentUsername(c), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errNoProfile):
			response.Unauthorized(c)
		case errors.Is(err, errPriceNegative):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}

	if h.publisher.Enabled() {
		go func(m models.MarketItemModel) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = h.publisher.Publish(ctx, events.RoutingMarketItemCreated, gin.H{
				"id":     m.ID,
				"seller": m.SellerUsername,
				"title":  m.Title,
				"price":  m.Price,
			})
		}(*m)
	}

	response.Created(c, toResponse(m))
}

// update PATCH /market/:id  [auth, seller or admin]
func (h *Handler) update(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}

	username := middleware.CurrentUsername(c)
	if m.SellerUsername != username && !isAdmin(h.svc.db, username) {
		response.Forbidden(c)
		return
	}

	var dto UpdateItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.svc.Update(m.ID, &dto)
	if err != nil {
		if errors.Is(err, errPriceNegative) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponse(updated))
}

// delete DELETE /market/:id  [auth, seller or admin]
func (h *Handler) delete(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}

	username := middleware.CurrentUsername(c)
	if m.SellerUsername != username && !isAdmin(h.svc.db, username) {
		response.Forbidden(c)
		return
	}

	if err := h.svc.Delete(m.ID); err != nil {
		response.InternalError(c, err)
		return
	}

	if len(m.StoragePaths) > 0 {
		paths := append([]string(nil), m.StoragePaths...)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			h.storageSvc.DeleteAll(ctx, h.bucket, paths)
		}()
	}

	response.NoContent(c)
}

// uploadImage POST /market/images  [auth]
func (h *Handler) uploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	if err := storage.ValidateUpload(file.Header.Get("Content-Type"), file.Size); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !h.storageSvc.Enabled() {
		response.ServiceUnavailable(c, "object storage is not configured")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, storage.MaxUploadBytes+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if int64(len(data)) > storage.MaxUploadBytes {
		response.BadRequest(c, storage.ErrFileTooLarge.Error())
		return
	}

	key, url, err := h.storageSvc.Upload(c.Request.Context(), h.bucket, middleware.CurrentUserID(c), file.Filename, data, file.Header.Get("Content-Type"))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, gin.H{"url": url, "storage_path": key})
}

func isAdmin(db *gorm.DB, username string) bool {
	var p models.ProfileModel
	if err := db.First(&p, "username = ?", username).Error; err != nil {
		return false
	}
	return p.IsAdmin()
}
