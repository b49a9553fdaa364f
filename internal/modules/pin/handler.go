package pin

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pindrop/core/internal/config"
	"github.com/pindrop/core/internal/middleware"
	"github.com/pindrop/core/internal/models"
	"github.com/pindrop/core/internal/modules/storage"
	"github.com/pindrop/core/internal/pkg/events"
	"github.com/pindrop/core/internal/pkg/pagination"
	"github.com/pindrop/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Handler handles pin HTTP requests.
type Handler struct {
	svc        *Service
	storageSvc *storage.Service
	publisher  *events.Publisher
	bucket     string
}

func NewHandler(svc *Service, storageSvc *storage.Service, publisher *events.Publisher, buckets config.Buckets) *Handler {
	return &Handler{svc: svc, storageSvc: storageSvc, publisher: publisher, bucket: buckets.PinImages}
}

// RegisterRoutes mounts pin routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	pins := rg.Group("/pins")

	pins.GET("", h.list)
	pins.GET("/:id", h.get)

	authed := pins.Group("", authMW)
	authed.POST("", h.create)
	authed.POST("/images", h.uploadImage)
	authed.DELETE("/:id", h.delete)
}

// list GET /pins  [?username=, ?country=]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pins, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]pinResponse, len(pins))
	for i, p := range pins {
		items[i] = toResponse(&p)
	}
	response.Paged(c, items, pag)
}

// get GET /pins/:id
func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(p))
}

// create POST /pins  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CreatePinDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Create(middleware.CurrentUsername(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if h.publisher.Enabled() {
		go func(p models.PinModel) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = h.publisher.Publish(ctx, events.RoutingPinCreated, gin.H{
				"id":       p.ID,
				"username": p.Username,
				"lat":      p.Latitude,
				"lng":      p.Longitude,
			})
		}(*p)
	}

	response.Created(c, toResponse(p))
}

// delete DELETE /pins/:id  [auth, owner or admin]
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
	if p.Username != username && !isAdmin(h.svc.db, username) {
		response.Forbidden(c)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), p.ID); err != nil {
		response.InternalError(c, err)
		return
	}

	// Object cleanup is best effort; the rows are already gone.
	if len(p.StoragePaths) > 0 {
		paths := append([]string(nil), p.StoragePaths...)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			h.storageSvc.DeleteAll(ctx, h.bucket, paths)
		}()
	}

	response.NoContent(c)
}

// uploadImage POST /pins/images  [auth]
// Uploads one image to the pin-images bucket ahead of pin creation and
// returns its public URL plus storage path.
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
