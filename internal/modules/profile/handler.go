package profile

import (
	"bytes"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/pindrop/core/internal/config"
	"github.com/pindrop/core/internal/middleware"
	"github.com/pindrop/core/internal/pkg/imaging"
	"github.com/pindrop/core/internal/pkg/response"
	"github.com/pindrop/core/internal/modules/storage"
)

// Handler handles profile HTTP requests.
type Handler struct {
	svc        *Service
	storageSvc *storage.Service
	bucket     string
}

func NewHandler(svc *Service, storageSvc *storage.Service, buckets config.Buckets) *Handler {
	return &Handler{svc: svc, storageSvc: storageSvc, bucket: buckets.ProfilePictures}
}

// RegisterRoutes mounts profile routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/profiles")

	g.GET("/:username", h.get)

	a := g.Group("", authMW)
	a.PATCH("", h.update)
	a.POST("/picture", h.uploadPicture("picture_url"))
	a.POST("/banner", h.uploadPicture("banner_url"))
}

// get GET /profiles/:username
func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetByUsername(c.Param("username"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "profile not found")
		return
	}
	response.OK(c, toResponse(p))
}

// update PATCH /profiles  [auth]
func (h *Handler) update(c *gin.Context) {
	var dto UpdateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Update(middleware.CurrentUsername(c), &dto)
	if err != nil {
		if errors.Is(err, errProfileNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponse(p))
}

// uploadPicture POST /profiles/picture | /profiles/banner  [auth]
// Validates before any network call, downscales, uploads to the
// profile-pictures bucket and stores the fresh URL on the profile row.
func (h *Handler) uploadPicture(column string) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		processed, err := imaging.Process(bytes.NewReader(data))
		if err != nil {
			response.UnprocessableEntity(c, err.Error())
			return
		}

		username := middleware.CurrentUsername(c)
		_, url, err := h.storageSvc.Upload(c.Request.Context(), h.bucket, middleware.CurrentUserID(c), file.Filename, processed.Data, processed.MIME)
		if err != nil {
			response.InternalError(c, err)
			return
		}

		p, err := h.svc.SetPicture(username, column, url)
		if err != nil {
			if errors.Is(err, errProfileNotFound) {
				response.NotFoundMsg(c, err.Error())
				return
			}
			response.InternalError(c, err)
			return
		}
		response.OK(c, toResponse(p))
	}
}
