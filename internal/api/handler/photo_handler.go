package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stylio/backend/internal/service"
	"stylio/backend/pkg/response"
)

// PhotoHandler 沙龙照片 HTTP 处理器
type PhotoHandler struct {
	photoSvc service.PhotoService
}

// NewPhotoHandler 创建 PhotoHandler
func NewPhotoHandler(photoSvc service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoSvc: photoSvc}
}

// ListPhotos GET /api/v1/salons/:id/photos
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	photos, err := h.photoSvc.ListPhotos(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePhotoError(c, err)
		return
	}
	response.OK(c, gin.H{"list": photos})
}

// UploadPhoto 上传沙龙照片（multipart 字段 photo），第一张自动设为封面
// POST /api/v1/owner/salons/:id/photos
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	fh, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, codeInvalidParams, "请选择要上传的图片")
		return
	}
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, codeInvalidParams, "读取上传文件失败")
		return
	}
	defer file.Close()

	photo, err := h.photoSvc.UploadPhoto(c.Request.Context(), ownerID, c.Param("id"), fh.Filename, file)
	if err != nil {
		h.handlePhotoError(c, err)
		return
	}
	response.Created(c, photo)
}

// SetMainPhoto PUT /api/v1/owner/salons/:id/photos/:photo_id/main
func (h *PhotoHandler) SetMainPhoto(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.photoSvc.SetMainPhoto(c.Request.Context(), ownerID, c.Param("id"), c.Param("photo_id")); err != nil {
		h.handlePhotoError(c, err)
		return
	}
	response.OK(c, nil)
}

// DeletePhoto DELETE /api/v1/owner/salons/:id/photos/:photo_id
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.photoSvc.DeletePhoto(c.Request.Context(), ownerID, c.Param("id"), c.Param("photo_id")); err != nil {
		h.handlePhotoError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *PhotoHandler) handlePhotoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPhotoNotFound):
		response.NotFound(c, codePhotoNotFound, "照片不存在")
	case errors.Is(err, service.ErrPhotoLimit):
		response.Conflict(c, codePhotoLimit, "沙龙照片数量已达上限")
	default:
		handleCommonError(c, err)
	}
}
