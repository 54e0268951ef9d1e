package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"digicommerce/internal/application"
	"digicommerce/internal/interface/middleware"
	"digicommerce/pkg/helpers"
	"digicommerce/pkg/response"
	"digicommerce/pkg/validation"
)

type UserHandler struct {
	Svc       *application.AuthService
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewUserHandler(svc *application.AuthService, gcs *storage.Client, bucket string, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, GCS: gcs, GCSBucket: bucket, Logger: logger}
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Avatar:    req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update profile failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}

// UploadAvatar stores the uploaded image in GCS and saves its public
// URL on the profile.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file required", nil)
		return
	}
	if h.GCS == nil || h.GCSBucket == "" {
		response.Error[any](c, http.StatusServiceUnavailable, "file storage not configured", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read avatar file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	object := "avatars/" + uid + "/" + uuid.NewString() + ext
	url, err := helpers.UploadObject(c.Request.Context(), h.GCS, h.GCSBucket, object, file.Header.Get("Content-Type"), src)
	if err != nil {
		h.Logger.WithError(err).Error("avatar upload failed")
		response.Error[any](c, http.StatusInternalServerError, "avatar upload failed", nil)
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{Avatar: url})
	if err != nil {
		h.Logger.WithError(err).Error("save avatar url failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "avatar updated", nil)
}

// ListUsers is an admin-only paginated listing.
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.Svc.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	response.Success(c, http.StatusOK, users, "users", gin.H{"page": page, "limit": limit})
}
