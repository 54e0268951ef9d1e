package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"digicommerce/internal/application"
	"digicommerce/internal/interface/middleware"
	"digicommerce/pkg/response"
	"digicommerce/pkg/validation"
)

type ProductHandler struct {
	Svc    *application.ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type createProductRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	Category     string   `json:"category" binding:"required"`
	Tags         []string `json:"tags"`
	FileURL      string   `json:"file_url"`
	FileName     string   `json:"file_name"`
	FileSize     int64    `json:"file_size"`
	FileType     string   `json:"file_type"`
	ThumbnailURL string   `json:"thumbnail_url"`
}

type updateProductRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price" binding:"omitempty,gt=0"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Status       string   `json:"status" binding:"omitempty,oneof=draft active inactive"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sellerID := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.Create(c.Request.Context(), sellerID, application.CreateProductInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Tags:         req.Tags,
		FileURL:      req.FileURL,
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		FileType:     req.FileType,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		h.Logger.WithError(err).Error("create product failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create product", nil)
		return
	}
	response.Success(c, http.StatusCreated, p, "product created", nil)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get product failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load product", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := h.Svc.ListActive(c.Request.Context(), page, limit)
	if err != nil {
		h.Logger.WithError(err).Error("list products failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "products", gin.H{"page": page, "limit": limit})
}

// ListMine returns the authenticated seller's own listings, drafts
// included.
func (h *ProductHandler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	sellerID := c.GetString(middleware.CtxUserIDKey)

	items, err := h.Svc.ListBySeller(c.Request.Context(), sellerID, page, limit)
	if err != nil {
		h.Logger.WithError(err).Error("list seller products failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "products", gin.H{"page": page, "limit": limit})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sellerID := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.Update(c.Request.Context(), sellerID, c.Param("id"), application.UpdateProductInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Tags:         req.Tags,
		ThumbnailURL: req.ThumbnailURL,
		Status:       req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrProductNotFound):
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
		case errors.Is(err, application.ErrNotProductOwner):
			response.Error[any](c, http.StatusForbidden, "not the product owner", nil)
		default:
			h.Logger.WithError(err).Error("update product failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to update product", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, p, "product updated", nil)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	sellerID := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), sellerID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, application.ErrProductNotFound):
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
		case errors.Is(err, application.ErrNotProductOwner):
			response.Error[any](c, http.StatusForbidden, "not the product owner", nil)
		default:
			h.Logger.WithError(err).Error("delete product failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to delete product", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "product deleted", nil)
}

func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("product search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"q": q})
}

// UploadFile stores a product deliverable or thumbnail and returns its
// URL for use in a subsequent create or update.
func (h *ProductHandler) UploadFile(c *gin.Context) {
	sellerID := c.GetString(middleware.CtxUserIDKey)

	file, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file required", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadFile(c.Request.Context(), sellerID, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("product file upload failed")
		response.Error[any](c, http.StatusInternalServerError, "file upload failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{
		"url":       url,
		"file_name": file.Filename,
		"file_size": file.Size,
		"file_type": file.Header.Get("Content-Type"),
	}, "file uploaded", nil)
}
