package handler

import (
	"net/http"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BannerHandler админские ручки баннеров
// Изображение приходит в multipart-поле image
type BannerHandler struct {
	bannerService service.BannerServiceInterface
	validator     *validator.Validate
}

func NewBannerHandler(bannerService service.BannerServiceInterface) *BannerHandler {
	return &BannerHandler{
		bannerService: bannerService,
		validator:     newValidator(),
	}
}

func (h *BannerHandler) CreateBanner(c *gin.Context) {
	var req entity.CreateBannerRequest
	if err := bindRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	image, err := formFileBytes(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image file"})
		return
	}

	banner, err := h.bannerService.CreateBanner(c.Request.Context(), &req, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, banner)
}

func (h *BannerHandler) GetBanner(c *gin.Context) {
	banner, err := h.bannerService.GetBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, banner)
}

func (h *BannerHandler) GetBanners(c *gin.Context) {
	banners, err := h.bannerService.GetBanners(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

func (h *BannerHandler) UpdateBanner(c *gin.Context) {
	var req entity.UpdateBannerRequest
	if err := bindRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	image, err := formFileBytes(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image file"})
		return
	}

	banner, err := h.bannerService.UpdateBanner(c.Request.Context(), c.Param("id"), &req, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, banner)
}

func (h *BannerHandler) DeleteBanner(c *gin.Context) {
	if err := h.bannerService.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Banner deleted successfully"})
}
