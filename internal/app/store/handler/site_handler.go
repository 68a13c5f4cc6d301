package handler

import (
	"net/http"

	"elpro/internal/app/store/service"

	"github.com/gin-gonic/gin"
)

// SiteHandler публичные ручки витрины
type SiteHandler struct {
	storefrontService service.StorefrontServiceInterface
}

func NewSiteHandler(storefrontService service.StorefrontServiceInterface) *SiteHandler {
	return &SiteHandler{storefrontService: storefrontService}
}

// Navigation дерево категорий для меню сайта
func (h *SiteHandler) Navigation(c *gin.Context) {
	tree, err := h.storefrontService.Navigation(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"navigation": tree})
}

// Home баннеры и подборки главной страницы
func (h *SiteHandler) Home(c *gin.Context) {
	home, err := h.storefrontService.Home(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, home)
}

// CategoryProducts товары категории и ее потомков по url
func (h *SiteHandler) CategoryProducts(c *gin.Context) {
	resp, err := h.storefrontService.CategoryProducts(c.Request.Context(), c.Param("url"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProductPage карточка товара со связанными товарами
func (h *SiteHandler) ProductPage(c *gin.Context) {
	resp, err := h.storefrontService.ProductPage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
