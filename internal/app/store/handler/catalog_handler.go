package handler

import (
	"net/http"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CatalogHandler админские ручки категорий и подкатегорий
// Создание и правка принимают multipart/form-data: JSON в поле data,
// иконка в поле icon
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      newValidator(),
	}
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := bindRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	icon, err := formFileBytes(c, "icon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid icon file"})
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req, icon)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalogService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	page, limit := parsePagination(c)

	categories, total, err := h.catalogService.GetCategories(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ListResponse{
		Data: categories,
		Meta: pageMeta(page, limit, total),
	})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req entity.UpdateCategoryRequest
	if err := bindRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	icon, err := formFileBytes(c, "icon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid icon file"})
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), c.Param("id"), &req, icon)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Category deleted successfully"})
}

func (h *CatalogHandler) CreateSubcategory(c *gin.Context) {
	var req entity.CreateSubcategoryRequest
	if err := bindRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	icon, err := formFileBytes(c, "icon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid icon file"})
		return
	}

	subcategory, err := h.catalogService.CreateSubcategory(c.Request.Context(), &req, icon)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subcategory)
}

func (h *CatalogHandler) GetSubcategory(c *gin.Context) {
	subcategory, err := h.catalogService.GetSubcategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, subcategory)
}

func (h *CatalogHandler) GetSubcategories(c *gin.Context) {
	page, limit := parsePagination(c)

	subcategories, total, err := h.catalogService.GetSubcategories(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ListResponse{
		Data: subcategories,
		Meta: pageMeta(page, limit, total),
	})
}

func (h *CatalogHandler) UpdateSubcategory(c *gin.Context) {
	var req entity.UpdateSubcategoryRequest
	if err := bindRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	icon, err := formFileBytes(c, "icon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid icon file"})
		return
	}

	subcategory, err := h.catalogService.UpdateSubcategory(c.Request.Context(), c.Param("id"), &req, icon)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subcategory)
}

func (h *CatalogHandler) DeleteSubcategory(c *gin.Context) {
	if err := h.catalogService.DeleteSubcategory(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Subcategory deleted successfully"})
}

// SelectedSubcategories отдает подкатегории по списку id для форм админки
// Несуществующие id возвращаются отдельным массивом missing_ids
func (h *CatalogHandler) SelectedSubcategories(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" validate:"required,min=1,dive,len=24,hexadecimal"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	options, missing, err := h.catalogService.SelectedSubcategories(c.Request.Context(), req.IDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subcategories": options,
		"missing_ids":   missing,
	})
}
