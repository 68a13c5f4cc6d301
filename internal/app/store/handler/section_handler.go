package handler

import (
	"net/http"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// SectionHandler админские ручки подборок главной страницы
type SectionHandler struct {
	sectionService service.SectionServiceInterface
	validator      *validator.Validate
}

func NewSectionHandler(sectionService service.SectionServiceInterface) *SectionHandler {
	return &SectionHandler{
		sectionService: sectionService,
		validator:      newValidator(),
	}
}

func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req entity.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	section, err := h.sectionService.CreateSection(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, section)
}

func (h *SectionHandler) GetSection(c *gin.Context) {
	section, err := h.sectionService.GetSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *SectionHandler) GetSections(c *gin.Context) {
	sections, err := h.sectionService.GetSections(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

func (h *SectionHandler) UpdateSection(c *gin.Context) {
	var req entity.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	section, err := h.sectionService.UpdateSection(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, section)
}

func (h *SectionHandler) DeleteSection(c *gin.Context) {
	if err := h.sectionService.DeleteSection(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Section deleted successfully"})
}
