package handler

import (
	"net/http"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const searchLimit = 20

// ProductHandler админские ручки товаров
// Изображения приходят в multipart-поле images (до 4 файлов),
// при обновлении снимаемые пути перечисляются в remove_images
type ProductHandler struct {
	productService service.ProductServiceInterface
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductServiceInterface) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      newValidator(),
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateProductRequest
	if err := bindRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	images, err := formFilesBytes(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image files"})
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req, images)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, limit := parsePagination(c)

	products, total, err := h.productService.GetProducts(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ListResponse{
		Data: products,
		Meta: pageMeta(page, limit, total),
	})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req entity.UpdateProductRequest
	if err := bindRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	newImages, err := formFilesBytes(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image files"})
		return
	}
	removeImages := c.PostFormArray("remove_images")

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), &req, newImages, removeImages)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Product deleted successfully"})
}

// SearchProducts поиск по подстроке имени для админки
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	results, err := h.productService.SearchProducts(c.Request.Context(), query, searchLimit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
