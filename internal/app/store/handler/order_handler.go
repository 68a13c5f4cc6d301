package handler

import (
	"net/http"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// OrderHandler оформление заказов (публичное) и ведение их в админке
type OrderHandler struct {
	orderService service.OrderServiceInterface
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    newValidator(),
	}
}

// CreateOrder публичная ручка оформления заказа
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req entity.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	page, limit := parsePagination(c)

	orders, total, err := h.orderService.GetOrders(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ListResponse{
		Data: orders,
		Meta: pageMeta(page, limit, total),
	})
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req entity.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
