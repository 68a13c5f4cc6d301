package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"elpro/pkg/logger"
)

// ReconcilerInterface разовый прогон сверки перекрестных ссылок каталога
type ReconcilerInterface interface {
	Run(ctx context.Context) (int, error)
}

// SystemHandler служебные ручки: ручной запуск сверки по запросу админа
type SystemHandler struct {
	reconciler ReconcilerInterface
}

func NewSystemHandler(reconciler ReconcilerInterface) *SystemHandler {
	return &SystemHandler{reconciler: reconciler}
}

func (h *SystemHandler) Reconcile(c *gin.Context) {
	repaired, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("manual catalog reconciliation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"repaired": repaired})
}
