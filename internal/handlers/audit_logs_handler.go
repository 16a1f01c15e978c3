package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/httpresp"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// GET /admin/audit-logs?entity=&action=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := h.db.Order("created_at DESC").Limit(limit)

	if entity := c.Query("entity"); entity != "" {
		query = query.Where("entity = ?", entity)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudieron cargar los registros.")
		return
	}

	httpresp.List(c, logs)
}
