package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luminance-studio/studio-scheduler/internal/config"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/httpresp"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

// ==================================================
// Calendario de atención (admin): horario semanal
// regular + excepciones por fecha
// ==================================================

type CalendarHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewCalendarHandler(db *gorm.DB, cfg *config.Config) *CalendarHandler {
	return &CalendarHandler{db: db, config: cfg}
}

// --------- Horario semanal ---------

type WeeklyRuleRequest struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Active    *bool  `json:"active"`
}

// GET /admin/calendar/weekly
func (h *CalendarHandler) ListWeekly(c *gin.Context) {
	var rules []models.WeeklyAvailability
	if err := h.db.Order("weekday").Find(&rules).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo cargar el horario semanal.")
		return
	}
	httpresp.List(c, rules)
}

// PUT /admin/calendar/weekly — upsert por weekday
func (h *CalendarHandler) UpsertWeekly(c *gin.Context) {
	var req WeeklyRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos del horario inválidos.")
		return
	}

	if !validHMRange(req.StartTime, req.EndTime) {
		httperr.BadRequest(c, "invalid_time_range", "El horario tiene que ser HH:MM y la apertura anterior al cierre.")
		return
	}

	rule := models.WeeklyAvailability{
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Active:    true,
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}

	// una sola regla por weekday, el índice único resuelve la carrera
	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "active", "updated_at"}),
	}).Create(&rule).Error
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudo guardar el horario.")
		return
	}

	httpresp.OK(c, rule)
}

// --------- Excepciones por fecha ---------

type OverrideRequest struct {
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Blocked   bool   `json:"blocked"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

// GET /admin/calendar/overrides?from=YYYY-MM-DD
func (h *CalendarHandler) ListOverrides(c *gin.Context) {
	query := h.db.Order("date")

	if from := c.Query("from"); from != "" {
		fromDate, err := parseBusinessDate(h.config, from)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "from inválida, formato esperado YYYY-MM-DD.")
			return
		}
		query = query.Where("date >= ?", fromDate.Format("2006-01-02"))
	}

	var overrides []models.AvailabilityOverride
	if err := query.Find(&overrides).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudieron cargar las excepciones.")
		return
	}
	httpresp.List(c, overrides)
}

// POST /admin/calendar/overrides
func (h *CalendarHandler) CreateOverride(c *gin.Context) {
	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos de la excepción inválidos.")
		return
	}

	date, err := parseBusinessDate(h.config, req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date inválida, formato esperado YYYY-MM-DD.")
		return
	}

	// las excepciones son a futuro; sobre el pasado no hay nada que abrir
	// ni cerrar
	now := businessNow(h.config)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		httperr.BadRequest(c, "date_in_past", "No se puede crear una excepción sobre una fecha pasada.")
		return
	}

	if !req.Blocked && !validHMRange(req.StartTime, req.EndTime) {
		httperr.BadRequest(c, "invalid_time_range", "Una excepción no bloqueante necesita un rango HH:MM válido.")
		return
	}

	override := models.AvailabilityOverride{
		Date:      date,
		Blocked:   req.Blocked,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}

	err = h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"blocked", "start_time", "end_time", "reason", "updated_at"}),
	}).Create(&override).Error
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudo guardar la excepción.")
		return
	}

	httpresp.Created(c, override)
}

// DELETE /admin/calendar/overrides/:date
func (h *CalendarHandler) DeleteOverride(c *gin.Context) {
	date, err := parseBusinessDate(h.config, c.Param("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date inválida, formato esperado YYYY-MM-DD.")
		return
	}

	now := businessNow(h.config)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		httperr.BadRequest(c, "date_in_past", "Las excepciones pasadas no se tocan.")
		return
	}

	result := h.db.
		Where("date = ?", date.Format("2006-01-02")).
		Delete(&models.AvailabilityOverride{})
	if result.Error != nil {
		httperr.Internal(c, "internal_error", "No se pudo borrar la excepción.")
		return
	}
	if result.RowsAffected == 0 {
		httperr.NotFound(c, "override_not_found", "No hay excepción para esa fecha.")
		return
	}

	c.Status(http.StatusNoContent)
}

func validHMRange(startHM, endHM string) bool {
	start, err := time.Parse("15:04", startHM)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", endHM)
	if err != nil {
		return false
	}
	return start.Before(end)
}
