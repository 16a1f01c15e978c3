package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luminance-studio/studio-scheduler/internal/config"
	"github.com/luminance-studio/studio-scheduler/internal/dto"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/httpresp"
	"github.com/luminance-studio/studio-scheduler/internal/middleware"
	"github.com/luminance-studio/studio-scheduler/internal/models"
	ucbooking "github.com/luminance-studio/studio-scheduler/internal/usecase/booking"
)

// ==================================================
// Turnos: reserva y ciclo de vida.
// Cliente: reservar, cancelar lo propio, listar lo propio.
// Admin: agenda del día, confirmar (pago offline), cancelar cualquiera.
// ==================================================

type AppointmentHandler struct {
	config  *config.Config
	reserve *ucbooking.Reserve
	cancel  *ucbooking.Cancel
	confirm *ucbooking.Confirm
	list    *ucbooking.ListAppointments
}

func NewAppointmentHandler(
	cfg *config.Config,
	reserve *ucbooking.Reserve,
	cancel *ucbooking.Cancel,
	confirm *ucbooking.Confirm,
	list *ucbooking.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		config:  cfg,
		reserve: reserve,
		cancel:  cancel,
		confirm: confirm,
		list:    list,
	}
}

// --------- Requests ---------

type ReserveRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:MM
	Notes     string `json:"notes"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// --------- Cliente ---------

// POST /appointments
func (h *AppointmentHandler) Reserve(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos de reserva incompletos.")
		return
	}

	startAt, err := parseBusinessDateTime(h.config, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_datetime", "Fecha u hora inválida.")
		return
	}

	ap, err := h.reserve.Execute(
		c.Request.Context(),
		ucbooking.ReserveInput{
			UserID:    userID,
			ServiceID: req.ServiceID,
			StartAt:   startAt,
			Notes:     req.Notes,
		},
		businessNow(h.config),
	)
	if err != nil {
		httperr.WriteBusiness(c, err, "No se pudo reservar el turno.")
		return
	}

	httpresp.Created(c, appointmentToJSON(ap))
}

// GET /appointments/me?scope=upcoming|past&limit=
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	upcoming := c.DefaultQuery("scope", "upcoming") != "past"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	aps, err := h.list.ForUser(
		c.Request.Context(),
		userID,
		businessNow(h.config),
		upcoming,
		limit,
	)
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudieron cargar tus turnos.")
		return
	}

	out := make([]gin.H, 0, len(aps))
	for i := range aps {
		out = append(out, appointmentToJSON(&aps[i]))
	}
	httpresp.List(c, out)
}

// PATCH /appointments/:id/cancel
func (h *AppointmentHandler) CancelMine(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	apID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID de turno inválido.")
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(
		c.Request.Context(),
		ucbooking.CancelInput{
			AppointmentID: uint(apID),
			UserID:        &userID,
			Reason:        req.Reason,
		},
		businessNow(h.config),
	)
	if err != nil {
		httperr.WriteBusiness(c, err, "No se pudo cancelar el turno.")
		return
	}

	httpresp.OK(c, appointmentToJSON(ap))
}

// --------- Admin ---------

// GET /admin/appointments?date=YYYY-MM-DD
func (h *AppointmentHandler) AdminAgenda(c *gin.Context) {
	date, err := parseBusinessDate(h.config, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date inválida, formato esperado YYYY-MM-DD.")
		return
	}

	aps, err := h.list.ByDate(c.Request.Context(), date)
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudo cargar la agenda.")
		return
	}

	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for i := range aps {
		ap := &aps[i]
		out = append(out, dto.AppointmentListDTO{
			ID:           ap.ID,
			StartTime:    ap.StartTime,
			EndTime:      ap.EndTime,
			Status:       ap.Status,
			CustomerName: ap.User.Name,
			ServiceName:  ap.Service.Name,
			Notes:        ap.Notes,
		})
	}

	httpresp.List(c, out)
}

// PATCH /admin/appointments/:id/confirm — pago offline en el local
func (h *AppointmentHandler) AdminConfirm(c *gin.Context) {
	adminID := c.GetUint(middleware.ContextUserID)

	apID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID de turno inválido.")
		return
	}

	ap, err := h.confirm.Execute(
		c.Request.Context(),
		uint(apID),
		&adminID,
		businessNow(h.config),
	)
	if err != nil {
		httperr.WriteBusiness(c, err, "No se pudo confirmar el turno.")
		return
	}

	httpresp.OK(c, appointmentToJSON(ap))
}

// PATCH /admin/appointments/:id/cancel — sin cutoff
func (h *AppointmentHandler) AdminCancel(c *gin.Context) {
	apID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID de turno inválido.")
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(
		c.Request.Context(),
		ucbooking.CancelInput{
			AppointmentID: uint(apID),
			UserID:        nil,
			Reason:        req.Reason,
		},
		businessNow(h.config),
	)
	if err != nil {
		httperr.WriteBusiness(c, err, "No se pudo cancelar el turno.")
		return
	}

	httpresp.OK(c, appointmentToJSON(ap))
}

// --------- Helpers ---------

func appointmentToJSON(ap *models.Appointment) gin.H {
	return gin.H{
		"id":         ap.ID,
		"service_id": ap.ServiceID,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
		"status":     ap.Status,
		"notes":      ap.Notes,
	}
}
