package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luminance-studio/studio-scheduler/internal/config"
	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/httpresp"
	ucbooking "github.com/luminance-studio/studio-scheduler/internal/usecase/booking"
)

// ==================================================
// Endpoints públicos: catálogo de servicios y
// disponibilidad de turnos por fecha
// ==================================================

type AvailabilityHandler struct {
	config          *config.Config
	repo            domain.Repository
	getAvailability *ucbooking.GetAvailability
}

func NewAvailabilityHandler(
	cfg *config.Config,
	repo domain.Repository,
	getAvailability *ucbooking.GetAvailability,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		config:          cfg,
		repo:            repo,
		getAvailability: getAvailability,
	}
}

type serviceResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// GET /services
func (h *AvailabilityHandler) ListServices(c *gin.Context) {
	services, err := h.repo.ListActiveServices(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudieron cargar los servicios.")
		return
	}

	out := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, serviceResponse{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			DurationMin: s.DurationMin,
			Price:       s.Price,
			ImageURL:    s.ImageURL,
		})
	}

	httpresp.List(c, out)
}

// GET /availability?service_id=&date=YYYY-MM-DD
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, "invalid_service_id", "service_id inválido.")
		return
	}

	date, err := parseBusinessDate(h.config, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date inválida, formato esperado YYYY-MM-DD.")
		return
	}

	slots, err := h.getAvailability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			ServiceID: uint(serviceID),
			Date:      date,
		},
		businessNow(h.config),
	)
	if err != nil {
		httperr.WriteBusiness(c, err, "No se pudo calcular la disponibilidad.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service_id": serviceID,
		"date":       c.Query("date"),
		"slots":      slots,
	})
}
