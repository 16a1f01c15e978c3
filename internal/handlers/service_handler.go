package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/httpresp"
	"github.com/luminance-studio/studio-scheduler/internal/infra/storage"
	"github.com/luminance-studio/studio-scheduler/internal/media"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

// ==================================================
// CRUD de servicios (admin). El catálogo público
// vive en AvailabilityHandler.ListServices.
// ==================================================

type ServiceHandler struct {
	db    *gorm.DB
	store *storage.ImageStore // nil si S3 no está configurado
}

func NewServiceHandler(db *gorm.DB, store *storage.ImageStore) *ServiceHandler {
	return &ServiceHandler{db: db, store: store}
}

type ServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=5,max=480"`
	Price       float64 `json:"price" binding:"required,min=0"`
	Category    string  `json:"category"`
	Active      *bool   `json:"active"`
}

// GET /admin/services — incluye inactivos
func (h *ServiceHandler) List(c *gin.Context) {
	var services []models.Service
	if err := h.db.Order("category, name").Find(&services).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudieron cargar los servicios.")
		return
	}
	httpresp.List(c, services)
}

// POST /admin/services
func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos del servicio inválidos.")
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Category:    req.Category,
		Active:      true,
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo crear el servicio.")
		return
	}

	httpresp.Created(c, service)
}

// PUT /admin/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	service, ok := h.findService(c)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos del servicio inválidos.")
		return
	}

	service.Name = req.Name
	service.Description = req.Description
	service.DurationMin = req.DurationMin
	service.Price = req.Price
	service.Category = req.Category
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Save(service).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo actualizar el servicio.")
		return
	}

	httpresp.OK(c, service)
}

// DELETE /admin/services/:id — baja lógica, los turnos viejos lo referencian
func (h *ServiceHandler) Deactivate(c *gin.Context) {
	service, ok := h.findService(c)
	if !ok {
		return
	}

	service.Active = false
	if err := h.db.Save(service).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo desactivar el servicio.")
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /admin/services/:id/image — multipart, campo "image"
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	if h.store == nil {
		httperr.BadGateway(c, "storage_disabled", "El almacenamiento de imágenes no está habilitado.")
		return
	}

	service, ok := h.findService(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Falta el archivo 'image'.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "No se pudo leer el archivo.")
		return
	}
	defer file.Close()

	encoded, err := media.EncodeServiceImage(file)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "La imagen tiene que ser JPEG o PNG.")
		return
	}

	key := fmt.Sprintf("services/%d/%s.webp", service.ID, uuid.NewString())
	url, err := h.store.Upload(c.Request.Context(), key, encoded, "image/webp")
	if err != nil {
		httperr.BadGateway(c, "storage_error", "No se pudo subir la imagen.")
		return
	}

	service.ImageURL = url
	if err := h.db.Save(service).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo guardar la URL de la imagen.")
		return
	}

	httpresp.OK(c, service)
}

func (h *ServiceHandler) findService(c *gin.Context) (*models.Service, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID de servicio inválido.")
		return nil, false
	}

	var service models.Service
	if err := h.db.First(&service, id).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Servicio no encontrado.")
		return nil, false
	}

	return &service, true
}
