package manage_catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/service/catalog"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidPrice          = "некорректный формат цены"
	msgInvalidMultiplier     = "некорректный формат множителя"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgInvalidVehicleTypeID  = "некорректный ID типа кузова"
	msgServiceNotFound       = "услуга не найдена"
	msgVehicleTypeNotFound   = "тип кузова не найден"
	msgDuplicateName         = "имя уже используется"
	msgInvalidCatalogPayload = "некорректные данные каталога"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleListServices GET /api/v1/admin/services
func (h *Handler) HandleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromDomainServiceList(services))
}

// HandleCreateService POST /api/v1/admin/services
func (h *Handler) HandleCreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	basePrice, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPrice)
		return
	}

	created, err := h.service.CreateService(r.Context(), req.Name, req.Description, req.DurationMinutes, basePrice)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			h.logger.Warn("POST /admin/services - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCatalogPayload)
			return
		}
		h.logger.Error("POST /admin/services - Failed to create service: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/services - Service created: service_id=%d", created.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainService(created))
}

// HandleUpdateService PUT /api/v1/admin/services/{serviceId}
func (h *Handler) HandleUpdateService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseInt(mux.Vars(r)["serviceId"], 10, 64)
	if err != nil || serviceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var req UpdateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/services/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	basePrice, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPrice)
		return
	}

	service, err := h.service.GetService(r.Context(), serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			handlers.RespondNotFound(w, msgServiceNotFound)
			return
		}
		h.logger.Error("PUT /admin/services/{id} - Failed to get service: service_id=%d, error=%v", serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	service.Name = req.Name
	service.Description = req.Description
	service.DurationMinutes = req.DurationMinutes
	service.BasePrice = basePrice
	service.IsActive = req.IsActive

	if err := h.service.UpdateService(r.Context(), service); err != nil {
		switch {
		case errors.Is(err, catalog.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, catalog.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidCatalogPayload)
		default:
			h.logger.Error("PUT /admin/services/{id} - Failed to update service: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/services/{id} - Service updated: service_id=%d", serviceID)
	handlers.RespondJSON(w, http.StatusOK, FromDomainService(service))
}

// HandleSetServiceActive PATCH /api/v1/admin/services/{serviceId}/active
func (h *Handler) HandleSetServiceActive(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseInt(mux.Vars(r)["serviceId"], 10, 64)
	if err != nil || serviceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/services/{id}/active - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.SetServiceActive(r.Context(), serviceID, req.IsActive); err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			handlers.RespondNotFound(w, msgServiceNotFound)
			return
		}
		h.logger.Error("PATCH /admin/services/{id}/active - Failed: service_id=%d, error=%v", serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /admin/services/{id}/active - Service visibility updated: service_id=%d, active=%v",
		serviceID, req.IsActive)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

// HandleListVehicleTypes GET /api/v1/admin/vehicle-types
func (h *Handler) HandleListVehicleTypes(w http.ResponseWriter, r *http.Request) {
	vehicleTypes, err := h.service.ListVehicleTypes(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/vehicle-types - Failed to list vehicle types: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromDomainVehicleTypeList(vehicleTypes))
}

// HandleCreateVehicleType POST /api/v1/admin/vehicle-types
func (h *Handler) HandleCreateVehicleType(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/vehicle-types - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	multiplier, err := decimal.NewFromString(req.PriceMultiplier)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidMultiplier)
		return
	}

	created, err := h.service.CreateVehicleType(r.Context(), req.Name, multiplier)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrDuplicateName):
			h.logger.Warn("POST /admin/vehicle-types - Duplicate name: %q", req.Name)
			handlers.RespondConflict(w, msgDuplicateName)
		case errors.Is(err, catalog.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidCatalogPayload)
		default:
			h.logger.Error("POST /admin/vehicle-types - Failed to create vehicle type: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/vehicle-types - Vehicle type created: vehicle_type_id=%d", created.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainVehicleType(created))
}

// HandleUpdateVehicleType PUT /api/v1/admin/vehicle-types/{vehicleTypeId}
func (h *Handler) HandleUpdateVehicleType(w http.ResponseWriter, r *http.Request) {
	vehicleTypeID, err := strconv.ParseInt(mux.Vars(r)["vehicleTypeId"], 10, 64)
	if err != nil || vehicleTypeID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidVehicleTypeID)
		return
	}

	var req UpdateVehicleTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/vehicle-types/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	multiplier, err := decimal.NewFromString(req.PriceMultiplier)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidMultiplier)
		return
	}

	vt, err := h.service.GetVehicleType(r.Context(), vehicleTypeID)
	if err != nil {
		if errors.Is(err, catalog.ErrVehicleTypeNotFound) {
			handlers.RespondNotFound(w, msgVehicleTypeNotFound)
			return
		}
		h.logger.Error("PUT /admin/vehicle-types/{id} - Failed to get vehicle type: vehicle_type_id=%d, error=%v",
			vehicleTypeID, err)
		handlers.RespondInternalError(w)
		return
	}

	vt.Name = req.Name
	vt.PriceMultiplier = multiplier
	vt.IsActive = req.IsActive

	if err := h.service.UpdateVehicleType(r.Context(), vt); err != nil {
		switch {
		case errors.Is(err, catalog.ErrVehicleTypeNotFound):
			handlers.RespondNotFound(w, msgVehicleTypeNotFound)
		case errors.Is(err, catalog.ErrDuplicateName):
			handlers.RespondConflict(w, msgDuplicateName)
		case errors.Is(err, catalog.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidCatalogPayload)
		default:
			h.logger.Error("PUT /admin/vehicle-types/{id} - Failed to update vehicle type: vehicle_type_id=%d, error=%v",
				vehicleTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/vehicle-types/{id} - Vehicle type updated: vehicle_type_id=%d", vehicleTypeID)
	handlers.RespondJSON(w, http.StatusOK, FromDomainVehicleType(vt))
}
