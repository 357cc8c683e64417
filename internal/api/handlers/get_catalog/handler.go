package get_catalog

import (
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
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

// HandleServices GET /api/v1/services
func (h *Handler) HandleServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListActiveServices(r.Context())
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainServiceList(services))
}

// HandleVehicleTypes GET /api/v1/vehicle-types
func (h *Handler) HandleVehicleTypes(w http.ResponseWriter, r *http.Request) {
	vehicleTypes, err := h.service.ListActiveVehicleTypes(r.Context())
	if err != nil {
		h.logger.Error("GET /vehicle-types - Failed to list vehicle types: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainVehicleTypeList(vehicleTypes))
}
