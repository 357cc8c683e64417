package get_catalog

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// ServiceResponse HTTP response model услуги
type ServiceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	BasePrice       string `json:"basePrice"`
	IsActive        bool   `json:"isActive"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// VehicleTypeResponse HTTP response model типа кузова
type VehicleTypeResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	PriceMultiplier string `json:"priceMultiplier"`
	IsActive        bool   `json:"isActive"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// FromDomainService конвертирует domain.Service в ServiceResponse
func FromDomainService(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		BasePrice:       s.BasePrice.StringFixed(2),
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       s.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainServiceList конвертирует список услуг
func FromDomainServiceList(services []*domain.Service) []*ServiceResponse {
	result := make([]*ServiceResponse, len(services))
	for i, s := range services {
		result[i] = FromDomainService(s)
	}
	return result
}

// FromDomainVehicleType конвертирует domain.VehicleType в VehicleTypeResponse
func FromDomainVehicleType(vt *domain.VehicleType) *VehicleTypeResponse {
	return &VehicleTypeResponse{
		ID:              vt.ID,
		Name:            vt.Name,
		PriceMultiplier: vt.PriceMultiplier.String(),
		IsActive:        vt.IsActive,
		CreatedAt:       vt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       vt.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainVehicleTypeList конвертирует список типов кузова
func FromDomainVehicleTypeList(vehicleTypes []*domain.VehicleType) []*VehicleTypeResponse {
	result := make([]*VehicleTypeResponse, len(vehicleTypes))
	for i, vt := range vehicleTypes {
		result[i] = FromDomainVehicleType(vt)
	}
	return result
}
