package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service represents a bookable offering with a fixed duration and base price
type Service struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes int
	BasePrice       decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VehicleType represents a price multiplier category (sedan, SUV, ...)
type VehicleType struct {
	ID              int64
	Name            string // unique
	PriceMultiplier decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FinalPrice вычисляет итоговую цену бронирования:
// basePrice * multiplier с округлением до 2 знаков (round half up)
func FinalPrice(basePrice, multiplier decimal.Decimal) decimal.Decimal {
	// decimal.Round для положительных значений округляет половину вверх
	return basePrice.Mul(multiplier).Round(2)
}
