package dto

import "github.com/shopspring/decimal"

// ProductRequest carries weight in kilograms and dimensions in centimetres.
type ProductRequest struct {
	Name   string  `json:"name" validate:"required,max=255"`
	Weight float64 `json:"weight" validate:"gt=0"`
	Length float64 `json:"length" validate:"gt=0"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

type ProductResponse struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Weight decimal.Decimal `json:"weight"`
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Volume decimal.Decimal `json:"volume"`
}

type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

type VehicleRequest struct {
	Brand        string  `json:"brand" validate:"max=255"`
	LicensePlate string  `json:"license_plate" validate:"required,max=20"`
	MaxWeight    float64 `json:"max_weight" validate:"gt=0"`
	MaxVolume    float64 `json:"max_volume" validate:"gt=0"`
}

type VehicleResponse struct {
	ID           int64           `json:"id"`
	Brand        string          `json:"brand"`
	LicensePlate string          `json:"license_plate"`
	MaxWeight    decimal.Decimal `json:"max_weight"`
	MaxVolume    decimal.Decimal `json:"max_volume"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
