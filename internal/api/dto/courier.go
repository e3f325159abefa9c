package dto

import "github.com/shopspring/decimal"

type VehicleInfo struct {
	Brand        string `json:"brand"`
	LicensePlate string `json:"license_plate"`
}

// CourierDeliveryResponse is a delivery summary for its courier. The full
// point list is included so the courier can drive the route.
type CourierDeliveryResponse struct {
	ID             int64           `json:"id"`
	DeliveryNumber string          `json:"delivery_number"`
	DeliveryDate   string          `json:"delivery_date"`
	TimeStart      string          `json:"time_start"`
	TimeEnd        string          `json:"time_end"`
	Status         string          `json:"status"`
	Vehicle        VehicleInfo     `json:"vehicle"`
	PointsCount    int             `json:"points_count"`
	ProductsCount  int             `json:"products_count"`
	TotalWeight    decimal.Decimal `json:"total_weight"`
	Points         []PointResponse `json:"points"`
}

type ListCourierDeliveriesResponse struct {
	Deliveries []CourierDeliveryResponse `json:"deliveries"`
}
