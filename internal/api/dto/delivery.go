package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// PointRequest is one stop. A zero sequence means "position in the list".
type PointRequest struct {
	Sequence  int               `json:"sequence" validate:"gte=0"`
	Latitude  float64           `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64           `json:"longitude" validate:"gte=-180,lte=180"`
	Products  []LineItemRequest `json:"products" validate:"required,min=1,dive"`
}

type DeliveryRequest struct {
	CourierID    int64          `json:"courier_id" validate:"required,gt=0"`
	VehicleID    int64          `json:"vehicle_id" validate:"required,gt=0"`
	DeliveryDate string         `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	TimeStart    string         `json:"time_start" validate:"required"`
	TimeEnd      string         `json:"time_end" validate:"required"`
	Points       []PointRequest `json:"points" validate:"required,min=1,dive"`
}

type LineItemResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type PointResponse struct {
	Sequence  int                `json:"sequence"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Products  []LineItemResponse `json:"products"`
}

type DeliveryResponse struct {
	ID           int64           `json:"id"`
	CourierID    int64           `json:"courier_id"`
	VehicleID    int64           `json:"vehicle_id"`
	CreatedBy    int64           `json:"created_by,omitempty"`
	DeliveryDate string          `json:"delivery_date"`
	TimeStart    string          `json:"time_start"`
	TimeEnd      string          `json:"time_end"`
	Status       string          `json:"status"`
	Points       []PointResponse `json:"points"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}

type StatusChangeRequest struct {
	Status string `json:"status" validate:"required,oneof=PLANNED IN_PROGRESS COMPLETED CANCELLED"`
}

type CapacityResponse struct {
	Max       decimal.Decimal `json:"max"`
	Required  decimal.Decimal `json:"required"`
	Committed decimal.Decimal `json:"committed"`
	New       decimal.Decimal `json:"new"`
	Unit      string          `json:"unit"`
}

type RouteTimeResponse struct {
	RequiredMinutes  int64           `json:"required_minutes"`
	AvailableMinutes int64           `json:"available_minutes"`
	DistanceKm       decimal.Decimal `json:"distance_km"`
}

type VerdictResponse struct {
	Admitted  bool               `json:"admitted"`
	Reason    string             `json:"reason,omitempty"`
	Message   string             `json:"message,omitempty"`
	Capacity  *CapacityResponse  `json:"capacity,omitempty"`
	RouteTime *RouteTimeResponse `json:"route_time,omitempty"`
}

type ErrorResponse struct {
	Error   string           `json:"error"`
	Code    string           `json:"code,omitempty"`
	Details *VerdictResponse `json:"details,omitempty"`
}
