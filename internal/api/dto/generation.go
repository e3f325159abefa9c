package dto

type RouteRequest struct {
	Route    []PointRequest    `json:"route" validate:"dive"`
	Products []LineItemRequest `json:"products" validate:"dive"`
}

// GenerateRequest maps a YYYY-MM-DD date to the routes planned for it.
type GenerateRequest struct {
	RoutesByDate map[string][]RouteRequest `json:"routes_by_date" validate:"required,min=1,dive,keys,datetime=2006-01-02,endkeys,dive"`
}

type DateResultResponse struct {
	Admitted   int                `json:"admitted"`
	Deliveries []DeliveryResponse `json:"deliveries"`
	Warnings   []string           `json:"warnings,omitempty"`
}

type GenerateResponse struct {
	BatchID       string                        `json:"batch_id"`
	TotalAdmitted int                           `json:"total_admitted"`
	ByDate        map[string]DateResultResponse `json:"by_date"`
}

type CoordinatesRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type RouteCalculationRequest struct {
	Points []CoordinatesRequest `json:"points" validate:"required,min=2,dive"`
}

type RouteCalculationResponse struct {
	DistanceKm      string `json:"distance_km"`
	DurationMinutes int    `json:"duration_minutes"`
	SuggestedStart  string `json:"suggested_start"`
	SuggestedEnd    string `json:"suggested_end"`
}
