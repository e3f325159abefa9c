package handlers

import (
	"courier-delivery-service/internal/api/dto"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/services"
	"net/http"
)

type RouteHandler struct {
	Calculator *services.RouteCalculator
}

func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var body dto.RouteCalculationRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	points := make([]domain.Coordinates, 0, len(body.Points))
	for _, p := range body.Points {
		points = append(points, domain.NewCoordinates(p.Latitude, p.Longitude))
	}

	est, err := h.Calculator.Calculate(points)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteCalculationResponse{
		DistanceKm:      est.DistanceKm.StringFixed(2),
		DurationMinutes: est.DurationMinutes,
		SuggestedStart:  est.Suggested.Start.String(),
		SuggestedEnd:    est.Suggested.End.String(),
	})
}
