package handlers

import (
	"courier-delivery-service/internal/api/dto"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/services"
	"net/http"
	"strings"
)

// CourierHandler serves a courier's own deliveries.
type CourierHandler struct {
	Deliveries *services.CourierDeliveries
}

// List supports the optional query filters date, status, date_from and date_to.
func (h *CourierHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	courierID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	q, err := parseCourierQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	cds, err := h.Deliveries.List(r.Context(), actor, courierID, q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]dto.CourierDeliveryResponse, 0, len(cds))
	for _, cd := range cds {
		out = append(out, courierDeliveryResponse(cd))
	}
	writeJSON(w, r, http.StatusOK, dto.ListCourierDeliveriesResponse{Deliveries: out})
}

func (h *CourierHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	courierID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	deliveryID, err := pathID(r, "deliveryId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	cd, err := h.Deliveries.Get(r.Context(), actor, courierID, deliveryID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, courierDeliveryResponse(cd))
}

func parseCourierQuery(r *http.Request) (services.CourierQuery, error) {
	q := r.URL.Query()
	var out services.CourierQuery

	dates := []struct {
		key string
		dst **domain.Date
	}{
		{"date", &out.Date},
		{"date_from", &out.From},
		{"date_to", &out.To},
	}
	for _, d := range dates {
		raw := strings.TrimSpace(q.Get(d.key))
		if raw == "" {
			continue
		}
		parsed, err := domain.ParseDate(raw)
		if err != nil {
			return out, invalid(err)
		}
		*d.dst = &parsed
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			return out, err
		}
		out.Status = st
	}
	return out, nil
}
