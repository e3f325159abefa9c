package handlers

import (
	"courier-delivery-service/internal/api/dto"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/services"
	"net/http"
	"strconv"
	"strings"
)

// DeliveryHandler exposes single-delivery admission and lifecycle endpoints.
type DeliveryHandler struct {
	Service *services.DeliveryService
}

// Validate answers whether the delivery would be admitted right now. A
// rejection is a normal 200 answer here.
func (h *DeliveryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var body dto.DeliveryRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := toDeliveryRequest(body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	verdict, err := h.Service.Validate(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, verdictResponse(verdict))
}

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var body dto.DeliveryRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := toDeliveryRequest(body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	d, err := h.Service.Create(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, deliveryResponse(d))
}

func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	d, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deliveryResponse(d))
}

// List supports the optional query filters date, courier_id and status.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ds, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ListDeliveriesResponse{Deliveries: deliveriesResponse(ds)})
}

func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var body dto.DeliveryRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := toDeliveryRequest(body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	d, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deliveryResponse(d))
}

func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DeliveryHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var body dto.StatusChangeRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	next, err := domain.ParseStatus(body.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	d, err := h.Service.ChangeStatus(r.Context(), id, next)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deliveryResponse(d))
}

func parseFilter(r *http.Request) (domain.DeliveryFilter, error) {
	q := r.URL.Query()
	var f domain.DeliveryFilter

	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			return f, invalid(err)
		}
		f.Date = &d
	}
	if raw := strings.TrimSpace(q.Get("courier_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, invalid(err)
		}
		f.CourierID = id
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	return f, nil
}
