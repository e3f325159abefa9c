package handlers

import (
	"courier-delivery-service/internal/api/dto"
	"courier-delivery-service/internal/services"
	"net/http"
)

// CatalogHandler exposes product and vehicle management.
type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]dto.ProductResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, productResponse(p))
	}
	writeJSON(w, r, http.StatusOK, dto.ListProductsResponse{Products: out})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	p, err := h.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, productResponse(p))
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var body dto.ProductRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := h.Catalog.CreateProduct(r.Context(), toProduct(0, body))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, productResponse(p))
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var body dto.ProductRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := h.Catalog.UpdateProduct(r.Context(), toProduct(id, body))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, productResponse(p))
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.Catalog.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vs, err := h.Catalog.ListVehicles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]dto.VehicleResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, vehicleResponse(v))
	}
	writeJSON(w, r, http.StatusOK, dto.ListVehiclesResponse{Vehicles: out})
}

func (h *CatalogHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	v, err := h.Catalog.GetVehicle(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, vehicleResponse(v))
}

func (h *CatalogHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var body dto.VehicleRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	v, err := h.Catalog.CreateVehicle(r.Context(), toVehicle(0, body))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, vehicleResponse(v))
}

func (h *CatalogHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var body dto.VehicleRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	v, err := h.Catalog.UpdateVehicle(r.Context(), toVehicle(id, body))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, vehicleResponse(v))
}

func (h *CatalogHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.Catalog.DeleteVehicle(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
