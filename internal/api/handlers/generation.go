package handlers

import (
	"courier-delivery-service/internal/api/dto"
	"courier-delivery-service/internal/services"
	"net/http"
)

type GenerationHandler struct {
	Generator *services.Generator
}

// Generate admits a batch of routes grouped by date. Per-route problems are
// reported as warnings in a 200 response.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var body dto.GenerateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	batch, err := toGenerationBatch(body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.Generator.Generate(r.Context(), actor, batch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, generateResponse(res))
}
