package api

import (
	"courier-delivery-service/internal/api/handlers"
	"courier-delivery-service/internal/platform/metrics"
	"courier-delivery-service/internal/services"
	"log/slog"
	"net/http"
)

// Services are the application services the HTTP surface calls into.
type Services struct {
	Deliveries *services.DeliveryService
	Generator  *services.Generator
	Calculator *services.RouteCalculator
	Couriers   *services.CourierDeliveries
	Catalog    *services.CatalogService
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc Services, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	deliveryHandler := &handlers.DeliveryHandler{Service: svc.Deliveries}
	generationHandler := &handlers.GenerationHandler{Generator: svc.Generator}
	routeHandler := &handlers.RouteHandler{Calculator: svc.Calculator}
	courierHandler := &handlers.CourierHandler{Deliveries: svc.Couriers}
	catalogHandler := &handlers.CatalogHandler{Catalog: svc.Catalog}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /deliveries/validate", deliveryHandler.Validate)
	mux.HandleFunc("POST /deliveries/generate", generationHandler.Generate)
	mux.HandleFunc("POST /deliveries", deliveryHandler.Create)
	mux.HandleFunc("GET /deliveries", deliveryHandler.List)
	mux.HandleFunc("GET /deliveries/{id}", deliveryHandler.Get)
	mux.HandleFunc("PUT /deliveries/{id}", deliveryHandler.Update)
	mux.HandleFunc("DELETE /deliveries/{id}", deliveryHandler.Delete)
	mux.HandleFunc("POST /deliveries/{id}/status", deliveryHandler.ChangeStatus)

	mux.HandleFunc("GET /couriers/{id}/deliveries", courierHandler.List)
	mux.HandleFunc("GET /couriers/{id}/deliveries/{deliveryId}", courierHandler.Get)

	mux.HandleFunc("GET /products", catalogHandler.ListProducts)
	mux.HandleFunc("POST /products", catalogHandler.CreateProduct)
	mux.HandleFunc("GET /products/{id}", catalogHandler.GetProduct)
	mux.HandleFunc("PUT /products/{id}", catalogHandler.UpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", catalogHandler.DeleteProduct)

	mux.HandleFunc("GET /vehicles", catalogHandler.ListVehicles)
	mux.HandleFunc("POST /vehicles", catalogHandler.CreateVehicle)
	mux.HandleFunc("GET /vehicles/{id}", catalogHandler.GetVehicle)
	mux.HandleFunc("PUT /vehicles/{id}", catalogHandler.UpdateVehicle)
	mux.HandleFunc("DELETE /vehicles/{id}", catalogHandler.DeleteVehicle)

	mux.HandleFunc("POST /routes/calculate", routeHandler.Calculate)

	return requestIDMiddleware(loggingMiddleware(logger, mux))
}
