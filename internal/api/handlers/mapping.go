package handlers

import (
	"courier-delivery-service/internal/api/dto"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/services"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func invalid(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

func toDeliveryRequest(req dto.DeliveryRequest) (services.DeliveryRequest, error) {
	date, err := domain.ParseDate(req.DeliveryDate)
	if err != nil {
		return services.DeliveryRequest{}, invalid(err)
	}
	start, err := domain.ParseTimeOfDay(req.TimeStart)
	if err != nil {
		return services.DeliveryRequest{}, invalid(err)
	}
	end, err := domain.ParseTimeOfDay(req.TimeEnd)
	if err != nil {
		return services.DeliveryRequest{}, invalid(err)
	}

	return services.DeliveryRequest{
		CourierID: req.CourierID,
		VehicleID: req.VehicleID,
		Date:      date,
		Window:    domain.TimeWindow{Start: start, End: end},
		Stops:     toStops(req.Points),
	}, nil
}

func toStops(points []dto.PointRequest) []domain.Stop {
	stops := make([]domain.Stop, 0, len(points))
	for _, p := range points {
		stops = append(stops, domain.Stop{
			Sequence: p.Sequence,
			Location: domain.NewCoordinates(p.Latitude, p.Longitude),
			Items:    toLineItems(p.Products),
		})
	}
	return stops
}

func toLineItems(items []dto.LineItemRequest) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func toGenerationBatch(req dto.GenerateRequest) (map[domain.Date][]services.RouteWithProducts, error) {
	batch := make(map[domain.Date][]services.RouteWithProducts, len(req.RoutesByDate))
	for raw, routes := range req.RoutesByDate {
		date, err := domain.ParseDate(raw)
		if err != nil {
			return nil, invalid(err)
		}
		out := make([]services.RouteWithProducts, 0, len(routes))
		for _, rt := range routes {
			stops, err := services.NormalizeStops(toStops(rt.Route))
			if err != nil {
				return nil, fmt.Errorf("routes for %s: %w", raw, err)
			}
			out = append(out, services.RouteWithProducts{
				Route:    stops,
				Products: toLineItems(rt.Products),
			})
		}
		batch[date] = out
	}
	return batch, nil
}

func deliveryResponse(d domain.Delivery) dto.DeliveryResponse {
	points := make([]dto.PointResponse, 0, len(d.Stops))
	for _, st := range d.Stops {
		items := make([]dto.LineItemResponse, 0, len(st.Items))
		for _, it := range st.Items {
			items = append(items, dto.LineItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		points = append(points, dto.PointResponse{
			Sequence:  st.Sequence,
			Latitude:  st.Location.Lat.InexactFloat64(),
			Longitude: st.Location.Lon.InexactFloat64(),
			Products:  items,
		})
	}

	return dto.DeliveryResponse{
		ID:           d.ID,
		CourierID:    d.CourierID,
		VehicleID:    d.VehicleID,
		CreatedBy:    d.CreatedBy,
		DeliveryDate: d.Date.String(),
		TimeStart:    d.Window.Start.String(),
		TimeEnd:      d.Window.End.String(),
		Status:       string(d.Status),
		Points:       points,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func deliveriesResponse(ds []domain.Delivery) []dto.DeliveryResponse {
	out := make([]dto.DeliveryResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, deliveryResponse(d))
	}
	return out
}

func verdictResponse(v domain.Verdict) *dto.VerdictResponse {
	res := &dto.VerdictResponse{Admitted: v.Admitted}
	if v.Admitted || v.Rejection == nil {
		return res
	}

	rej := v.Rejection
	res.Reason = string(rej.Reason)
	res.Message = rej.Error()
	if c := rej.Capacity; c != nil {
		res.Capacity = &dto.CapacityResponse{
			Max:       c.Max,
			Required:  c.Required,
			Committed: c.Committed,
			New:       c.New,
			Unit:      c.Unit,
		}
	}
	if rt := rej.RouteTime; rt != nil {
		res.RouteTime = &dto.RouteTimeResponse{
			RequiredMinutes:  rt.RequiredMinutes,
			AvailableMinutes: rt.AvailableMinutes,
			DistanceKm:       rt.DistanceKm,
		}
	}
	return res
}

func generateResponse(res services.GenerationResult) dto.GenerateResponse {
	out := dto.GenerateResponse{
		BatchID:       res.BatchID,
		TotalAdmitted: res.TotalAdmitted,
		ByDate:        make(map[string]dto.DateResultResponse, len(res.ByDate)),
	}
	for date, dr := range res.ByDate {
		out.ByDate[date.String()] = dto.DateResultResponse{
			Admitted:   dr.Admitted,
			Deliveries: deliveriesResponse(dr.Deliveries),
			Warnings:   dr.Warnings,
		}
	}
	return out
}

func productResponse(p domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:     p.ID,
		Name:   p.Name,
		Weight: p.Weight,
		Length: p.Length,
		Width:  p.Width,
		Height: p.Height,
		Volume: p.Volume(),
	}
}

func toProduct(id int64, req dto.ProductRequest) domain.Product {
	return domain.Product{
		ID:     id,
		Name:   strings.TrimSpace(req.Name),
		Weight: decimal.NewFromFloat(req.Weight),
		Length: decimal.NewFromFloat(req.Length),
		Width:  decimal.NewFromFloat(req.Width),
		Height: decimal.NewFromFloat(req.Height),
	}
}

func vehicleResponse(v domain.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:           v.ID,
		Brand:        v.Brand,
		LicensePlate: v.LicensePlate,
		MaxWeight:    v.MaxWeight,
		MaxVolume:    v.MaxVolume,
	}
}

func toVehicle(id int64, req dto.VehicleRequest) domain.Vehicle {
	return domain.Vehicle{
		ID:           id,
		Brand:        strings.TrimSpace(req.Brand),
		LicensePlate: req.LicensePlate,
		MaxWeight:    decimal.NewFromFloat(req.MaxWeight),
		MaxVolume:    decimal.NewFromFloat(req.MaxVolume),
	}
}

const vehicleNotAssigned = "not assigned"

func courierDeliveryResponse(cd services.CourierDelivery) dto.CourierDeliveryResponse {
	d := cd.Delivery
	vehicle := dto.VehicleInfo{Brand: vehicleNotAssigned}
	if cd.Vehicle != nil {
		vehicle = dto.VehicleInfo{Brand: cd.Vehicle.Brand, LicensePlate: cd.Vehicle.LicensePlate}
	}
	return dto.CourierDeliveryResponse{
		ID:             d.ID,
		DeliveryNumber: cd.Number,
		DeliveryDate:   d.Date.String(),
		TimeStart:      d.Window.Start.String(),
		TimeEnd:        d.Window.End.String(),
		Status:         string(d.Status),
		Vehicle:        vehicle,
		PointsCount:    cd.PointsCount,
		ProductsCount:  cd.ProductsCount,
		TotalWeight:    cd.TotalWeight,
		Points:         deliveryResponse(d).Points,
	}
}
