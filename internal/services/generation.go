package services

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/metrics"
	"courier-delivery-service/internal/ports"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

const (
	maxRouteIndex    = 10
	maxRouteStops    = 20
	maxRouteProducts = 50
	dayStartHour     = 9
	dayEndHour       = 18

	defaultDateWorkers = 4
)

// RouteWithProducts is one route of a generation batch. Route carries the
// stops with their line items; Products is the route's product manifest.
type RouteWithProducts struct {
	Route    []domain.Stop
	Products []domain.LineItem
}

// DateResult is the outcome of one batch date. A nil Warnings slice means
// the date produced no warnings.
type DateResult struct {
	Admitted   int
	Deliveries []domain.Delivery
	Warnings   []string
}

type GenerationResult struct {
	BatchID       string
	TotalAdmitted int
	ByDate        map[domain.Date]DateResult
}

// Generator bulk-creates deliveries from routes grouped by date.
//
// Couriers and vehicles are assigned round-robin by route index without
// exclusivity. Routes of one date are admitted sequentially so each
// validation sees the deliveries committed earlier in the batch. Dates are
// independent (committed load never crosses dates) and run concurrently.
type Generator struct {
	users      ports.UserLookup
	vehicles   ports.VehicleLookup
	deliveries ports.DeliveryRepository
	validator  *FeasibilityValidator
	logger     *slog.Logger
	workers    int
}

func NewGenerator(
	users ports.UserLookup,
	vehicles ports.VehicleLookup,
	deliveries ports.DeliveryRepository,
	validator *FeasibilityValidator,
	logger *slog.Logger,
) *Generator {
	return &Generator{
		users:      users,
		vehicles:   vehicles,
		deliveries: deliveries,
		validator:  validator,
		logger:     logger,
		workers:    defaultDateWorkers,
	}
}

type dateOutcome struct {
	date   domain.Date
	result DateResult
}

// Generate never fails because of an individual route: problems become
// warnings on the route's date. The error is non-nil only when ctx ends.
func (g *Generator) Generate(
	ctx context.Context,
	actorID int64,
	batch map[domain.Date][]RouteWithProducts,
) (GenerationResult, error) {
	out := GenerationResult{
		BatchID: uuid.NewString(),
		ByDate:  make(map[domain.Date]DateResult, len(batch)),
	}
	logger := g.logger.With("batch_id", out.BatchID)

	dates := make([]domain.Date, 0, len(batch))
	for d := range batch {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b domain.Date) int { return a.Time().Compare(b.Time()) })

	sem := make(chan struct{}, g.workers)
	resultsCh := make(chan dateOutcome, len(dates))
	var wg sync.WaitGroup

	for _, date := range dates {
		wg.Add(1)
		go func(date domain.Date) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			res := g.generateDate(ctx, logger, actorID, date, batch[date])
			resultsCh <- dateOutcome{date: date, result: res}
		}(date)
	}

	wg.Wait()
	close(resultsCh)

	for o := range resultsCh {
		out.ByDate[o.date] = o.result
		out.TotalAdmitted += o.result.Admitted
	}

	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("generate: %w", err)
	}

	logger.Info("generation finished", "dates", len(dates), "admitted", out.TotalAdmitted)
	return out, nil
}

func (g *Generator) generateDate(
	ctx context.Context,
	logger *slog.Logger,
	actorID int64,
	date domain.Date,
	routes []RouteWithProducts,
) DateResult {
	res := DateResult{Deliveries: []domain.Delivery{}}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		res.Warnings = append(res.Warnings, msg)
		metrics.GenerationWarnings.Inc()
		logger.Debug("generation warning", "date", date.String(), "warning", msg)
	}

	couriers, err := g.users.UsersByRole(ctx, domain.RoleCourier)
	if err != nil {
		warn("list couriers: %v", err)
	} else if len(couriers) == 0 {
		warn("no couriers available")
	}

	vehicles, err := g.vehicles.ListVehicles(ctx)
	if err != nil {
		warn("list vehicles: %v", err)
	} else if len(vehicles) == 0 {
		warn("no vehicles available")
	}

	if len(couriers) == 0 || len(vehicles) == 0 {
		return res
	}

	today := g.validator.Today()

	for i, route := range routes {
		if ctx.Err() != nil {
			warn("route %d: %v", i, ctx.Err())
			break
		}

		courier := couriers[i%len(couriers)]
		vehicle := vehicles[i%len(vehicles)]

		if reason := precheckRoute(courier, vehicle, date, today, route, i); reason != "" {
			warn("route %d: %s", i, reason)
			continue
		}

		c := domain.Candidate{
			CourierID: courier.ID,
			VehicleID: vehicle.ID,
			Date:      date,
			Window: domain.TimeWindow{
				Start: domain.NewTimeOfDay(dayStartHour, 0).AddHours(i),
				End:   domain.NewTimeOfDay(dayEndHour, 0),
			},
			Stops: route.Route,
		}

		verdict, err := g.validator.Validate(ctx, c)
		if err != nil {
			warn("route %d: %v", i, err)
			continue
		}
		if !verdict.Admitted {
			warn("route %d: %v", i, verdict.Err())
			continue
		}

		saved, err := g.deliveries.CreateDelivery(ctx, domain.Delivery{
			CourierID: c.CourierID,
			VehicleID: c.VehicleID,
			CreatedBy: actorID,
			Date:      c.Date,
			Window:    c.Window,
			Status:    domain.StatusPlanned,
			Stops:     c.Stops,
		})
		if err != nil {
			warn("route %d: save delivery: %v", i, err)
			continue
		}

		res.Admitted++
		res.Deliveries = append(res.Deliveries, saved)
		metrics.GenerationAdmitted.Inc()
	}

	return res
}

// precheckRoute returns a non-empty reason when the route must be skipped
// without consulting the validator.
func precheckRoute(
	courier domain.User,
	vehicle domain.Vehicle,
	date domain.Date,
	today domain.Date,
	route RouteWithProducts,
	idx int,
) string {
	switch {
	case courier.ID == 0:
		return "courier is missing"
	case vehicle.ID == 0:
		return "vehicle is missing"
	case len(route.Route) == 0:
		return "route is empty"
	case len(route.Products) == 0:
		return "route has no products"
	case !courier.IsCourier():
		return fmt.Sprintf("user %d is not a courier", courier.ID)
	case !vehicle.MaxWeight.IsPositive():
		return fmt.Sprintf("vehicle %d has no weight capacity", vehicle.ID)
	case !vehicle.MaxVolume.IsPositive():
		return fmt.Sprintf("vehicle %d has no volume capacity", vehicle.ID)
	case !date.After(today):
		return "delivery date is not in the future"
	case idx >= maxRouteIndex:
		return fmt.Sprintf("route index %d exceeds the daily limit of %d", idx, maxRouteIndex)
	case len(route.Route) >= maxRouteStops:
		return fmt.Sprintf("route has %d stops, limit is %d", len(route.Route), maxRouteStops-1)
	case len(route.Products) >= maxRouteProducts:
		return fmt.Sprintf("route has %d products, limit is %d", len(route.Products), maxRouteProducts-1)
	}
	return ""
}
