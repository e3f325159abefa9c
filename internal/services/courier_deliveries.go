package services

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/ports"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CourierQuery narrows a courier's own deliveries. Date takes precedence over
// the From/To range; either range bound may be left open.
type CourierQuery struct {
	Date   *domain.Date
	From   *domain.Date
	To     *domain.Date
	Status domain.Status
}

func (q CourierQuery) filter(courierID int64) (domain.DeliveryFilter, error) {
	f := domain.DeliveryFilter{CourierID: courierID, Status: q.Status}
	if q.Date != nil {
		f.Date = q.Date
		return f, nil
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return f, fmt.Errorf("%w: date_from %s is after date_to %s", domain.ErrInvalidInput, q.From, q.To)
	}
	f.From, f.To = q.From, q.To
	return f, nil
}

// CourierDelivery is a delivery as its courier sees it, with totals.
// Vehicle is nil when the assigned vehicle is no longer on file.
type CourierDelivery struct {
	Delivery      domain.Delivery
	Number        string
	Vehicle       *domain.Vehicle
	PointsCount   int
	ProductsCount int
	TotalWeight   decimal.Decimal
}

// CourierDeliveries is the read side a courier uses to see their own work.
type CourierDeliveries struct {
	users    ports.UserLookup
	vehicles ports.VehicleLookup
	repo     ports.DeliveryRepository
	ledger   *CapacityLedger
}

func NewCourierDeliveries(
	users ports.UserLookup,
	vehicles ports.VehicleLookup,
	repo ports.DeliveryRepository,
	ledger *CapacityLedger,
) *CourierDeliveries {
	return &CourierDeliveries{users: users, vehicles: vehicles, repo: repo, ledger: ledger}
}

// List returns the courier's deliveries ordered by date and start time.
// A courier acting on behalf of another courier is refused; actorID 0 means
// an unauthenticated internal caller.
func (s *CourierDeliveries) List(ctx context.Context, actorID, courierID int64, q CourierQuery) ([]CourierDelivery, error) {
	if err := s.authorize(ctx, actorID, courierID); err != nil {
		return nil, fmt.Errorf("courier deliveries: %w", err)
	}
	filter, err := q.filter(courierID)
	if err != nil {
		return nil, fmt.Errorf("courier deliveries: %w", err)
	}

	ds, err := s.repo.ListDeliveries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("courier deliveries: %w", err)
	}

	vehicles := make(map[int64]*domain.Vehicle)
	out := make([]CourierDelivery, 0, len(ds))
	for _, d := range ds {
		v, seen := vehicles[d.VehicleID]
		if !seen {
			if v, err = s.vehicle(ctx, d.VehicleID); err != nil {
				return nil, fmt.Errorf("courier deliveries: %w", err)
			}
			vehicles[d.VehicleID] = v
		}
		cd, err := s.summarize(ctx, d, v)
		if err != nil {
			return nil, fmt.Errorf("courier deliveries: %w", err)
		}
		out = append(out, cd)
	}
	return out, nil
}

// Get returns one delivery if it belongs to the courier.
func (s *CourierDeliveries) Get(ctx context.Context, actorID, courierID, deliveryID int64) (CourierDelivery, error) {
	if err := s.authorize(ctx, actorID, courierID); err != nil {
		return CourierDelivery{}, fmt.Errorf("courier delivery: %w", err)
	}
	d, err := s.repo.GetDelivery(ctx, deliveryID)
	if err != nil {
		return CourierDelivery{}, fmt.Errorf("courier delivery: %w", err)
	}
	if d.CourierID != courierID {
		return CourierDelivery{}, fmt.Errorf("courier delivery %d: %w: assigned to another courier", deliveryID, domain.ErrForbidden)
	}
	v, err := s.vehicle(ctx, d.VehicleID)
	if err != nil {
		return CourierDelivery{}, fmt.Errorf("courier delivery %d: %w", deliveryID, err)
	}
	cd, err := s.summarize(ctx, d, v)
	if err != nil {
		return CourierDelivery{}, fmt.Errorf("courier delivery %d: %w", deliveryID, err)
	}
	return cd, nil
}

func (s *CourierDeliveries) authorize(ctx context.Context, actorID, courierID int64) error {
	u, err := s.users.UserByID(ctx, courierID)
	if err != nil {
		return err
	}
	if !u.IsCourier() {
		return fmt.Errorf("user %d: %w", courierID, domain.ErrNotCourier)
	}
	if actorID == 0 || actorID == courierID {
		return nil
	}
	actor, err := s.users.UserByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("actor: %w", err)
	}
	if actor.IsCourier() {
		return fmt.Errorf("%w: courier %d cannot read deliveries of courier %d", domain.ErrForbidden, actorID, courierID)
	}
	return nil
}

func (s *CourierDeliveries) vehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v, err := s.vehicles.VehicleByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *CourierDeliveries) summarize(ctx context.Context, d domain.Delivery, v *domain.Vehicle) (CourierDelivery, error) {
	load, err := s.ledger.StopsLoad(ctx, d.Stops)
	if err != nil {
		return CourierDelivery{}, fmt.Errorf("delivery %d load: %w", d.ID, err)
	}
	products := 0
	for _, st := range d.Stops {
		for _, it := range st.Items {
			products += it.Quantity
		}
	}
	return CourierDelivery{
		Delivery:      d,
		Number:        d.Number(),
		Vehicle:       v,
		PointsCount:   len(d.Stops),
		ProductsCount: products,
		TotalWeight:   load.Weight,
	}, nil
}
