package services

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/obs"
	"courier-delivery-service/internal/ports"
	"fmt"
	"log/slog"
)

const DefaultEditWindowDays = 3

// DeliveryRequest is the caller-supplied content of a delivery.
type DeliveryRequest struct {
	CourierID int64
	VehicleID int64
	Date      domain.Date
	Window    domain.TimeWindow
	Stops     []domain.Stop
}

func (r DeliveryRequest) candidate() domain.Candidate {
	return domain.Candidate{
		CourierID: r.CourierID,
		VehicleID: r.VehicleID,
		Date:      r.Date,
		Window:    r.Window,
		Stops:     r.Stops,
	}
}

// DeliveryService runs admission for single deliveries and owns their lifecycle.
type DeliveryService struct {
	users          ports.UserLookup
	repo           ports.DeliveryRepository
	validator      *FeasibilityValidator
	editWindowDays int
	logger         *slog.Logger
}

func NewDeliveryService(
	users ports.UserLookup,
	repo ports.DeliveryRepository,
	validator *FeasibilityValidator,
	editWindowDays int,
	logger *slog.Logger,
) *DeliveryService {
	if editWindowDays <= 0 {
		editWindowDays = DefaultEditWindowDays
	}
	return &DeliveryService{
		users:          users,
		repo:           repo,
		validator:      validator,
		editWindowDays: editWindowDays,
		logger:         logger,
	}
}

// Validate runs the creation-path feasibility check without persisting anything.
func (s *DeliveryService) Validate(ctx context.Context, req DeliveryRequest) (v domain.Verdict, err error) {
	defer obs.Time(ctx, "delivery.validate")(&err)

	stops, err := NormalizeStops(req.Stops)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("validate delivery: %w", err)
	}
	req.Stops = stops

	if err := s.requireCourier(ctx, req.CourierID); err != nil {
		return domain.Verdict{}, fmt.Errorf("validate delivery: %w", err)
	}

	v, err = s.validator.Validate(ctx, req.candidate())
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("validate delivery: %w", err)
	}
	return v, nil
}

func (s *DeliveryService) Create(ctx context.Context, actorID int64, req DeliveryRequest) (d domain.Delivery, err error) {
	defer obs.Time(ctx, "delivery.create")(&err)

	stops, err := NormalizeStops(req.Stops)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", err)
	}
	req.Stops = stops

	if err := s.requireCourier(ctx, req.CourierID); err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", err)
	}

	verdict, err := s.validator.Validate(ctx, req.candidate())
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", err)
	}
	if err := verdict.Err(); err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", err)
	}

	d, err = s.repo.CreateDelivery(ctx, domain.Delivery{
		CourierID: req.CourierID,
		VehicleID: req.VehicleID,
		CreatedBy: actorID,
		Date:      req.Date,
		Window:    req.Window,
		Status:    domain.StatusPlanned,
		Stops:     req.Stops,
	})
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", err)
	}

	s.logger.InfoContext(ctx, "delivery created",
		"delivery_id", d.ID, "vehicle_id", d.VehicleID, "date", d.Date.String())
	return d, nil
}

// Update replaces the delivery's assignment, schedule and stops. The delivery's
// own load does not count against the new schedule.
func (s *DeliveryService) Update(ctx context.Context, id int64, req DeliveryRequest) (d domain.Delivery, err error) {
	defer obs.Time(ctx, "delivery.update")(&err)

	existing, err := s.repo.GetDelivery(ctx, id)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery: %w", err)
	}
	if err := s.requireEditable(existing); err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: %w", id, err)
	}

	stops, err := NormalizeStops(req.Stops)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: %w", id, err)
	}
	req.Stops = stops

	if err := s.requireCourier(ctx, req.CourierID); err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: %w", id, err)
	}

	verdict, err := s.validator.ValidateUpdate(ctx, id, req.candidate())
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: %w", id, err)
	}
	if err := verdict.Err(); err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: %w", id, err)
	}

	existing.CourierID = req.CourierID
	existing.VehicleID = req.VehicleID
	existing.Date = req.Date
	existing.Window = req.Window
	existing.Stops = req.Stops

	d, err = s.repo.UpdateDelivery(ctx, existing)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: %w", id, err)
	}
	return d, nil
}

func (s *DeliveryService) Delete(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "delivery.delete")(&err)

	existing, err := s.repo.GetDelivery(ctx, id)
	if err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	if err := s.requireEditable(existing); err != nil {
		return fmt.Errorf("delete delivery %d: %w", id, err)
	}
	if err := s.repo.DeleteDelivery(ctx, id); err != nil {
		return fmt.Errorf("delete delivery %d: %w", id, err)
	}
	return nil
}

func (s *DeliveryService) Get(ctx context.Context, id int64) (domain.Delivery, error) {
	d, err := s.repo.GetDelivery(ctx, id)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("get delivery: %w", err)
	}
	return d, nil
}

func (s *DeliveryService) List(ctx context.Context, filter domain.DeliveryFilter) ([]domain.Delivery, error) {
	ds, err := s.repo.ListDeliveries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return ds, nil
}

// ChangeStatus moves the delivery along PLANNED -> IN_PROGRESS -> COMPLETED,
// or to CANCELLED from any non-terminal status.
func (s *DeliveryService) ChangeStatus(ctx context.Context, id int64, next domain.Status) (d domain.Delivery, err error) {
	defer obs.Time(ctx, "delivery.change_status")(&err)

	existing, err := s.repo.GetDelivery(ctx, id)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("change status: %w", err)
	}
	if !existing.Status.CanTransitionTo(next) {
		return domain.Delivery{}, fmt.Errorf("change status of delivery %d: %w: %s -> %s",
			id, domain.ErrInvalidTransition, existing.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return domain.Delivery{}, fmt.Errorf("change status of delivery %d: %w", id, err)
	}

	existing.Status = next
	return existing, nil
}

func (s *DeliveryService) requireCourier(ctx context.Context, id int64) error {
	u, err := s.users.UserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("courier: %w", err)
	}
	if !u.IsCourier() {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotCourier)
	}
	return nil
}

func (s *DeliveryService) requireEditable(d domain.Delivery) error {
	if d.Date.DaysSince(s.validator.Today()) < s.editWindowDays {
		return fmt.Errorf("%w: less than %d days before %s", domain.ErrEditWindowClosed, s.editWindowDays, d.Date)
	}
	return nil
}

// NormalizeStops assigns position+1 to stops without a sequence and rejects
// duplicate or negative sequences.
func NormalizeStops(stops []domain.Stop) ([]domain.Stop, error) {
	out := make([]domain.Stop, len(stops))
	seen := make(map[int]struct{}, len(stops))
	for i, st := range stops {
		if st.Sequence == 0 {
			st.Sequence = i + 1
		}
		if st.Sequence < 0 {
			return nil, fmt.Errorf("%w: stop %d has negative sequence", domain.ErrInvalidInput, i)
		}
		if _, dup := seen[st.Sequence]; dup {
			return nil, fmt.Errorf("%w: duplicate stop sequence %d", domain.ErrInvalidInput, st.Sequence)
		}
		seen[st.Sequence] = struct{}{}
		out[i] = st
	}
	return orderedStops(out), nil
}
