package services

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/ports"
	"fmt"

	"github.com/shopspring/decimal"
)

// Load is an aggregate weight (kg) and volume (m3).
type Load struct {
	Weight decimal.Decimal
	Volume decimal.Decimal
}

func (l Load) Add(o Load) Load {
	return Load{Weight: l.Weight.Add(o.Weight), Volume: l.Volume.Add(o.Volume)}
}

// CapacityLedger sums the load already committed to a vehicle.
// It holds no state between calls: every call re-reads the committed deliveries.
type CapacityLedger struct {
	deliveries ports.DeliveryLookup
	products   ports.ProductLookup
}

func NewCapacityLedger(deliveries ports.DeliveryLookup, products ports.ProductLookup) *CapacityLedger {
	return &CapacityLedger{deliveries: deliveries, products: products}
}

// CommittedLoad returns the load of all non-terminal deliveries of the vehicle
// on date whose window overlaps window. excludeID skips one delivery (0 for none).
func (l *CapacityLedger) CommittedLoad(
	ctx context.Context,
	vehicleID int64,
	date domain.Date,
	window domain.TimeWindow,
	excludeID int64,
) (Load, error) {
	committed, err := l.deliveries.OverlappingDeliveries(ctx, vehicleID, date, window, domain.TerminalStatuses, excludeID)
	if err != nil {
		return Load{}, fmt.Errorf("committed load: vehicle %d on %s: %w", vehicleID, date, err)
	}

	res := newProductResolver(l.products)
	total := Load{}
	for _, d := range committed {
		load, err := res.stopsLoad(ctx, d.Stops)
		if err != nil {
			return Load{}, fmt.Errorf("committed load: delivery %d: %w", d.ID, err)
		}
		total = total.Add(load)
	}
	return total, nil
}

// StopsLoad returns the load carried by the given stops.
func (l *CapacityLedger) StopsLoad(ctx context.Context, stops []domain.Stop) (Load, error) {
	return newProductResolver(l.products).stopsLoad(ctx, stops)
}

// productResolver memoizes product lookups for the duration of one call.
type productResolver struct {
	lookup ports.ProductLookup
	seen   map[int64]domain.Product
}

func newProductResolver(lookup ports.ProductLookup) *productResolver {
	return &productResolver{lookup: lookup, seen: make(map[int64]domain.Product)}
}

func (r *productResolver) product(ctx context.Context, id int64) (domain.Product, error) {
	if p, ok := r.seen[id]; ok {
		return p, nil
	}
	p, err := r.lookup.ProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	r.seen[id] = p
	return p, nil
}

func (r *productResolver) stopsLoad(ctx context.Context, stops []domain.Stop) (Load, error) {
	total := Load{}
	for _, stop := range stops {
		for _, item := range stop.Items {
			if item.Quantity <= 0 {
				return Load{}, fmt.Errorf("stop %d: product %d: %w: quantity must be positive",
					stop.Sequence, item.ProductID, domain.ErrInvalidInput)
			}
			p, err := r.product(ctx, item.ProductID)
			if err != nil {
				return Load{}, fmt.Errorf("stop %d: %w", stop.Sequence, err)
			}
			qty := decimal.NewFromInt(int64(item.Quantity))
			total = total.Add(Load{
				Weight: p.Weight.Mul(qty),
				Volume: p.Volume().Mul(qty),
			})
		}
	}
	return total, nil
}
