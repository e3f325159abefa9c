package cache

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/ports"
	"errors"

	"github.com/shopspring/decimal"
)

// Tiered reads layers in order and back-fills the faster layers on a hit
// further down. Writes go to every layer.
type Tiered struct {
	layers []ports.DistanceCache
}

func NewTiered(layers ...ports.DistanceCache) *Tiered {
	nonNil := make([]ports.DistanceCache, 0, len(layers))
	for _, l := range layers {
		if l != nil {
			nonNil = append(nonNil, l)
		}
	}
	return &Tiered{layers: nonNil}
}

func (t *Tiered) Len() int { return len(t.layers) }

func (t *Tiered) Get(ctx context.Context, from, to domain.Coordinates) (decimal.Decimal, bool, error) {
	var errs []error
	for i, l := range t.layers {
		km, ok, err := l.Get(ctx, from, to)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		for _, faster := range t.layers[:i] {
			if err := faster.Put(ctx, from, to, km); err != nil {
				errs = append(errs, err)
			}
		}
		return km, true, nil
	}
	return decimal.Zero, false, errors.Join(errs...)
}

func (t *Tiered) Put(ctx context.Context, from, to domain.Coordinates, km decimal.Decimal) error {
	var errs []error
	for _, l := range t.layers {
		if err := l.Put(ctx, from, to, km); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
