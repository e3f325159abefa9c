package distance

import (
	"context"
	"courier-delivery-service/internal/domain"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

type MockPair struct {
	From, To domain.Coordinates
	Km       float64
}

// MockDistanceProvider answers from a fixed table of coordinate pairs and
// fails for anything else. Pairs are matched in both directions.
type MockDistanceProvider struct {
	m     map[string]decimal.Decimal
	calls atomic.Int64

	mu        sync.Mutex
	requested []MockPair
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]decimal.Decimal, 2*len(pairs))
	for _, p := range pairs {
		km := decimal.NewFromFloat(p.Km)
		m[p.From.Key()+"|"+p.To.Key()] = km
		m[p.To.Key()+"|"+p.From.Key()] = km
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) DistanceKm(ctx context.Context, from, to domain.Coordinates) (decimal.Decimal, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.requested = append(p.requested, MockPair{From: from, To: to})
	p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	km, ok := p.m[from.Key()+"|"+to.Key()]
	if !ok {
		return decimal.Zero, fmt.Errorf("missing pair %s -> %s", from.Key(), to.Key())
	}
	return km, nil
}

// EstimateKm makes the mock usable as a DistanceEstimator; unknown pairs are 0.
func (p *MockDistanceProvider) EstimateKm(ctx context.Context, from, to domain.Coordinates) decimal.Decimal {
	km, _ := p.DistanceKm(ctx, from, to)
	return km
}

func (p *MockDistanceProvider) Calls() int64 { return p.calls.Load() }

// Requested returns every pair asked for so far, in call order. Km is unset.
func (p *MockDistanceProvider) Requested() []MockPair {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]MockPair(nil), p.requested...)
}
