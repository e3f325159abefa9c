package repositories

import (
	"cmp"
	"context"
	"courier-delivery-service/internal/domain"
	"fmt"
	"slices"
)

func (m *MemoryStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *MemoryStore) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = nextKey(m.products)
	m.products[p.ID] = p
	return p, nil
}

func (m *MemoryStore) UpdateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return domain.Product{}, domain.NotFound("product", p.ID)
	}
	m.products[p.ID] = p
	return p, nil
}

// DeleteProduct refuses products still referenced by any delivery, like the
// foreign key does in Postgres.
func (m *MemoryStore) DeleteProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.NotFound("product", id)
	}
	if m.productReferenced(id, nil) {
		return fmt.Errorf("%w: product %d is referenced by deliveries", domain.ErrConflict, id)
	}
	delete(m.products, id)
	return nil
}

func (m *MemoryStore) ProductInUse(_ context.Context, id int64, statuses []domain.Status) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.productReferenced(id, statuses), nil
}

func (m *MemoryStore) CreateVehicle(_ context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.plateTaken(v.LicensePlate, 0); err != nil {
		return domain.Vehicle{}, err
	}
	v.ID = nextKey(m.vehicles)
	m.vehicles[v.ID] = v
	return v, nil
}

func (m *MemoryStore) UpdateVehicle(_ context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[v.ID]; !ok {
		return domain.Vehicle{}, domain.NotFound("vehicle", v.ID)
	}
	if err := m.plateTaken(v.LicensePlate, v.ID); err != nil {
		return domain.Vehicle{}, err
	}
	m.vehicles[v.ID] = v
	return v, nil
}

func (m *MemoryStore) DeleteVehicle(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[id]; !ok {
		return domain.NotFound("vehicle", id)
	}
	for _, d := range m.deliveries {
		if d.VehicleID == id {
			return fmt.Errorf("%w: vehicle %d is referenced by deliveries", domain.ErrConflict, id)
		}
	}
	delete(m.vehicles, id)
	return nil
}

func (m *MemoryStore) VehicleInUse(_ context.Context, id int64, statuses []domain.Status) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.deliveries {
		if d.VehicleID == id && slices.Contains(statuses, d.Status) {
			return true, nil
		}
	}
	return false, nil
}

// productReferenced reports whether a delivery carries the product. A nil
// statuses slice matches deliveries in any status.
func (m *MemoryStore) productReferenced(id int64, statuses []domain.Status) bool {
	for _, d := range m.deliveries {
		if statuses != nil && !slices.Contains(statuses, d.Status) {
			continue
		}
		for _, st := range d.Stops {
			for _, it := range st.Items {
				if it.ProductID == id {
					return true
				}
			}
		}
	}
	return false
}

func (m *MemoryStore) plateTaken(plate string, selfID int64) error {
	for _, v := range m.vehicles {
		if v.ID != selfID && v.LicensePlate == plate {
			return fmt.Errorf("%w: license plate %q already registered", domain.ErrConflict, plate)
		}
	}
	return nil
}

func nextKey[V any](m map[int64]V) int64 {
	var top int64
	for id := range m {
		top = max(top, id)
	}
	return top + 1
}
