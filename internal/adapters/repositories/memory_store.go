package repositories

import (
	"cmp"
	"context"
	"courier-delivery-service/internal/domain"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps reference data and deliveries in process memory.
// It implements the same ports as PostgresStore and is safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	products   map[int64]domain.Product
	vehicles   map[int64]domain.Vehicle
	users      map[int64]domain.User
	deliveries map[int64]domain.Delivery
	nextID     int64
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:   make(map[int64]domain.Product),
		vehicles:   make(map[int64]domain.Vehicle),
		users:      make(map[int64]domain.User),
		deliveries: make(map[int64]domain.Delivery),
		now:        time.Now,
	}
}

func (m *MemoryStore) AddProduct(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *MemoryStore) AddVehicle(v domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[v.ID] = v
}

func (m *MemoryStore) AddUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// Load adds all reference data from a validated seed.
func (m *MemoryStore) Load(data ReferenceData) {
	for _, u := range data.Users {
		m.AddUser(u)
	}
	for _, v := range data.Vehicles {
		m.AddVehicle(v)
	}
	for _, p := range data.Products {
		m.AddProduct(p)
	}
}

func (m *MemoryStore) ProductByID(_ context.Context, id int64) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.NotFound("product", id)
	}
	return p, nil
}

func (m *MemoryStore) VehicleByID(_ context.Context, id int64) (domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	if !ok {
		return domain.Vehicle{}, domain.NotFound("vehicle", id)
	}
	return v, nil
}

func (m *MemoryStore) ListVehicles(_ context.Context) ([]domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b domain.Vehicle) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *MemoryStore) UserByID(_ context.Context, id int64) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFound("user", id)
	}
	return u, nil
}

func (m *MemoryStore) UsersByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.User, 0)
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *MemoryStore) OverlappingDeliveries(
	_ context.Context,
	vehicleID int64,
	date domain.Date,
	window domain.TimeWindow,
	excludeStatuses []domain.Status,
	excludeID int64,
) ([]domain.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Delivery, 0)
	for _, d := range m.deliveries {
		if d.VehicleID != vehicleID || d.Date != date || d.ID == excludeID {
			continue
		}
		if slices.Contains(excludeStatuses, d.Status) {
			continue
		}
		if !d.Window.Overlaps(window) {
			continue
		}
		out = append(out, cloneDelivery(d))
	}
	slices.SortFunc(out, func(a, b domain.Delivery) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *MemoryStore) CreateDelivery(_ context.Context, d domain.Delivery) (domain.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	d.ID = m.nextID
	now := m.now()
	d.CreatedAt, d.UpdatedAt = now, now
	m.deliveries[d.ID] = cloneDelivery(d)
	return cloneDelivery(d), nil
}

func (m *MemoryStore) UpdateDelivery(_ context.Context, d domain.Delivery) (domain.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.deliveries[d.ID]
	if !ok {
		return domain.Delivery{}, domain.NotFound("delivery", d.ID)
	}
	d.CreatedAt = existing.CreatedAt
	d.CreatedBy = existing.CreatedBy
	d.Status = existing.Status
	d.UpdatedAt = m.now()
	m.deliveries[d.ID] = cloneDelivery(d)
	return cloneDelivery(d), nil
}

func (m *MemoryStore) DeleteDelivery(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deliveries[id]; !ok {
		return domain.NotFound("delivery", id)
	}
	delete(m.deliveries, id)
	return nil
}

func (m *MemoryStore) GetDelivery(_ context.Context, id int64) (domain.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.deliveries[id]
	if !ok {
		return domain.Delivery{}, domain.NotFound("delivery", id)
	}
	return cloneDelivery(d), nil
}

func (m *MemoryStore) ListDeliveries(_ context.Context, filter domain.DeliveryFilter) ([]domain.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Delivery, 0)
	for _, d := range m.deliveries {
		if filter.Match(d) {
			out = append(out, cloneDelivery(d))
		}
	}
	slices.SortFunc(out, func(a, b domain.Delivery) int {
		if c := a.Date.Time().Compare(b.Date.Time()); c != 0 {
			return c
		}
		if a.Window.Start != b.Window.Start {
			return int(a.Window.Start - b.Window.Start)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id int64, status domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return domain.NotFound("delivery", id)
	}
	d.Status = status
	d.UpdatedAt = m.now()
	m.deliveries[id] = d
	return nil
}

func cloneDelivery(d domain.Delivery) domain.Delivery {
	stops := make([]domain.Stop, len(d.Stops))
	for i, st := range d.Stops {
		st.Items = slices.Clone(st.Items)
		stops[i] = st
	}
	d.Stops = stops
	return d
}
