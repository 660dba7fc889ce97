package registry

import (
	"context"
	"sync"
	"time"

	"github.com/daycarehq/daycare_backend/internal/model"
	"github.com/google/uuid"
)

// InMemory — реестр в памяти процесса: карта броней, индекс порядка
// создания и инкрементальные счётчики занятости под одним RWMutex.
// Счётчики выводимы из броней, но поддерживаются на лету ради O(1)
// проверки ёмкости.
type InMemory struct {
	mu sync.RWMutex

	caps      Capacities
	bookings  map[uuid.UUID]*model.Booking
	order     []uuid.UUID
	occupancy map[model.Slot]int

	now func() time.Time
}

var _ Registry = (*InMemory)(nil)

// Option настраивает InMemory при создании.
type Option func(*InMemory)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(r *InMemory) { r.now = now }
}

// NewInMemory создаёт пустой реестр с заданной политикой ёмкости.
func NewInMemory(caps Capacities, opts ...Option) *InMemory {
	r := &InMemory{
		caps:      caps,
		bookings:  make(map[uuid.UUID]*model.Booking),
		occupancy: make(map[model.Slot]int),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reserve выполняет проверку и коммит под одним захватом write-lock:
// два конкурентных вызова на один слот не могут оба увидеть свободное
// место. Либо место есть у каждого слота и бронь фиксируется целиком,
// либо возвращается *SlotsFullError и состояние не меняется.
func (r *InMemory) Reserve(_ context.Context, fields model.BookingFields) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conflicting := Conflicts(fields.Slots, func(s model.Slot) int { return r.occupancy[s] }, r.caps)
	if len(conflicting) > 0 {
		return nil, &SlotsFullError{Conflicting: conflicting}
	}

	booking := &model.Booking{
		ID:       uuid.New(),
		Name:     fields.Name,
		Age:      fields.Age,
		Phone:    fields.Phone,
		Slots:    append([]model.Slot(nil), fields.Slots...),
		BookedAt: r.now().UTC(),
	}

	r.bookings[booking.ID] = booking
	r.order = append(r.order, booking.ID)
	for _, s := range booking.Slots {
		r.occupancy[s]++
	}

	return booking.Clone(), nil
}

// List возвращает снимок броней в порядке создания. Копии не разделяют
// память с внутренним состоянием, последующие мутации на снимок
// не влияют.
func (r *InMemory) List(_ context.Context) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Booking, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.bookings[id].Clone())
	}
	return out, nil
}

// Cancel удаляет бронь и уменьшает занятость каждого её слота на его
// кратность. Неизвестный id — ErrNotFound, счётчики не трогаются.
func (r *InMemory) Cancel(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}

	delete(r.bookings, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for _, s := range booking.Slots {
		r.occupancy[s]--
		if r.occupancy[s] <= 0 {
			delete(r.occupancy, s)
		}
	}

	return nil
}

// Export строит строки отчёта по консистентному снимку.
func (r *InMemory) Export(_ context.Context) ([]model.ReportRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rows []model.ReportRow
	for _, id := range r.order {
		rows = append(rows, r.bookings[id].ReportRows()...)
	}
	return rows, nil
}

// Occupancy возвращает текущую занятость слота (для тестов и админки).
func (r *InMemory) Occupancy(s model.Slot) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.occupancy[s]
}
