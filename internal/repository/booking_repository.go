package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/daycarehq/daycare_backend/internal/model"
	"github.com/daycarehq/daycare_backend/internal/registry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// registryLockID — ключ advisory-блокировки, сериализующей мутаторы
// реестра. Reserve и Cancel берут её в рамках своей транзакции, поэтому
// проверка занятости и вставка/удаление выполняются как одно целое.
const registryLockID = 0x6461796361726531

// BookingRegistry — реализация реестра поверх PostgreSQL. Записи броней
// являются источником истины; занятость слотов не хранится, а
// пересчитывается по booking_slots внутри транзакции резервирования
// (условная запись вместо клиентской блокировки).
type BookingRegistry struct {
	pool *pgxpool.Pool
	caps registry.Capacities
}

var _ registry.Registry = (*BookingRegistry)(nil)

func NewBookingRegistry(pool *pgxpool.Pool, caps registry.Capacities) *BookingRegistry {
	return &BookingRegistry{pool: pool, caps: caps}
}

// Reserve проверяет ёмкость и фиксирует бронь в одной транзакции под
// advisory-блокировкой: конкурентные резервирования одного слота не
// могут оба увидеть свободное место.
func (r *BookingRegistry) Reserve(ctx context.Context, fields model.BookingFields) (*model.Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, registryLockID); err != nil {
		return nil, fmt.Errorf("acquire registry lock: %w", err)
	}

	demand := registry.SlotDemand(fields.Slots)
	keys := make([]string, 0, len(demand))
	for s := range demand {
		keys = append(keys, s.String())
	}

	occupancy := make(map[model.Slot]int, len(keys))
	rows, err := tx.Query(ctx, `
		SELECT slot, COUNT(*)
		FROM booking_slots
		WHERE slot = ANY($1)
		GROUP BY slot
	`, keys)
	if err != nil {
		return nil, fmt.Errorf("count slot occupancy: %w", err)
	}
	for rows.Next() {
		var slot string
		var count int
		if err := rows.Scan(&slot, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan occupancy: %w", err)
		}
		occupancy[model.Slot(slot)] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read occupancy: %w", err)
	}

	conflicting := registry.Conflicts(fields.Slots, func(s model.Slot) int { return occupancy[s] }, r.caps)
	if len(conflicting) > 0 {
		return nil, &registry.SlotsFullError{Conflicting: conflicting}
	}

	booking := &model.Booking{
		ID:       uuid.New(),
		Name:     fields.Name,
		Age:      fields.Age,
		Phone:    fields.Phone,
		Slots:    append([]model.Slot(nil), fields.Slots...),
		BookedAt: time.Now().UTC(),
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, name, age, phone, booked_at)
		VALUES ($1, $2, $3, $4, $5)
	`, booking.ID, booking.Name, booking.Age, booking.Phone, booking.BookedAt)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	for i, s := range booking.Slots {
		_, err = tx.Exec(ctx, `
			INSERT INTO booking_slots (booking_id, idx, slot)
			VALUES ($1, $2, $3)
		`, booking.ID, i, s.String())
		if err != nil {
			return nil, fmt.Errorf("insert booking slot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return booking, nil
}

// List возвращает все брони со слотами в порядке создания.
func (r *BookingRegistry) List(ctx context.Context) ([]*model.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.name, b.age, b.phone, b.booked_at, s.slot
		FROM bookings b
		JOIN booking_slots s ON s.booking_id = b.id
		ORDER BY b.position, s.idx
	`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var (
		bookings []*model.Booking
		current  *model.Booking
	)
	for rows.Next() {
		var (
			id       uuid.UUID
			name     string
			age      int
			phone    string
			bookedAt time.Time
			slot     string
		)
		if err := rows.Scan(&id, &name, &age, &phone, &bookedAt, &slot); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if current == nil || current.ID != id {
			current = &model.Booking{
				ID:       id,
				Name:     name,
				Age:      age,
				Phone:    phone,
				BookedAt: bookedAt,
			}
			bookings = append(bookings, current)
		}
		current.Slots = append(current.Slots, model.Slot(slot))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read bookings: %w", err)
	}

	return bookings, nil
}

// Cancel удаляет бронь в транзакции под той же advisory-блокировкой,
// что и Reserve; слоты освобождаются каскадным удалением booking_slots.
func (r *BookingRegistry) Cancel(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, registryLockID); err != nil {
		return fmt.Errorf("acquire registry lock: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registry.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Export строит строки отчёта одним запросом, порядок — бронь, затем
// слот внутри брони.
func (r *BookingRegistry) Export(ctx context.Context) ([]model.ReportRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.name, b.age, b.phone, b.booked_at, s.slot
		FROM bookings b
		JOIN booking_slots s ON s.booking_id = b.id
		ORDER BY b.position, s.idx
	`)
	if err != nil {
		return nil, fmt.Errorf("export bookings: %w", err)
	}
	defer rows.Close()

	var report []model.ReportRow
	for rows.Next() {
		var (
			id       uuid.UUID
			name     string
			age      int
			phone    string
			bookedAt time.Time
			slot     string
		)
		if err := rows.Scan(&id, &name, &age, &phone, &bookedAt, &slot); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		s := model.Slot(slot)
		report = append(report, model.ReportRow{
			BookingID: id,
			Name:      name,
			Age:       age,
			Phone:     phone,
			Day:       s.Day(),
			TimeRange: s.TimeRange(),
			BookedAt:  bookedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read report rows: %w", err)
	}

	return report, nil
}
