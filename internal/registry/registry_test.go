package registry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/daycarehq/daycare_backend/internal/model"
	"github.com/daycarehq/daycare_backend/internal/registry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	slotMon = model.Slot("Monday|9:00–10:00 AM")
	slotWed = model.Slot("Wednesday|10:00–11:00 AM")
	slotFri = model.Slot("Friday|2:00–3:00 PM")
)

func fields(name string, slots ...model.Slot) model.BookingFields {
	return model.BookingFields{
		Name:  name,
		Age:   70,
		Phone: "+7 900 123-45-67",
		Slots: slots,
	}
}

func newRegistry(capacity int) *registry.InMemory {
	return registry.NewInMemory(registry.NewCapacities(capacity, nil))
}

func TestReserveAndList(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(1)

	booking, err := reg.Reserve(ctx, fields("Ivan", slotMon, slotWed))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, booking.ID)
	require.False(t, booking.BookedAt.IsZero())

	all, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, booking.ID, all[0].ID)
	assert.Equal(t, []model.Slot{slotMon, slotWed}, all[0].Slots)
}

func TestConcurrentReserveSingleCapacity(t *testing.T) {
	const workers = 25

	ctx := context.Background()
	reg := newRegistry(1)

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = reg.Reserve(ctx, fields("Ivan", slotMon))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		_, ok := registry.IsSlotsFull(err)
		require.True(t, ok, "unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, reg.Occupancy(slotMon))
}

func TestReserveAllOrNothing(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(1)

	_, err := reg.Reserve(ctx, fields("Ivan", slotWed))
	require.NoError(t, err)

	// слот slotMon свободен, slotWed занят: заявка падает целиком
	_, err = reg.Reserve(ctx, fields("Olga", slotMon, slotWed))
	conflicting, ok := registry.IsSlotsFull(err)
	require.True(t, ok)
	assert.Equal(t, []model.Slot{slotWed}, conflicting)

	assert.Equal(t, 0, reg.Occupancy(slotMon))

	all, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReserveReportsEveryConflictingSlot(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(1)

	_, err := reg.Reserve(ctx, fields("Ivan", slotMon, slotWed))
	require.NoError(t, err)

	_, err = reg.Reserve(ctx, fields("Olga", slotMon, slotFri, slotWed))
	conflicting, ok := registry.IsSlotsFull(err)
	require.True(t, ok)
	assert.Equal(t, []model.Slot{slotMon, slotWed}, conflicting)
}

func TestCancelFreesCapacity(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(1)

	booking, err := reg.Reserve(ctx, fields("Ivan", slotMon))
	require.NoError(t, err)

	require.NoError(t, reg.Cancel(ctx, booking.ID))
	assert.Equal(t, 0, reg.Occupancy(slotMon))

	_, err = reg.Reserve(ctx, fields("Olga", slotMon))
	require.NoError(t, err)
}

func TestCancelUnknownID(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(1)

	_, err := reg.Reserve(ctx, fields("Ivan", slotMon))
	require.NoError(t, err)

	err = reg.Cancel(ctx, uuid.New())
	require.ErrorIs(t, err, registry.ErrNotFound)

	// состояние не тронуто
	assert.Equal(t, 1, reg.Occupancy(slotMon))
	all, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestExportRows(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewInMemory(
		registry.NewCapacities(1, nil),
		registry.WithClock(func() time.Time {
			return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		}),
	)

	booking, err := reg.Reserve(ctx, fields("Ivan", slotMon, slotWed))
	require.NoError(t, err)
	_, err = reg.Reserve(ctx, fields("Olga", slotFri))
	require.NoError(t, err)

	rows, err := reg.Export(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// бронь с двумя слотами даёт две строки с общими полями
	assert.Equal(t, booking.ID, rows[0].BookingID)
	assert.Equal(t, booking.ID, rows[1].BookingID)
	assert.Equal(t, "Monday", rows[0].Day)
	assert.Equal(t, "9:00–10:00 AM", rows[0].TimeRange)
	assert.Equal(t, "Wednesday", rows[1].Day)
	assert.Equal(t, "Ivan", rows[1].Name)
	assert.Equal(t, "Olga", rows[2].Name)
}

func TestDuplicateSlotMultiplicity(t *testing.T) {
	ctx := context.Background()

	// дубликат внутри заявки требует две единицы ёмкости
	reg := newRegistry(1)
	_, err := reg.Reserve(ctx, fields("Ivan", slotMon, slotMon))
	conflicting, ok := registry.IsSlotsFull(err)
	require.True(t, ok)
	assert.Equal(t, []model.Slot{slotMon}, conflicting)
	assert.Equal(t, 0, reg.Occupancy(slotMon))

	reg2 := newRegistry(2)
	_, err = reg2.Reserve(ctx, fields("Ivan", slotMon, slotMon))
	require.NoError(t, err)
	assert.Equal(t, 2, reg2.Occupancy(slotMon))
}

func TestCapacityFive(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(5)

	for i := 0; i < 5; i++ {
		_, err := reg.Reserve(ctx, fields("Ivan", slotMon))
		require.NoError(t, err)
	}

	_, err := reg.Reserve(ctx, fields("Olga", slotMon))
	_, ok := registry.IsSlotsFull(err)
	require.True(t, ok)
	assert.Equal(t, 5, reg.Occupancy(slotMon))
}

func TestPerSlotCapacityOverride(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewInMemory(registry.NewCapacities(1, map[model.Slot]int{slotFri: 2}))

	_, err := reg.Reserve(ctx, fields("Ivan", slotFri))
	require.NoError(t, err)
	_, err = reg.Reserve(ctx, fields("Olga", slotFri))
	require.NoError(t, err)
	_, err = reg.Reserve(ctx, fields("Pavel", slotFri))
	_, ok := registry.IsSlotsFull(err)
	require.True(t, ok)

	_, err = reg.Reserve(ctx, fields("Ivan", slotMon))
	require.NoError(t, err)
	_, err = reg.Reserve(ctx, fields("Olga", slotMon))
	_, ok = registry.IsSlotsFull(err)
	require.True(t, ok)
}

func TestListSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(1)

	_, err := reg.Reserve(ctx, fields("Ivan", slotMon))
	require.NoError(t, err)

	snapshot, err := reg.List(ctx)
	require.NoError(t, err)

	// мутация снимка не протекает в реестр
	snapshot[0].Name = "hacked"
	snapshot[0].Slots[0] = slotFri

	all, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", all[0].Name)
	assert.Equal(t, slotMon, all[0].Slots[0])
}
