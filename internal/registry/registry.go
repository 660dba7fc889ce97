package registry

import (
	"context"

	"github.com/daycarehq/daycare_backend/internal/model"
	"github.com/google/uuid"
)

// Registry — авторитетный владелец броней и счётчиков занятости слотов.
// Reserve и Cancel — единственные мутаторы; обе операции атомарны:
// проверка ёмкости и коммит выполняются как одно целое, частичных
// коммитов не бывает.
type Registry interface {
	// Reserve атомарно проверяет ёмкость всех запрошенных слотов и,
	// если каждому хватает места, фиксирует бронь. При нехватке хотя бы
	// одного слота возвращает *SlotsFullError со ВСЕМИ конфликтующими
	// слотами, ничего не меняя.
	Reserve(ctx context.Context, fields model.BookingFields) (*model.Booking, error)

	// List возвращает снимок всех броней в порядке создания.
	List(ctx context.Context) ([]*model.Booking, error)

	// Cancel удаляет бронь и освобождает занятость её слотов.
	// Возвращает ErrNotFound, если брони с таким id нет.
	Cancel(ctx context.Context, id uuid.UUID) error

	// Export возвращает плоские строки отчёта: бронь с N слотами даёт
	// N строк, порядок — по созданию брони, затем по слотам внутри неё.
	Export(ctx context.Context) ([]model.ReportRow, error)
}

// Capacities — политика ёмкости: общий дефолт плюс точечные
// переопределения по слотам. Черновики расходились (1 или 5 броней на
// слот), поэтому значение — параметр конфигурации, дефолт 1.
type Capacities struct {
	Default int
	PerSlot map[model.Slot]int
}

// NewCapacities нормализует политику: неположительный дефолт
// заменяется единицей.
func NewCapacities(def int, perSlot map[model.Slot]int) Capacities {
	if def <= 0 {
		def = 1
	}
	return Capacities{Default: def, PerSlot: perSlot}
}

// For возвращает ёмкость конкретного слота.
func (c Capacities) For(s model.Slot) int {
	if n, ok := c.PerSlot[s]; ok && n > 0 {
		return n
	}
	return c.Default
}

// SlotDemand считает кратность каждого слота в заявке: дубликат слота
// внутри одной брони потребляет две единицы ёмкости.
func SlotDemand(slots []model.Slot) map[model.Slot]int {
	demand := make(map[model.Slot]int, len(slots))
	for _, s := range slots {
		demand[s]++
	}
	return demand
}

// Conflicts возвращает слоты заявки, которым не хватает ёмкости:
// occupancy + кратность в заявке > ёмкость слота. Порядок — порядок
// первого вхождения слота в заявку, без дубликатов.
func Conflicts(slots []model.Slot, occupancy func(model.Slot) int, caps Capacities) []model.Slot {
	demand := SlotDemand(slots)

	var conflicting []model.Slot
	seen := make(map[model.Slot]bool, len(demand))
	for _, s := range slots {
		if seen[s] {
			continue
		}
		seen[s] = true
		if occupancy(s)+demand[s] > caps.For(s) {
			conflicting = append(conflicting, s)
		}
	}
	return conflicting
}
