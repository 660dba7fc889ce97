package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/daycarehq/daycare_backend/internal/model"
)

// ErrNotFound возвращается при отмене брони по несуществующему id.
var ErrNotFound = errors.New("booking not found")

// SlotsFullError — отказ резервирования: перечисленным слотам не хватает
// свободной ёмкости. Заявка отклонена целиком, состояние реестра
// не изменилось.
type SlotsFullError struct {
	Conflicting []model.Slot
}

func (e *SlotsFullError) Error() string {
	tokens := make([]string, len(e.Conflicting))
	for i, s := range e.Conflicting {
		tokens[i] = s.String()
	}
	return fmt.Sprintf("slots are already booked: %s", strings.Join(tokens, ", "))
}

// IsSlotsFull проверяет, является ли ошибка конфликтом ёмкости,
// и возвращает список конфликтующих слотов.
func IsSlotsFull(err error) ([]model.Slot, bool) {
	var sf *SlotsFullError
	if errors.As(err, &sf) {
		return sf.Conflicting, true
	}
	return nil, false
}
