package service

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/daycarehq/daycare_backend/internal/model"
)

// Ошибки валидации. Все локальные и исправимые: клиент корректирует
// поля и повторяет запрос, состояние реестра не затрагивается.
var (
	ErrMissingFields = errors.New("missing required fields: name, age, phone, slots[]")
	ErrInvalidAge    = errors.New("age must be between 1 and 120")
	ErrInvalidPhone  = errors.New("invalid phone number")
)

const (
	minAge = 1
	maxAge = 120

	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// Candidate — сырая заявка с транспорта. Age приходит строкой: клиенты
// присылают и число, и строку, нормализация — забота адаптера.
type Candidate struct {
	Name  string
	Age   string
	Phone string
	Slots []string
}

// Validate — чистая структурная проверка заявки, без знания о занятости
// слотов. Правила проверяются по порядку, первая ошибка побеждает:
//  1. name, age, phone непустые, slots непустой список — иначе ErrMissingFields;
//  2. age парсится в целое из [1,120] — иначе ErrInvalidAge;
//  3. phone после удаления нецифровых символов содержит 7–15 цифр —
//     иначе ErrInvalidPhone.
//
// На выходе нормализованные поля: имя обрезано, возраст числом, телефон
// обрезан с сохранением исходного формата, слоты как переданы.
func Validate(c Candidate) (model.BookingFields, error) {
	name := strings.TrimSpace(c.Name)
	ageRaw := strings.TrimSpace(c.Age)
	phone := strings.TrimSpace(c.Phone)

	if name == "" || ageRaw == "" || phone == "" || len(c.Slots) == 0 {
		return model.BookingFields{}, ErrMissingFields
	}

	age, err := strconv.Atoi(ageRaw)
	if err != nil || age < minAge || age > maxAge {
		return model.BookingFields{}, ErrInvalidAge
	}

	if n := countDigits(phone); n < minPhoneDigits || n > maxPhoneDigits {
		return model.BookingFields{}, ErrInvalidPhone
	}

	return model.BookingFields{
		Name:  name,
		Age:   age,
		Phone: phone,
		Slots: model.SlotsFromStrings(c.Slots),
	}, nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// IsValidationError сообщает, относится ли ошибка к стадии валидации.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidAge) ||
		errors.Is(err, ErrInvalidPhone)
}
