package model

import "strings"

// Slot идентифицирует один интервал недельного расписания,
// например "Monday|9:00–10:00 AM". Токен непрозрачный: два слота
// совпадают только при точном равенстве токенов.
type Slot string

// Day возвращает день (часть до первого "|").
func (s Slot) Day() string {
	day, _, _ := strings.Cut(string(s), "|")
	return day
}

// TimeRange возвращает метку интервала времени. Пустая строка, если
// в токене нет разделителя "|".
func (s Slot) TimeRange() string {
	_, tr, _ := strings.Cut(string(s), "|")
	return tr
}

func (s Slot) String() string {
	return string(s)
}

// SlotsFromStrings конвертирует сырые токены слотов с транспорта.
func SlotsFromStrings(raw []string) []Slot {
	if raw == nil {
		return nil
	}
	slots := make([]Slot, len(raw))
	for i, s := range raw {
		slots[i] = Slot(s)
	}
	return slots
}
