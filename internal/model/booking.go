package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking — одна подтверждённая бронь: один посетитель, один или
// несколько слотов недельного расписания.
type Booking struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Age      int       `json:"age"`
	Phone    string    `json:"phone"`
	Slots    []Slot    `json:"slots"`
	BookedAt time.Time `json:"bookedAt"`
}

// BookingFields — проверенные и нормализованные поля заявки до коммита.
// ID и BookedAt назначает реестр при резервировании.
type BookingFields struct {
	Name  string
	Age   int
	Phone string
	Slots []Slot
}

// ReportRow — одна строка экспорта: бронь с N слотами даёт N строк.
type ReportRow struct {
	BookingID uuid.UUID
	Name      string
	Age       int
	Phone     string
	Day       string
	TimeRange string
	BookedAt  time.Time
}

// ReportRows разворачивает бронь в строки отчёта, по строке на слот,
// в порядке слотов внутри брони.
func (b *Booking) ReportRows() []ReportRow {
	rows := make([]ReportRow, 0, len(b.Slots))
	for _, s := range b.Slots {
		rows = append(rows, ReportRow{
			BookingID: b.ID,
			Name:      b.Name,
			Age:       b.Age,
			Phone:     b.Phone,
			Day:       s.Day(),
			TimeRange: s.TimeRange(),
			BookedAt:  b.BookedAt,
		})
	}
	return rows
}

// Clone возвращает копию брони (слайс слотов не разделяется).
func (b *Booking) Clone() *Booking {
	c := *b
	c.Slots = append([]Slot(nil), b.Slots...)
	return &c
}
