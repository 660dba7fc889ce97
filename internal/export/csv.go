// Package export сериализует строки отчёта в CSV. Вся презентация
// (заголовок, экранирование, формат времени) живёт здесь: ядро отдаёт
// только структурированные строки с машинными временными метками.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/daycarehq/daycare_backend/internal/model"
)

// Header — фиксированный заголовок отчёта.
var Header = []string{"ID", "Name", "Age", "Phone", "Day", "Slot", "BookedAt"}

// WriteCSV пишет отчёт: строка заголовка, затем по строке на слот
// каждой брони. Поля экранируются двойными кавычками по правилам CSV,
// время — RFC3339 в UTC.
func WriteCSV(w io.Writer, rows []model.ReportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.BookingID.String(),
			row.Name,
			strconv.Itoa(row.Age),
			row.Phone,
			row.Day,
			row.TimeRange,
			row.BookedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Filename возвращает имя файла выгрузки на заданную дату.
func Filename(now time.Time) string {
	return "bookings-" + now.UTC().Format("2006-01-02") + ".csv"
}
