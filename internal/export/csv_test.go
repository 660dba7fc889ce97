package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/daycarehq/daycare_backend/internal/export"
	"github.com/daycarehq/daycare_backend/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	id := uuid.MustParse("6c1c9be4-41e5-45b0-b1b6-7a2d91b0f0aa")
	rows := []model.ReportRow{
		{
			BookingID: id,
			Name:      `Anna "Annie" Ivanova, Jr.`,
			Age:       82,
			Phone:     "+7 900 123-45-67",
			Day:       "Monday",
			TimeRange: "9:00–10:00 AM",
			BookedAt:  time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Age,Phone,Day,Slot,BookedAt", lines[0])
	// кавычки удвоены, поле с запятой взято в кавычки
	assert.Contains(t, lines[1], `"Anna ""Annie"" Ivanova, Jr."`)
	assert.Contains(t, lines[1], "2026-09-01T12:30:00Z")
	assert.Contains(t, lines[1], id.String())
}

func TestWriteCSVEmptyReportStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil))
	assert.Equal(t, "ID,Name,Age,Phone,Day,Slot,BookedAt\n", buf.String())
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "bookings-2026-09-01.csv", export.Filename(now))
}
