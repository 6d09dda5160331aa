package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"cancha/internal/models"
)

// ReserveSource provides the rows for the monthly export and the stale
// cleanup hook.
type ReserveSource interface {
	// GetReservesForMonth returns every reserve of a calendar month.
	GetReservesForMonth(ctx context.Context, year int, month time.Month) ([]models.Reserve, error)

	// DeleteOldPending removes PENDIENTE reserves older than the given age.
	DeleteOldPending(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ExcelWriter writes tabular data to Excel format.
type ExcelWriter interface {
	// AddSheet adds a new sheet with the given name.
	AddSheet(name string) error

	// WriteHeader writes column headers to the current sheet.
	WriteHeader(columns []string) error

	// WriteRow writes a data row to the current sheet.
	WriteRow(row []interface{}) error

	// Save writes the Excel file to the writer.
	Save(w io.Writer) error

	// SaveToFile writes the Excel file to disk.
	SaveToFile(path string) error
}

// Notifier delivers the finished report to facility staff.
type Notifier interface {
	// SendDocument sends a document to staff.
	SendDocument(ctx context.Context, filename string, data io.Reader, caption string) error
}

// MonthNames in Spanish for filename generation.
var MonthNames = map[time.Month]string{
	time.January:   "Enero",
	time.February:  "Febrero",
	time.March:     "Marzo",
	time.April:     "Abril",
	time.May:       "Mayo",
	time.June:      "Junio",
	time.July:      "Julio",
	time.August:    "Agosto",
	time.September: "Septiembre",
	time.October:   "Octubre",
	time.November:  "Noviembre",
	time.December:  "Diciembre",
}

// GenerateFilename creates a filename like "Enero_2026.xlsx".
func GenerateFilename(t time.Time) string {
	return fmt.Sprintf("%s_%d.xlsx", MonthNames[t.Month()], t.Year())
}

// GenerateFilenameForPreviousMonth creates the filename for the month
// the export covers.
func GenerateFilenameForPreviousMonth() string {
	return GenerateFilename(time.Now().AddDate(0, -1, 0))
}
