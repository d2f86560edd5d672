package sheets

import (
	"fmt"
	"strings"

	"github.com/easysell/recon_backend/models"
)

// Sheet names that select the legacy two-sheet layout. Exact,
// case-sensitive match.
const (
	LegacyPaymentSheet = "Payment Details"
	LegacyNotesSheet   = "Debit Notes"
)

// SchemaError is fatal to a run: the workbook is missing required
// column(s) or matches no known layout. Surfaced to the operator before
// any matching occurs.
type SchemaError struct {
	Layout  string
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("unrecognized layout: %s", e.Layout)
	}
	return fmt.Sprintf("%s layout: missing required column(s): %s", e.Layout, strings.Join(e.Missing, ", "))
}

// Result is the canonical output of normalization. Column semantics are
// identical regardless of which layout produced them.
type Result struct {
	Payments []models.PaymentRow
	Notes    []models.NoteRow
	Variant  models.Variant

	// ParseWarnings counts numeric cells that failed to parse and were
	// coerced to zero. The run summary surfaces it; rows are never failed
	// for a bad amount cell.
	ParseWarnings int
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// headerIndex maps trimmed header names to column positions. Duplicate
// headers keep the first occurrence.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

func rowIsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
