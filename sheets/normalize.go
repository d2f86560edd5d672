package sheets

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/easysell/recon_backend/config"
	"github.com/sirupsen/logrus"
)

// Normalize reads an uploaded workbook and projects it into the canonical
// (Payments, Notes) tables. Layout is detected once: a workbook carrying
// both legacy sheets takes the legacy path, anything else is treated as a
// single-sheet ledger export.
func Normalize(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %v", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, &SchemaError{Layout: "empty workbook"}
	}

	var result *Result
	if hasSheet(names, LegacyPaymentSheet) && hasSheet(names, LegacyNotesSheet) {
		result, err = parseLegacy(f)
	} else {
		result, err = parseLedger(f, names[0])
	}
	if err != nil {
		return nil, err
	}

	logger := config.GetLogger()
	logger.WithFields(logrus.Fields{
		"variant":       result.Variant,
		"paymentRows":   len(result.Payments),
		"noteRows":      len(result.Notes),
		"parseWarnings": result.ParseWarnings,
	}).Info("workbook normalized")

	return result, nil
}

func hasSheet(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
