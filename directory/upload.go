package directory

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"github.com/easysell/recon_backend/models"
	"github.com/easysell/recon_backend/utils"
)

var validate = validator.New()

// ParseWorkbook reads an administrative directory-replacing workbook.
// Required columns: Party Code, Party Name, Email; CC is optional. Rows
// with an empty or placeholder email are accepted and reported in the
// missing list, never rejected.
func ParseWorkbook(r io.Reader) ([]models.PartyContact, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %v", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(names[0])
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read sheet %q: %v", names[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("workbook is empty")
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	var missingCols []string
	for _, col := range []string{"Party Code", "Party Name", "Email"} {
		if _, ok := idx[col]; !ok {
			missingCols = append(missingCols, col)
		}
	}
	if len(missingCols) > 0 {
		return nil, nil, fmt.Errorf("workbook must contain columns: %s", strings.Join(missingCols, ", "))
	}

	var entries []models.PartyContact
	var missingEmails []string
	for _, row := range rows[1:] {
		cell := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		entry := models.PartyContact{
			PartyCode: cell("Party Code"),
			PartyName: cell("Party Name"),
			Email:     cell("Email"),
			CC:        cell("CC"),
		}
		if entry.PartyCode == "" && entry.PartyName == "" && entry.Email == "" {
			continue
		}
		if err := validate.Struct(entry); err != nil {
			return nil, nil, fmt.Errorf("invalid directory row for %q: %v", entry.PartyName, utils.ProcessValidationErrors(err))
		}

		entries = append(entries, entry)
		if utils.IsPlaceholderEmail(entry.Email) {
			missingEmails = append(missingEmails, fmt.Sprintf("%s (%s)", entry.PartyName, entry.PartyCode))
		}
	}
	return entries, missingEmails, nil
}
