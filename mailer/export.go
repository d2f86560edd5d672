package mailer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LogRow is one parsed audit-log entry in the 4-column tabular report.
type LogRow struct {
	Status    string
	PartyCode string
	PartyName string
	Detail    string
}

// ParseAuditLog converts the audit trail back into rows by matching the
// three known line prefixes. Anything else (section banners) is ignored.
func ParseAuditLog(r io.Reader) ([]LogRow, error) {
	var rows []LogRow

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "Party Code:"):
			parts := strings.Split(strings.TrimPrefix(line, "Party Code:"), "|")
			row := LogRow{Status: "SENT", PartyCode: strings.TrimSpace(parts[0])}
			if len(parts) > 1 {
				row.PartyName = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[1]), "Party Name:"))
			}
			if len(parts) > 2 {
				row.Detail = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[2]), "Emails:"))
			}
			rows = append(rows, row)
		case strings.HasPrefix(line, "FAILED:"):
			parts := strings.Split(strings.TrimPrefix(line, "FAILED:"), "|")
			row := LogRow{Status: "FAILED", PartyCode: strings.TrimSpace(parts[0])}
			if len(parts) > 1 {
				row.Detail = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[1]), "Error:"))
			}
			rows = append(rows, row)
		case strings.HasPrefix(line, "SKIPPED:"):
			rows = append(rows, LogRow{Status: "SKIPPED", Detail: line})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %v", err)
	}
	return rows, nil
}

// BuildLogWorkbook renders the audit log as the 4-column xlsx report
// (Status, Party Code, Party Name, Emails/Error).
func BuildLogWorkbook(r io.Reader) ([]byte, error) {
	rows, err := ParseAuditLog(r)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Email Log"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []interface{}{"Status", "Party Code", "Party Name", "Emails / Error"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{row.Status, row.PartyCode, row.PartyName, row.Detail}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize log workbook: %v", err)
	}
	return buf.Bytes(), nil
}
