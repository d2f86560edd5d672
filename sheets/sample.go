package sheets

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sample workbooks the operator can download to see the expected shapes.
// The invoice sample carries the legacy two-sheet layout; the directory
// sample carries the admin-upload columns.

func BuildSampleInvoiceWorkbook() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LegacyPaymentSheet); err != nil {
		return nil, err
	}
	paymentRows := [][]interface{}{
		{"Party Code", "Party Name", "Inv. No.", "Pur. Date", "Total Inv. Amount", "Debit Amount", "Net Amount", "Bank Payment", "Payment Date"},
		{"AC01", "Alpha Corp", "INV001", "2025-01-10", 10000, 500, 9500, 9500, "2025-02-10"},
		{"BL02", "Beta Ltd", "INV002", "2025-01-15", 20000, "", 20000, 20000, "2025-02-20"},
	}
	if err := writeRows(f, LegacyPaymentSheet, paymentRows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(LegacyNotesSheet); err != nil {
		return nil, err
	}
	noteRows := [][]interface{}{
		{"Party Code", "Party Name", "Date", "Return Invoice No.", "Amount"},
		{"AC01", "Alpha Corp", "2025-02-05", "DN001", 500},
	}
	if err := writeRows(f, LegacyNotesSheet, noteRows); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

func BuildSampleDirectoryWorkbook() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Party Code", "Party Name", "Email", "CC"},
		{"PC123", "ABC Traders", "abc@example.com,bcd@example.com", "accounts@example.com"},
		{"PC456", "XYZ Pvt Ltd", "xyz@example.com", ""},
	}
	if err := writeRows(f, "Sheet1", rows); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %v", i+1, sheet, err)
		}
	}
	return nil
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %v", err)
	}
	return buf.Bytes(), nil
}
