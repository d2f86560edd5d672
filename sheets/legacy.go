package sheets

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/easysell/recon_backend/models"
	"github.com/easysell/recon_backend/utils"
)

// Legacy two-sheet layout: "Payment Details" and "Debit Notes" parse
// directly into canonical columns. Header names are trimmed but otherwise
// taken as-is.

func parseLegacy(f *excelize.File) (*Result, error) {
	res := &Result{Variant: models.VariantLegacy}

	if err := parseLegacyPayments(f, res); err != nil {
		return nil, err
	}
	if err := parseLegacyNotes(f, res); err != nil {
		return nil, err
	}
	return res, nil
}

func parseLegacyPayments(f *excelize.File, res *Result) error {
	rows, err := f.GetRows(LegacyPaymentSheet)
	if err != nil {
		return fmt.Errorf("unable to read sheet %q: %v", LegacyPaymentSheet, err)
	}
	if len(rows) == 0 {
		return &SchemaError{Layout: "legacy", Missing: []string{"Party Code"}}
	}

	idx := headerIndex(rows[0])
	codeCol, hasCode := idx["Party Code"]
	nameCol, hasName := idx["Party Name"]

	var missing []string
	if !hasCode && !hasName {
		missing = append(missing, "Party Code")
	}
	for _, col := range []string{"Inv. No.", "Pur. Date", "Total Inv. Amount", "Debit Amount", "Net Amount", "Bank Payment", "Payment Date"} {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Layout: "legacy", Missing: missing}
	}

	for _, row := range rows[1:] {
		if rowIsBlank(row) {
			continue
		}

		code := ""
		name := ""
		if hasCode {
			code = cellAt(row, codeCol)
		}
		if hasName {
			name = cellAt(row, nameCol)
		}
		// Both identity fields are always populated so the matcher can
		// key on either.
		if code == "" {
			code = name
		}
		if name == "" {
			name = code
		}
		if code == "" {
			continue
		}

		p := models.PaymentRow{
			PartyCode:    code,
			PartyName:    name,
			InvoiceNo:    cellAt(row, idx["Inv. No."]),
			PurchaseDate: cellAt(row, idx["Pur. Date"]),
			PaymentDate:  cellAt(row, idx["Payment Date"]),
		}
		p.TotalInvoiceAmount = res.cellAmount(row, idx["Total Inv. Amount"])
		p.DebitAmount = res.cellAmount(row, idx["Debit Amount"])
		p.NetAmount = res.cellAmount(row, idx["Net Amount"])
		p.BankPayment = res.cellAmount(row, idx["Bank Payment"])
		if col, ok := idx["Debit Note"]; ok {
			p.DebitNoteRef = cellAt(row, col)
		}
		if col, ok := idx["Transaction Type"]; ok {
			p.TransactionType = cellAt(row, col)
		}

		res.Payments = append(res.Payments, p)
	}
	return nil
}

func parseLegacyNotes(f *excelize.File, res *Result) error {
	rows, err := f.GetRows(LegacyNotesSheet)
	if err != nil {
		return fmt.Errorf("unable to read sheet %q: %v", LegacyNotesSheet, err)
	}
	if len(rows) == 0 {
		return nil
	}

	idx := headerIndex(rows[0])
	codeCol, hasCode := idx["Party Code"]
	nameCol, hasName := idx["Party Name"]

	var missing []string
	if !hasCode && !hasName {
		missing = append(missing, "Party Code")
	}
	for _, col := range []string{"Return Invoice No.", "Amount"} {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Layout: "legacy notes", Missing: missing}
	}

	for _, row := range rows[1:] {
		if rowIsBlank(row) {
			continue
		}

		code := ""
		name := ""
		if hasCode {
			code = cellAt(row, codeCol)
		}
		if hasName {
			name = cellAt(row, nameCol)
		}
		if code == "" {
			code = name
		}
		if name == "" {
			name = code
		}
		if code == "" {
			continue
		}

		n := models.NoteRow{
			PartyCode:   code,
			PartyName:   name,
			ReferenceNo: cellAt(row, idx["Return Invoice No."]),
		}
		if col, ok := idx["Date"]; ok {
			n.Date = cellAt(row, col)
		}
		n.Amount = res.cellAmount(row, idx["Amount"])

		res.Notes = append(res.Notes, n)
	}
	return nil
}

// cellAmount coerces an amount cell, counting a parse warning when the
// cell holds a non-numeric value.
func (r *Result) cellAmount(row []string, idx int) decimal.Decimal {
	d, ok := utils.CellDecimal(cellAt(row, idx))
	if !ok {
		r.ParseWarnings++
	}
	return d
}
