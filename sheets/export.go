package sheets

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/easysell/recon_backend/models"
)

// BuildPartywiseWorkbook renders each READY party into its own pair of
// sheets (<code>_Pay, and <code>_Debit when notes exist) so the operator
// can archive exactly what was mailed.
func BuildPartywiseWorkbook(results []models.MatchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, res := range results {
		code := res.PartyCode
		if len(code) > 28 {
			code = code[:28]
		}

		paySheet := code + "_Pay"
		if first {
			if err := f.SetSheetName("Sheet1", paySheet); err != nil {
				return nil, err
			}
			first = false
		} else if _, err := f.NewSheet(paySheet); err != nil {
			return nil, err
		}

		payRows := [][]interface{}{
			{"Inv. No.", "Pur. Date", "Total Inv. Amount", "Debit Amount", "Net Amount", "Bank Payment", "Payment Date"},
		}
		for _, p := range res.Payments {
			payRows = append(payRows, []interface{}{
				p.InvoiceNo, p.PurchaseDate,
				p.TotalInvoiceAmount.StringFixed(2), p.DebitAmount.StringFixed(2),
				p.NetAmount.StringFixed(2), p.BankPayment.StringFixed(2),
				p.PaymentDate,
			})
		}
		if err := writeRows(f, paySheet, payRows); err != nil {
			return nil, err
		}

		if len(res.Notes) == 0 {
			continue
		}
		noteSheet := code + "_Debit"
		if _, err := f.NewSheet(noteSheet); err != nil {
			return nil, err
		}
		noteRows := [][]interface{}{
			{"Date", "Return Invoice No.", "Amount"},
		}
		for _, n := range res.Notes {
			noteRows = append(noteRows, []interface{}{n.Date, n.ReferenceNo, n.Amount.StringFixed(2)})
		}
		if err := writeRows(f, noteSheet, noteRows); err != nil {
			return nil, err
		}
	}

	if first {
		return nil, fmt.Errorf("no ready parties to export")
	}
	return workbookBytes(f)
}
