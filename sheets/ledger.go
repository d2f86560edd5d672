package sheets

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/easysell/recon_backend/models"
)

// Ledger single-sheet layout: one exported ledger where debit and credit
// live on the payment rows themselves. Headers vary across exports, so
// each logical column resolves through a case-insensitive alias list.

// logical column ids used in SchemaError messages and the alias table
const (
	colSellerName     = "Seller Name"
	colBillNo         = "Bill No"
	colInvoiceDate    = "Invoice Date"
	colMainAdviceNo   = "Advised No"
	colSellerAdviceNo = "Seller Advised No"
	colDebit          = "DR"
	colCredit         = "CR"
	colTotalWithTax   = "Total With Tax"
	colAltTotalTax    = "Alt Total With Tax"
	colTotalNoTax     = "Total Without Tax"
	colPaymentDate    = "Payment Date"
	colTranType       = "Transaction Type"
)

var ledgerAliases = map[string][]string{
	colSellerName:     {"seller name", "party name", "vendor name"},
	colBillNo:         {"bill no", "bill no.", "invoice no", "invoice no.", "inv. no."},
	colInvoiceDate:    {"invoice date", "bill date", "pur. date", "purchase date"},
	colMainAdviceNo:   {"advised no", "advised no.", "advice no", "main advice no"},
	colSellerAdviceNo: {"seller advised no", "seller advised no.", "seller advice no"},
	colDebit:          {"dr", "debit", "debit amount"},
	colCredit:         {"cr", "credit", "credit amount"},
	colTotalWithTax:   {"total with tax", "total amount with tax", "bill amount with tax"},
	colAltTotalTax:    {"net total with tax", "grand total with tax", "gross total"},
	colTotalNoTax:     {"total without tax", "total amount without tax", "taxable amount"},
	colPaymentDate:    {"payment date", "paid date"},
	colTranType:       {"transaction type", "tran type", "type"},
}

// Columns whose absence fails the whole workbook. Amount columns are not
// here on purpose: they degrade to zero or a fallback total instead.
var ledgerRequired = []string{colSellerName, colBillNo, colInvoiceDate, colMainAdviceNo, colSellerAdviceNo}

func parseLedger(f *excelize.File, sheet string) (*Result, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %v", sheet, err)
	}

	headerIdx := ledgerHeaderOffset(rows)
	if headerIdx >= len(rows) {
		return nil, &SchemaError{Layout: "unrecognized"}
	}

	cols := resolveLedgerColumns(rows[headerIdx])

	var missing []string
	for _, logical := range ledgerRequired {
		if _, ok := cols[logical]; !ok {
			missing = append(missing, logical)
		}
	}
	if len(missing) == len(ledgerRequired) {
		// Nothing recognizable at all: report it as a layout failure, not
		// a column-by-column complaint.
		return nil, &SchemaError{Layout: "unrecognized"}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Layout: "ledger", Missing: missing}
	}

	res := &Result{Variant: models.VariantLedger}
	for _, row := range rows[headerIdx+1:] {
		if rowIsBlank(row) {
			continue
		}
		sellerName := cellAt(row, cols[colSellerName])
		if sellerName == "" {
			continue
		}

		billNo := cellAt(row, cols[colBillNo])
		invoiceDate := cellAt(row, cols[colInvoiceDate])

		debit := res.optionalAmount(row, cols, colDebit)
		credit := res.optionalAmount(row, cols, colCredit)
		total := res.resolveTotal(row, cols, debit, credit)

		p := models.PaymentRow{
			PartyCode:          derivePartyCode(sellerName),
			PartyName:          sellerName,
			InvoiceNo:          billNo,
			PurchaseDate:       invoiceDate,
			TotalInvoiceAmount: total,
			DebitAmount:        debit,
			// Net is derived on this path only: the export carries no
			// independent net column.
			NetAmount:      total.Sub(debit).Sub(credit),
			BankPayment:    credit,
			MainAdviceNo:   cellAt(row, cols[colMainAdviceNo]),
			SellerAdviceNo: cellAt(row, cols[colSellerAdviceNo]),
		}
		if col, ok := cols[colPaymentDate]; ok {
			p.PaymentDate = cellAt(row, col)
		}
		if col, ok := cols[colTranType]; ok {
			p.TransactionType = cellAt(row, col)
		}
		res.Payments = append(res.Payments, p)

		// Synthesize notes from the DR/CR columns. Debit rows become
		// positive debit notes; credit rows become negative credit notes
		// that offset balance but never count as debit obligations.
		if debit.IsPositive() {
			res.Notes = append(res.Notes, models.NoteRow{
				PartyCode:   p.PartyCode,
				PartyName:   p.PartyName,
				Date:        invoiceDate,
				ReferenceNo: billNo,
				Amount:      debit,
			})
		}
		if credit.IsPositive() {
			res.Notes = append(res.Notes, models.NoteRow{
				PartyCode:   p.PartyCode,
				PartyName:   p.PartyName,
				Date:        invoiceDate,
				ReferenceNo: billNo + " (CR)",
				Amount:      credit.Neg(),
			})
		}
	}
	return res, nil
}

// ledgerHeaderOffset detects the merged banner some exports carry above
// the header row. When the first cell of the leading rows contains both
// "Seller Name:" and "Advised No" the real headers start at row index 2.
func ledgerHeaderOffset(rows [][]string) int {
	for i := 0; i < len(rows) && i < 2; i++ {
		first := cellAt(rows[i], 0)
		if strings.Contains(first, "Seller Name:") && strings.Contains(first, "Advised No") {
			return 2
		}
	}
	return 0
}

func resolveLedgerColumns(header []string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		name := normHeader(h)
		if name == "" {
			continue
		}
		if _, ok := byName[name]; !ok {
			byName[name] = i
		}
	}

	cols := make(map[string]int)
	for logical, aliases := range ledgerAliases {
		for _, alias := range aliases {
			if i, ok := byName[alias]; ok {
				cols[logical] = i
				break
			}
		}
	}
	return cols
}

func (r *Result) optionalAmount(row []string, cols map[string]int, logical string) decimal.Decimal {
	col, ok := cols[logical]
	if !ok {
		return decimal.Zero
	}
	return r.cellAmount(row, col)
}

// resolveTotal picks the row total, degrading through the alternate total
// columns and finally falling back to CR+DR when no total column exists.
func (r *Result) resolveTotal(row []string, cols map[string]int, debit, credit decimal.Decimal) decimal.Decimal {
	for _, logical := range []string{colTotalWithTax, colAltTotalTax, colTotalNoTax} {
		if col, ok := cols[logical]; ok {
			return r.cellAmount(row, col)
		}
	}
	return credit.Add(debit)
}

// derivePartyCode extracts the short party code from a seller-name string:
// a leading digit run wins, then the text before the first hyphen,
// otherwise the full name is its own code.
func derivePartyCode(name string) string {
	name = strings.TrimSpace(name)

	digits := 0
	for digits < len(name) && name[digits] >= '0' && name[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		return name[:digits]
	}

	if i := strings.Index(name, "-"); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return name
}
