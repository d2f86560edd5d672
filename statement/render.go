// Package statement turns a party's matched payment and note rows into a
// structured statement and an email-safe HTML body.
package statement

import (
	"github.com/shopspring/decimal"

	"github.com/easysell/recon_backend/models"
)

// Line is one statement row. RunningBalance is only meaningful on the
// ledger layout, where it accumulates credit minus debit in input order.
type Line struct {
	InvoiceNo       string
	PurchaseDate    string
	PaymentDate     string
	TransactionType string
	MainAdviceNo    string
	SellerAdviceNo  string

	TotalInvoiceAmount decimal.Decimal
	DebitAmount        decimal.Decimal
	NetAmount          decimal.Decimal
	BankPayment        decimal.Decimal
	RunningBalance     decimal.Decimal
}

type NoteLine struct {
	Date        string
	ReferenceNo string
	Amount      decimal.Decimal
}

// Statement is the structured document handed to the mailer: header,
// line-item table, optional notes table, totals.
type Statement struct {
	PartyName string
	Variant   models.Variant
	Lines     []Line
	Notes     []NoteLine

	// Legacy totals row.
	TotalInvoiceAmount decimal.Decimal
	TotalNetAmount     decimal.Decimal
	TotalBankPayment   decimal.Decimal

	// Ledger totals. FinalBalance equals the last line's running balance,
	// so the totals line can never disagree with the last row.
	FinalBalance decimal.Decimal

	TotalNoteAmount decimal.Decimal
}

// Render builds the statement for one party. Rows keep their input order;
// the running balance is accumulated row-by-row on the ledger layout.
func Render(partyName string, variant models.Variant, payments []models.PaymentRow, notes []models.NoteRow) *Statement {
	s := &Statement{
		PartyName: partyName,
		Variant:   variant,
	}

	running := decimal.Zero
	for _, p := range payments {
		running = running.Add(p.BankPayment).Sub(p.DebitAmount)

		s.Lines = append(s.Lines, Line{
			InvoiceNo:          p.InvoiceNo,
			PurchaseDate:       p.PurchaseDate,
			PaymentDate:        p.PaymentDate,
			TransactionType:    p.TransactionType,
			MainAdviceNo:       p.MainAdviceNo,
			SellerAdviceNo:     p.SellerAdviceNo,
			TotalInvoiceAmount: p.TotalInvoiceAmount,
			DebitAmount:        p.DebitAmount,
			NetAmount:          p.NetAmount,
			BankPayment:        p.BankPayment,
			RunningBalance:     running,
		})

		s.TotalInvoiceAmount = s.TotalInvoiceAmount.Add(p.TotalInvoiceAmount)
		s.TotalNetAmount = s.TotalNetAmount.Add(p.NetAmount)
		s.TotalBankPayment = s.TotalBankPayment.Add(p.BankPayment)
	}
	s.FinalBalance = running

	for _, n := range notes {
		s.Notes = append(s.Notes, NoteLine{
			Date:        n.Date,
			ReferenceNo: n.ReferenceNo,
			Amount:      n.Amount,
		})
		s.TotalNoteAmount = s.TotalNoteAmount.Add(n.Amount)
	}

	return s
}
