package models

import (
	"github.com/shopspring/decimal"
)

// Variant identifies which spreadsheet family a workbook was parsed from.
// Downstream code sees one canonical schema either way; the variant only
// drives statement layout.
type Variant string

const (
	VariantLegacy Variant = "legacy"
	VariantLedger Variant = "ledger"
)

// PaymentRow is one purchase/payment transaction for a party in the
// canonical schema. Both PartyCode and PartyName are always populated by
// normalization so the matcher can key on either.
type PaymentRow struct {
	PartyCode          string          `json:"partyCode"`
	PartyName          string          `json:"partyName"`
	InvoiceNo          string          `json:"invoiceNo"`
	PurchaseDate       string          `json:"purchaseDate"`
	TotalInvoiceAmount decimal.Decimal `json:"totalInvoiceAmount"`
	DebitAmount        decimal.Decimal `json:"debitAmount"`
	NetAmount          decimal.Decimal `json:"netAmount"`
	BankPayment        decimal.Decimal `json:"bankPayment"`
	PaymentDate        string          `json:"paymentDate"`
	DebitNoteRef       string          `json:"debitNoteRef,omitempty"`
	TransactionType    string          `json:"transactionType,omitempty"`

	// Ledger-variant advice references. Empty on the legacy path.
	MainAdviceNo   string `json:"mainAdviceNo,omitempty"`
	SellerAdviceNo string `json:"sellerAdviceNo,omitempty"`
}

// NoteRow is a debit or credit note tied to a party. Positive amounts are
// debit notes (charges); negative amounts are credit notes (reductions,
// ledger variant only).
type NoteRow struct {
	PartyCode   string          `json:"partyCode"`
	PartyName   string          `json:"partyName"`
	Date        string          `json:"date"`
	ReferenceNo string          `json:"referenceNo"`
	Amount      decimal.Decimal `json:"amount"`
}

// MatchKey selects which party identity field the matcher joins on.
type MatchKey string

const (
	MatchByCode MatchKey = "code"
	MatchByName MatchKey = "name"
)

func (r PaymentRow) Key(k MatchKey) string {
	if k == MatchByName {
		return r.PartyName
	}
	return r.PartyCode
}

func (n NoteRow) Key(k MatchKey) string {
	if k == MatchByName {
		return n.PartyName
	}
	return n.PartyCode
}
