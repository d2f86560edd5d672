package models

import "time"

type DispatchStatus string

const (
	DispatchSent    DispatchStatus = "SENT"
	DispatchFailed  DispatchStatus = "FAILED"
	DispatchSkipped DispatchStatus = "SKIPPED"
)

// DispatchRecord is the outcome of one attempted send. Append-only; one
// record per attempted party per run.
type DispatchRecord struct {
	PartyCode  string         `json:"partyCode"`
	PartyName  string         `json:"partyName"`
	Recipients []string       `json:"recipients"`
	CC         []string       `json:"cc"`
	Status     DispatchStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// SentInvoice is one row of the optional dedup table: an invoice number
// recorded as already mailed for a party.
type SentInvoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PartyCode string    `gorm:"size:64;index:idx_party_invoice,unique" json:"partyCode"`
	InvoiceNo string    `gorm:"size:128;index:idx_party_invoice,unique" json:"invoiceNo"`
	SentAt    time.Time `json:"sentAt"`
}

func (SentInvoice) TableName() string {
	return "sent_invoices"
}
