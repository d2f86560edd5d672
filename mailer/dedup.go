package mailer

import (
	"time"

	"gorm.io/gorm"

	"github.com/easysell/recon_backend/models"
)

// DedupStore is the optional external log consulted before dispatching.
// If any invoice for a party was already recorded as sent, the whole
// party is skipped, not just that invoice.
type DedupStore interface {
	AlreadySent(partyCode string, invoiceNos []string) (bool, error)
	RecordSent(partyCode string, invoiceNos []string) error
}

// NopDedup is the default: no external table, nothing is ever skipped.
type NopDedup struct{}

func (NopDedup) AlreadySent(string, []string) (bool, error) { return false, nil }
func (NopDedup) RecordSent(string, []string) error          { return nil }

// GormDedup backs the dedup log with the sent_invoices table.
type GormDedup struct {
	DB *gorm.DB
}

func NewGormDedup(db *gorm.DB) (*GormDedup, error) {
	if err := db.AutoMigrate(&models.SentInvoice{}); err != nil {
		return nil, err
	}
	return &GormDedup{DB: db}, nil
}

func (g *GormDedup) AlreadySent(partyCode string, invoiceNos []string) (bool, error) {
	if len(invoiceNos) == 0 {
		return false, nil
	}
	var count int64
	err := g.DB.Model(&models.SentInvoice{}).
		Where("party_code = ? AND invoice_no IN ?", partyCode, invoiceNos).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *GormDedup) RecordSent(partyCode string, invoiceNos []string) error {
	now := time.Now()
	for _, inv := range invoiceNos {
		rec := models.SentInvoice{PartyCode: partyCode, InvoiceNo: inv, SentAt: now}
		if err := g.DB.Create(&rec).Error; err != nil {
			return err
		}
	}
	return nil
}
