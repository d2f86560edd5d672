package mailer

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/easysell/recon_backend/config"
	"github.com/easysell/recon_backend/models"
)

// Dispatcher sends one statement per party and records the outcome. It
// never retries; transport failures are captured verbatim on the record
// so one bad party never blocks the batch.
type Dispatcher struct {
	Sender Sender
	Dedup  DedupStore
	Audit  *AuditLog
	From   string
}

func (d *Dispatcher) Dispatch(result models.MatchResult, htmlBody string, subject string) models.DispatchRecord {
	logger := config.GetLogger()

	rec := models.DispatchRecord{
		PartyCode:  result.PartyCode,
		PartyName:  result.PartyName,
		Recipients: result.Emails,
		CC:         result.CCEmails,
		Timestamp:  time.Now(),
	}

	invoices := result.InvoiceNos()
	dedup := d.Dedup
	if dedup == nil {
		dedup = NopDedup{}
	}

	sent, err := dedup.AlreadySent(result.PartyCode, invoices)
	if err != nil {
		// The dedup table is opportunistic: an unreachable store must not
		// stop the run, so the check degrades to "not sent".
		logger.WithFields(logrus.Fields{
			"partyCode": result.PartyCode,
		}).Warnf("dedup lookup failed, continuing without dedup: %v", err)
	} else if sent {
		rec.Status = models.DispatchSkipped
		rec.Error = "already sent per dedup store"
		d.append(rec)
		return rec
	}

	err = d.Sender.Send(Message{
		From:     d.From,
		To:       result.Emails,
		CC:       result.CCEmails,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
	if err != nil {
		rec.Status = models.DispatchFailed
		rec.Error = err.Error()
		logger.WithFields(logrus.Fields{
			"partyCode": result.PartyCode,
			"partyName": result.PartyName,
		}).Errorf("dispatch failed: %v", err)
		d.append(rec)
		return rec
	}

	rec.Status = models.DispatchSent
	logger.WithFields(logrus.Fields{
		"partyCode":  result.PartyCode,
		"partyName":  result.PartyName,
		"recipients": result.Emails,
	}).Info("statement sent")

	if err := dedup.RecordSent(result.PartyCode, invoices); err != nil {
		logger.WithFields(logrus.Fields{
			"partyCode": result.PartyCode,
		}).Warnf("failed to record sent invoices in dedup store: %v", err)
	}

	d.append(rec)
	return rec
}

func (d *Dispatcher) append(rec models.DispatchRecord) {
	if d.Audit == nil {
		return
	}
	if err := d.Audit.Record(rec); err != nil {
		config.GetLogger().Errorf("failed to append audit record for %s: %v", rec.PartyCode, err)
	}
}
