// Package workflow drives one reconciliation run end to end: normalize
// the uploaded workbook, match parties against the directory, render each
// statement, and dispatch sequentially with a throttle delay.
package workflow

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/easysell/recon_backend/config"
	"github.com/easysell/recon_backend/directory"
	"github.com/easysell/recon_backend/mailer"
	"github.com/easysell/recon_backend/models"
	"github.com/easysell/recon_backend/recon"
	"github.com/easysell/recon_backend/sheets"
	"github.com/easysell/recon_backend/statement"
)

const (
	AuditLogName    = "FinalEmailLog.txt"
	SkipLogName     = "SkippedPartiesLog.txt"
	MismatchLogName = "MismatchLog.txt"
)

type RunOptions struct {
	MatchKey  models.MatchKey
	RowPolicy models.RowPolicy

	// Delay between successive dispatch calls. Backpressure against
	// transport-side rate limits, not a performance knob.
	Delay time.Duration

	// From is the sender address stamped on every message, normally the
	// per-run SMTP user.
	From string

	DataDir string
}

// RunSummary aggregates one run's outcomes. Per-party results were
// already surfaced individually as they occurred.
type RunSummary struct {
	RunID           string                  `json:"runId"`
	Variant         models.Variant          `json:"variant"`
	Sent            int                     `json:"sent"`
	Failed          int                     `json:"failed"`
	Skipped         int                     `json:"skipped"`
	ParseWarnings   int                     `json:"parseWarnings"`
	SkipReasons     []string                `json:"skipReasons"`
	MissingContacts []models.MissingContact `json:"missingContacts"`
	Records         []models.DispatchRecord `json:"records"`
	Ready           []models.MatchResult    `json:"-"`
}

// Run processes one uploaded spreadsheet to completion. Strictly
// sequential: one operator, one run at a time; the directory store and
// log files are not guarded against concurrent writers.
func Run(workbook io.Reader, store *directory.Store, sender mailer.Sender, dedup mailer.DedupStore, opts RunOptions) (*RunSummary, error) {
	logger := config.GetLogger()
	runID := uuid.NewString()

	normalized, err := sheets.Normalize(workbook)
	if err != nil {
		return nil, err
	}

	contacts, err := store.Load()
	if err != nil {
		return nil, err
	}

	if opts.DataDir == "" {
		opts.DataDir = "."
	}
	skipLog, err := os.OpenFile(filepath.Join(opts.DataDir, SkipLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open skip log: %v", err)
	}
	defer skipLog.Close()
	mismatchLog, err := os.OpenFile(filepath.Join(opts.DataDir, MismatchLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open mismatch log: %v", err)
	}
	defer mismatchLog.Close()

	matcher := recon.NewMatcher(opts.MatchKey, opts.RowPolicy)
	matcher.SkipLog = skipLog
	matcher.MismatchLog = mismatchLog

	ready, skips, missing := matcher.Match(normalized.Payments, normalized.Notes, contacts)

	audit, err := mailer.OpenAuditLog(filepath.Join(opts.DataDir, AuditLogName))
	if err != nil {
		return nil, err
	}
	defer audit.Close()

	summary := &RunSummary{
		RunID:           runID,
		Variant:         normalized.Variant,
		ParseWarnings:   normalized.ParseWarnings,
		SkipReasons:     skips,
		MissingContacts: missing,
		Ready:           ready,
	}

	dispatcher := &mailer.Dispatcher{
		Sender: sender,
		Dedup:  dedup,
		Audit:  audit,
		From:   opts.From,
	}

	audit.Section("Emails Sent Successfully")
	for i, result := range ready {
		subject := fmt.Sprintf("Payment Reconciliation for %s - %s", result.PartyCode, result.PartyName)

		doc := statement.Render(result.PartyName, normalized.Variant, result.Payments, result.Notes)
		body, err := doc.HTML()

		var rec models.DispatchRecord
		if err != nil {
			// Render failures get the same per-party isolation as
			// transport failures: record and move on.
			rec = models.DispatchRecord{
				PartyCode:  result.PartyCode,
				PartyName:  result.PartyName,
				Recipients: result.Emails,
				CC:         result.CCEmails,
				Status:     models.DispatchFailed,
				Error:      err.Error(),
				Timestamp:  time.Now(),
			}
			audit.Record(rec)
			config.LogError(logger, "workflow", "Run", "render statement", result.PartyCode, err)
		} else {
			rec = dispatcher.Dispatch(result, body, subject)
		}

		summary.Records = append(summary.Records, rec)
		switch rec.Status {
		case models.DispatchSent:
			summary.Sent++
		case models.DispatchFailed:
			summary.Failed++
		case models.DispatchSkipped:
			summary.Skipped++
		}

		if i < len(ready)-1 && opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}

	audit.Section("Skipped Parties")
	if len(skips) == 0 {
		audit.Line("None")
	}
	for _, line := range skips {
		audit.Line(line)
	}

	logger.WithFields(logrus.Fields{
		"runId":          runID,
		"variant":        normalized.Variant,
		"sent":           summary.Sent,
		"failed":         summary.Failed,
		"skippedParties": len(skips),
		"dedupSkipped":   summary.Skipped,
		"missingContact": len(missing),
		"parseWarnings":  normalized.ParseWarnings,
	}).Info("reconciliation run finished")

	return summary, nil
}
