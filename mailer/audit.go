package mailer

import (
	"fmt"
	"os"
	"strings"

	"github.com/easysell/recon_backend/models"
)

// AuditLog is the durable, append-only run log. It carries exactly three
// line shapes, pattern-matched later by the export:
//
//	Party Code: … | Party Name: … | Emails: … | CC: …
//	FAILED: … | Error: …
//	SKIPPED: …
type AuditLog struct {
	f *os.File
}

func OpenAuditLog(path string) (*AuditLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %v", err)
	}
	return &AuditLog{f: f}, nil
}

func (a *AuditLog) Close() error {
	return a.f.Close()
}

// Section writes a banner separating run phases. The export ignores it.
func (a *AuditLog) Section(title string) error {
	_, err := fmt.Fprintf(a.f, "=== %s ===\n", title)
	return err
}

func (a *AuditLog) Record(rec models.DispatchRecord) error {
	var line string
	switch rec.Status {
	case models.DispatchSent:
		line = fmt.Sprintf("Party Code: %s | Party Name: %s | Emails: %s | CC: %s",
			rec.PartyCode, rec.PartyName, strings.Join(rec.Recipients, ", "), strings.Join(rec.CC, ", "))
	case models.DispatchFailed:
		line = fmt.Sprintf("FAILED: %s | Error: %s", rec.PartyCode, rec.Error)
	case models.DispatchSkipped:
		line = fmt.Sprintf("SKIPPED: %s — %s", rec.PartyCode, rec.Error)
	default:
		return fmt.Errorf("unknown dispatch status %q", rec.Status)
	}
	_, err := fmt.Fprintln(a.f, line)
	return err
}

// Line appends a raw diagnostic line (skip reasons recorded before any
// dispatch was attempted).
func (a *AuditLog) Line(line string) error {
	_, err := fmt.Fprintln(a.f, line)
	return err
}
