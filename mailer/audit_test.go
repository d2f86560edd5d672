package mailer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/easysell/recon_backend/models"
)

func TestAuditLog_LineShapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "FinalEmailLog.txt")

	log, err := OpenAuditLog(path)
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	if err := log.Section("Emails Sent Successfully"); err != nil {
		t.Fatalf("Section: %v", err)
	}
	records := []models.DispatchRecord{
		{Status: models.DispatchSent, PartyCode: "P1", PartyName: "Alpha Corp",
			Recipients: []string{"a@x.com", "b@x.com"}, CC: []string{"cc@x.com"}},
		{Status: models.DispatchFailed, PartyCode: "P2", PartyName: "Beta Ltd",
			Error: "dial tcp: connection refused"},
		{Status: models.DispatchSkipped, PartyCode: "P3", Error: "already sent per dedup store"},
	}
	for _, rec := range records {
		if err := log.Record(rec); err != nil {
			t.Fatalf("Record(%s): %v", rec.Status, err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"=== Emails Sent Successfully ===",
		"Party Code: P1 | Party Name: Alpha Corp | Emails: a@x.com, b@x.com | CC: cc@x.com",
		"FAILED: P2 | Error: dial tcp: connection refused",
		"SKIPPED: P3",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("log missing line %q\nlog:\n%s", want, text)
		}
	}
}

func TestAuditLog_AppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "FinalEmailLog.txt")

	for i := 0; i < 2; i++ {
		log, err := OpenAuditLog(path)
		if err != nil {
			t.Fatalf("OpenAuditLog: %v", err)
		}
		if err := log.Record(models.DispatchRecord{
			Status: models.DispatchSent, PartyCode: "P1", PartyName: "Alpha Corp",
			Recipients: []string{"a@x.com"},
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
		log.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if n := strings.Count(string(data), "Party Code: P1"); n != 2 {
		t.Errorf("expected 2 appended records, found %d", n)
	}
}

func TestParseAuditLog(t *testing.T) {
	input := strings.Join([]string{
		"=== Emails Sent Successfully ===",
		"Party Code: P1 | Party Name: Alpha Corp | Emails: a@x.com, b@x.com | CC: cc@x.com",
		"FAILED: P2 | Error: dial tcp: connection refused",
		"=== Skipped Parties ===",
		"SKIPPED: P3 — Debit Amount mismatch",
	}, "\n")

	rows, err := ParseAuditLog(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseAuditLog: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (banners ignored)", len(rows))
	}

	if rows[0].Status != "SENT" || rows[0].PartyCode != "P1" ||
		rows[0].PartyName != "Alpha Corp" || rows[0].Detail != "a@x.com, b@x.com" {
		t.Errorf("sent row = %+v", rows[0])
	}
	if rows[1].Status != "FAILED" || rows[1].PartyCode != "P2" ||
		rows[1].Detail != "dial tcp: connection refused" {
		t.Errorf("failed row = %+v", rows[1])
	}
	if rows[2].Status != "SKIPPED" || !strings.Contains(rows[2].Detail, "P3") {
		t.Errorf("skipped row = %+v", rows[2])
	}
}

func TestBuildLogWorkbook_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "FinalEmailLog.txt")
	log, err := OpenAuditLog(path)
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	log.Record(models.DispatchRecord{
		Status: models.DispatchSent, PartyCode: "P1", PartyName: "Alpha Corp",
		Recipients: []string{"a@x.com"},
	})
	log.Record(models.DispatchRecord{
		Status: models.DispatchFailed, PartyCode: "P2", PartyName: "Beta Ltd",
		Error: "550 mailbox unavailable",
	})
	log.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	data, err := BuildLogWorkbook(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("BuildLogWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Email Log")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("sheet rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Status" || rows[0][3] != "Emails / Error" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "SENT" || rows[1][1] != "P1" || rows[1][3] != "a@x.com" {
		t.Errorf("sent row = %v", rows[1])
	}
	if rows[2][0] != "FAILED" || rows[2][3] != "550 mailbox unavailable" {
		t.Errorf("failed row = %v", rows[2])
	}
}
