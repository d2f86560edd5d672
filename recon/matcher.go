// Package recon joins canonical payment and note rows per party, checks
// debit-sum consistency, and classifies each directory entry as ready to
// mail or skipped with a recorded reason.
package recon

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/easysell/recon_backend/config"
	"github.com/easysell/recon_backend/models"
)

// Tolerance is an absolute currency-unit bound, not relative: it must
// hold regardless of scale.
var Tolerance = decimal.RequireFromString("0.01")

type Matcher struct {
	Key    models.MatchKey
	Policy models.RowPolicy

	// Diagnostic sinks, appended to as the matcher runs. Either may be
	// nil. They carry data for the operator, never control flow.
	SkipLog     io.Writer
	MismatchLog io.Writer
}

func NewMatcher(key models.MatchKey, policy models.RowPolicy) *Matcher {
	return &Matcher{Key: key, Policy: policy}
}

// Match iterates the directory in order and produces at most one result
// per party. The missing-contact sweep runs over the full payment set,
// independent of the directory loop.
func (m *Matcher) Match(payments []models.PaymentRow, notes []models.NoteRow, contacts []models.PartyContact) ([]models.MatchResult, []string, []models.MissingContact) {
	logger := config.GetLogger()

	var ready []models.MatchResult
	var skips []string

	for _, contact := range contacts {
		key := contact.Key(m.Key)
		if key == "" {
			continue
		}

		partyPayments := selectPayments(payments, m.Key, key)
		if len(partyPayments) == 0 {
			skips = append(skips, m.skip("%s — No payment rows found in Payment Sheet", key))
			continue
		}

		partyNotes := selectNotes(notes, m.Key, key)

		// Only positive notes are debit obligations; credit notes offset
		// balance but never enter the consistency check.
		totalDebitNotes := decimal.Zero
		for _, n := range partyNotes {
			if n.Amount.IsPositive() {
				totalDebitNotes = totalDebitNotes.Add(n.Amount)
			}
		}
		partyDebitSum := decimal.Zero
		for _, p := range partyPayments {
			partyDebitSum = partyDebitSum.Add(p.DebitAmount)
		}

		if partyDebitSum.Sub(totalDebitNotes).Abs().Cmp(Tolerance) > 0 {
			skips = append(skips, m.skip("%s — Debit Amount mismatch between payment sheet and debit sheet (payments %s vs debit notes %s)",
				key, partyDebitSum.StringFixed(2), totalDebitNotes.StringFixed(2)))
			continue
		}

		included := m.includeRows(key, partyPayments, partyNotes)
		if len(included) == 0 {
			skips = append(skips, m.skip("%s — All payment rows matched with debit notes correctly.", key))
			continue
		}

		if !contact.HasAddress() {
			skips = append(skips, m.skip("%s — No usable email address in directory", key))
			continue
		}

		ready = append(ready, models.MatchResult{
			PartyCode: strings.TrimSpace(contact.PartyCode),
			PartyName: strings.TrimSpace(contact.PartyName),
			Emails:    contact.ToEmails(),
			CCEmails:  contact.CCEmails(),
			Payments:  included,
			Notes:     partyNotes,
			Outcome:   models.OutcomeReady,
		})
	}

	missing := m.missingContacts(payments, contacts)

	logger.WithFields(logrus.Fields{
		"ready":          len(ready),
		"skipped":        len(skips),
		"missingContact": len(missing),
		"matchKey":       m.Key,
		"rowPolicy":      m.Policy,
	}).Info("reconciliation matching finished")

	return ready, skips, missing
}

// includeRows applies the configured row-inclusion policy. Under
// cross-check, a row carrying a debit-note reference is dropped only when
// a matching note's amount disagrees with the row's net amount by more
// than the tolerance; the exclusion is logged as a mismatch, not a skip.
func (m *Matcher) includeRows(key string, partyPayments []models.PaymentRow, partyNotes []models.NoteRow) []models.PaymentRow {
	if m.Policy == models.RowPolicyIncludeAll {
		return partyPayments
	}

	var included []models.PaymentRow
	for _, row := range partyPayments {
		if row.DebitNoteRef == "" {
			included = append(included, row)
			continue
		}
		note, found := findNote(partyNotes, row.DebitNoteRef)
		if !found {
			included = append(included, row)
			continue
		}
		if row.NetAmount.Sub(note.Amount).Abs().Cmp(Tolerance) <= 0 {
			included = append(included, row)
			continue
		}
		m.mismatch("Mismatch DebitNote: %s | Party: %s | Payment Sheet Amount: %s | Debit Sheet Amount: %s",
			row.DebitNoteRef, key, row.NetAmount.StringFixed(2), note.Amount.StringFixed(2))
	}
	return included
}

// missingContacts reports every distinct payment key with no directory
// entry, or an entry whose address list is empty or a placeholder. One
// entry per key with its payment-row count, in sorted key order.
func (m *Matcher) missingContacts(payments []models.PaymentRow, contacts []models.PartyContact) []models.MissingContact {
	reachable := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		if key := c.Key(m.Key); key != "" && c.HasAddress() {
			reachable[key] = true
		}
	}

	counts := make(map[string]int)
	for _, p := range payments {
		key := strings.TrimSpace(p.Key(m.Key))
		if key == "" || reachable[key] {
			continue
		}
		counts[key]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	missing := make([]models.MissingContact, 0, len(keys))
	for _, k := range keys {
		missing = append(missing, models.MissingContact{PartyKey: k, RowCount: counts[k]})
	}
	return missing
}

func selectPayments(payments []models.PaymentRow, k models.MatchKey, key string) []models.PaymentRow {
	var out []models.PaymentRow
	for _, p := range payments {
		if strings.TrimSpace(p.Key(k)) == key {
			out = append(out, p)
		}
	}
	return out
}

func selectNotes(notes []models.NoteRow, k models.MatchKey, key string) []models.NoteRow {
	var out []models.NoteRow
	for _, n := range notes {
		if strings.TrimSpace(n.Key(k)) == key {
			out = append(out, n)
		}
	}
	return out
}

func findNote(notes []models.NoteRow, ref string) (models.NoteRow, bool) {
	for _, n := range notes {
		if n.ReferenceNo == ref {
			return n, true
		}
	}
	return models.NoteRow{}, false
}

func (m *Matcher) skip(format string, args ...interface{}) string {
	line := "SKIPPED: " + fmt.Sprintf(format, args...)
	if m.SkipLog != nil {
		fmt.Fprintln(m.SkipLog, line)
	}
	return line
}

func (m *Matcher) mismatch(format string, args ...interface{}) {
	if m.MismatchLog != nil {
		fmt.Fprintf(m.MismatchLog, format+"\n", args...)
	}
}
