package models

// MatchOutcome classifies one party's reconciliation result.
type MatchOutcome string

const (
	OutcomeReady                MatchOutcome = "READY"
	OutcomeSkippedNoPayments    MatchOutcome = "SKIPPED_NO_PAYMENTS"
	OutcomeSkippedDebitMismatch MatchOutcome = "SKIPPED_DEBIT_MISMATCH"
	OutcomeSkippedAllMatched    MatchOutcome = "SKIPPED_ALL_MATCHED"
	OutcomeMissingContact       MatchOutcome = "MISSING_CONTACT"
)

// RowPolicy selects how payment rows are admitted once a party passes the
// debit-consistency check. The two source lineages disagree, so the choice
// is explicit configuration, never inferred.
type RowPolicy string

const (
	// RowPolicyCrossCheck excludes a row whose debit-note reference
	// resolves to a note disagreeing with the row's net amount by more
	// than the tolerance. Exclusions are logged as mismatches.
	RowPolicyCrossCheck RowPolicy = "cross-check"
	// RowPolicyIncludeAll admits every row unconditionally.
	RowPolicyIncludeAll RowPolicy = "include-all"
)

// MatchResult is one party's reconciliation outcome. A party appears in at
// most one MatchResult per run.
type MatchResult struct {
	PartyCode string       `json:"partyCode"`
	PartyName string       `json:"partyName"`
	Emails    []string     `json:"emails"`
	CCEmails  []string     `json:"ccEmails"`
	Payments  []PaymentRow `json:"payments"`
	Notes     []NoteRow    `json:"notes"`
	Outcome   MatchOutcome `json:"outcome"`
}

// InvoiceNos returns the distinct invoice numbers across the party's
// included payment rows, in first-seen order. Used by the dedup store.
func (m MatchResult) InvoiceNos() []string {
	seen := make(map[string]bool, len(m.Payments))
	var out []string
	for _, p := range m.Payments {
		if p.InvoiceNo == "" || seen[p.InvoiceNo] {
			continue
		}
		seen[p.InvoiceNo] = true
		out = append(out, p.InvoiceNo)
	}
	return out
}

// MissingContact reports a party key present in the payment sheet but
// absent from the directory (or present with an empty/placeholder
// address). Computed over the full payment set, independent of matching.
type MissingContact struct {
	PartyKey string `json:"partyKey"`
	RowCount int    `json:"rowCount"`
}
