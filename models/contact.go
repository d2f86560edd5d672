package models

import "strings"

// PartyContact is one directory entry. Email and CC keep the comma-joined
// string shape of the persisted JSON document; the split helpers return
// the ordered address lists the mailer works with.
type PartyContact struct {
	PartyCode string `json:"PartyCode" validate:"required"`
	PartyName string `json:"PartyName"`
	Email     string `json:"Email"`
	CC        string `json:"CC,omitempty"`
}

func (c PartyContact) Key(k MatchKey) string {
	if k == MatchByName {
		return strings.TrimSpace(c.PartyName)
	}
	return strings.TrimSpace(c.PartyCode)
}

func (c PartyContact) ToEmails() []string {
	return splitAddresses(c.Email)
}

func (c PartyContact) CCEmails() []string {
	return splitAddresses(c.CC)
}

// HasAddress reports whether the entry carries a usable To address.
// Placeholder values left behind by spreadsheet exports count as empty.
func (c PartyContact) HasAddress() bool {
	v := strings.ToLower(strings.TrimSpace(c.Email))
	return v != "" && v != "nan" && v != "none"
}

func splitAddresses(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
