// Package directory owns the persisted party-to-contact mapping used to
// route statements. The store is a single JSON document replaced as a
// whole on every mutation; there is no merge and no versioning.
package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/easysell/recon_backend/config"
	"github.com/easysell/recon_backend/models"
	"github.com/easysell/recon_backend/utils"
)

// ErrUnauthorized is returned when an administrative mutation carries the
// wrong shared secret. The operation is refused with no partial effect.
var ErrUnauthorized = errors.New("invalid admin secret")

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// sampleContacts seeds a first-run store so the rest of the pipeline
// always has a directory shape to work with.
func sampleContacts() []models.PartyContact {
	return []models.PartyContact{
		{PartyCode: "AC01", PartyName: "Alpha Corp", Email: "alpha@example.com"},
		{PartyCode: "BL02", PartyName: "Beta Ltd", Email: "beta@example.com"},
	}
}

// Load returns the persisted entries, creating the store with the sample
// set when it does not exist yet. Never returns a nil slice alongside a
// nil error.
func (s *Store) Load() ([]models.PartyContact, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		seed := sampleContacts()
		if err := s.Save(seed); err != nil {
			return nil, fmt.Errorf("failed to seed directory store: %v", err)
		}
		config.GetLogger().WithFields(logrus.Fields{
			"path":    s.path,
			"entries": len(seed),
		}).Info("directory store seeded with sample entries")
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory store: %v", err)
	}

	var entries []models.PartyContact
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode directory store: %v", err)
	}
	if entries == nil {
		entries = []models.PartyContact{}
	}
	return entries, nil
}

// Save overwrites the entire store. The write goes through a temp file
// and rename, so callers may treat it as atomic-or-failed.
func (s *Store) Save(entries []models.PartyContact) error {
	if entries == nil {
		entries = []models.PartyContact{}
	}
	return utils.WriteJSONFile(s.path, entries)
}

// Update replaces one entry's To addresses and persists the full set.
func (s *Store) Update(partyCode string, newEmails string) error {
	for _, addr := range strings.Split(newEmails, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" || !utils.IsValidEmail(addr) {
			return fmt.Errorf("invalid email address %q", addr)
		}
	}

	entries, err := s.Load()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].PartyCode == partyCode {
			entries[i].Email = newEmails
			return s.Save(entries)
		}
	}
	return fmt.Errorf("party %q not found in directory", partyCode)
}
