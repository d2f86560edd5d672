package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Options holds the per-process runtime configuration. Everything comes
// from the environment (optionally via a .env file) with working defaults
// so a bare process can still run against the local data directory.
type Options struct {
	Port    string
	DataDir string

	// MatchKey selects the party identity used by the matcher: "code" or
	// "name". The two spreadsheet families populate different fields
	// reliably, so this stays explicit rather than a fallback chain.
	MatchKey string

	// RowPolicy selects the payment-row inclusion behavior: "cross-check"
	// (legacy per-row debit-note verification) or "include-all".
	RowPolicy string

	SMTPHost             string
	SMTPPort             int
	DispatchDelaySeconds int

	// DedupDSN, when set, enables the MySQL sent-invoice dedup table.
	DedupDSN string

	// AdminSecretHash is the bcrypt hash guarding directory mutations.
	AdminSecretHash string
}

var opts Options

func init() {
	godotenv.Load()

	opts = Options{
		Port:                 strFromEnv("PORT", "8080"),
		DataDir:              strFromEnv("DATA_DIR", "."),
		MatchKey:             strFromEnv("RECON_MATCH_KEY", "code"),
		RowPolicy:            strFromEnv("RECON_ROW_POLICY", "cross-check"),
		SMTPHost:             strFromEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:             intFromEnv("SMTP_PORT", 465),
		DispatchDelaySeconds: intFromEnv("DISPATCH_DELAY_SECONDS", 1),
		DedupDSN:             os.Getenv("DEDUP_DSN"),
		AdminSecretHash:      os.Getenv("ADMIN_SECRET_HASH"),
	}
}

func GetOptions() Options {
	return opts
}

func strFromEnv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
