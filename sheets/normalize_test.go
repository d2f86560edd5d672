package sheets

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/easysell/recon_backend/models"
)

func buildWorkbook(t *testing.T, sheetRows map[string][][]interface{}, order []string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("new sheet %q: %v", sheet, err)
		}
		if err := writeRows(f, sheet, sheetRows[sheet]); err != nil {
			t.Fatalf("write rows to %q: %v", sheet, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("serialize workbook: %v", err)
	}
	return buf.Bytes()
}

func legacyFixture(t *testing.T) []byte {
	return buildWorkbook(t, map[string][][]interface{}{
		LegacyPaymentSheet: {
			{"Party Code", "Party Name", "Inv. No.", "Pur. Date", "Total Inv. Amount", "Debit Amount", "Net Amount", "Bank Payment", "Payment Date"},
			{"P1", "Alpha Corp", "INV001", "2025-01-10", 10000, 500, 9500, 9500, "2025-02-10"},
			{"P2", "Beta Ltd", "INV002", "2025-01-15", 20000, "", 20000, 20000, "2025-02-20"},
		},
		LegacyNotesSheet: {
			{"Party Code", "Party Name", "Date", "Return Invoice No.", "Amount"},
			{"P1", "Alpha Corp", "2025-02-05", "DN001", 500},
		},
	}, []string{LegacyPaymentSheet, LegacyNotesSheet})
}

func TestNormalize_LegacyPath(t *testing.T) {
	res, err := Normalize(bytes.NewReader(legacyFixture(t)))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Variant != models.VariantLegacy {
		t.Fatalf("variant = %s, want legacy", res.Variant)
	}
	if len(res.Payments) != 2 {
		t.Fatalf("payments = %d, want 2", len(res.Payments))
	}
	if len(res.Notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(res.Notes))
	}

	p := res.Payments[0]
	if p.PartyCode != "P1" || p.PartyName != "Alpha Corp" {
		t.Errorf("identity fields = %q/%q", p.PartyCode, p.PartyName)
	}
	if !p.NetAmount.Equal(decimal.NewFromInt(9500)) {
		t.Errorf("net = %s, want 9500", p.NetAmount)
	}
	// blank debit cell coerces to zero without a parse warning
	if !res.Payments[1].DebitAmount.IsZero() {
		t.Errorf("blank debit = %s, want 0", res.Payments[1].DebitAmount)
	}
	if res.ParseWarnings != 0 {
		t.Errorf("parse warnings = %d, want 0", res.ParseWarnings)
	}
	if res.Notes[0].ReferenceNo != "DN001" || !res.Notes[0].Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("note = %+v", res.Notes[0])
	}
}

func TestNormalize_LegacyIsDeterministic(t *testing.T) {
	fixture := legacyFixture(t)

	first, err := Normalize(bytes.NewReader(fixture))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	second, err := Normalize(bytes.NewReader(fixture))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical bytes produced different canonical tables")
	}
}

func TestNormalize_LegacyMissingColumns(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]interface{}{
		LegacyPaymentSheet: {
			{"Party Code", "Inv. No.", "Pur. Date"},
			{"P1", "INV001", "2025-01-10"},
		},
		LegacyNotesSheet: {
			{"Party Code", "Return Invoice No.", "Amount"},
		},
	}, []string{LegacyPaymentSheet, LegacyNotesSheet})

	_, err := Normalize(bytes.NewReader(wb))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	for _, col := range []string{"Total Inv. Amount", "Net Amount", "Bank Payment"} {
		if !contains(schemaErr.Missing, col) {
			t.Errorf("missing list %v lacks %q", schemaErr.Missing, col)
		}
	}
}

func TestNormalize_LedgerPath(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]interface{}{
		"Ledger": {
			{"Seller Name", "Bill No", "Invoice Date", "Advised No", "Seller Advised No", "Total With Tax", "DR", "CR", "Transaction Type"},
			{"731-AUROMIN-Amazon", "B001", "2025-03-01", "ADV1", "SADV1", 1000, 100, 0, "Purchase"},
			{"Gamma-Traders", "B002", "2025-03-02", "ADV2", "SADV2", 5000, 0, 250, "Purchase"},
			{"", "", "", "", "", "", "", "", ""},
		},
	}, []string{"Ledger"})

	res, err := Normalize(bytes.NewReader(wb))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Variant != models.VariantLedger {
		t.Fatalf("variant = %s, want ledger", res.Variant)
	}
	if len(res.Payments) != 2 {
		t.Fatalf("payments = %d, want 2 (blank row dropped)", len(res.Payments))
	}

	p := res.Payments[0]
	if p.PartyCode != "731" {
		t.Errorf("party code = %q, want 731", p.PartyCode)
	}
	if !p.NetAmount.Equal(decimal.NewFromInt(900)) {
		t.Errorf("net = %s, want 900 (1000 - 100 - 0)", p.NetAmount)
	}
	if !p.BankPayment.IsZero() {
		t.Errorf("bank payment = %s, want 0", p.BankPayment)
	}

	if res.Payments[1].PartyCode != "Gamma" {
		t.Errorf("hyphen-derived code = %q, want Gamma", res.Payments[1].PartyCode)
	}
	if !res.Payments[1].BankPayment.Equal(decimal.NewFromInt(250)) {
		t.Errorf("credit row bank payment = %s, want 250", res.Payments[1].BankPayment)
	}

	// one positive debit note for row 1, one negative credit note for row 2
	if len(res.Notes) != 2 {
		t.Fatalf("notes = %d, want 2", len(res.Notes))
	}
	if res.Notes[0].ReferenceNo != "B001" || !res.Notes[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("debit note = %+v", res.Notes[0])
	}
	if res.Notes[1].ReferenceNo != "B002 (CR)" || !res.Notes[1].Amount.Equal(decimal.NewFromInt(-250)) {
		t.Errorf("credit note = %+v", res.Notes[1])
	}
}

func TestNormalize_LedgerMergedHeaderOffset(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]interface{}{
		"Sheet1": {
			{"Seller Name: 731-AUROMIN  Advised No: A-99"},
			{""},
			{"Seller Name", "Bill No", "Invoice Date", "Advised No", "Seller Advised No", "CR", "DR"},
			{"731-AUROMIN", "B010", "2025-04-01", "ADV9", "SADV9", 300, 0},
		},
	}, []string{"Sheet1"})

	res, err := Normalize(bytes.NewReader(wb))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(res.Payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(res.Payments))
	}
	// no total column: falls back to CR+DR
	if !res.Payments[0].TotalInvoiceAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("total = %s, want 300 via CR+DR fallback", res.Payments[0].TotalInvoiceAmount)
	}
}

func TestNormalize_LedgerMissingRequiredColumn(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]interface{}{
		"Sheet1": {
			{"Seller Name", "Bill No", "Invoice Date", "Advised No"},
			{"731-AUROMIN", "B010", "2025-04-01", "ADV9"},
		},
	}, []string{"Sheet1"})

	_, err := Normalize(bytes.NewReader(wb))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if !contains(schemaErr.Missing, colSellerAdviceNo) {
		t.Errorf("missing list %v lacks %q", schemaErr.Missing, colSellerAdviceNo)
	}
}

func TestNormalize_UnrecognizedLayout(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]interface{}{
		"Sheet1": {
			{"Foo", "Bar"},
			{"1", "2"},
		},
	}, []string{"Sheet1"})

	_, err := Normalize(bytes.NewReader(wb))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(schemaErr.Missing) != 0 {
		t.Errorf("unrecognized layout should not list columns, got %v", schemaErr.Missing)
	}
}

func TestNormalize_ParseWarningCount(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]interface{}{
		LegacyPaymentSheet: {
			{"Party Code", "Inv. No.", "Pur. Date", "Total Inv. Amount", "Debit Amount", "Net Amount", "Bank Payment", "Payment Date"},
			{"P1", "INV001", "2025-01-10", "ten thousand", 0, 9500, 9500, "2025-02-10"},
		},
		LegacyNotesSheet: {
			{"Party Code", "Return Invoice No.", "Amount"},
		},
	}, []string{LegacyPaymentSheet, LegacyNotesSheet})

	res, err := Normalize(bytes.NewReader(wb))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.ParseWarnings != 1 {
		t.Errorf("parse warnings = %d, want 1", res.ParseWarnings)
	}
	if !res.Payments[0].TotalInvoiceAmount.IsZero() {
		t.Errorf("unparseable total = %s, want 0", res.Payments[0].TotalInvoiceAmount)
	}
}

func TestDerivePartyCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"731-AUROMIN-Amazon", "731"},
		{"42Degrees", "42"},
		{"Gamma-Traders", "Gamma"},
		{"Plain Name", "Plain Name"},
		{"  spaced-out  ", "spaced"},
	}
	for _, c := range cases {
		if got := derivePartyCode(c.in); got != c.want {
			t.Errorf("derivePartyCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
