package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9500", "9500", false},
		{" 9500.50 ", "9500.5", false},
		{"1,20,000.25", "120000.25", false},
		{"-250", "-250", false},
		{"", "", true},
		{"N/A", "", true},
	}
	for _, c := range cases {
		got, err := ParseDecimal(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseDecimal(%q) expected error, got %s", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimal(%q) unexpected error: %v", c.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("ParseDecimal(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestCellDecimal_CoercesToZero(t *testing.T) {
	d, ok := CellDecimal("not a number")
	if ok {
		t.Error("expected parse failure to be reported")
	}
	if !d.IsZero() {
		t.Errorf("expected zero coercion, got %s", d)
	}

	d, ok = CellDecimal("")
	if !ok {
		t.Error("empty cell is not a parse warning")
	}
	if !d.IsZero() {
		t.Errorf("expected zero for empty cell, got %s", d)
	}
}

func TestIsPlaceholderEmail(t *testing.T) {
	for _, v := range []string{"", "  ", "nan", "None", "NAN"} {
		if !IsPlaceholderEmail(v) {
			t.Errorf("expected %q to be a placeholder", v)
		}
	}
	if IsPlaceholderEmail("ops@example.com") {
		t.Error("real address flagged as placeholder")
	}
}

func TestHashAndCompareSecret(t *testing.T) {
	hash, err := HashSecret("open sesame")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if err := CompareSecret(string(hash), "open sesame"); err != nil {
		t.Errorf("expected matching secret to compare clean: %v", err)
	}
	if err := CompareSecret(string(hash), "wrong"); err == nil {
		t.Error("expected mismatching secret to fail")
	}
}
