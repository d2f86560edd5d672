package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func IsValidEmail(email string) bool {
	// Basic email validation regex pattern
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex := regexp.MustCompile(pattern)
	return regex.MatchString(email)
}

// IsPlaceholderEmail reports whether a spreadsheet cell holds no real
// address. Exports from the legacy tooling leave "nan"/"none" behind.
func IsPlaceholderEmail(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "" || v == "nan" || v == "none"
}

func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	// Tolerate thousands separators left in exported amount cells.
	value = strings.ReplaceAll(value, ",", "")

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

// CellDecimal coerces a spreadsheet cell to a decimal amount. Unparseable
// cells coerce to zero; ok reports whether the cell parsed, so callers can
// count parse warnings without failing the row.
func CellDecimal(value string) (decimal.Decimal, bool) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, true
	}
	dec, err := ParseDecimal(value)
	if err != nil {
		return decimal.Zero, false
	}
	return dec, true
}

func ProcessValidationErrors(err error) map[string]string {
	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}
