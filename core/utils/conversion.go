package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

const (
	// MaxIntegerDigits bounds the integer part of a parsed number.
	MaxIntegerDigits = 20
	// MaxFractionDigits bounds the fractional part of a parsed number.
	MaxFractionDigits = 18
)

var (
	// ErrNotNumeric is returned for empty or malformed numbers.
	ErrNotNumeric = errors.New("not a number")
	// ErrOutOfRange is returned for numbers with too many integer or fractional digits.
	ErrOutOfRange = errors.New("number out of range")
)

// CleanText trims whitespace and unwraps the Excel text form ="...".
// Other quotes and a bare leading "=" are part of the value.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
// Use it for headers and numbers only; names go through CleanText.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// ParseDecimal converts a cell to a decimal.
// Handles thousands separators and accounting format (parentheses for negative).
// Values beyond MaxIntegerDigits or MaxFractionDigits return ErrOutOfRange.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = CleanCell(s)
	if s == "" {
		return decimal.Zero, ErrNotNumeric
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Zero, ErrNotNumeric
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	if !inRange(d) {
		return decimal.Zero, ErrOutOfRange
	}
	return d, nil
}

// inRange checks the digit bounds without expanding the exponent.
func inRange(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < -MaxFractionDigits || exp > MaxIntegerDigits {
		return false
	}
	return d.NumDigits()+int(exp) <= MaxIntegerDigits
}

// FormatBool renders a bool the way spreadsheet tools write it ("True"/"False").
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
