// Package text holds the row heuristics shared by the price list importers.
package text

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	parenCode    = regexp.MustCompile(`\(([^)]+)\)`)
	parenGroup   = regexp.MustCompile(`\([^)]+\)\s*`)
	leadingToken = regexp.MustCompile(`^([\w\-/]+)\s+`)
	leadingNum   = regexp.MustCompile(`^\d+\s+`)
	hasDigit     = regexp.MustCompile(`\d`)
	moneyToken   = regexp.MustCompile(`^\$?\d{1,3}(\.\d{3})*(,\d+)?$|^\$?\d+(,\d+)?$`)
	spaces       = regexp.MustCompile(`\s+`)
)

var sectionMarkers = []string{"Categoría:", "Categoria:", "Linea:", "Línea:"}

// IsSectionHeader reports rows that introduce a category or product line.
func IsSectionHeader(s string) bool {
	for _, m := range sectionMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// ExtractCode returns the code in parentheses, or a leading token that
// contains a digit ("90557/56 Canasto" -> "90557/56"). Empty when none.
func ExtractCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if m := parenCode.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := leadingToken.FindStringSubmatch(s); m != nil && hasDigit.MatchString(m[1]) {
		return m[1]
	}
	return ""
}

// CleanName strips the code from a product cell. A numeric item counter that
// precedes a parenthesised code ("140 (05001) Caja") is dropped as well.
func CleanName(s, code string) string {
	name := strings.TrimSpace(s)
	hadParen := parenGroup.MatchString(name)
	name = strings.TrimSpace(parenGroup.ReplaceAllString(name, ""))

	if code != "" {
		name = strings.TrimSpace(strings.TrimPrefix(name, code+" "))
		if name == code {
			name = ""
		}
	}
	if hadParen {
		name = leadingNum.ReplaceAllString(name, "")
	}
	return spaces.ReplaceAllString(strings.TrimSpace(name), " ")
}

// IsMoneyToken matches amounts written with Spanish separators: "173.673,00",
// "$1.200", "850".
func IsMoneyToken(s string) bool {
	return moneyToken.MatchString(strings.TrimSpace(s))
}

// ParseLocalizedNumber parses "173.673,50" as 173673.50. Dots are thousands
// separators and the comma is the decimal mark.
func ParseLocalizedNumber(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, " ", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.Replace(clean, ",", ".", 1)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse number %q: %w", s, err)
	}
	return d, nil
}

// ParseCellNumber parses a spreadsheet value: the raw machine form first
// ("173673.5"), then the localized form.
func ParseCellNumber(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	if d, err := decimal.NewFromString(clean); err == nil {
		return d, nil
	}
	return ParseLocalizedNumber(clean)
}
