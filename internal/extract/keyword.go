package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	monthRe          = regexp.MustCompile(`tháng\s*(\d{1,2})`)
	yearRe           = regexp.MustCompile(`năm\s*(\d{4})`)
	warehouseTailRe  = regexp.MustCompile(`kho\s+([\p{L}\s]+)`)
	productKeywordRe = regexp.MustCompile(`(?i)(iphone\s*\d+|dell\s*xps\s*\d*|[a-z0-9\-]{4,})`)
	amountRe         = regexp.MustCompile(`(\d[\d.,]*)\s*(vnđ|vnd|đồng|đ|nghìn|ngàn|k|triệu|tr)`)
	quantityRe       = regexp.MustCompile(`(?:cần|đủ|đặt|lấy|xuất)\s*(\d+)`)

	titleCaser = cases.Title(language.Vietnamese)
)

// locationAliases maps common abbreviations to canonical warehouse city names.
// Order matters: the first alias found in the text wins.
var locationAliases = []struct {
	alias     string
	canonical string
}{
	{"hn", "hà nội"},
	{"ha noi", "hà nội"},
	{"hà nội", "hà nội"},
	{"hcm", "hồ chí minh"},
	{"tphcm", "hồ chí minh"},
	{"sài gòn", "hồ chí minh"},
	{"sg", "hồ chí minh"},
}

// Normalize lowercases text, replaces punctuation with spaces and collapses
// whitespace.
func Normalize(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}

// Warehouse resolves a warehouse name from the question: a known location
// alias first, otherwise everything after the word "kho", title-cased.
func Warehouse(text string) (string, bool) {
	norm := Normalize(text)
	for _, a := range locationAliases {
		if strings.Contains(norm, a.alias) {
			return titleCaser.String(a.canonical), true
		}
	}
	m := warehouseTailRe.FindStringSubmatch(norm)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return titleCaser.String(name), true
}

// ProductKeyword returns a product name fragment or SKU-like token mentioned
// in the question.
func ProductKeyword(text string) (string, bool) {
	m, ok := firstWord(productKeywordRe, text)
	if !ok {
		return "", false
	}
	return m[1], true
}

// MonthYear reads "tháng M" and optionally "năm YYYY"; the year defaults to
// the year of now. ok is false when no valid month is present.
func MonthYear(text string, now time.Time) (month, year int, ok bool) {
	lower := strings.ToLower(text)
	year = now.Year()
	if m := yearRe.FindStringSubmatch(lower); m != nil {
		if y, yok := atoi(m[1]); yok {
			year = y
		}
	}
	m := monthRe.FindStringSubmatch(lower)
	if m == nil {
		return 0, year, false
	}
	month, ok = atoi(m[1])
	if !ok || month < 1 || month > 12 {
		return 0, year, false
	}
	return month, year, true
}

// Amount reads a money amount with a currency or magnitude unit, such as
// "500.000đ", "500k" or "1,5 triệu".
func Amount(text string) (decimal.Decimal, bool) {
	m, ok := firstWord(amountRe, strings.ToLower(text))
	if !ok {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(canonicalNumber(m[1]))
	if err != nil {
		return decimal.Zero, false
	}
	switch m[2] {
	case "k", "nghìn", "ngàn":
		value = value.Mul(decimal.NewFromInt(1_000))
	case "triệu", "tr":
		value = value.Mul(decimal.NewFromInt(1_000_000))
	}
	return value, true
}

// WithoutAmounts lowercases text and blanks out every standalone money
// amount, so that code extractors never read "500k" as a code.
func WithoutAmounts(text string) string {
	lower := strings.ToLower(text)
	var sb strings.Builder
	last := 0
	for _, loc := range amountRe.FindAllStringIndex(lower, -1) {
		if loc[0] < last || !boundaryBefore(lower, loc[0]) || !boundaryAfter(lower, loc[1]) {
			continue
		}
		sb.WriteString(lower[last:loc[0]])
		sb.WriteByte(' ')
		last = loc[1]
	}
	sb.WriteString(lower[last:])
	return sb.String()
}

// canonicalNumber turns a number written with Vietnamese or English grouping
// into a plain decimal string. A separator followed by exactly three digits
// groups thousands; any other separator is the decimal point.
func canonicalNumber(s string) string {
	s = strings.TrimRight(s, ".,")
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	if lastDot >= 0 && lastComma >= 0 {
		dec := max(lastDot, lastComma)
		intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:dec])
		return intPart + "." + s[dec+1:]
	}
	sep := "."
	if lastComma >= 0 {
		sep = ","
	}
	parts := strings.Split(s, sep)
	if len(parts) == 1 {
		return s
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
		}
	}
	return strings.Join(parts, "")
}

// Quantity reads a requested quantity such as "cần 10" or "đủ 5".
func Quantity(text string) (int, bool) {
	m := quantityRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	return atoi(m[1])
}
