// Package extract pulls typed values (ids, codes, dates, keywords) out of
// free-form Vietnamese questions. Every function is total: a missing value is
// reported through the ok result, never through a panic or error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	digitsRe      = regexp.MustCompile(`\d+`)
	invoiceCodeRe = regexp.MustCompile(`(AR|AP)[-_ ]?(\d+)`)
	docCodeRe     = regexp.MustCompile(`[A-Z]{2,3}-\d+`)
	eventCodeRe   = regexp.MustCompile(`EVENT\s*([A-Z0-9_]+)`)
	voucherCodeRe = regexp.MustCompile(`[A-Z0-9]{4,}`)
	skuRe         = regexp.MustCompile(`[A-Z0-9\-]{4,}`)
	ratingRe      = regexp.MustCompile(`(\d)\s*(?:sao|star)`)
)

// Number returns the first standalone run of digits.
func Number(text string) (int, bool) {
	m, ok := firstWord(digitsRe, text)
	if !ok {
		return 0, false
	}
	return atoi(m[0])
}

// InvoiceNumber reads the numeric part of an AR/AP invoice code such as
// "AR-001", "ap_12" or "AR 7".
func InvoiceNumber(text string) (int, bool) {
	m := invoiceCodeRe.FindStringSubmatch(strings.ToUpper(text))
	if m == nil {
		return 0, false
	}
	return atoi(m[2])
}

// Code returns a document code of the form PREFIX-DIGITS (PO-001, GR-12),
// uppercased.
func Code(text string) (string, bool) {
	m, ok := firstWord(docCodeRe, strings.ToUpper(text))
	if !ok {
		return "", false
	}
	return m[0], true
}

// EventCode returns the posting event code following the word "event".
func EventCode(text string) (string, bool) {
	m := eventCodeRe.FindStringSubmatch(strings.ToUpper(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// VoucherCode returns the first standalone alphanumeric token of four or more
// characters, uppercased. The word "voucher" itself is not a code.
func VoucherCode(text string) (string, bool) {
	upper := strings.ToUpper(text)
	for _, loc := range voucherCodeRe.FindAllStringIndex(upper, -1) {
		tok := upper[loc[0]:loc[1]]
		if tok == "VOUCHER" || !boundaryBefore(upper, loc[0]) || !boundaryAfter(upper, loc[1]) {
			continue
		}
		return tok, true
	}
	return "", false
}

// SKU returns the first standalone token of four or more letters, digits or
// dashes, uppercased.
func SKU(text string) (string, bool) {
	m, ok := firstWord(skuRe, strings.ToUpper(text))
	if !ok {
		return "", false
	}
	return m[0], true
}

// Rating reads "<digit> sao" or "<digit> star" and accepts 1 to 5.
func Rating(text string) (int, bool) {
	m := ratingRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	n, ok := atoi(m[1])
	if !ok || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// Labeled matches a number immediately following one of several label words.
// Alternative labels fill the same slot; the leftmost match wins.
type Labeled struct {
	re *regexp.Regexp
}

// Labels builds a Labeled matcher for the given lowercase label words.
func Labels(labels ...string) Labeled {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	return Labeled{re: regexp.MustCompile(`(?:` + strings.Join(quoted, "|") + `)\s*(\d+)`)}
}

// Find returns the number after the leftmost label.
func (l Labeled) Find(text string) (int, bool) {
	m := l.re.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	return atoi(m[1])
}

// firstWord returns the submatches of the first match of re whose edges are
// word boundaries in the Unicode sense, so that letters with diacritics count
// as word characters.
func firstWord(re *regexp.Regexp, s string) ([]string, bool) {
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if !boundaryBefore(s, loc[0]) || !boundaryAfter(s, loc[1]) {
			continue
		}
		groups := make([]string, 0, len(loc)/2)
		for i := 0; i < len(loc); i += 2 {
			if loc[i] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, s[loc[i]:loc[i+1]])
		}
		return groups, true
	}
	return nil, false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
