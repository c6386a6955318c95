// Package phone derives the string variants used to match a submitted phone
// number query against stored numbers. Matching is a substring heuristic over
// a fixed set of country calling codes, not E.164 normalization; callers that
// need exact subscriber identity must treat matches as candidates.
package phone

import (
	"regexp"
	"strings"
)

// CountryCodes is the closed set of country calling codes tried when a query
// arrives without a leading "+". Extending coverage means editing this list.
var CountryCodes = []string{
	"+966", "+2", "+971", "+965", "+974", "+973", "+968", "+962", "+961", "+963", "+964", "+967",
}

var leadingCode = regexp.MustCompile(`^\+\d{1,4}`)

// StripCountryCode removes a leading "+" followed by 1-4 digits, if present.
// Malformed input passes through unchanged.
func StripCountryCode(number string) string {
	return leadingCode.ReplaceAllString(number, "")
}

// CandidatePrefixedForms returns the input prefixed by each known country
// code. It returns nil when the number already carries a "+" prefix or is
// empty.
func CandidatePrefixedForms(number string) []string {
	if number == "" || strings.HasPrefix(number, "+") {
		return nil
	}
	forms := make([]string, 0, len(CountryCodes))
	for _, code := range CountryCodes {
		forms = append(forms, code+number)
	}
	return forms
}

// DedupeCountryCode removes a duplicated leading country code from a query.
// The directory UI prepends the picker's country code to whatever the user
// typed, so a user who also typed a code produces "+966+966501234567"; only
// the first code is kept. Queries without two leading "+<digits>" groups pass
// through unchanged. The function is idempotent.
func DedupeCountryCode(query string) string {
	if !strings.HasPrefix(query, "+") {
		return query
	}
	second := strings.Index(query[1:], "+")
	if second < 0 {
		return query
	}
	first, rest := query[:second+1], query[second+1:]
	if leadingCode.FindString(first) != first {
		return query
	}
	// Most duplications repeat the same code. Otherwise fall back to the
	// known code list, longest match first, then to any 1-4 digit group.
	if strings.HasPrefix(rest, first) {
		return first + rest[len(first):]
	}
	dup := ""
	for _, code := range CountryCodes {
		if strings.HasPrefix(rest, code) && len(code) > len(dup) {
			dup = code
		}
	}
	if dup != "" {
		return first + rest[len(dup):]
	}
	return first + StripCountryCode(rest)
}
