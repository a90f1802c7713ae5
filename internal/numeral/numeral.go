// Package numeral spells numeric identifiers digit by digit in the
// languages whose announcements read train numbers that way.
package numeral

import (
	"strings"
	"unicode"
)

var digitWords = map[string][10]string{
	"en": {"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"},
	"hi": {"शून्य", "एक", "दो", "तीन", "चार", "पाँच", "छह", "सात", "आठ", "नौ"},
	"mr": {"शून्य", "एक", "दोन", "तीन", "चार", "पाच", "सहा", "सात", "आठ", "नऊ"},
	"gu": {"શૂન્ય", "એક", "બે", "ત્રણ", "ચાર", "પાંચ", "છ", "સાત", "આઠ", "નવ"},
}

// Supports reports whether lang has a digit word table.
func Supports(lang string) bool {
	_, ok := digitWords[lang]
	return ok
}

// SpellDigits maps every ASCII or locale digit in text to its word in
// lang, joined by single spaces. Whitespace is dropped and any other rune
// is kept as a word of its own, so "12A" reads "one two A". Unknown
// languages fall back to English words.
func SpellDigits(text, lang string) string {
	words, ok := digitWords[lang]
	if !ok {
		words = digitWords["en"]
	}

	out := make([]string, 0, len(text))
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			continue
		case unicode.IsDigit(r):
			if d, ok := digitValue(r); ok {
				out = append(out, words[d])
				continue
			}
			out = append(out, string(r))
		default:
			out = append(out, string(r))
		}
	}
	return strings.Join(out, " ")
}

// SpaceDigits separates consecutive characters with a single space,
// dropping existing whitespace: "123" becomes "1 2 3". Translators then
// read each digit instead of a place-value number.
func SpaceDigits(text string) string {
	out := make([]string, 0, len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, string(r))
	}
	return strings.Join(out, " ")
}

// digitValue resolves ASCII digits and the Devanagari and Gujarati digit
// blocks, which share the same layout offset from their zero.
func digitValue(r rune) (int, bool) {
	for _, zero := range []rune{'0', '०', '૦'} {
		if r >= zero && r <= zero+9 {
			return int(r - zero), true
		}
	}
	return 0, false
}
