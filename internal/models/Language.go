package models

// Language is a target language of the announcement pipeline.
type Language struct {
	Code         string `mapstructure:"code" json:"code"`                   // ISO 639-1, e.g. "hi"
	Locale       string `mapstructure:"locale" json:"locale"`               // speech locale, e.g. "hi-IN"
	DigitSpelled bool   `mapstructure:"digit_spelled" json:"digit_spelled"` // train numbers read digit by digit
}

// Codes returns the language codes in order.
func Codes(langs []Language) []string {
	out := make([]string, len(langs))
	for i, l := range langs {
		out[i] = l.Code
	}
	return out
}

// FindLanguage looks up a language by code.
func FindLanguage(langs []Language, code string) (Language, bool) {
	for _, l := range langs {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
