package numeral

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpellDigits(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		lang string
		want string
	}{
		{"english", "102", "en", "one zero two"},
		{"hindi", "102", "hi", "एक शून्य दो"},
		{"marathi", "12951", "mr", "एक दोन नऊ पाच एक"},
		{"gujarati", "90", "gu", "નવ શૂન્ય"},
		{"devanagari digits", "१२", "hi", "एक दो"},
		{"whitespace dropped", " 1 2 ", "en", "one two"},
		{"letters pass through", "12A", "en", "one two A"},
		{"unknown language uses english", "7", "xx", "seven"},
		{"empty", "", "hi", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SpellDigits(tc.text, tc.lang))
		})
	}
}

func TestSpaceDigits(t *testing.T) {
	assert.Equal(t, "1 2 3", SpaceDigits("123"))
	assert.Equal(t, "1 2 A", SpaceDigits("1 2A"))
	assert.Equal(t, "", SpaceDigits("  "))
}

func TestSupports(t *testing.T) {
	for _, l := range []string{"en", "hi", "mr", "gu"} {
		assert.True(t, Supports(l), l)
	}
	assert.False(t, Supports("ta"))
}
