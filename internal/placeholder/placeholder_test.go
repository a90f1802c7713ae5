package placeholder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Scenario(t *testing.T) {
	tokens, err := Tokenize("Train {number} is delayed.")
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{Kind: Literal, Value: "Train "},
		{Kind: Placeholder, Value: "{number}"},
		{Kind: Literal, Value: " is delayed."},
	}, tokens)
}

func TestTokenize_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"   ",
		"No placeholders at all.",
		"{a}",
		"{a}{b}",
		"  {train_number}  ",
		"Train {train_number} {train_name} from {start_station} to {end_station} is arriving on platform {platform}.",
		"\tTabs\n{x1}\nnewlines ",
		"यात्रीगण कृपया ध्यान दें {train_number}",
	}

	for _, in := range cases {
		tokens, err := Tokenize(in)
		require.NoError(t, err, in)

		var joined strings.Builder
		for _, tok := range tokens {
			joined.WriteString(tok.Value)
		}
		assert.Equal(t, in, joined.String())

		out, err := Reassemble(tokens, Literals(tokens))
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestTokenize_AdjacentPlaceholders(t *testing.T) {
	tokens, err := Tokenize("{a}{b}")
	require.NoError(t, err)

	require.Len(t, tokens, 5)
	assert.Equal(t, Token{Kind: Literal, Value: ""}, tokens[0])
	assert.Equal(t, Token{Kind: Placeholder, Value: "{a}"}, tokens[1])
	assert.Equal(t, Token{Kind: Literal, Value: ""}, tokens[2])
	assert.Equal(t, Token{Kind: Placeholder, Value: "{b}"}, tokens[3])
	assert.Equal(t, Token{Kind: Literal, Value: ""}, tokens[4])

	out, err := Reassemble(tokens, []string{"", "", ""})
	require.NoError(t, err)
	assert.Equal(t, "{a}{b}", out)
}

func TestTokenize_NoPlaceholders(t *testing.T) {
	tokens, err := Tokenize("Mind the gap")
	require.NoError(t, err)
	assert.Equal(t, []Token{{Kind: Literal, Value: "Mind the gap"}}, tokens)
}

func TestTokenize_Malformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"Train {number is delayed",
		"Train number} is delayed",
		"{ok} then {",
		"Closed } before { open",
		"Nested {{name} only",
	} {
		_, err := Tokenize(in)
		assert.ErrorIs(t, err, ErrMalformedTemplate, in)
	}
}

func TestTokenize_BalancedBracesStayLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		names []string
		lits  []string
	}{
		{"Platform {} now", nil, []string{"Platform {} now"}},
		{"Coach {A-1} front", nil, []string{"Coach {A-1} front"}},
		{"Train {number} {x y}", []string{"number"}, []string{"Train ", " {x y}"}},
		{"Wrapped {{name}}", []string{"name"}, []string{"Wrapped {", "}"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tokens, err := Tokenize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.names, Names(tokens))
			assert.Equal(t, tt.lits, Literals(tokens))

			out, err := Reassemble(tokens, Literals(tokens))
			require.NoError(t, err)
			assert.Equal(t, tt.in, out)
		})
	}
}

func TestReassemble_PreservesPlaceholders(t *testing.T) {
	tokens, err := Tokenize("Train {number} is delayed.")
	require.NoError(t, err)

	lits := Literals(tokens)
	for i := range lits {
		lits[i] = strings.ToUpper(lits[i])
	}

	out, err := Reassemble(tokens, lits)
	require.NoError(t, err)
	assert.Equal(t, "TRAIN {number} IS DELAYED.", out)
}

func TestReassemble_CountMismatch(t *testing.T) {
	tokens, err := Tokenize("a {b} c")
	require.NoError(t, err)

	_, err = Reassemble(tokens, []string{"a "})
	assert.Error(t, err)

	_, err = Reassemble(tokens, []string{"a ", " c", "extra"})
	assert.Error(t, err)
}

func TestFill(t *testing.T) {
	tokens, err := Tokenize("Train {train_number} on platform {platform} {unknown}")
	require.NoError(t, err)

	out := Fill(tokens, map[string]string{"train_number": "1 0 2", "platform": "3"})
	assert.Equal(t, "Train 1 0 2 on platform 3 {unknown}", out)
	assert.Equal(t, []string{"train_number", "platform", "unknown"}, Names(tokens))
}

func TestSplitSpace(t *testing.T) {
	lead, core, trail := SplitSpace("  is delayed. ")
	assert.Equal(t, "  ", lead)
	assert.Equal(t, "is delayed.", core)
	assert.Equal(t, " ", trail)

	lead, core, trail = SplitSpace("   ")
	assert.Equal(t, "   ", lead)
	assert.Equal(t, "", core)
	assert.Equal(t, "", trail)

	assert.True(t, IsBlank(" \t"))
	assert.False(t, IsBlank(" x "))

	// NBSP and ideographic space count as whitespace.
	lead, core, trail = SplitSpace("\u00a0is late\u3000")
	assert.Equal(t, "\u00a0", lead)
	assert.Equal(t, "is late", core)
	assert.Equal(t, "\u3000", trail)
	assert.True(t, IsBlank("\u00a0\u2003"))
}
