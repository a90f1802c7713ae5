// Package placeholder splits announcement templates into translatable
// literal text and opaque {name} tokens, and puts them back together.
package placeholder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrMalformedTemplate is returned for a brace with no partner.
var ErrMalformedTemplate = errors.New("malformed template")

// Kind tells literal text apart from placeholder tokens.
type Kind int

const (
	Literal Kind = iota
	Placeholder
)

func (k Kind) String() string {
	if k == Placeholder {
		return "placeholder"
	}
	return "literal"
}

// Token is one segment of a template.
type Token struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

var placeholderRe = regexp.MustCompile(`\{[A-Za-z0-9_]+\}`)

// Tokenize splits template into alternating literal and placeholder
// tokens. The result always starts and ends with a literal, so two
// adjacent placeholders are separated by an empty literal. Joining every
// Value gives back template unchanged. Balanced braces that do not form a
// placeholder, such as "{}" or "{A-1}", stay in the literal text.
func Tokenize(template string) ([]Token, error) {
	if err := checkBraces(template); err != nil {
		return nil, err
	}

	matches := placeholderRe.FindAllStringIndex(template, -1)
	tokens := make([]Token, 0, 2*len(matches)+1)

	pos := 0
	for _, m := range matches {
		tokens = append(tokens,
			Token{Kind: Literal, Value: template[pos:m[0]]},
			Token{Kind: Placeholder, Value: template[m[0]:m[1]]},
		)
		pos = m[1]
	}
	return append(tokens, Token{Kind: Literal, Value: template[pos:]}), nil
}

// checkBraces rejects a '}' with no open '{' and a '{' that is never closed.
func checkBraces(template string) error {
	var open []int
	for i := 0; i < len(template); i++ {
		switch template[i] {
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				return fmt.Errorf("%w: unmatched '}' at offset %d", ErrMalformedTemplate, i)
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return fmt.Errorf("%w: unmatched '{' at offset %d", ErrMalformedTemplate, open[0])
	}
	return nil
}

// Literals returns the literal values of tokens in order.
func Literals(tokens []Token) []string {
	out := make([]string, 0, len(tokens)/2+1)
	for _, t := range tokens {
		if t.Kind == Literal {
			out = append(out, t.Value)
		}
	}
	return out
}

// Names returns the placeholder names (without braces) in order.
func Names(tokens []Token) []string {
	var out []string
	for _, t := range tokens {
		if t.Kind == Placeholder {
			out = append(out, Name(t.Value))
		}
	}
	return out
}

// Name strips the braces from a placeholder token value.
func Name(token string) string {
	return strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
}

// Reassemble replaces each literal, in order, with the matching entry of
// translated. Placeholder tokens are copied through untouched.
func Reassemble(tokens []Token, translated []string) (string, error) {
	var b strings.Builder
	i := 0
	for _, t := range tokens {
		if t.Kind == Placeholder {
			b.WriteString(t.Value)
			continue
		}
		if i >= len(translated) {
			return "", fmt.Errorf("reassemble: %d literals given, template has more", len(translated))
		}
		b.WriteString(translated[i])
		i++
	}
	if i != len(translated) {
		return "", fmt.Errorf("reassemble: %d literals given, template has %d", len(translated), i)
	}
	return b.String(), nil
}

// Fill substitutes placeholder tokens using values keyed by name.
// Placeholders without a value are left as they are.
func Fill(tokens []Token, values map[string]string) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Kind == Placeholder {
			if v, ok := values[Name(t.Value)]; ok {
				b.WriteString(v)
				continue
			}
		}
		b.WriteString(t.Value)
	}
	return b.String()
}

// IsBlank reports whether s has nothing worth translating or speaking.
func IsBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// SplitSpace separates leading and trailing whitespace, Unicode spaces
// included, from the core text.
func SplitSpace(s string) (lead, core, trail string) {
	core = strings.TrimLeftFunc(s, unicode.IsSpace)
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRightFunc(core, unicode.IsSpace)
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}
