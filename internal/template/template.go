// Package template implements the placeholder grammar used when cloning a
// template tree: arbitrary text interleaved with `<open>dotted.key.path<close>`
// placeholders. There are no conditionals, loops or expressions; a
// placeholder is exactly one dotted-path lookup into the replacement
// document.
package template

import (
	"strings"

	"github.com/dbrafael/tempa/internal/values"
)

// TokenKind discriminates the two token variants.
type TokenKind int

const (
	// TokenLiteral is a run of text copied verbatim to the output.
	TokenLiteral TokenKind = iota
	// TokenPlaceholder is the raw dotted key path found between delimiters,
	// not yet split into segments.
	TokenPlaceholder
)

// Token is one segment of a tokenized file.
type Token struct {
	Kind TokenKind
	Text string
}

// Template is the ordered token sequence for one file's content, together
// with the delimiters it was parsed with. Each instance renders exactly one
// file and is never shared across files.
type Template struct {
	tokens []Token
	open   string
	close  string
}

// Parse tokenizes text using the given open and close delimiters. Both
// delimiters must be non-empty; they may be equal and may differ in length.
func Parse(text, open, close string) *Template {
	return &Template{
		tokens: Tokenize(text, open, close),
		open:   open,
		close:  close,
	}
}

// Tokens returns the parsed token sequence.
func (t *Template) Tokens() []Token {
	return t.tokens
}

// Tokenize splits text into literal and placeholder tokens. The scan
// alternates between searching for the open delimiter (outside a
// placeholder) and the close delimiter (inside one); empty segments between
// adjacent delimiters produce no token. Text following an open delimiter
// that is never closed is re-emitted as a literal, opening delimiter
// included, so a render that resolves nothing reproduces its input.
func Tokenize(text, open, close string) []Token {
	var tokens []Token
	inside := false

	for {
		delim := open
		if inside {
			delim = close
		}

		i := strings.Index(text, delim)
		if i < 0 {
			if inside {
				tokens = append(tokens, Token{Kind: TokenLiteral, Text: open + text})
			} else if text != "" {
				tokens = append(tokens, Token{Kind: TokenLiteral, Text: text})
			}
			return tokens
		}

		if i > 0 {
			kind := TokenLiteral
			if inside {
				kind = TokenPlaceholder
			}
			tokens = append(tokens, Token{Kind: kind, Text: text[:i]})
		}

		inside = !inside
		text = text[i+len(delim):]
	}
}

// Render concatenates the token sequence, resolving each placeholder against
// the replacement document. A placeholder whose dotted path does not lead to
// a string-convertible scalar is emitted unchanged, re-wrapped in the
// original delimiters.
//
// The returned count is the number of placeholders encountered, resolved or
// not; it does not measure successful substitutions.
func (t *Template) Render(root values.Value) (int, string) {
	var b strings.Builder
	count := 0

	for _, tok := range t.tokens {
		if tok.Kind == TokenLiteral {
			b.WriteString(tok.Text)
			continue
		}

		count++
		if s, ok := resolve(root, tok.Text); ok {
			b.WriteString(s)
		} else {
			b.WriteString(t.open)
			b.WriteString(tok.Text)
			b.WriteString(t.close)
		}
	}

	return count, b.String()
}

// resolve walks the replacement document one dotted-path segment at a time.
func resolve(root values.Value, path string) (string, bool) {
	if root == nil {
		return "", false
	}

	node := root
	for _, part := range strings.Split(path, ".") {
		child, ok := node.Lookup(part)
		if !ok {
			return "", false
		}
		node = child
	}

	return node.Scalar()
}
