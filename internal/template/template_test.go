package template

import (
	"testing"

	"github.com/dbrafael/tempa/internal/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasic(t *testing.T) {
	text := "%%name%% Hello I am the %%name2%%, pleased to meet you"

	tokens := Tokenize(text, "%%", "%%")

	require.Len(t, tokens, 4)
	assert.Equal(t, Token{Kind: TokenPlaceholder, Text: "name"}, tokens[0])
	assert.Equal(t, Token{Kind: TokenLiteral, Text: " Hello I am the "}, tokens[1])
	assert.Equal(t, Token{Kind: TokenPlaceholder, Text: "name2"}, tokens[2])
	assert.Equal(t, Token{Kind: TokenLiteral, Text: ", pleased to meet you"}, tokens[3])
}

func TestTokenizeAsymmetricDelimiters(t *testing.T) {
	text := "xx0%nameabc% Hello I am the %%name2%%, pleased to meet you"

	tokens := Tokenize(text, "xx0%", "abc%")

	// the %% pair is inert because it matches neither configured delimiter
	require.Len(t, tokens, 2)
	assert.Equal(t, Token{Kind: TokenPlaceholder, Text: "name"}, tokens[0])
	assert.Equal(t, Token{Kind: TokenLiteral, Text: " Hello I am the %%name2%%, pleased to meet you"}, tokens[1])
}

func TestTokenizeNoDelimiters(t *testing.T) {
	tokens := Tokenize("just some plain text", "%%", "%%")

	require.Len(t, tokens, 1)
	assert.Equal(t, Token{Kind: TokenLiteral, Text: "just some plain text"}, tokens[0])
}

func TestTokenizeEmptyText(t *testing.T) {
	assert.Empty(t, Tokenize("", "%%", "%%"))
}

func TestTokenizeUnterminatedPlaceholder(t *testing.T) {
	tokens := Tokenize("prefix %%name with no close", "%%", "%%")

	require.Len(t, tokens, 2)
	assert.Equal(t, Token{Kind: TokenLiteral, Text: "prefix "}, tokens[0])
	// the dangling open delimiter is preserved in the literal
	assert.Equal(t, Token{Kind: TokenLiteral, Text: "%%name with no close"}, tokens[1])
}

func TestTokenizeTrailingOpen(t *testing.T) {
	tokens := Tokenize("abc%%", "%%", "%%")

	require.Len(t, tokens, 2)
	assert.Equal(t, Token{Kind: TokenLiteral, Text: "abc"}, tokens[0])
	assert.Equal(t, Token{Kind: TokenLiteral, Text: "%%"}, tokens[1])
}

func TestTokenizeSingleCharDelimiter(t *testing.T) {
	tokens := Tokenize("a %name% b", "%", "%")

	require.Len(t, tokens, 3)
	assert.Equal(t, Token{Kind: TokenLiteral, Text: "a "}, tokens[0])
	assert.Equal(t, Token{Kind: TokenPlaceholder, Text: "name"}, tokens[1])
	assert.Equal(t, Token{Kind: TokenLiteral, Text: " b"}, tokens[2])
}

func mustLoad(t *testing.T, doc string) values.Value {
	t.Helper()
	v, err := values.Load([]byte(doc))
	require.NoError(t, err)
	return v
}

func TestRenderWithReplacements(t *testing.T) {
	doc := mustLoad(t, "names:\n  name: Test Name\n  name2: Test Name 2")
	text := "%%names.name%% Hello I am the %%names.name2%%, pleased to meet you %%names.invalid%%"

	count, out := Parse(text, "%%", "%%").Render(doc)

	assert.Equal(t, "Test Name Hello I am the Test Name 2, pleased to meet you %%names.invalid%%", out)
	// count includes the unresolved placeholder
	assert.Equal(t, 3, count)
}

func TestRenderIdentityWithoutPlaceholders(t *testing.T) {
	doc := mustLoad(t, "a: b")
	text := "no placeholders in here at all"

	count, out := Parse(text, "%%", "%%").Render(doc)

	assert.Zero(t, count)
	assert.Equal(t, text, out)
}

func TestRenderIdentityWithEmptyDocument(t *testing.T) {
	text := "start %%a.b%% middle %%c%% end %%dangling"

	count, out := Parse(text, "%%", "%%").Render(values.FromAny(nil))

	assert.Equal(t, 2, count)
	assert.Equal(t, text, out)
}

func TestRenderNilDocument(t *testing.T) {
	count, out := Parse("%%a%%", "%%", "%%").Render(nil)

	assert.Equal(t, 1, count)
	assert.Equal(t, "%%a%%", out)
}

func TestRenderNonScalarNodeStaysWrapped(t *testing.T) {
	doc := mustLoad(t, "names:\n  name: Test Name")

	// names resolves to a mapping, not a scalar
	count, out := Parse("hello %%names%%", "%%", "%%").Render(doc)

	assert.Equal(t, 1, count)
	assert.Equal(t, "hello %%names%%", out)
}

func TestRenderRewrapUsesConfiguredDelimiters(t *testing.T) {
	doc := mustLoad(t, "a: b")

	_, out := Parse("<<missing.key>>", "<<", ">>").Render(doc)

	assert.Equal(t, "<<missing.key>>", out)
}

func TestRenderScalarCoercion(t *testing.T) {
	doc := mustLoad(t, "project:\n  port: 8080\n  release: true")

	count, out := Parse("port=%%project.port%% release=%%project.release%%", "%%", "%%").Render(doc)

	assert.Equal(t, 2, count)
	assert.Equal(t, "port=8080 release=true", out)
}

func TestRenderAsymmetricDelimiters(t *testing.T) {
	doc := mustLoad(t, "name: World")

	count, out := Parse("Hello {{name}}!", "{{", "}}").Render(doc)

	assert.Equal(t, 1, count)
	assert.Equal(t, "Hello World!", out)
}

func TestRenderDifferentLengthDelimiters(t *testing.T) {
	doc := mustLoad(t, "name: World")

	// open is four bytes, close is two; cursor advancement must use each
	// delimiter's own length
	count, out := Parse("a ${{{name}} b ${{{name}} c", "${{{", "}}").Render(doc)

	assert.Equal(t, 2, count)
	assert.Equal(t, "a World b World c", out)
}

func TestRenderAdjacentPlaceholders(t *testing.T) {
	doc := mustLoad(t, "a: x\nb: y")

	count, out := Parse("%%a%%%%b%%", "%%", "%%").Render(doc)

	assert.Equal(t, 2, count)
	assert.Equal(t, "xy", out)
}
