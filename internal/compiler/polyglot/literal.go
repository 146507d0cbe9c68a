package polyglot

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/optional"
)

// DecodeLiteral computes the literal value carried by a token of the given
// type. Text tokens hold their raw content with escapes intact.
func DecodeLiteral(kind idl.TokenType, text string) (any, error) {
	switch kind {
	case idl.TokenTypeIntegerDecimal:
		return strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 10, 64)
	case idl.TokenTypeIntegerHex, idl.TokenTypeIntegerBinary:
		return strconv.ParseInt(text, 0, 64)
	case idl.TokenTypeFloatDecimal:
		return strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	case idl.TokenTypeText:
		return unquote(text)
	case idl.TokenTypeKeywordTrue:
		return true, nil
	case idl.TokenTypeKeywordFalse:
		return false, nil
	case idl.TokenTypeKeywordNull:
		return nil, nil
	}
	return nil, fmt.Errorf("%s tokens do not carry a literal", kind)
}

// withLiteral attaches the decoded literal to a token. Tokens whose text
// cannot be decoded are left without one and are rejected by the parser.
func withLiteral(t *idl.Token) *idl.Token {
	if !t.Type.IsLiteral() {
		return t
	}
	v, err := DecodeLiteral(t.Type, t.Value)
	if err != nil {
		t.Literal = optional.None[any]()
		return t
	}
	t.Literal = optional.Some(v)
	return t
}

func unquote(raw string) (string, error) {
	var b strings.Builder
	for len(raw) > 0 {
		c, multibyte, tail, err := strconv.UnquoteChar(raw, '"')
		if err != nil {
			return "", err
		}
		if c < utf8.RuneSelf || !multibyte {
			b.WriteByte(byte(c))
		} else {
			b.WriteRune(c)
		}
		raw = tail
	}
	return b.String(), nil
}
