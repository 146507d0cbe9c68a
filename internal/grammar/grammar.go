// Package grammar holds the reference EBNF of each syntax level. The
// parser is hand written; these grammars document what it accepts and are
// checked for well-formedness with golang.org/x/exp/ebnf.
package grammar

import (
	"bytes"
	"embed"
	"fmt"
	"slices"
	"unicode"

	"golang.org/x/exp/ebnf"

	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// Start is the production every level's grammar is verified from.
const Start = "Program"

//go:embed *.ebnf
var files embed.FS

func levelFile(level idl.SyntaxLevel) (string, error) {
	switch level {
	case idl.SyntaxLevelHigh:
		return "high.ebnf", nil
	case idl.SyntaxLevelMedium:
		return "medium.ebnf", nil
	case idl.SyntaxLevelLow:
		return "low.ebnf", nil
	}
	return "", fmt.Errorf("unknown syntax level %d", level)
}

// Source returns the complete grammar text of a level: the shared core
// followed by the level's own productions.
func Source(level idl.SyntaxLevel) ([]byte, error) {
	name, err := levelFile(level)
	if err != nil {
		return nil, err
	}
	common, err := files.ReadFile("common.ebnf")
	if err != nil {
		return nil, err
	}
	own, err := files.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	b.Write(common)
	b.WriteByte('\n')
	b.Write(own)
	return b.Bytes(), nil
}

// Load parses the grammar of a level without verifying it.
func Load(level idl.SyntaxLevel) (ebnf.Grammar, error) {
	src, err := Source(level)
	if err != nil {
		return nil, err
	}
	return ebnf.Parse(level.String()+".ebnf", bytes.NewReader(src))
}

// Verify parses the grammar of a level and checks that every production
// is defined, reachable from Start and lexically consistent.
func Verify(level idl.SyntaxLevel) error {
	g, err := Load(level)
	if err != nil {
		return err
	}
	return ebnf.Verify(g, Start)
}

// Words lists the alphabetic terminals a level's grammar uses, sorted.
// These are keywords or the contextual words of natural phrases.
func Words(g ebnf.Grammar) []string {
	seen := map[string]bool{}
	var visit func(e ebnf.Expression)
	visit = func(e ebnf.Expression) {
		switch x := e.(type) {
		case ebnf.Alternative:
			for _, y := range x {
				visit(y)
			}
		case ebnf.Sequence:
			for _, y := range x {
				visit(y)
			}
		case *ebnf.Group:
			visit(x.Body)
		case *ebnf.Option:
			visit(x.Body)
		case *ebnf.Repetition:
			visit(x.Body)
		case *ebnf.Token:
			if isWord(x.String) {
				seen[x.String] = true
			}
		}
	}
	for _, p := range g {
		if p.Expr != nil {
			visit(p.Expr)
		}
	}
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

func isWord(s string) bool {
	if len(s) < 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
