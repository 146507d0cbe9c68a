package lsp

import (
	"context"
	"path"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/compiler"
	"gopkg.microglot.org/polyglot.go/internal/compiler/polyglot"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// Analysis is the result of parsing one open document.
type Analysis struct {
	URI         string
	Program     *ast.Program
	Diagnostics []protocol.Diagnostic
	Symbols     []protocol.DocumentSymbol
}

type document struct {
	uri      string
	version  int32
	text     string
	analysis *Analysis
}

// Analyze parses a document held in memory. Problems become diagnostics
// instead of errors; only cancellation is returned.
func Analyze(ctx context.Context, uri string, text string, opts ...polyglot.ParserOption) (*Analysis, error) {
	reporter := exc.NewReporter(nil)
	sc := &compiler.SubCompilerPolyglot{Options: opts}
	prog, _ := sc.CompileFile(ctx, reporter, fs.NewFileString(uri, text, idl.FileKindPolyglot), nil)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reported := reporter.Reported()
	exc.Sort(reported)
	a := &Analysis{
		URI:         uri,
		Program:     prog,
		Diagnostics: make([]protocol.Diagnostic, 0, len(reported)),
	}
	lines := splitLines(text)
	for _, e := range reported {
		a.Diagnostics = append(a.Diagnostics, toDiagnostic(e, lines))
	}
	if prog != nil {
		a.Symbols = toDocumentSymbols(compiler.CollectSymbols(prog), lines)
	}
	return a, nil
}

func isPolyglot(uri string) bool {
	return path.Ext(uri) == ".pg"
}

func toDiagnostic(e exc.Exception, lines []string) protocol.Diagnostic {
	loc := e.Location()
	start := toPosition(lines, loc.Line, loc.Column)
	end := start
	if int(start.Line) < len(lines) && int(start.Character) < utf16Len(lines[start.Line]) {
		end.Character++
	}
	severity := protocol.DiagnosticSeverityError
	switch e.Code() {
	case exc.CodeMissingTypeAnnotation, exc.CodeAmbiguousConstruct:
		severity = protocol.DiagnosticSeverityWarning
	}
	source := "polyglot"
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: e.Code()},
		Source:   &source,
		Message:  e.Message(),
	}
}

func toDocumentSymbols(syms []*compiler.Symbol, lines []string) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(syms))
	for _, sym := range syms {
		p := sym.Node.Pos()
		start := toPosition(lines, p.Line, p.Column)
		end := endOf(sym.Node, lines)
		ds := protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           toSymbolKind(sym.Kind),
			Range:          protocol.Range{Start: start, End: end},
			SelectionRange: protocol.Range{Start: start, End: start},
			Children:       toDocumentSymbols(sym.Children, lines),
		}
		if sym.Detail != "" {
			detail := sym.Detail
			ds.Detail = &detail
		}
		out = append(out, ds)
	}
	return out
}

// endOf is the end of the line holding the last positioned descendant.
func endOf(n ast.Node, lines []string) protocol.Position {
	last := n.Pos()
	ast.Walk(n, func(c ast.Node) bool {
		p := c.Pos()
		if p.Line > last.Line || (p.Line == last.Line && p.Column > last.Column) {
			last = p
		}
		return true
	})
	end := toPosition(lines, last.Line, 1)
	if int(end.Line) < len(lines) {
		end.Character = protocol.UInteger(utf16Len(lines[end.Line]))
	}
	return end
}

func toSymbolKind(k compiler.SymbolKind) protocol.SymbolKind {
	switch k {
	case compiler.SymbolKindNamespace:
		return protocol.SymbolKindNamespace
	case compiler.SymbolKindClass:
		return protocol.SymbolKindClass
	case compiler.SymbolKindStruct:
		return protocol.SymbolKindStruct
	case compiler.SymbolKindInterface:
		return protocol.SymbolKindInterface
	case compiler.SymbolKindEnum:
		return protocol.SymbolKindEnum
	case compiler.SymbolKindEnumMember:
		return protocol.SymbolKindEnumMember
	case compiler.SymbolKindFunction:
		return protocol.SymbolKindFunction
	case compiler.SymbolKindConstructor:
		return protocol.SymbolKindConstructor
	case compiler.SymbolKindProperty:
		return protocol.SymbolKindProperty
	case compiler.SymbolKindField:
		return protocol.SymbolKindField
	case compiler.SymbolKindTypeAlias:
		return protocol.SymbolKindTypeParameter
	default:
		return protocol.SymbolKindVariable
	}
}

// toPosition converts a 1-based line and rune column into a 0-based LSP
// position counted in UTF-16 code units.
func toPosition(lines []string, line int32, column int32) protocol.Position {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	l := int(line - 1)
	if l >= len(lines) {
		return protocol.Position{Line: protocol.UInteger(l)}
	}
	units := 0
	col := int32(1)
	for _, r := range lines[l] {
		if col >= column {
			break
		}
		units += utf16Width(r)
		col++
	}
	return protocol.Position{Line: protocol.UInteger(l), Character: protocol.UInteger(units)}
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Width(r)
	}
	return n
}

func utf16Width(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
