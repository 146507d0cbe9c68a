package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

type CheckerTestFile struct {
	kind     idl.FileKind
	uri      string
	contents string
}

func TestChecker(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		file CheckerTestFile
	}{
		{
			name: "natural statements",
			file: CheckerTestFile{
				kind:     idl.FileKindPolyglot,
				uri:      "/high.pg",
				contents: "if x is greater than 5 then print x otherwise print 0 end if\nfor each item in items\n  print item\nend for\ndefine function add taking a and b\n  return a + b\nend function\ntry risky() catch e print e end try",
			},
		},
		{
			name: "lowered loops",
			file: CheckerTestFile{
				kind:     idl.FileKindPolyglot,
				uri:      "/loops.pg",
				contents: "@medium\nfor (int i = 0; i < 3; i++) total += i;\nwhile (true) { break; }",
			},
		},
		{
			name: "declarations",
			file: CheckerTestFile{
				kind:     idl.FileKindPolyglot,
				uri:      "/decl.pg",
				contents: "@medium\npublic class Box<T> : IBox { private T item; Box(T item) { } public int Size { get; } abstract T Get(); }\nenum Color : byte { Red = 1, Green, }\nvar r = match v { (0, _) => 1, Point(var x, 1..=5) => 2, -1 => 3 };",
			},
		},
		{
			name: "systems syntax",
			file: CheckerTestFile{
				kind:     idl.FileKindPolyglot,
				uri:      "/low.pg",
				contents: "#low\nstruct Node { int value; Node* next; }\nint* p = &x;\np->next = null;\nfn add(a: int, b: int): int { return a + b; }",
			},
		},
		{
			name: "token stream",
			file: CheckerTestFile{
				kind: idl.FileKindPolyglotTokens,
				uri:  "/stream.pgtok",
				contents: `[
					{"type": "Identifier", "value": "x", "line": 1, "column": 1},
					{"type": "ColonEqual", "value": ":=", "line": 1, "column": 3},
					{"type": "IntegerDecimal", "value": "1", "line": 1, "column": 6},
					{"type": "Semicolon", "value": ";", "line": 1, "column": 7}
				]`,
			},
		},
	}

	subcompilers := DefaultSubCompilers()
	ctx := context.Background()
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			r := exc.NewReporter(nil)
			f := fs.NewFileString(testCase.file.uri, testCase.file.contents, testCase.file.kind)
			prog, err := subcompilers[f.Kind(ctx)].CompileFile(ctx, r, f, nil)
			require.NoError(t, err, r.Reported())
			require.NotNil(t, prog)
			require.NotEmpty(t, prog.Statements)
			require.NoError(t, verify(prog, r))
			require.Empty(t, r.Reported())
		})
	}
}

func TestCheckerRejects(t *testing.T) {
	t.Parallel()
	at := ast.At(ast.Position{File: "/t.pg", Line: 1, Column: 1})
	testCases := []struct {
		name     string
		stmt     ast.Statement
		messages []string
	}{
		{
			name: "surviving loop sugar",
			stmt: &ast.Repeat{
				Base:  at,
				Count: &ast.Literal{Base: at, Value: int64(3)},
				Body:  &ast.Block{Base: at},
			},
			messages: []string{"Repeat: loop sugar must be lowered before the tree is returned"},
		},
		{
			name: "unpositioned node",
			stmt: &ast.ExpressionStatement{
				Base:       at,
				Expression: &ast.Identifier{Name: "x"},
			},
			messages: []string{"Identifier x: node has no source position"},
		},
		{
			name: "missing operand",
			stmt: &ast.ExpressionStatement{
				Base:       at,
				Expression: &ast.Binary{Base: at, Operator: "+", Left: &ast.Identifier{Base: at, Name: "a"}},
			},
			messages: []string{"Binary +: missing right operand"},
		},
		{
			name: "typed nil branch",
			stmt: &ast.If{
				Base:      at,
				Condition: &ast.Literal{Base: at, Value: true},
				Then:      (*ast.Block)(nil),
			},
			messages: []string{"If: missing then branch"},
		},
		{
			name: "bare try",
			stmt: &ast.Try{
				Base:  at,
				Block: &ast.Block{Base: at},
			},
			messages: []string{"Try: try has neither catch nor finally"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			r := exc.NewReporter(nil)
			prog := &ast.Program{File: "/t.pg", Statements: []ast.Statement{testCase.stmt}}
			err := verify(prog, r)
			require.Error(t, err)
			reported := r.Reported()
			messages := make([]string, 0, len(reported))
			for _, e := range reported {
				require.Equal(t, exc.CodeInternalInvariant, e.Code())
				messages = append(messages, e.Message())
			}
			require.Equal(t, testCase.messages, messages)
			require.True(t, exc.HasFatal(reported))
		})
	}
}
