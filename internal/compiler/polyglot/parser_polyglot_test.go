// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package polyglot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

func id(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func num(v int64) *ast.Literal {
	return &ast.Literal{Value: v}
}

func bin(op string, left ast.Expression, right ast.Expression) *ast.Binary {
	return &ast.Binary{Operator: op, Left: left, Right: right}
}

func call(callee ast.Expression, args ...ast.Expression) *ast.Call {
	return &ast.Call{Callee: callee, Arguments: args}
}

func exprStmt(e ast.Expression) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Expression: e}
}

func block(stmts ...ast.Statement) *ast.Block {
	return &ast.Block{Statements: stmts}
}

func named(name string) *ast.TypeNode {
	return &ast.TypeNode{Name: name}
}

func parseSource(t *testing.T, input string, opts ...ParserOption) (*ast.Program, []exc.Exception, error) {
	t.Helper()
	ctx := context.Background()
	reporter := exc.NewReporter(nil)
	f, err := NewLexerPolyglot(reporter).Lex(ctx, fs.NewFileString("/test.pg", input, idl.FileKindPolyglot))
	require.NoError(t, err)
	prog, err := NewParserPolyglot(reporter, opts...).Parse(ctx, f)
	return prog, reporter.Reported(), err
}

// parseClean parses input that must not produce any diagnostics and returns
// its statements without positions.
func parseClean(t *testing.T, input string, opts ...ParserOption) []ast.Statement {
	t.Helper()
	prog, reported, err := parseSource(t, input, opts...)
	require.NoError(t, err)
	require.Empty(t, reported)
	ast.ClearPositions(prog)
	return prog.Statements
}

func codes(excs []exc.Exception) []string {
	var out []string
	for _, e := range excs {
		out = append(out, e.Code())
	}
	return out
}

func TestParseStatements(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []ast.Statement
	}{
		{
			name:  "natural if with otherwise",
			input: "if x is greater than 5 then print x otherwise print 0 end if",
			expected: []ast.Statement{&ast.If{
				Condition: bin(">", id("x"), num(5)),
				Then:      block(exprStmt(call(id("print"), id("x")))),
				Else:      block(exprStmt(call(id("print"), num(0)))),
			}},
		},
		{
			name:  "natural if chain",
			input: "if a then print 1 otherwise if b then print 2 otherwise print 3 end if",
			expected: []ast.Statement{&ast.If{
				Condition: id("a"),
				Then:      block(exprStmt(call(id("print"), num(1)))),
				Else: &ast.If{
					Condition: id("b"),
					Then:      block(exprStmt(call(id("print"), num(2)))),
					Else:      block(exprStmt(call(id("print"), num(3)))),
				},
			}},
		},
		{
			name:  "natural for each",
			input: "for each item in items\n  print item\nend for",
			expected: []ast.Statement{&ast.ForEach{
				Variable: "item",
				Iterable: id("items"),
				Body:     block(exprStmt(call(id("print"), id("item")))),
			}},
		},
		{
			name:  "natural while with set",
			input: "while n is less than 10 do set n to n plus 1 end while",
			expected: []ast.Statement{&ast.While{
				Condition: bin("<", id("n"), num(10)),
				Body: block(exprStmt(&ast.Assignment{
					Target:   id("n"),
					Operator: "=",
					Value:    bin("+", id("n"), num(1)),
				})),
			}},
		},
		{
			name:  "natural function",
			input: "define function add taking a and b\n  return a + b\nend function",
			expected: []ast.Statement{&ast.FunctionDeclaration{
				Name:       "add",
				Parameters: []*ast.Parameter{{Name: "a"}, {Name: "b"}},
				Body:       block(&ast.Return{Value: bin("+", id("a"), id("b"))}),
			}},
		},
		{
			name:  "natural walrus and with call",
			input: "total := greet with name and 2",
			expected: []ast.Statement{exprStmt(&ast.Assignment{
				Target:   id("total"),
				Operator: ":=",
				Value:    call(id("greet"), id("name"), num(2)),
			})},
		},
		{
			name:  "natural try statement",
			input: "try risky() catch e print e end try",
			expected: []ast.Statement{&ast.Try{
				Block: block(exprStmt(call(id("risky")))),
				Catches: []*ast.CatchClause{{
					Name: "e",
					Body: block(exprStmt(call(id("print"), id("e")))),
				}},
			}},
		},
		{
			name:  "natural optional semicolons",
			input: "x := 1; print x;",
			expected: []ast.Statement{
				exprStmt(&ast.Assignment{Target: id("x"), Operator: ":=", Value: num(1)}),
				exprStmt(call(id("print"), id("x"))),
			},
		},
		{
			name:  "typed declaration precedence",
			input: "@medium\nint x = 1 + 2 * 3;",
			expected: []ast.Statement{&ast.VariableDeclaration{
				Name: "x",
				Type: named("int"),
				Init: bin("+", num(1), bin("*", num(2), num(3))),
			}},
		},
		{
			name:  "keyword declaration with annotation",
			input: "@medium\nlet total: long = 0;",
			expected: []ast.Statement{&ast.VariableDeclaration{
				Kind: "let",
				Name: "total",
				Type: named("long"),
				Init: num(0),
			}},
		},
		{
			name:  "generic declaration and relational expression",
			input: "@medium\nList<int> xs = new List<int>();\na < b;",
			expected: []ast.Statement{
				&ast.VariableDeclaration{
					Name: "xs",
					Type: &ast.TypeNode{Name: "List", Arguments: []*ast.TypeNode{named("int")}},
					Init: &ast.New{Type: &ast.TypeNode{Name: "List", Arguments: []*ast.TypeNode{named("int")}}},
				},
				exprStmt(bin("<", id("a"), id("b"))),
			},
		},
		{
			name:  "right shift from adjacent angles",
			input: "@medium\nx = a >> 2;",
			expected: []ast.Statement{exprStmt(&ast.Assignment{
				Target:   id("x"),
				Operator: "=",
				Value:    bin(">>", id("a"), num(2)),
			})},
		},
		{
			name:  "casts and groups",
			input: "@medium\nvar n = (int) x;\nvar m = (a) + b;",
			expected: []ast.Statement{
				&ast.VariableDeclaration{Kind: "var", Name: "n", Init: &ast.Cast{Type: named("int"), Expression: id("x")}},
				&ast.VariableDeclaration{Kind: "var", Name: "m", Init: bin("+", id("a"), id("b"))},
			},
		},
		{
			name:  "typed for loop",
			input: "@medium\nfor (int i = 0; i < 3; i++) total += i;",
			expected: []ast.Statement{block(
				&ast.VariableDeclaration{Name: "i", Type: named("int"), Init: num(0)},
				&ast.While{
					Condition: bin("<", id("i"), num(3)),
					Body: block(
						exprStmt(&ast.Assignment{Target: id("total"), Operator: "+=", Value: id("i")}),
						exprStmt(&ast.Unary{Operator: "++", Operand: id("i"), Postfix: true}),
					),
				},
			)},
		},
		{
			name:  "foreach forms",
			input: "@medium\nforeach (string s in names) { }\nfor (x in xs) ;",
			expected: []ast.Statement{
				&ast.ForEach{Variable: "s", VariableType: named("string"), Iterable: id("names"), Body: block()},
				&ast.ForEach{Variable: "x", Iterable: id("xs"), Body: block()},
			},
		},
		{
			name:  "switch with stacked labels and guard",
			input: "@medium\nswitch (n) { case 0: case 1: small(); break; case int k when k > 9: big(); default: other(); }",
			expected: []ast.Statement{&ast.Switch{
				Subject: id("n"),
				Cases: []*ast.SwitchCase{
					{
						Patterns: []ast.Pattern{&ast.ConstantPattern{Value: num(0)}, &ast.ConstantPattern{Value: num(1)}},
						Body:     []ast.Statement{exprStmt(call(id("small"))), &ast.Break{}},
					},
					{
						Patterns: []ast.Pattern{&ast.TypePattern{Type: named("int"), Binding: "k"}},
						Guard:    bin(">", id("k"), num(9)),
						Body:     []ast.Statement{exprStmt(call(id("big")))},
					},
				},
				Default: block(exprStmt(call(id("other")))),
			}},
		},
		{
			name:  "match patterns",
			input: "@medium\nvar r = match v { (0, _) => 1, Point(var x, 1..=5) => 2, -1 => 3 };",
			expected: []ast.Statement{&ast.VariableDeclaration{
				Kind: "var",
				Name: "r",
				Init: &ast.Match{
					Subject: id("v"),
					Cases: []*ast.MatchCase{
						{
							Pattern: &ast.TuplePattern{Elements: []ast.Pattern{&ast.ConstantPattern{Value: num(0)}, &ast.WildcardPattern{}}},
							Body:    num(1),
						},
						{
							Pattern: &ast.DeconstructionPattern{
								Type: named("Point"),
								Elements: []ast.Pattern{
									&ast.VariablePattern{Name: "x"},
									&ast.RangePattern{Start: num(1), End: num(5), Inclusive: true},
								},
							},
							Body: num(2),
						},
						{
							Pattern: &ast.ConstantPattern{Value: &ast.Unary{Operator: "-", Operand: num(1)}},
							Body:    num(3),
						},
					},
				},
			}},
		},
		{
			name:  "class members",
			input: "@medium\npublic class Box<T> : IBox { private T item; Box(T item) { } public int Size { get; } abstract T Get(); }",
			expected: []ast.Statement{&ast.ClassDeclaration{
				Modifiers:      []string{"public"},
				Name:           "Box",
				TypeParameters: []*ast.TypeParameter{{Name: "T"}},
				Bases:          []*ast.TypeNode{named("IBox")},
				Members: []ast.Statement{
					&ast.VariableDeclaration{Modifiers: []string{"private"}, Name: "item", Type: named("T")},
					&ast.FunctionDeclaration{Name: "Box", Parameters: []*ast.Parameter{{Name: "item", Type: named("T")}}, Body: block()},
					&ast.PropertyDeclaration{Modifiers: []string{"public"}, Type: named("int"), Name: "Size", Accessors: []string{"get"}},
					&ast.FunctionDeclaration{Modifiers: []string{"abstract"}, Name: "Get", ReturnType: named("T")},
				},
			}},
		},
		{
			name:  "enum namespace and using",
			input: "@medium\nnamespace App.Core;\nusing Txt = System.Text;\nenum Color : byte { Red = 1, Green, }",
			expected: []ast.Statement{&ast.NamespaceDeclaration{
				Name: "App.Core",
				Body: []ast.Statement{
					&ast.UsingDirective{Alias: "Txt", Path: "System.Text"},
					&ast.EnumDeclaration{
						Name: "Color",
						Type: named("byte"),
						Members: []*ast.EnumMember{
							{Name: "Red", Value: num(1)},
							{Name: "Green"},
						},
					},
				},
			}},
		},
		{
			name:  "low struct and pointers",
			input: "#low\nstruct Node { int value; Node* next; }\nint* p = &x;\np->next = null;",
			expected: []ast.Statement{
				&ast.StructDeclaration{
					Name: "Node",
					Members: []ast.Statement{
						&ast.VariableDeclaration{Name: "value", Type: named("int")},
						&ast.VariableDeclaration{Name: "next", Type: &ast.TypeNode{Name: "Node", Pointer: 1}},
					},
				},
				&ast.VariableDeclaration{
					Name: "p",
					Type: &ast.TypeNode{Name: "int", Pointer: 1},
					Init: &ast.Unary{Operator: "&", Operand: id("x")},
				},
				exprStmt(&ast.Assignment{
					Target:   &ast.Member{Target: &ast.Unary{Operator: "*", Operand: id("p")}, Name: "next"},
					Operator: "=",
					Value:    &ast.Literal{},
				}),
			},
		},
		{
			name:  "low functions unions and aliases",
			input: "@low\nfn add(a: int, b: int): int { return a + b; }\nunion Word { int i; float f; }\ntype Handle = int*;",
			expected: []ast.Statement{
				&ast.FunctionDeclaration{
					Name:       "add",
					Parameters: []*ast.Parameter{{Name: "a", Type: named("int")}, {Name: "b", Type: named("int")}},
					ReturnType: named("int"),
					Body:       block(&ast.Return{Value: bin("+", id("a"), id("b"))}),
				},
				&ast.StructDeclaration{
					Name:  "Word",
					Union: true,
					Members: []ast.Statement{
						&ast.VariableDeclaration{Name: "i", Type: named("int")},
						&ast.VariableDeclaration{Name: "f", Type: named("float")},
					},
				},
				&ast.TypeAliasDeclaration{Name: "Handle", Type: &ast.TypeNode{Name: "int", Pointer: 1}},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, parseClean(t, testCase.input))
		})
	}
}

func TestNaturalLoopsLower(t *testing.T) {
	t.Parallel()

	stmts := parseClean(t, "iterate i from 1 through 10 step 2 print i end iterate")
	loop := &ast.Iterate{
		Counter: "i",
		Start:   num(1),
		End:     num(10),
		Step:    num(2),
		Body:    block(exprStmt(call(id("print"), id("i")))),
	}
	expected := loop.Lower()
	ast.ClearPositions(expected)
	require.Equal(t, []ast.Statement{expected}, stmts)

	stmts = parseClean(t, "repeat 3 times\n  print 1\nend repeat")
	require.Len(t, stmts, 1)
	lowered, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, lowered.Statements, 3)
	decl, ok := lowered.Statements[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(decl.Name, "__repeat_"))
	limit, ok := lowered.Statements[1].(*ast.VariableDeclaration)
	require.True(t, ok)
	require.Equal(t, decl.Name+"_limit", limit.Name)
	require.Equal(t, num(3), limit.Init)
	w, ok := lowered.Statements[2].(*ast.While)
	require.True(t, ok)
	require.Equal(t, bin("<", id(decl.Name), id(limit.Name)), w.Condition)

	stmts = parseClean(t, "iterate i from 1 through 3 if i is equal to 2 then continue end if print i end iterate")
	require.Len(t, stmts, 1)
	body := stmts[0].(*ast.Block).Statements[1].(*ast.While).Body.(*ast.Block).Statements
	bump := exprStmt(&ast.Assignment{Target: id("i"), Operator: "+=", Value: num(1)})
	require.Equal(t, []ast.Statement{
		&ast.If{Condition: bin("==", id("i"), num(2)), Then: block(bump, &ast.Continue{})},
		exprStmt(call(id("print"), id("i"))),
		bump,
	}, body)
}

// Natural phrases and their symbolic spellings must produce the same tree.
func TestEquivalentForms(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		natural  string
		symbolic string
	}{
		{
			name:     "even filter",
			natural:  "all even numbers from xs",
			symbolic: "@medium\nxs.Where(x => x % 2 == 0);",
		},
		{
			name:     "odd filter",
			natural:  "all odd numbers from xs",
			symbolic: "@medium\nxs.Where(x => x % 2 != 0);",
		},
		{
			name:     "map phrase",
			natural:  "each n in xs multiplied by 2",
			symbolic: "@medium\nxs.Select(n => n * 2);",
		},
		{
			name:     "sum aggregate",
			natural:  "sum of all xs",
			symbolic: "@medium\nxs.Sum();",
		},
		{
			name:     "maximum aggregate",
			natural:  "maximum of all scores",
			symbolic: "@medium\nscores.Max();",
		},
		{
			name:     "product fold",
			natural:  "product of all xs",
			symbolic: "@medium\nxs.Aggregate(1, (acc, x) => acc * x);",
		},
		{
			name:     "element of",
			natural:  "x ∈ xs",
			symbolic: "@medium\nElementOf(x, xs);",
		},
		{
			name:     "not element of",
			natural:  "x ∉ xs",
			symbolic: "@medium\nNotElementOf(x, xs);",
		},
		{
			name:     "try else",
			natural:  "try risky() else 0",
			symbolic: "@medium\nTryOrElse(() => risky(), () => 0);",
		},
		{
			name:     "try catch",
			natural:  "try risky() catch error.Message",
			symbolic: "@medium\nTryOrCatch(() => risky(), error => error.Message);",
		},
		{
			name:     "comparison phrases",
			natural:  "a is not equal to b and c is greater than or equal to d",
			symbolic: "@medium\na != b && c >= d;",
		},
		{
			name:     "arithmetic words",
			natural:  "a multiplied by b plus c divided by d minus e",
			symbolic: "@medium\na * b + c / d - e;",
		},
		{
			name:     "logical words",
			natural:  "not a or b",
			symbolic: "@medium\n!a || b;",
		},
		{
			name:     "with call",
			natural:  "greet with a and b",
			symbolic: "@medium\ngreet(a, b);",
		},
		{
			name:     "set statement",
			natural:  "set total to total plus 1",
			symbolic: "@medium\ntotal = total + 1;",
		},
		{
			name:     "natural for each",
			natural:  "for each x in xs print x end for",
			symbolic: "@medium\nforeach (x in xs) { print(x); }",
		},
		{
			name:     "c style for",
			natural:  "@medium\nfor (i = 0; i < 10; i = i + 1) { body(); }",
			symbolic: "@medium\n{ i = 0; while (i < 10) { body(); i = i + 1; } }",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, parseClean(t, testCase.symbolic), parseClean(t, testCase.natural))
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		input      string
		opts       []ParserOption
		codes      []string
		statements int
	}{
		{
			name:       "three malformed statements",
			input:      "@medium\nvar = 1; a = 1; x = ; b = 2; y = (1 + );",
			codes:      []string{exc.CodeExpectedToken, exc.CodeUnexpectedToken, exc.CodeUnexpectedToken},
			statements: 2,
		},
		{
			name:       "mismatched end",
			input:      "if x then print x end for",
			codes:      []string{exc.CodeMismatchedTerminator},
			statements: 1,
		},
		{
			name:       "unterminated block",
			input:      "@medium\nif (x) { y = 1;",
			codes:      []string{exc.CodeUnexpectedEOF},
			statements: 0,
		},
		{
			name:       "untyped low variable",
			input:      "#low\nvar x = 1;",
			codes:      []string{exc.CodeMissingTypeAnnotation},
			statements: 1,
		},
		{
			name:       "untyped low variable outside strict mode",
			input:      "#low\nvar x = 1;",
			opts:       []ParserOption{ParserOptionStrict(false)},
			statements: 1,
		},
		{
			name:       "low function without return type",
			input:      "#low\nfn f() { return; }",
			codes:      []string{exc.CodeMissingTypeAnnotation},
			statements: 1,
		},
		{
			name:       "low field initializer",
			input:      "#low\nstruct P { int x; int y = 1; }",
			codes:      []string{exc.CodeExpectedToken},
			statements: 1,
		},
		{
			name:       "inline level switch",
			input:      "@medium\na = 1;\n@low\nb = 2;",
			codes:      []string{exc.CodeInlineSyntaxSwitch},
			statements: 2,
		},
		{
			name:       "declaration got further than expression",
			input:      "@medium\nint x = ;",
			codes:      []string{exc.CodeAmbiguousConstruct},
			statements: 0,
		},
		{
			name:       "natural expression error",
			input:      "print )\nprint 1",
			codes:      []string{exc.CodeUnexpectedToken},
			statements: 1,
		},
		{
			name:       "natural token that starts nothing",
			input:      ") print 1",
			codes:      []string{exc.CodeUnexpectedToken},
			statements: 1,
		},
		{
			name:       "stray end",
			input:      "end if\nprint 1",
			codes:      []string{exc.CodeUnexpectedToken},
			statements: 1,
		},
		{
			name:       "try without handlers",
			input:      "@medium\ntry { } x = 1;",
			codes:      []string{exc.CodeExpectedToken},
			statements: 0,
		},
		{
			name:       "errors inside nested blocks",
			input:      "@medium\nwhile (true) { x = ; y = 1; }\nz = 2;",
			codes:      []string{exc.CodeUnexpectedToken},
			statements: 2,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			prog, reported, err := parseSource(t, testCase.input, testCase.opts...)
			require.NoError(t, err)
			require.Equal(t, testCase.codes, codes(reported))
			require.Len(t, prog.Statements, testCase.statements)
			for _, e := range reported {
				require.Equal(t, "/test.pg", e.Location().URI)
				require.NotZero(t, e.Location().Line)
			}
		})
	}
}

func TestRecoveryKeepsWellFormedStatements(t *testing.T) {
	t.Parallel()

	prog, reported, err := parseSource(t, "@medium\nvar = 1; a = 1; x = ; b = 2; y = (1 + );")
	require.NoError(t, err)
	require.Len(t, reported, 3)
	ast.ClearPositions(prog)
	require.Equal(t, []ast.Statement{
		exprStmt(&ast.Assignment{Target: id("a"), Operator: "=", Value: num(1)}),
		exprStmt(&ast.Assignment{Target: id("b"), Operator: "=", Value: num(2)}),
	}, prog.Statements)
}

func TestParseBudget(t *testing.T) {
	t.Parallel()

	prog, reported, err := parseSource(t, "@medium\na = 1; b = 2; c = 3;", ParserOptionMaxSteps(10))
	require.Error(t, err)
	var e exc.Exception
	require.ErrorAs(t, err, &e)
	require.Equal(t, exc.CodeBudgetExceeded, e.Code())
	require.True(t, exc.HasFatal(reported))
	require.NotNil(t, prog)
	require.Len(t, prog.Statements, 1)
}

func TestParseCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reporter := exc.NewReporter(nil)
	tokens := []*idl.Token{
		{Type: idl.TokenTypeIdentifier, Value: "x", File: "/t.pg", Span: idl.Span{Start: idl.Location{Line: 1, Column: 1}}},
	}
	_, err := NewParserPolyglot(reporter).ParseTokens(ctx, "/t.pg", tokens)
	var e exc.Exception
	require.ErrorAs(t, err, &e)
	require.Equal(t, exc.CodeBudgetExceeded, e.Code())
}

func TestParseForcedLevel(t *testing.T) {
	t.Parallel()

	prog, reported, err := parseSource(t, "int x = 1;", ParserOptionLevel(idl.SyntaxLevelMedium))
	require.NoError(t, err)
	require.Empty(t, reported)
	require.Equal(t, idl.SyntaxLevelMedium, prog.Level)
	require.IsType(t, &ast.VariableDeclaration{}, prog.Statements[0])

	prog, _, err = parseSource(t, "print 1")
	require.NoError(t, err)
	require.Equal(t, idl.SyntaxLevelHigh, prog.Level)
	require.Equal(t, "/test.pg", prog.File)
}

func TestTracerBacktracks(t *testing.T) {
	t.Parallel()

	recorder := &Recorder{}
	stmts := parseClean(t, "@medium\n(1 + 2) * 3;", ParserOptionTracer(recorder))
	require.Equal(t, []ast.Statement{exprStmt(bin("*", bin("+", num(1), num(2)), num(3)))}, stmts)
	require.Equal(t, []string{"cast"}, recorder.Backtracks())
	require.Contains(t, recorder.Rules(), "statement")
	require.Contains(t, recorder.Rules(), "expression")

	recorder = &Recorder{}
	parseClean(t, "try risky() else 0", ParserOptionTracer(recorder))
	require.Equal(t, []string{"try-statement"}, recorder.Backtracks())
}

func TestNestedGroupsParseOnce(t *testing.T) {
	t.Parallel()

	const depth = 30
	input := "@medium\nx = " + strings.Repeat("(a = ", depth) + "1" + strings.Repeat(")", depth) + ";"
	recorder := &Recorder{}
	stmts := parseClean(t, input, ParserOptionTracer(recorder), ParserOptionMaxSteps(2000))
	require.Len(t, stmts, 1)
	require.NotContains(t, recorder.Backtracks(), "lambda")

	var inner ast.Expression = stmts[0].(*ast.ExpressionStatement).Expression
	for range depth + 1 {
		inner = inner.(*ast.Assignment).Value
	}
	require.Equal(t, num(1), inner)

	recorder = &Recorder{}
	stmts = parseClean(t, "@medium\nf = (a, b = (1)) => a + b;", ParserOptionTracer(recorder))
	require.IsType(t, &ast.Lambda{}, stmts[0].(*ast.ExpressionStatement).Expression.(*ast.Assignment).Value)
	require.NotContains(t, recorder.Backtracks(), "lambda")
}

// Printing a tree and parsing the output again must give the same tree.
func TestFormatRoundTrip(t *testing.T) {
	t.Parallel()

	input := `@medium
namespace App {
    using Sys = System.Text;
    public class Point<T: IComparable> : Base, IShape {
        public int X { get; set; } = 0;
        private T value;
        Point(int x) { X = x; }
        public abstract int Area();
        function Scale(factor: int = 2): int { return X * factor; }
    }
    enum Color : byte { Red = 1, Green, Blue }
    var total: int = 0;
    foreach (var item in items) { total += item; }
    for (int i = 0; i < 3; i++) { total -= i; }
    switch (total) { case 0: case 1: print("small"); break; default: print("big"); }
    try { risky(); } catch (IOException e) { throw e; } catch { } finally { done(); }
    var r = match total { 0 => "zero", int n when n > 10 => "big", _ => "other" };
    var f = (a, b) => a + b;
    var g = x => { return x ** 2 ** 3; };
    x = cond ? a : b ?? c;
    y = -(-z) + (a + b) * c - (d - e);
    p = new Point(1, 2) { X = 3 };
    q = (1, 2);
    s = items[0].Name as string;
    if (a && !b) { } else if (c) print(1); else { }
    while (true) { break; }
}
`
	prog, reported, err := parseSource(t, input)
	require.NoError(t, err)
	require.Empty(t, reported)

	printed := ast.Format(prog)
	again, reported, err := parseSource(t, printed)
	require.NoError(t, err)
	require.Empty(t, reported, printed)

	ast.ClearPositions(prog)
	ast.ClearPositions(again)
	require.Equal(t, prog.Statements, again.Statements, printed)
	require.Equal(t, printed, ast.Format(again))
}
