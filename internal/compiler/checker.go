package compiler

import (
	"fmt"
	"reflect"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// verify checks the structural guarantees every parsed program makes to
// later stages. A violation means the parser is broken, not the input, so
// every problem is reported as a fatal internal invariant.
// reports: surviving loop sugar, unpositioned nodes, missing children
func verify(prog *ast.Program, reporter exc.Reporter) error {
	checker := programChecker{
		prog:     prog,
		reporter: reporter,
	}
	checker.check()
	if checker.failure != nil {
		return checker.failure
	}
	return nil
}

type programChecker struct {
	prog     *ast.Program
	reporter exc.Reporter
	failure  exc.Exception
}

func (c *programChecker) check() {
	ast.WalkProgram(c.prog, func(n ast.Node) bool {
		c.checkNode(n)
		return true
	})
}

func (c *programChecker) report(n ast.Node, format string, args ...any) {
	p := n.Pos()
	loc := exc.LocationOf(c.prog.File, idl.Location{Line: p.Line, Column: p.Column})
	e := exc.New(loc, exc.CodeInternalInvariant, fmt.Sprintf("%s: %s", ast.Label(n), fmt.Sprintf(format, args...)))
	if ferr := c.reporter.Report(e); ferr != nil && c.failure == nil {
		c.failure = ferr
	}
}

func (c *programChecker) require(n ast.Node, field string, child any) {
	if absent(child) {
		c.report(n, "missing %s", field)
	}
}

func (c *programChecker) requireName(n ast.Node, field string, name string) {
	if name == "" {
		c.report(n, "missing %s", field)
	}
}

func (c *programChecker) checkNode(n ast.Node) {
	if n.Pos().IsZero() {
		c.report(n, "node has no source position")
	}
	switch t := n.(type) {
	case *ast.For, *ast.Repeat, *ast.Iterate:
		c.report(n, "loop sugar must be lowered before the tree is returned")
	case *ast.ExpressionStatement:
		c.require(n, "expression", t.Expression)
	case *ast.VariableDeclaration:
		c.requireName(n, "name", t.Name)
		if t.Kind == "" && t.Type == nil {
			c.report(n, "declaration has neither a keyword nor a type")
		}
	case *ast.If:
		c.require(n, "condition", t.Condition)
		c.require(n, "then branch", t.Then)
	case *ast.While:
		c.require(n, "condition", t.Condition)
		c.require(n, "body", t.Body)
	case *ast.ForEach:
		c.requireName(n, "variable", t.Variable)
		c.require(n, "iterable", t.Iterable)
		c.require(n, "body", t.Body)
	case *ast.Switch:
		c.require(n, "subject", t.Subject)
	case *ast.SwitchCase:
		if len(t.Patterns) == 0 {
			c.report(n, "case has no patterns")
		}
	case *ast.Throw:
		c.require(n, "value", t.Value)
	case *ast.Try:
		c.require(n, "block", t.Block)
		if len(t.Catches) == 0 && t.Finally == nil {
			c.report(n, "try has neither catch nor finally")
		}
	case *ast.CatchClause:
		c.require(n, "body", t.Body)
	case *ast.FunctionDeclaration:
		c.requireName(n, "name", t.Name)
	case *ast.ClassDeclaration:
		c.requireName(n, "name", t.Name)
	case *ast.StructDeclaration:
		c.requireName(n, "name", t.Name)
	case *ast.InterfaceDeclaration:
		c.requireName(n, "name", t.Name)
	case *ast.EnumDeclaration:
		c.requireName(n, "name", t.Name)
	case *ast.EnumMember:
		c.requireName(n, "name", t.Name)
	case *ast.NamespaceDeclaration:
		c.requireName(n, "name", t.Name)
	case *ast.UsingDirective:
		c.requireName(n, "path", t.Path)
	case *ast.PropertyDeclaration:
		c.requireName(n, "name", t.Name)
		c.require(n, "type", t.Type)
	case *ast.TypeAliasDeclaration:
		c.requireName(n, "name", t.Name)
		c.require(n, "type", t.Type)
	case *ast.Binary:
		c.requireName(n, "operator", t.Operator)
		c.require(n, "left operand", t.Left)
		c.require(n, "right operand", t.Right)
	case *ast.Unary:
		c.requireName(n, "operator", t.Operator)
		c.require(n, "operand", t.Operand)
	case *ast.Call:
		c.require(n, "callee", t.Callee)
	case *ast.Index:
		c.require(n, "target", t.Target)
		c.require(n, "index", t.Index)
	case *ast.Member:
		c.require(n, "target", t.Target)
		c.requireName(n, "member name", t.Name)
	case *ast.Assignment:
		c.require(n, "target", t.Target)
		c.require(n, "value", t.Value)
	case *ast.Conditional:
		c.require(n, "condition", t.Condition)
		c.require(n, "then branch", t.Then)
		c.require(n, "else branch", t.Else)
	case *ast.Lambda:
		c.require(n, "body", t.Body)
	case *ast.Range:
		c.require(n, "start", t.Start)
		c.require(n, "end", t.End)
	case *ast.New:
		c.require(n, "type", t.Type)
	case *ast.Initializer:
		c.requireName(n, "name", t.Name)
		c.require(n, "value", t.Value)
	case *ast.Match:
		c.require(n, "subject", t.Subject)
	case *ast.MatchCase:
		c.require(n, "pattern", t.Pattern)
		c.require(n, "body", t.Body)
	case *ast.Cast:
		c.require(n, "type", t.Type)
		c.require(n, "expression", t.Expression)
	case *ast.ConstantPattern:
		c.require(n, "value", t.Value)
	case *ast.TypePattern:
		c.require(n, "type", t.Type)
	case *ast.DeconstructionPattern:
		c.require(n, "type", t.Type)
	case *ast.RangePattern:
		c.require(n, "start", t.Start)
		c.require(n, "end", t.End)
	case *ast.Parameter:
		c.requireName(n, "name", t.Name)
	case *ast.TypeParameter:
		c.requireName(n, "name", t.Name)
	case *ast.TypeNode:
		if t.Name == "" && t.Element == nil {
			c.report(n, "type has neither a name nor an element type")
		}
	}
}

// absent reports whether v is nil or an interface holding a nil pointer.
func absent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
