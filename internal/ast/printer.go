package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Binding strength of each expression form, loosest first. Children that
// bind looser than their context are parenthesised.
const (
	precLambda = iota
	precAssignment
	precConditional
	precCoalesce
	precLogicalOr
	precLogicalAnd
	precEquality
	precRelational
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precShift
	precAdditive
	precMultiplicative
	precPower
	precUnary
	precPostfix
	precPrimary
)

var binaryPrecedence = map[string]int{
	"??": precCoalesce,
	"||": precLogicalOr,
	"&&": precLogicalAnd,
	"==": precEquality,
	"!=": precEquality,
	"<":  precRelational,
	">":  precRelational,
	"<=": precRelational,
	">=": precRelational,
	"|":  precBitwiseOr,
	"^":  precBitwiseXor,
	"&":  precBitwiseAnd,
	"<<": precShift,
	">>": precShift,
	"+":  precAdditive,
	"-":  precAdditive,
	"*":  precMultiplicative,
	"/":  precMultiplicative,
	"%":  precMultiplicative,
	"**": precPower,
}

// Format renders a program in the canonical Medium syntax, preceded by the
// @medium level marker. Parsing the result yields a tree equal to p apart
// from positions.
func Format(p *Program) string {
	pr := &printer{}
	pr.line("@medium")
	for _, s := range p.Statements {
		pr.statement(s)
	}
	return pr.b.String()
}

// FormatExpression renders a single expression in Medium syntax.
func FormatExpression(e Expression) string {
	pr := &printer{}
	pr.expr(e, precLambda)
	return pr.b.String()
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) write(s string) {
	p.b.WriteString(s)
}

func (p *printer) writeIndent() {
	p.b.WriteString(strings.Repeat("    ", p.indent))
}

func (p *printer) line(s string) {
	p.writeIndent()
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *printer) modifiers(mods []string) {
	for _, m := range mods {
		p.write(m)
		p.write(" ")
	}
}

func (p *printer) statement(s Statement) {
	p.writeIndent()
	p.inlineStatement(s)
	p.write("\n")
}

// inlineStatement prints a statement starting at the current column. Nested
// lines are indented relative to p.indent.
func (p *printer) inlineStatement(s Statement) {
	switch t := s.(type) {
	case *ExpressionStatement:
		p.expr(t.Expression, precLambda)
		p.write(";")
	case *VariableDeclaration:
		p.modifiers(t.Modifiers)
		if t.Kind == "" {
			p.typeNode(t.Type)
			p.write(" ")
			p.write(t.Name)
		} else {
			p.write(t.Kind)
			p.write(" ")
			p.write(t.Name)
			if t.Type != nil {
				p.write(": ")
				p.typeNode(t.Type)
			}
		}
		if t.Init != nil {
			p.write(" = ")
			p.expr(t.Init, precLambda)
		}
		p.write(";")
	case *Block:
		p.block(t.Statements)
	case *If:
		p.write("if (")
		p.expr(t.Condition, precLambda)
		p.write(") ")
		p.inlineStatement(t.Then)
		if t.Else != nil {
			p.write(" else ")
			p.inlineStatement(t.Else)
		}
	case *While:
		p.write("while (")
		p.expr(t.Condition, precLambda)
		p.write(") ")
		p.inlineStatement(t.Body)
	case *For:
		p.inlineStatement(t.Lower())
	case *Repeat:
		p.inlineStatement(t.Lower())
	case *Iterate:
		p.inlineStatement(t.Lower())
	case *ForEach:
		p.write("foreach (")
		if t.VariableType != nil {
			p.typeNode(t.VariableType)
			p.write(" ")
		}
		p.write(t.Variable)
		p.write(" in ")
		p.expr(t.Iterable, precLambda)
		p.write(") ")
		p.inlineStatement(t.Body)
	case *Switch:
		p.write("switch (")
		p.expr(t.Subject, precLambda)
		p.write(") {\n")
		for _, c := range t.Cases {
			p.writeIndent()
			p.write("case ")
			for i, pat := range c.Patterns {
				if i > 0 {
					p.write(", ")
				}
				p.pattern(pat)
			}
			if c.Guard != nil {
				p.write(" when ")
				p.expr(c.Guard, precLambda)
			}
			p.write(":\n")
			p.indent++
			for _, s := range c.Body {
				p.statement(s)
			}
			p.indent--
		}
		if t.Default != nil {
			p.line("default:")
			p.indent++
			for _, s := range t.Default.Statements {
				p.statement(s)
			}
			p.indent--
		}
		p.writeIndent()
		p.write("}")
	case *Return:
		p.write("return")
		if t.Value != nil {
			p.write(" ")
			p.expr(t.Value, precLambda)
		}
		p.write(";")
	case *Break:
		p.write("break;")
	case *Continue:
		p.write("continue;")
	case *Throw:
		p.write("throw ")
		p.expr(t.Value, precLambda)
		p.write(";")
	case *Try:
		p.write("try ")
		p.block(blockStatements(t.Block))
		for _, c := range t.Catches {
			p.write(" catch ")
			switch {
			case c.Type != nil:
				p.write("(")
				p.typeNode(c.Type)
				if c.Name != "" {
					p.write(" ")
					p.write(c.Name)
				}
				p.write(") ")
			case c.Name != "":
				p.write("(var ")
				p.write(c.Name)
				p.write(") ")
			}
			p.block(blockStatements(c.Body))
		}
		if t.Finally != nil {
			p.write(" finally ")
			p.block(t.Finally.Statements)
		}
	case *FunctionDeclaration:
		p.modifiers(t.Modifiers)
		p.write("function ")
		p.write(t.Name)
		p.typeParameters(t.TypeParameters)
		p.parameters(t.Parameters)
		if t.ReturnType != nil {
			p.write(": ")
			p.typeNode(t.ReturnType)
		}
		if t.Body == nil {
			p.write(";")
		} else {
			p.write(" ")
			p.block(t.Body.Statements)
		}
	case *ClassDeclaration:
		p.declaration(t.Modifiers, "class", t.Name, t.TypeParameters, t.Bases, t.Members)
	case *StructDeclaration:
		keyword := "struct"
		if t.Union {
			keyword = "union"
		}
		p.declaration(t.Modifiers, keyword, t.Name, t.TypeParameters, t.Bases, t.Members)
	case *InterfaceDeclaration:
		p.declaration(t.Modifiers, "interface", t.Name, t.TypeParameters, t.Bases, t.Members)
	case *EnumDeclaration:
		p.modifiers(t.Modifiers)
		p.write("enum ")
		p.write(t.Name)
		if t.Type != nil {
			p.write(": ")
			p.typeNode(t.Type)
		}
		p.write(" {")
		for i, m := range t.Members {
			if i > 0 {
				p.write(",")
			}
			p.write(" ")
			p.write(m.Name)
			if m.Value != nil {
				p.write(" = ")
				p.expr(m.Value, precAssignment+1)
			}
		}
		p.write(" }")
	case *NamespaceDeclaration:
		p.write("namespace ")
		p.write(t.Name)
		p.write(" ")
		p.block(t.Body)
	case *UsingDirective:
		p.write("using ")
		if t.Alias != "" {
			p.write(t.Alias)
			p.write(" = ")
		}
		p.write(t.Path)
		p.write(";")
	case *PropertyDeclaration:
		p.modifiers(t.Modifiers)
		p.typeNode(t.Type)
		p.write(" ")
		p.write(t.Name)
		p.write(" {")
		for _, a := range t.Accessors {
			p.write(" ")
			p.write(a)
			p.write(";")
		}
		p.write(" }")
		if t.Init != nil {
			p.write(" = ")
			p.expr(t.Init, precLambda)
			p.write(";")
		}
	case *TypeAliasDeclaration:
		p.write("type ")
		p.write(t.Name)
		p.write(" = ")
		p.typeNode(t.Type)
		p.write(";")
	default:
		p.write(fmt.Sprintf("/* %T */;", s))
	}
}

func blockStatements(b *Block) []Statement {
	if b == nil {
		return nil
	}
	return b.Statements
}

func (p *printer) block(stmts []Statement) {
	if len(stmts) == 0 {
		p.write("{ }")
		return
	}
	p.write("{\n")
	p.indent++
	for _, s := range stmts {
		p.statement(s)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *printer) declaration(mods []string, keyword string, name string, tps []*TypeParameter, bases []*TypeNode, members []Statement) {
	p.modifiers(mods)
	p.write(keyword)
	p.write(" ")
	p.write(name)
	p.typeParameters(tps)
	if len(bases) > 0 {
		p.write(": ")
		for i, b := range bases {
			if i > 0 {
				p.write(", ")
			}
			p.typeNode(b)
		}
	}
	p.write(" ")
	p.block(members)
}

func (p *printer) typeParameters(tps []*TypeParameter) {
	if len(tps) == 0 {
		return
	}
	p.write("<")
	for i, tp := range tps {
		if i > 0 {
			p.write(", ")
		}
		p.write(tp.Name)
		for j, c := range tp.Constraints {
			if j == 0 {
				p.write(": ")
			} else {
				p.write(" & ")
			}
			p.typeNode(c)
		}
	}
	p.write(">")
}

func (p *printer) parameters(params []*Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name)
		if param.Type != nil {
			p.write(": ")
			p.typeNode(param.Type)
		}
		if param.Default != nil {
			p.write(" = ")
			p.expr(param.Default, precAssignment+1)
		}
	}
	p.write(")")
}

func (p *printer) typeNode(t *TypeNode) {
	if t == nil {
		p.write("var")
		return
	}
	p.write(FormatType(t))
}

// FormatType renders a type reference.
func FormatType(t *TypeNode) string {
	var b strings.Builder
	if t.Element != nil {
		b.WriteString(FormatType(t.Element))
	} else {
		b.WriteString(t.Name)
		if len(t.Arguments) > 0 {
			b.WriteString("<")
			for i, a := range t.Arguments {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(FormatType(a))
			}
			b.WriteString(">")
		}
		b.WriteString(strings.Repeat("*", t.Pointer))
	}
	if t.IsArray {
		b.WriteString("[")
		b.WriteString(strings.Repeat(",", max(t.Rank-1, 0)))
		b.WriteString("]")
	}
	if t.Nullable {
		b.WriteString("?")
	}
	return b.String()
}

func precedenceOf(e Expression) int {
	switch t := e.(type) {
	case *Lambda:
		return precLambda
	case *Assignment:
		return precAssignment
	case *Conditional:
		return precConditional
	case *Binary:
		if prec, ok := binaryPrecedence[t.Operator]; ok {
			return prec
		}
		return precRelational
	case *Range, *Cast:
		return precRelational
	case *Unary:
		if t.Postfix {
			return precPostfix
		}
		return precUnary
	case *Call, *Index, *Member:
		return precPostfix
	default:
		return precPrimary
	}
}

func (p *printer) expr(e Expression, min int) {
	if e == nil {
		return
	}
	if precedenceOf(e) < min {
		p.write("(")
		p.expr(e, precLambda)
		p.write(")")
		return
	}
	switch t := e.(type) {
	case *Literal:
		p.write(FormatLiteral(t.Value))
	case *Identifier:
		p.write(t.Name)
	case *Binary:
		prec := precedenceOf(t)
		left, right := prec, prec+1
		if t.Operator == "**" {
			left, right = prec+1, prec
		}
		p.expr(t.Left, left)
		p.write(" ")
		p.write(t.Operator)
		p.write(" ")
		p.expr(t.Right, right)
	case *Unary:
		if t.Postfix {
			p.expr(t.Operand, precPostfix)
			p.write(t.Operator)
			return
		}
		p.write(t.Operator)
		if _, nested := t.Operand.(*Unary); nested {
			p.write("(")
			p.expr(t.Operand, precLambda)
			p.write(")")
			return
		}
		p.expr(t.Operand, precUnary)
	case *Call:
		p.expr(t.Callee, precPostfix)
		p.write("(")
		p.expressions(t.Arguments)
		p.write(")")
	case *Index:
		p.expr(t.Target, precPostfix)
		p.write("[")
		p.expr(t.Index, precLambda)
		p.write("]")
	case *Member:
		p.expr(t.Target, precPostfix)
		p.write(".")
		p.write(t.Name)
	case *Assignment:
		p.expr(t.Target, precConditional)
		p.write(" ")
		p.write(t.Operator)
		p.write(" ")
		p.expr(t.Value, precAssignment)
	case *Conditional:
		p.expr(t.Condition, precCoalesce)
		p.write(" ? ")
		p.expr(t.Then, precAssignment)
		p.write(" : ")
		p.expr(t.Else, precAssignment)
	case *Lambda:
		if len(t.Parameters) == 1 && t.Parameters[0].Type == nil && t.Parameters[0].Default == nil {
			p.write(t.Parameters[0].Name)
		} else {
			p.parameters(t.Parameters)
		}
		p.write(" => ")
		switch body := t.Body.(type) {
		case *Block:
			p.block(body.Statements)
		case Expression:
			p.expr(body, precLambda)
		}
	case *Array:
		p.write("[")
		p.expressions(t.Elements)
		p.write("]")
	case *Tuple:
		p.write("(")
		p.expressions(t.Elements)
		if len(t.Elements) == 1 {
			p.write(",")
		}
		p.write(")")
	case *Range:
		p.expr(t.Start, precRelational)
		if t.Inclusive {
			p.write(" ..= ")
		} else {
			p.write(" .. ")
		}
		p.expr(t.End, precRelational+1)
	case *New:
		p.write("new ")
		p.typeNode(t.Type)
		p.write("(")
		p.expressions(t.Arguments)
		p.write(")")
		if len(t.Initializers) > 0 {
			p.write(" {")
			for i, init := range t.Initializers {
				if i > 0 {
					p.write(",")
				}
				p.write(" ")
				p.write(init.Name)
				p.write(" = ")
				p.expr(init.Value, precAssignment)
			}
			p.write(" }")
		}
	case *Match:
		p.write("match ")
		p.expr(t.Subject, precCoalesce)
		p.write(" {")
		for i, c := range t.Cases {
			if i > 0 {
				p.write(",")
			}
			p.write(" ")
			p.pattern(c.Pattern)
			if c.Guard != nil {
				p.write(" when ")
				p.expr(c.Guard, precCoalesce)
			}
			p.write(" => ")
			p.expr(c.Body, precAssignment)
		}
		p.write(" }")
	case *Cast:
		p.expr(t.Expression, precRelational)
		p.write(" as ")
		p.typeNode(t.Type)
	default:
		p.write(fmt.Sprintf("/* %T */", e))
	}
}

func (p *printer) expressions(es []Expression) {
	for i, e := range es {
		if i > 0 {
			p.write(", ")
		}
		p.expr(e, precLambda)
	}
}

func (p *printer) pattern(pat Pattern) {
	switch t := pat.(type) {
	case *ConstantPattern:
		p.expr(t.Value, precUnary)
	case *WildcardPattern:
		p.write("_")
	case *TypePattern:
		p.typeNode(t.Type)
		if t.Binding != "" {
			p.write(" ")
			p.write(t.Binding)
		}
	case *TuplePattern:
		p.write("(")
		p.patterns(t.Elements)
		p.write(")")
	case *DeconstructionPattern:
		p.typeNode(t.Type)
		p.write("(")
		p.patterns(t.Elements)
		p.write(")")
	case *RangePattern:
		p.expr(t.Start, precUnary)
		if t.Inclusive {
			p.write(" ..= ")
		} else {
			p.write(" .. ")
		}
		p.expr(t.End, precUnary)
	case *VariablePattern:
		p.write("var ")
		p.write(t.Name)
	default:
		p.write(fmt.Sprintf("/* %T */", pat))
	}
}

func (p *printer) patterns(ps []Pattern) {
	for i, pat := range ps {
		if i > 0 {
			p.write(", ")
		}
		p.pattern(pat)
	}
}

// FormatLiteral renders a literal value so that it lexes back to the same
// value.
func FormatLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		s := strconv.FormatFloat(t, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s = s + ".0"
		}
		return s
	case string:
		return strconv.Quote(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
