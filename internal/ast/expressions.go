package ast

// Literal holds an int64, float64, string, bool, or nil value.
type Literal struct {
	Base
	Value any
}

type Identifier struct {
	Base
	Name string
}

type Binary struct {
	Base
	Operator string
	Left     Expression
	Right    Expression
}

type Unary struct {
	Base
	Operator string
	Operand  Expression
	Postfix  bool
}

type Call struct {
	Base
	Callee    Expression
	Arguments []Expression
}

type Index struct {
	Base
	Target Expression
	Index  Expression
}

type Member struct {
	Base
	Target Expression
	Name   string
}

type Assignment struct {
	Base
	Target   Expression
	Operator string
	Value    Expression
}

type Conditional struct {
	Base
	Condition Expression
	Then      Expression
	Else      Expression
}

// Lambda has either an Expression or a *Block as its body.
type Lambda struct {
	Base
	Parameters []*Parameter
	Body       Node
}

type Array struct {
	Base
	Elements []Expression
}

type Tuple struct {
	Base
	Elements []Expression
}

type Range struct {
	Base
	Start     Expression
	End       Expression
	Inclusive bool
}

type New struct {
	Base
	Type         *TypeNode
	Arguments    []Expression
	Initializers []*Initializer
}

type Initializer struct {
	Base
	Name  string
	Value Expression
}

type Match struct {
	Base
	Subject Expression
	Cases   []*MatchCase
}

type MatchCase struct {
	Base
	Pattern Pattern
	Guard   Expression
	Body    Expression
}

type Cast struct {
	Base
	Type       *TypeNode
	Expression Expression
}

func (*Literal) expressionNode()     {}
func (*Identifier) expressionNode()  {}
func (*Binary) expressionNode()      {}
func (*Unary) expressionNode()       {}
func (*Call) expressionNode()        {}
func (*Index) expressionNode()       {}
func (*Member) expressionNode()      {}
func (*Assignment) expressionNode()  {}
func (*Conditional) expressionNode() {}
func (*Lambda) expressionNode()      {}
func (*Array) expressionNode()       {}
func (*Tuple) expressionNode()       {}
func (*Range) expressionNode()       {}
func (*New) expressionNode()         {}
func (*Match) expressionNode()       {}
func (*Cast) expressionNode()        {}
