package ast

type ConstantPattern struct {
	Base
	Value Expression
}

type WildcardPattern struct {
	Base
}

// TypePattern matches values of Type and optionally binds them.
type TypePattern struct {
	Base
	Type    *TypeNode
	Binding string
}

type TuplePattern struct {
	Base
	Elements []Pattern
}

type DeconstructionPattern struct {
	Base
	Type     *TypeNode
	Elements []Pattern
}

type RangePattern struct {
	Base
	Start     Expression
	End       Expression
	Inclusive bool
}

type VariablePattern struct {
	Base
	Name string
}

func (*ConstantPattern) patternNode()       {}
func (*WildcardPattern) patternNode()       {}
func (*TypePattern) patternNode()           {}
func (*TuplePattern) patternNode()          {}
func (*DeconstructionPattern) patternNode() {}
func (*RangePattern) patternNode()          {}
func (*VariablePattern) patternNode()       {}
