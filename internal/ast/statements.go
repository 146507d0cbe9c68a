package ast

type ExpressionStatement struct {
	Base
	Expression Expression
}

// VariableDeclaration covers both keyword declarations (Kind is "var",
// "let" or "const") and typed declarations (Kind is empty, Type is set).
type VariableDeclaration struct {
	Base
	Modifiers []string
	Kind      string
	Name      string
	Type      *TypeNode
	Init      Expression
}

type Block struct {
	Base
	Statements []Statement
}

// If holds an optional Else branch. A nil Else means no else clause.
type If struct {
	Base
	Condition Expression
	Then      Statement
	Else      Statement
}

type While struct {
	Base
	Condition Expression
	Body      Statement
}

// For is a C-style loop. It never appears in a parsed tree: the parser
// emits For.Lower instead.
type For struct {
	Base
	Init      []Statement
	Condition Expression
	Update    []Expression
	Body      Statement
}

type ForEach struct {
	Base
	Variable     string
	VariableType *TypeNode
	Iterable     Expression
	Body         Statement
}

// Repeat runs its body Count times. Lowered at parse time.
type Repeat struct {
	Base
	Count Expression
	Body  Statement
}

// Iterate counts from Start through End inclusive. Lowered at parse time.
type Iterate struct {
	Base
	Counter string
	Start   Expression
	End     Expression
	Step    Expression
	Body    Statement
}

type Switch struct {
	Base
	Subject Expression
	Cases   []*SwitchCase
	Default *Block
}

type SwitchCase struct {
	Base
	Patterns []Pattern
	Guard    Expression
	Body     []Statement
}

type Return struct {
	Base
	Value Expression
}

type Break struct {
	Base
}

type Continue struct {
	Base
}

type Throw struct {
	Base
	Value Expression
}

type Try struct {
	Base
	Block   *Block
	Catches []*CatchClause
	Finally *Block
}

// CatchClause catches errors of Type (any error when nil) and binds them to
// Name (unbound when empty).
type CatchClause struct {
	Base
	Type *TypeNode
	Name string
	Body *Block
}

// FunctionDeclaration has a nil Body when it is abstract and a nil
// ReturnType when it is a constructor or has no annotation.
type FunctionDeclaration struct {
	Base
	Modifiers      []string
	Name           string
	TypeParameters []*TypeParameter
	Parameters     []*Parameter
	ReturnType     *TypeNode
	Body           *Block
}

type ClassDeclaration struct {
	Base
	Modifiers      []string
	Name           string
	TypeParameters []*TypeParameter
	Bases          []*TypeNode
	Members        []Statement
}

// StructDeclaration also represents unions.
type StructDeclaration struct {
	Base
	Modifiers      []string
	Name           string
	Union          bool
	TypeParameters []*TypeParameter
	Bases          []*TypeNode
	Members        []Statement
}

type InterfaceDeclaration struct {
	Base
	Modifiers      []string
	Name           string
	TypeParameters []*TypeParameter
	Bases          []*TypeNode
	Members        []Statement
}

type EnumDeclaration struct {
	Base
	Modifiers []string
	Name      string
	Type      *TypeNode
	Members   []*EnumMember
}

type EnumMember struct {
	Base
	Name  string
	Value Expression
}

type NamespaceDeclaration struct {
	Base
	Name string
	Body []Statement
}

type UsingDirective struct {
	Base
	Alias string
	Path  string
}

type PropertyDeclaration struct {
	Base
	Modifiers []string
	Type      *TypeNode
	Name      string
	Accessors []string
	Init      Expression
}

type TypeAliasDeclaration struct {
	Base
	Name string
	Type *TypeNode
}

func (*ExpressionStatement) statementNode()  {}
func (*VariableDeclaration) statementNode()  {}
func (*Block) statementNode()                {}
func (*If) statementNode()                   {}
func (*While) statementNode()                {}
func (*For) statementNode()                  {}
func (*ForEach) statementNode()              {}
func (*Repeat) statementNode()               {}
func (*Iterate) statementNode()              {}
func (*Switch) statementNode()               {}
func (*Return) statementNode()               {}
func (*Break) statementNode()                {}
func (*Continue) statementNode()             {}
func (*Throw) statementNode()                {}
func (*Try) statementNode()                  {}
func (*FunctionDeclaration) statementNode()  {}
func (*ClassDeclaration) statementNode()     {}
func (*StructDeclaration) statementNode()    {}
func (*InterfaceDeclaration) statementNode() {}
func (*EnumDeclaration) statementNode()      {}
func (*NamespaceDeclaration) statementNode() {}
func (*UsingDirective) statementNode()       {}
func (*PropertyDeclaration) statementNode()  {}
func (*TypeAliasDeclaration) statementNode() {}
