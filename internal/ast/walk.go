package ast

// Walk visits n and then its children in source order. Children are skipped
// when f returns false.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, f)
	}
}

// WalkProgram walks every top-level statement of p.
func WalkProgram(p *Program, f func(Node) bool) {
	for _, stmt := range p.Statements {
		Walk(stmt, f)
	}
}

// ClearPositions zeroes the position of every node reachable from the given
// *Program, Node, or []Statement. Trees built from different sources can be
// compared structurally afterwards.
func ClearPositions(v any) {
	reset := func(n Node) bool {
		n.setPos(Position{})
		return true
	}
	switch t := v.(type) {
	case *Program:
		WalkProgram(t, reset)
	case []Statement:
		for _, s := range t {
			Walk(s, reset)
		}
	case Node:
		Walk(t, reset)
	}
}

// Children returns the direct children of n in source order. Absent optional
// children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil && !isNilNode(c) {
			out = append(out, c)
		}
	}
	switch t := n.(type) {
	case *ExpressionStatement:
		add(t.Expression)
	case *VariableDeclaration:
		addType(add, t.Type)
		add(t.Init)
	case *Block:
		for _, s := range t.Statements {
			add(s)
		}
	case *If:
		add(t.Condition)
		add(t.Then)
		add(t.Else)
	case *While:
		add(t.Condition)
		add(t.Body)
	case *For:
		for _, s := range t.Init {
			add(s)
		}
		add(t.Condition)
		for _, u := range t.Update {
			add(u)
		}
		add(t.Body)
	case *ForEach:
		addType(add, t.VariableType)
		add(t.Iterable)
		add(t.Body)
	case *Repeat:
		add(t.Count)
		add(t.Body)
	case *Iterate:
		add(t.Start)
		add(t.End)
		add(t.Step)
		add(t.Body)
	case *Switch:
		add(t.Subject)
		for _, c := range t.Cases {
			add(c)
		}
		if t.Default != nil {
			add(t.Default)
		}
	case *SwitchCase:
		for _, p := range t.Patterns {
			add(p)
		}
		add(t.Guard)
		for _, s := range t.Body {
			add(s)
		}
	case *Return:
		add(t.Value)
	case *Throw:
		add(t.Value)
	case *Try:
		if t.Block != nil {
			add(t.Block)
		}
		for _, c := range t.Catches {
			add(c)
		}
		if t.Finally != nil {
			add(t.Finally)
		}
	case *CatchClause:
		addType(add, t.Type)
		if t.Body != nil {
			add(t.Body)
		}
	case *FunctionDeclaration:
		for _, tp := range t.TypeParameters {
			add(tp)
		}
		for _, p := range t.Parameters {
			add(p)
		}
		addType(add, t.ReturnType)
		if t.Body != nil {
			add(t.Body)
		}
	case *ClassDeclaration:
		addDeclaration(add, t.TypeParameters, t.Bases, t.Members)
	case *StructDeclaration:
		addDeclaration(add, t.TypeParameters, t.Bases, t.Members)
	case *InterfaceDeclaration:
		addDeclaration(add, t.TypeParameters, t.Bases, t.Members)
	case *EnumDeclaration:
		addType(add, t.Type)
		for _, m := range t.Members {
			add(m)
		}
	case *EnumMember:
		add(t.Value)
	case *NamespaceDeclaration:
		for _, s := range t.Body {
			add(s)
		}
	case *PropertyDeclaration:
		addType(add, t.Type)
		add(t.Init)
	case *TypeAliasDeclaration:
		addType(add, t.Type)
	case *Binary:
		add(t.Left)
		add(t.Right)
	case *Unary:
		add(t.Operand)
	case *Call:
		add(t.Callee)
		for _, a := range t.Arguments {
			add(a)
		}
	case *Index:
		add(t.Target)
		add(t.Index)
	case *Member:
		add(t.Target)
	case *Assignment:
		add(t.Target)
		add(t.Value)
	case *Conditional:
		add(t.Condition)
		add(t.Then)
		add(t.Else)
	case *Lambda:
		for _, p := range t.Parameters {
			add(p)
		}
		add(t.Body)
	case *Array:
		for _, e := range t.Elements {
			add(e)
		}
	case *Tuple:
		for _, e := range t.Elements {
			add(e)
		}
	case *Range:
		add(t.Start)
		add(t.End)
	case *New:
		addType(add, t.Type)
		for _, a := range t.Arguments {
			add(a)
		}
		for _, i := range t.Initializers {
			add(i)
		}
	case *Initializer:
		add(t.Value)
	case *Match:
		add(t.Subject)
		for _, c := range t.Cases {
			add(c)
		}
	case *MatchCase:
		add(t.Pattern)
		add(t.Guard)
		add(t.Body)
	case *Cast:
		addType(add, t.Type)
		add(t.Expression)
	case *ConstantPattern:
		add(t.Value)
	case *TypePattern:
		addType(add, t.Type)
	case *TuplePattern:
		for _, p := range t.Elements {
			add(p)
		}
	case *DeconstructionPattern:
		addType(add, t.Type)
		for _, p := range t.Elements {
			add(p)
		}
	case *RangePattern:
		add(t.Start)
		add(t.End)
	case *Parameter:
		addType(add, t.Type)
		add(t.Default)
	case *TypeParameter:
		for _, c := range t.Constraints {
			add(c)
		}
	case *TypeNode:
		for _, a := range t.Arguments {
			add(a)
		}
		if t.Element != nil {
			add(t.Element)
		}
	}
	return out
}

func addType(add func(Node), t *TypeNode) {
	if t != nil {
		add(t)
	}
}

func addDeclaration(add func(Node), tps []*TypeParameter, bases []*TypeNode, members []Statement) {
	for _, tp := range tps {
		add(tp)
	}
	for _, b := range bases {
		add(b)
	}
	for _, m := range members {
		add(m)
	}
}

// isNilNode catches typed nil pointers stored in interface fields.
func isNilNode(n Node) bool {
	switch t := n.(type) {
	case *Block:
		return t == nil
	case *TypeNode:
		return t == nil
	}
	return false
}
