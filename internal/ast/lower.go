package ast

import "fmt"

// Lower rewrites a C-style loop as
//
//	{ init; while (cond) { body; update; } }
//
// A missing condition becomes the literal true. A continue aimed at this
// loop runs a copy of the update first.
func (f *For) Lower() *Block {
	cond := f.Condition
	if cond == nil {
		cond = &Literal{Base: f.Base, Value: true}
	}
	update := func(clone bool) []Statement {
		var out []Statement
		for _, u := range f.Update {
			if clone {
				u = Clone(u)
			}
			out = append(out, &ExpressionStatement{Base: At(u.Pos()), Expression: u})
		}
		return out
	}
	body := spliceBody(f.Body)
	if len(f.Update) > 0 {
		body = bumpContinues(body, func() []Statement { return update(true) })
	}
	body = append(body, update(false)...)
	var outer []Statement
	outer = append(outer, f.Init...)
	outer = append(outer, &While{
		Base:      f.Base,
		Condition: cond,
		Body:      &Block{Base: blockBase(f.Body, f.Base), Statements: body},
	})
	return &Block{Base: f.Base, Statements: outer}
}

// CounterName is the hidden loop counter introduced by Lower.
func (r *Repeat) CounterName() string {
	return fmt.Sprintf("__repeat_%d_%d", r.Position.Line, r.Position.Column)
}

// LimitName is the hidden variable holding the count, evaluated once.
func (r *Repeat) LimitName() string {
	return r.CounterName() + "_limit"
}

// Lower rewrites the loop as a counted while loop. The counter is bumped
// before the body runs so that continue cannot skip it.
func (r *Repeat) Lower() *Block {
	name := r.CounterName()
	counter := func() Expression { return &Identifier{Base: r.Base, Name: name} }
	body := []Statement{&ExpressionStatement{
		Base: r.Base,
		Expression: &Assignment{
			Base:     r.Base,
			Target:   counter(),
			Operator: "+=",
			Value:    &Literal{Base: r.Base, Value: int64(1)},
		},
	}}
	body = append(body, spliceBody(r.Body)...)
	return &Block{Base: r.Base, Statements: []Statement{
		&VariableDeclaration{
			Base: r.Base,
			Kind: "var",
			Name: name,
			Init: &Literal{Base: r.Base, Value: int64(0)},
		},
		&VariableDeclaration{
			Base: r.Base,
			Kind: "var",
			Name: r.LimitName(),
			Init: r.Count,
		},
		&While{
			Base: r.Base,
			Condition: &Binary{
				Base:     r.Base,
				Operator: "<",
				Left:     counter(),
				Right:    &Identifier{Base: r.Base, Name: r.LimitName()},
			},
			Body: &Block{Base: blockBase(r.Body, r.Base), Statements: body},
		},
	}}
}

// Lower rewrites the loop as a declaration of the counter followed by a
// while loop. A step that is a negated literal counts downwards. The step is
// added at the end of the body and before every continue aimed at this
// loop.
func (it *Iterate) Lower() *Block {
	step := it.Step
	if step == nil {
		step = &Literal{Base: it.Base, Value: int64(1)}
	}
	op := "<="
	if isNegativeLiteral(step) {
		op = ">="
	}
	counter := func() Expression { return &Identifier{Base: it.Base, Name: it.Counter} }
	bump := func(value Expression) Statement {
		return &ExpressionStatement{
			Base: it.Base,
			Expression: &Assignment{
				Base:     it.Base,
				Target:   counter(),
				Operator: "+=",
				Value:    value,
			},
		}
	}
	body := bumpContinues(spliceBody(it.Body), func() []Statement {
		return []Statement{bump(Clone(step))}
	})
	body = append(body, bump(step))
	return &Block{Base: it.Base, Statements: []Statement{
		&VariableDeclaration{
			Base: it.Base,
			Kind: "var",
			Name: it.Counter,
			Init: it.Start,
		},
		&While{
			Base: it.Base,
			Condition: &Binary{
				Base:     it.Base,
				Operator: op,
				Left:     counter(),
				Right:    it.End,
			},
			Body: &Block{Base: blockBase(it.Body, it.Base), Statements: body},
		},
	}}
}

// bumpContinues returns stmts with the statements made by bump placed before
// every continue that targets the enclosing loop. Nested loops own their
// continues and declarations cannot hold one, so neither is entered.
func bumpContinues(stmts []Statement, bump func() []Statement) []Statement {
	if stmts == nil {
		return nil
	}
	out := make([]Statement, 0, len(stmts))
	for _, s := range stmts {
		if c, ok := s.(*Continue); ok {
			out = append(out, bump()...)
			out = append(out, c)
			continue
		}
		out = append(out, bumpContinue(s, bump))
	}
	return out
}

func bumpContinue(s Statement, bump func() []Statement) Statement {
	switch t := s.(type) {
	case *Continue:
		return &Block{Base: t.Base, Statements: append(bump(), t)}
	case *Block:
		if t == nil {
			return s
		}
		c := *t
		c.Statements = bumpContinues(t.Statements, bump)
		return &c
	case *If:
		c := *t
		c.Then = bumpContinue(t.Then, bump)
		c.Else = bumpContinue(t.Else, bump)
		return &c
	case *Switch:
		c := *t
		if t.Cases != nil {
			c.Cases = make([]*SwitchCase, len(t.Cases))
			for i, sc := range t.Cases {
				cc := *sc
				cc.Body = bumpContinues(sc.Body, bump)
				c.Cases[i] = &cc
			}
		}
		c.Default = bumpBlock(t.Default, bump)
		return &c
	case *Try:
		c := *t
		c.Block = bumpBlock(t.Block, bump)
		if t.Catches != nil {
			c.Catches = make([]*CatchClause, len(t.Catches))
			for i, cl := range t.Catches {
				cc := *cl
				cc.Body = bumpBlock(cl.Body, bump)
				c.Catches[i] = &cc
			}
		}
		c.Finally = bumpBlock(t.Finally, bump)
		return &c
	}
	return s
}

func bumpBlock(b *Block, bump func() []Statement) *Block {
	if b == nil {
		return nil
	}
	return bumpContinue(b, bump).(*Block)
}

func spliceBody(body Statement) []Statement {
	switch b := body.(type) {
	case nil:
		return nil
	case *Block:
		var out []Statement
		return append(out, b.Statements...)
	default:
		return []Statement{b}
	}
}

func blockBase(body Statement, fallback Base) Base {
	if b, ok := body.(*Block); ok {
		return b.Base
	}
	return fallback
}

func isNegativeLiteral(e Expression) bool {
	switch v := e.(type) {
	case *Unary:
		_, ok := v.Operand.(*Literal)
		return ok && v.Operator == "-" && !v.Postfix
	case *Literal:
		switch n := v.Value.(type) {
		case int64:
			return n < 0
		case float64:
			return n < 0
		}
	}
	return false
}
