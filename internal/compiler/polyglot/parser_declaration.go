package polyglot

import (
	"fmt"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

var modifierKeywords = []idl.TokenType{
	idl.TokenTypeKeywordPublic,
	idl.TokenTypeKeywordPrivate,
	idl.TokenTypeKeywordProtected,
	idl.TokenTypeKeywordInternal,
	idl.TokenTypeKeywordStatic,
	idl.TokenTypeKeywordAbstract,
	idl.TokenTypeKeywordVirtual,
	idl.TokenTypeKeywordOverride,
	idl.TokenTypeKeywordReadonly,
	idl.TokenTypeKeywordSealed,
}

var declarationKeywords = []idl.TokenType{
	idl.TokenTypeKeywordClass,
	idl.TokenTypeKeywordStruct,
	idl.TokenTypeKeywordUnion,
	idl.TokenTypeKeywordInterface,
	idl.TokenTypeKeywordEnum,
	idl.TokenTypeKeywordFunction,
	idl.TokenTypeKeywordFn,
}

func (p *parser) checkAny(types []idl.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *parser) startsDeclaration() bool {
	return p.checkAny(modifierKeywords) || p.checkAny(declarationKeywords)
}

// Modifiers = { Modifier }
func (p *parser) modifiers() []string {
	var out []string
	for p.checkAny(modifierKeywords) {
		out = append(out, p.advance().Value)
	}
	return out
}

// Declaration = Modifiers ( Class | Struct | Interface | Enum | Function | VariableDeclaration | TypedDeclaration )
func (p *parser) declaration() (ast.Statement, error) {
	p.enter("declaration")
	mods := p.modifiers()
	s, matched, err := p.declarationBody(mods)
	if matched {
		return s, err
	}
	s, err = p.typedDeclaration(mods)
	if err == errNoMatch {
		return nil, unexpectedError(p.peek(), "a declaration")
	}
	return s, err
}

// declarationBody dispatches on the keyword following the modifiers.
// matched is false when no declaration keyword is present.
func (p *parser) declarationBody(mods []string) (ast.Statement, bool, error) {
	var s ast.Statement
	var err error
	switch {
	case p.check(idl.TokenTypeKeywordClass):
		s, err = p.classDeclaration(mods)
	case p.check(idl.TokenTypeKeywordStruct), p.check(idl.TokenTypeKeywordUnion):
		s, err = p.structDeclaration(mods)
	case p.check(idl.TokenTypeKeywordInterface):
		s, err = p.interfaceDeclaration(mods)
	case p.check(idl.TokenTypeKeywordEnum):
		s, err = p.enumDeclaration(mods)
	case p.check(idl.TokenTypeKeywordFunction), p.check(idl.TokenTypeKeywordFn):
		s, err = p.functionDeclaration(mods)
	case p.check(idl.TokenTypeKeywordVar), p.check(idl.TokenTypeKeywordLet), p.check(idl.TokenTypeKeywordConst):
		s, err = p.variableDeclaration(mods)
	default:
		return nil, false, nil
	}
	return s, true, err
}

// Class = "class" identifier [ TypeParameters ] [ Bases ] Members
func (p *parser) classDeclaration(mods []string) (ast.Statement, error) {
	p.enter("class")
	kw := p.advance()
	name, tps, bases, err := p.declarationHead()
	if err != nil {
		return nil, err
	}
	members, err := p.members(func(p *parser) (ast.Statement, error) {
		return p.member(name.Value)
	})
	if err != nil {
		return nil, err
	}
	return &ast.ClassDeclaration{Base: pos(kw), Modifiers: mods, Name: name.Value, TypeParameters: tps, Bases: bases, Members: members}, nil
}

// Struct = ( "struct" | "union" ) identifier [ TypeParameters ] [ Bases ] Members
//
// Low structs and unions only hold fields.
func (p *parser) structDeclaration(mods []string) (ast.Statement, error) {
	p.enter("struct")
	kw := p.advance()
	name, tps, bases, err := p.declarationHead()
	if err != nil {
		return nil, err
	}
	rule := func(p *parser) (ast.Statement, error) {
		return p.member(name.Value)
	}
	if p.level == idl.SyntaxLevelLow {
		rule = (*parser).lowField
	}
	members, err := p.members(rule)
	if err != nil {
		return nil, err
	}
	return &ast.StructDeclaration{
		Base:           pos(kw),
		Modifiers:      mods,
		Name:           name.Value,
		Union:          kw.Type == idl.TokenTypeKeywordUnion,
		TypeParameters: tps,
		Bases:          bases,
		Members:        members,
	}, nil
}

// Interface = "interface" identifier [ TypeParameters ] [ Bases ] Members
func (p *parser) interfaceDeclaration(mods []string) (ast.Statement, error) {
	p.enter("interface")
	kw := p.advance()
	name, tps, bases, err := p.declarationHead()
	if err != nil {
		return nil, err
	}
	members, err := p.members(func(p *parser) (ast.Statement, error) {
		return p.member(name.Value)
	})
	if err != nil {
		return nil, err
	}
	return &ast.InterfaceDeclaration{Base: pos(kw), Modifiers: mods, Name: name.Value, TypeParameters: tps, Bases: bases, Members: members}, nil
}

func (p *parser) declarationHead() (*idl.Token, []*ast.TypeParameter, []*ast.TypeNode, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, nil, nil, err
	}
	tps, err := p.typeParameters()
	if err != nil {
		return nil, nil, nil, err
	}
	bases, err := p.bases()
	if err != nil {
		return nil, nil, nil, err
	}
	return name, tps, bases, nil
}

// Members = "{" { Member } "}"
//
// Members recover from errors the same way statements do.
func (p *parser) members(rule statementRule) ([]ast.Statement, error) {
	if _, err := p.expect(idl.TokenTypeCurlyOpen); err != nil {
		return nil, err
	}
	list := p.statements(rule, isCurlyClose, true, nil)
	if _, err := p.expect(idl.TokenTypeCurlyClose); err != nil {
		return nil, err
	}
	return list, nil
}

// Member = ";" | Modifiers ( NestedDeclaration | Constructor | TypeAlias | TypedDeclaration )
// Constructor = owner Parameters Block
func (p *parser) member(owner string) (ast.Statement, error) {
	p.enter("member")
	if _, ok := p.accept(idl.TokenTypeSemicolon); ok {
		return nil, nil
	}
	mods := p.modifiers()
	if s, matched, err := p.declarationBody(mods); matched {
		return s, err
	}
	tok := p.peek()
	if p.isWord(tok, owner) && p.checkN(1, idl.TokenTypeParenOpen) {
		p.advance()
		params, err := p.parameters()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.FunctionDeclaration{Base: pos(tok), Modifiers: mods, Name: tok.Value, Parameters: params, Body: body}, nil
	}
	if len(mods) == 0 && p.typeAliasAhead() {
		return p.typeAlias()
	}
	s, err := p.typedDeclaration(mods)
	if err == errNoMatch {
		return nil, unexpectedError(p.peek(), "a member")
	}
	return s, err
}

// Enum = "enum" identifier [ ":" Type ] "{" [ EnumMember { "," EnumMember } [ "," ] ] "}"
// EnumMember = identifier [ "=" Conditional ]
func (p *parser) enumDeclaration(mods []string) (ast.Statement, error) {
	p.enter("enum")
	kw := p.advance()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &ast.EnumDeclaration{Base: pos(kw), Modifiers: mods, Name: name.Value}
	if _, ok := p.accept(idl.TokenTypeColon); ok {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Type = t
	}
	if _, err := p.expect(idl.TokenTypeCurlyOpen); err != nil {
		return nil, err
	}
	for !p.check(idl.TokenTypeCurlyClose) {
		member, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		m := &ast.EnumMember{Base: pos(member), Name: member.Value}
		if _, ok := p.accept(idl.TokenTypeEqual); ok {
			v, err := p.conditional()
			if err != nil {
				return nil, err
			}
			m.Value = v
		}
		decl.Members = append(decl.Members, m)
		if _, ok := p.accept(idl.TokenTypeComma); !ok {
			break
		}
	}
	if _, err := p.expect(idl.TokenTypeCurlyClose); err != nil {
		return nil, err
	}
	return decl, nil
}

// Function = ( "function" | "fn" ) identifier FunctionRest
//
// Strict Low functions must declare a return type.
func (p *parser) functionDeclaration(mods []string) (ast.Statement, error) {
	p.enter("function")
	kw := p.advance()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	fn, err := p.functionRest(mods, name, nil)
	if err != nil {
		return nil, err
	}
	decl := fn.(*ast.FunctionDeclaration)
	decl.Base = pos(kw)
	if decl.ReturnType == nil && p.level == idl.SyntaxLevelLow && p.strict {
		p.record(&SyntaxError{
			Kind:    SyntaxErrorMissingType,
			Message: fmt.Sprintf("function '%s' needs a return type", name.Value),
			Token:   name,
		})
	}
	return decl, nil
}

// FunctionRest = [ TypeParameters ] Parameters [ ":" Type ] ( Block | ";" )
//
// A return type given before the name, C style, arrives as returnType.
func (p *parser) functionRest(mods []string, name *idl.Token, returnType *ast.TypeNode) (ast.Statement, error) {
	tps, err := p.typeParameters()
	if err != nil {
		return nil, err
	}
	params, err := p.parameters()
	if err != nil {
		return nil, err
	}
	decl := &ast.FunctionDeclaration{
		Base:           pos(name),
		Modifiers:      mods,
		Name:           name.Value,
		TypeParameters: tps,
		Parameters:     params,
		ReturnType:     returnType,
	}
	if returnType == nil {
		if _, ok := p.accept(idl.TokenTypeColon); ok {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			decl.ReturnType = t
		}
	}
	if _, ok := p.accept(idl.TokenTypeSemicolon); ok {
		return decl, nil
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

// PropertyRest = "{" { identifier ";" } "}" [ "=" Expression ";" ]
func (p *parser) propertyRest(mods []string, t *ast.TypeNode, name *idl.Token) (ast.Statement, error) {
	p.enter("property")
	p.advance()
	prop := &ast.PropertyDeclaration{Base: ast.At(t.Pos()), Modifiers: mods, Type: t, Name: name.Value}
	for !p.check(idl.TokenTypeCurlyClose) {
		accessor, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.terminator(); err != nil {
			return nil, err
		}
		prop.Accessors = append(prop.Accessors, accessor.Value)
	}
	p.advance()
	if _, ok := p.accept(idl.TokenTypeEqual); ok {
		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		prop.Init = init
		if err := p.terminator(); err != nil {
			return nil, err
		}
	}
	return prop, nil
}

// Namespace = "namespace" QualifiedName ( "{" { Statement } "}" | ";" { Statement } )
//
// The file scoped form takes every following statement of the enclosing
// list.
func (p *parser) namespaceDeclaration() (ast.Statement, error) {
	p.enter("namespace")
	kw := p.advance()
	name, err := p.qualifiedName()
	if err != nil {
		return nil, err
	}
	ns := &ast.NamespaceDeclaration{Base: pos(kw), Name: name}
	if _, ok := p.accept(idl.TokenTypeSemicolon); ok {
		ns.Body = p.statements(p.grammar.statement, isCurlyClose, true, nil)
		return ns, nil
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	ns.Body = body.Statements
	return ns, nil
}

// Using = "using" [ identifier "=" ] QualifiedName ";"
func (p *parser) usingDirective() (ast.Statement, error) {
	p.enter("using")
	kw := p.advance()
	u := &ast.UsingDirective{Base: pos(kw)}
	if p.isIdent(p.peek()) && p.checkN(1, idl.TokenTypeEqual) {
		u.Alias = p.advance().Value
		p.advance()
	}
	path, err := p.qualifiedName()
	if err != nil {
		return nil, err
	}
	u.Path = path
	return u, p.terminator()
}

// typeAliasAhead recognises the contextual keyword in "type Name = ...".
func (p *parser) typeAliasAhead() bool {
	return p.isWord(p.peek(), "type") && p.isIdent(p.peekN(1)) && p.checkN(2, idl.TokenTypeEqual)
}

// TypeAlias = "type" identifier "=" Type [ ";" ]
//
// The terminator is optional in the natural syntax.
func (p *parser) typeAlias() (ast.Statement, error) {
	p.enter("type-alias")
	kw := p.advance()
	name := p.advance()
	p.advance()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	alias := &ast.TypeAliasDeclaration{Base: pos(kw), Name: name.Value, Type: t}
	if p.level == idl.SyntaxLevelHigh {
		p.accept(idl.TokenTypeSemicolon)
		return alias, nil
	}
	return alias, p.terminator()
}
