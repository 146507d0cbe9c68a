// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the syntax tree shared by every surface syntax. The
// High, Medium and Low grammars all produce these node shapes and nothing
// downstream can tell which grammar built a given tree.
package ast

import (
	"fmt"

	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// Position is the source coordinate of the token a node was built from.
type Position struct {
	File   string
	Line   int32
	Column int32
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether the position was never set.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// PositionOf derives a node position from a token.
func PositionOf(tok *idl.Token) Position {
	if tok == nil {
		return Position{}
	}
	return Position{File: tok.File, Line: tok.Span.Start.Line, Column: tok.Span.Start.Column}
}

type Node interface {
	Pos() Position
	setPos(Position)
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Pattern interface {
	Node
	patternNode()
}

// Base carries the position shared by every node. It is embedded in all node
// types.
type Base struct {
	Position Position
}

func (b *Base) Pos() Position {
	return b.Position
}

func (b *Base) setPos(p Position) {
	b.Position = p
}

// At is a convenience for constructing a Base from a position.
func At(p Position) Base {
	return Base{Position: p}
}

// Program is the root of a parsed compilation unit.
type Program struct {
	File       string
	Level      idl.SyntaxLevel
	Statements []Statement
}

// TypeNode is a type reference: a base name with optional generic
// arguments, pointer depth, array suffixes and a nullable marker. Jagged
// arrays nest through Element.
type TypeNode struct {
	Base
	Name      string
	Arguments []*TypeNode
	Pointer   int
	IsArray   bool
	Rank      int
	Element   *TypeNode
	Nullable  bool
}

// Parameter is a function or lambda parameter. Type and Default are
// optional.
type Parameter struct {
	Base
	Name    string
	Type    *TypeNode
	Default Expression
}

// TypeParameter is a generic parameter with its constraints.
type TypeParameter struct {
	Base
	Name        string
	Constraints []*TypeNode
}
