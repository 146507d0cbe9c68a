package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of the tree, one node per line.
func Dump(w io.Writer, p *Program) error {
	for _, s := range p.Statements {
		if err := dumpNode(w, s, 0); err != nil {
			return err
		}
	}
	return nil
}

func dumpNode(w io.Writer, n Node, depth int) error {
	_, err := fmt.Fprintf(w, "%s%s @%d:%d\n", strings.Repeat("  ", depth), Label(n), n.Pos().Line, n.Pos().Column)
	if err != nil {
		return err
	}
	for _, c := range Children(n) {
		if err := dumpNode(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Label is a one line description of a node without its children.
func Label(n Node) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
	switch t := n.(type) {
	case *Literal:
		return fmt.Sprintf("%s %s", name, FormatLiteral(t.Value))
	case *Identifier:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *Binary:
		return fmt.Sprintf("%s %s", name, t.Operator)
	case *Unary:
		if t.Postfix {
			return fmt.Sprintf("%s %s (postfix)", name, t.Operator)
		}
		return fmt.Sprintf("%s %s", name, t.Operator)
	case *Member:
		return fmt.Sprintf("%s .%s", name, t.Name)
	case *Assignment:
		return fmt.Sprintf("%s %s", name, t.Operator)
	case *Range:
		if t.Inclusive {
			return name + " ..="
		}
		return name + " .."
	case *VariableDeclaration:
		if t.Kind == "" {
			return fmt.Sprintf("%s %s", name, t.Name)
		}
		return fmt.Sprintf("%s %s %s", name, t.Kind, t.Name)
	case *ForEach:
		return fmt.Sprintf("%s %s", name, t.Variable)
	case *FunctionDeclaration:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *ClassDeclaration:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *StructDeclaration:
		if t.Union {
			return fmt.Sprintf("%s %s (union)", name, t.Name)
		}
		return fmt.Sprintf("%s %s", name, t.Name)
	case *InterfaceDeclaration:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *EnumDeclaration:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *EnumMember:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *NamespaceDeclaration:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *UsingDirective:
		if t.Alias != "" {
			return fmt.Sprintf("%s %s = %s", name, t.Alias, t.Path)
		}
		return fmt.Sprintf("%s %s", name, t.Path)
	case *PropertyDeclaration:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *TypeAliasDeclaration:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *CatchClause:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *Parameter:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *TypeParameter:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *Initializer:
		return fmt.Sprintf("%s %s", name, t.Name)
	case *TypeNode:
		return fmt.Sprintf("%s %s", name, FormatType(t))
	case *TypePattern:
		return fmt.Sprintf("%s %s", name, t.Binding)
	case *VariablePattern:
		return fmt.Sprintf("%s %s", name, t.Name)
	}
	return name
}
