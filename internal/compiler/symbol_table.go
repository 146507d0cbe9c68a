package compiler

import (
	"slices"
	"strings"
	"sync"

	"gopkg.microglot.org/polyglot.go/internal/ast"
)

type SymbolKind uint8

const (
	SymbolKindNamespace SymbolKind = iota
	SymbolKindClass
	SymbolKindStruct
	SymbolKindInterface
	SymbolKindEnum
	SymbolKindEnumMember
	SymbolKindFunction
	SymbolKindConstructor
	SymbolKindProperty
	SymbolKindField
	SymbolKindTypeAlias
	SymbolKindVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolKindNamespace:
		return "namespace"
	case SymbolKindClass:
		return "class"
	case SymbolKindStruct:
		return "struct"
	case SymbolKindInterface:
		return "interface"
	case SymbolKindEnum:
		return "enum"
	case SymbolKindEnumMember:
		return "enum-member"
	case SymbolKindFunction:
		return "function"
	case SymbolKindConstructor:
		return "constructor"
	case SymbolKindProperty:
		return "property"
	case SymbolKindField:
		return "field"
	case SymbolKindTypeAlias:
		return "alias"
	default:
		return "variable"
	}
}

// Symbol is a declaration together with the declarations nested in it.
// Node is the declaring node.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Detail   string
	Node     ast.Node
	Children []*Symbol
}

// QualifiedName joins the symbol name onto its parent's qualified name.
func QualifiedName(parent string, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// CollectSymbols builds the declaration tree of a program. Only
// declarations are collected: locals declared inside function bodies and
// control flow are not symbols.
func CollectSymbols(prog *ast.Program) []*Symbol {
	return collectStatements(prog.Statements, scope{})
}

// scope names the enclosing namespace or type. owner is set only inside
// type bodies.
type scope struct {
	namespace string
	owner     string
}

func collectStatements(stmts []ast.Statement, in scope) []*Symbol {
	var out []*Symbol
	for _, stmt := range stmts {
		if sym := collectStatement(stmt, in); sym != nil {
			out = append(out, sym)
		}
	}
	return out
}

func collectStatement(stmt ast.Statement, in scope) *Symbol {
	switch t := stmt.(type) {
	case *ast.NamespaceDeclaration:
		return &Symbol{Name: t.Name, Kind: SymbolKindNamespace, Node: t, Children: collectStatements(t.Body, scope{namespace: QualifiedName(in.namespace, t.Name)})}
	case *ast.ClassDeclaration:
		return &Symbol{Name: t.Name, Kind: SymbolKindClass, Detail: basesDetail(t.Bases), Node: t, Children: collectStatements(t.Members, scope{namespace: in.namespace, owner: t.Name})}
	case *ast.StructDeclaration:
		detail := basesDetail(t.Bases)
		if t.Union {
			detail = strings.TrimSpace("union " + detail)
		}
		return &Symbol{Name: t.Name, Kind: SymbolKindStruct, Detail: detail, Node: t, Children: collectStatements(t.Members, scope{namespace: in.namespace, owner: t.Name})}
	case *ast.InterfaceDeclaration:
		return &Symbol{Name: t.Name, Kind: SymbolKindInterface, Detail: basesDetail(t.Bases), Node: t, Children: collectStatements(t.Members, scope{namespace: in.namespace, owner: t.Name})}
	case *ast.EnumDeclaration:
		sym := &Symbol{Name: t.Name, Kind: SymbolKindEnum, Node: t}
		if t.Type != nil {
			sym.Detail = ast.FormatType(t.Type)
		}
		for _, m := range t.Members {
			sym.Children = append(sym.Children, &Symbol{Name: m.Name, Kind: SymbolKindEnumMember, Node: m})
		}
		return sym
	case *ast.FunctionDeclaration:
		kind := SymbolKindFunction
		if t.ReturnType == nil && in.owner != "" && t.Name == in.owner {
			kind = SymbolKindConstructor
		}
		return &Symbol{Name: t.Name, Kind: kind, Detail: signature(t), Node: t}
	case *ast.PropertyDeclaration:
		kind := SymbolKindProperty
		if len(t.Accessors) == 0 {
			kind = SymbolKindField
		}
		return &Symbol{Name: t.Name, Kind: kind, Detail: ast.FormatType(t.Type), Node: t}
	case *ast.TypeAliasDeclaration:
		return &Symbol{Name: t.Name, Kind: SymbolKindTypeAlias, Detail: ast.FormatType(t.Type), Node: t}
	case *ast.VariableDeclaration:
		sym := &Symbol{Name: t.Name, Kind: SymbolKindVariable, Detail: t.Kind, Node: t}
		if t.Type != nil {
			sym.Detail = ast.FormatType(t.Type)
			if in.owner != "" {
				sym.Kind = SymbolKindField
			}
		}
		return sym
	}
	return nil
}

func basesDetail(bases []*ast.TypeNode) string {
	if len(bases) == 0 {
		return ""
	}
	names := make([]string, 0, len(bases))
	for _, b := range bases {
		names = append(names, ast.FormatType(b))
	}
	return ": " + strings.Join(names, ", ")
}

func signature(fn *ast.FunctionDeclaration) string {
	params := make([]string, 0, len(fn.Parameters))
	for _, p := range fn.Parameters {
		if p.Type != nil {
			params = append(params, ast.FormatType(p.Type)+" "+p.Name)
			continue
		}
		params = append(params, p.Name)
	}
	sig := "(" + strings.Join(params, ", ") + ")"
	if fn.ReturnType != nil {
		sig += ": " + ast.FormatType(fn.ReturnType)
	}
	return sig
}

// SymbolTable indexes the symbols of every compiled file. It is safe for
// concurrent use.
type SymbolTable struct {
	lock  sync.RWMutex
	files map[string][]*Symbol
}

func (s *SymbolTable) collect(prog *ast.Program) {
	symbols := CollectSymbols(prog)
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.files == nil {
		s.files = make(map[string][]*Symbol)
	}
	s.files[prog.File] = symbols
}

// File returns the symbol tree of one file.
func (s *SymbolTable) File(uri string) []*Symbol {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.files[uri]
}

// Files lists the indexed files in order.
func (s *SymbolTable) Files() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.filesLocked()
}

// Lookup finds every declaration with the given dotted name across all
// files. Names are qualified by namespace and type nesting.
func (s *SymbolTable) Lookup(name string) []*Symbol {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var out []*Symbol
	var visit func(syms []*Symbol, prefix string)
	visit = func(syms []*Symbol, prefix string) {
		for _, sym := range syms {
			q := QualifiedName(prefix, sym.Name)
			if q == name {
				out = append(out, sym)
			}
			visit(sym.Children, q)
		}
	}
	for _, uri := range s.filesLocked() {
		visit(s.files[uri], "")
	}
	return out
}

func (s *SymbolTable) filesLocked() []string {
	out := make([]string, 0, len(s.files))
	for uri := range s.files {
		out = append(out, uri)
	}
	slices.Sort(out)
	return out
}
