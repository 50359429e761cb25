// Package asthelper implements utility functions for AST.
package asthelper

import (
	"go/ast"
	"go/types"
	"strings"
)

// _shortLen is the longest identifier or literal printed in full as a call argument or index.
// It is the length of the "..." that replaces longer ones.
const _shortLen = 3

// ShortString renders e compactly for names and messages: call arguments and index expressions
// are elided unless short, e.g. `s.handlers[name](req, resp)` becomes `s.handlers[...](...)`.
func ShortString(e ast.Expr) string {
	var s strings.Builder
	writeShort(&s, e)
	return s.String()
}

func writeShort(s *strings.Builder, e ast.Expr) {
	switch e := e.(type) {
	case *ast.Ident:
		s.WriteString(e.Name)
	case *ast.ParenExpr:
		writeShort(s, e.X)
	case *ast.SelectorExpr:
		writeShort(s, e.X)
		s.WriteByte('.')
		s.WriteString(e.Sel.Name)
	case *ast.StarExpr:
		s.WriteByte('*')
		writeShort(s, e.X)
	case *ast.CallExpr:
		writeShort(s, e.Fun)
		s.WriteByte('(')
		switch {
		case len(e.Args) == 1 && short(e.Args[0]) != "":
			s.WriteString(short(e.Args[0]))
		case len(e.Args) > 0:
			s.WriteString("...")
		}
		s.WriteByte(')')
	case *ast.IndexExpr:
		writeShort(s, e.X)
		s.WriteByte('[')
		if v := short(e.Index); v != "" {
			s.WriteString(v)
		} else {
			s.WriteString("...")
		}
		s.WriteByte(']')
	default:
		s.WriteString(types.ExprString(e))
	}
}

// short returns the text of a short identifier or literal, or "".
func short(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Ident:
		if len(e.Name) <= _shortLen {
			return e.Name
		}
	case *ast.BasicLit:
		if len(e.Value) <= _shortLen {
			return e.Value
		}
	}
	return ""
}

// DocContains reports whether any comment of the group contains s. A nil group contains
// nothing.
func DocContains(group *ast.CommentGroup, s string) bool {
	if group == nil {
		return false
	}
	for _, c := range group.List {
		if strings.Contains(c.Text, s) {
			return true
		}
	}
	return false
}
