/*
NAME
  expr.go - whitelisted expression parsing and evaluation.

DESCRIPTION
  expr implements the expression language of spec.md §4.3: arithmetic,
  comparison, the ?: conditional, a fixed whitelist of math/random
  functions, and identifiers that are either simple field names or
  "msg.field". Identifiers follow Go's identifier syntax, so a message name
  containing spaces ("Msg Name.field") is rejected as a parse error.

  No expression-evaluation library appears anywhere in the retrieval pack
  this repository was built from (see DESIGN.md); rather than hand-writing
  a tokenizer for a small arithmetic grammar, formulas are parsed with the
  standard library's go/parser as ordinary Go expressions and then walked
  by a narrow, explicitly whitelisted evaluator in eval.go, rejecting any
  syntax or function call not on the whitelist at parse time; an identifier
  that names no known value is reported when the expression is evaluated.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package expr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
)

// Expr is a parsed, validated expression formula.
type Expr struct {
	root ast.Expr
	src  string
}

// Whitelisted function names, from spec.md §4.3.
var whitelistedFuncs = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"exp": true, "log": true, "log10": true, "sqrt": true, "pow": true,
	"abs": true, "sign": true, "floor": true, "ceil": true, "round": true,
	"min": true, "max": true, "clamp": true,
	"int": true, "float": true, "bool": true,
	"random": true, "random_normal": true, "random_int": true,
	"__cond__": true,
}

// Parse parses formula into a validated Expr, rejecting any construct not
// in the whitelisted grammar: arithmetic, comparison, unary minus, the
// ternary-style a?b:c (rewritten by Parse itself into a call to the
// pseudo-function __cond__, see cond.go), identifiers, one-level dotted
// identifiers ("msg.field"), and whitelisted function calls.
func Parse(formula string) (*Expr, error) {
	src := rewriteTernary(formula)
	node, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("expr: parse error in %q: %w", formula, err)
	}
	if err := validate(node); err != nil {
		return nil, err
	}
	return &Expr{root: node, src: formula}, nil
}

// String returns the original formula text.
func (e *Expr) String() string { return e.src }

// Identifiers returns every free identifier referenced by the expression
// (field names, "time", "message_count"), used by the dependency graph in
// generate/deps.go. Dotted references ("msg.field") are returned joined by
// ".".
func (e *Expr) Identifiers() []string {
	var out []string
	seen := map[string]bool{}
	var walk func(n ast.Expr) string
	walk = func(n ast.Expr) string {
		switch v := n.(type) {
		case *ast.Ident:
			return v.Name
		case *ast.SelectorExpr:
			base := walk(v.X)
			if base == "" {
				return ""
			}
			return base + "." + v.Sel.Name
		}
		return ""
	}
	ast.Inspect(e.root, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.CallExpr:
			// Don't descend into the call's function identifier, only args.
			for _, a := range v.Args {
				if id := walk(a); id != "" {
					if !seen[id] {
						seen[id] = true
						out = append(out, id)
					}
				} else {
					ast.Inspect(a, collectIdents(&out, seen))
				}
			}
			return false
		case *ast.Ident:
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v.Name)
			}
		case *ast.SelectorExpr:
			if id := walk(v); id != "" {
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
				return false
			}
		}
		return true
	})
	return out
}

func collectIdents(out *[]string, seen map[string]bool) func(ast.Node) bool {
	return func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			if !seen[id.Name] {
				seen[id.Name] = true
				*out = append(*out, id.Name)
			}
		}
		return true
	}
}

func validate(n ast.Expr) error {
	var firstErr error
	ast.Inspect(n, func(node ast.Node) bool {
		if firstErr != nil {
			return false
		}
		switch v := node.(type) {
		case *ast.CallExpr:
			fn, ok := v.Fun.(*ast.Ident)
			if !ok || !whitelistedFuncs[fn.Name] {
				firstErr = fmt.Errorf("expr: call to non-whitelisted function %s", exprString(v.Fun))
				return false
			}
		case *ast.BinaryExpr:
			switch v.Op {
			case token.ADD, token.SUB, token.MUL, token.QUO, token.REM,
				token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ,
				token.LAND, token.LOR:
			default:
				firstErr = fmt.Errorf("expr: operator %s is not permitted", v.Op)
				return false
			}
		case *ast.UnaryExpr:
			if v.Op != token.SUB && v.Op != token.NOT {
				firstErr = fmt.Errorf("expr: unary operator %s is not permitted", v.Op)
				return false
			}
		case *ast.SelectorExpr:
			if _, ok := v.X.(*ast.Ident); !ok {
				firstErr = fmt.Errorf("expr: only one level of dotted identifier is permitted")
				return false
			}
		case *ast.Ident, *ast.BasicLit, *ast.ParenExpr:
			// fine
		case nil:
			// ast.Inspect's closing call after a node's children.
		default:
			firstErr = fmt.Errorf("expr: construct %T is not permitted", node)
			return false
		}
		return true
	})
	return firstErr
}

func exprString(n ast.Expr) string {
	if id, ok := n.(*ast.Ident); ok {
		return id.Name
	}
	return "<expr>"
}
