/*
NAME
  eval.go - expression evaluation.

DESCRIPTION
  Eval walks a parsed Expr's AST, resolving identifiers through the Env
  interface and dispatching whitelisted function calls. Division by zero
  and domain errors (sqrt of a negative, log of a non-positive number) are
  non-fatal per spec.md §4.3: they yield 0 and report a warning through
  Env.Warn rather than returning an error.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package expr

import (
	"fmt"
	"go/ast"
	"go/token"
	"math"
)

// Env resolves identifiers and random functions during evaluation, and
// receives non-fatal warnings (divide-by-zero, domain errors).
type Env interface {
	// Lookup resolves a bare identifier or dotted "msg.field" reference.
	// ok is false for an undefined reference, which is a fatal error
	// (spec.md §4.3 UndefinedFieldReference).
	Lookup(name string) (float64, bool)

	// Random returns the next uniform(0,1) draw from this field's PRNG
	// stream.
	Random() float64

	// RandomRange returns U(min, max).
	RandomRange(min, max float64) float64

	// RandomNormal returns N(mean, stddev).
	RandomNormal(mean, stddev float64) float64

	// RandomInt returns a uniform integer in [min, max].
	RandomInt(min, max int64) int64

	// Warn records a non-fatal warning (e.g. division by zero).
	Warn(msg string)
}

// Eval evaluates e against env.
func Eval(e *Expr, env Env) (float64, error) {
	return evalNode(e.root, env)
}

func evalNode(n ast.Expr, env Env) (float64, error) {
	switch v := n.(type) {
	case *ast.ParenExpr:
		return evalNode(v.X, env)
	case *ast.BasicLit:
		return evalLit(v)
	case *ast.Ident:
		return evalIdent(v.Name, env)
	case *ast.SelectorExpr:
		name := v.X.(*ast.Ident).Name + "." + v.Sel.Name
		return evalIdent(name, env)
	case *ast.UnaryExpr:
		return evalUnary(v, env)
	case *ast.BinaryExpr:
		return evalBinary(v, env)
	case *ast.CallExpr:
		return evalCall(v, env)
	default:
		return 0, fmt.Errorf("expr: cannot evaluate %T", n)
	}
}

func evalLit(v *ast.BasicLit) (float64, error) {
	switch v.Kind {
	case token.INT, token.FLOAT:
		var f float64
		if _, err := fmt.Sscanf(v.Value, "%g", &f); err != nil {
			return 0, fmt.Errorf("expr: invalid numeric literal %q", v.Value)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expr: unsupported literal kind %v", v.Kind)
	}
}

func evalIdent(name string, env Env) (float64, error) {
	switch name {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	val, ok := env.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("expr: undefined field reference %q", name)
	}
	return val, nil
}

func evalUnary(v *ast.UnaryExpr, env Env) (float64, error) {
	x, err := evalNode(v.X, env)
	if err != nil {
		return 0, err
	}
	switch v.Op {
	case token.SUB:
		return -x, nil
	case token.NOT:
		if x == 0 {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expr: unsupported unary operator %s", v.Op)
	}
}

func truthy(f float64) bool { return f != 0 }

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func evalBinary(v *ast.BinaryExpr, env Env) (float64, error) {
	// Short-circuit && / ||.
	switch v.Op {
	case token.LAND:
		x, err := evalNode(v.X, env)
		if err != nil {
			return 0, err
		}
		if !truthy(x) {
			return 0, nil
		}
		y, err := evalNode(v.Y, env)
		if err != nil {
			return 0, err
		}
		return boolFloat(truthy(y)), nil
	case token.LOR:
		x, err := evalNode(v.X, env)
		if err != nil {
			return 0, err
		}
		if truthy(x) {
			return 1, nil
		}
		y, err := evalNode(v.Y, env)
		if err != nil {
			return 0, err
		}
		return boolFloat(truthy(y)), nil
	}

	x, err := evalNode(v.X, env)
	if err != nil {
		return 0, err
	}
	y, err := evalNode(v.Y, env)
	if err != nil {
		return 0, err
	}

	switch v.Op {
	case token.ADD:
		return x + y, nil
	case token.SUB:
		return x - y, nil
	case token.MUL:
		return x * y, nil
	case token.QUO:
		if y == 0 {
			env.Warn("expr: division by zero")
			return 0, nil
		}
		return x / y, nil
	case token.REM:
		if y == 0 {
			env.Warn("expr: modulo by zero")
			return 0, nil
		}
		return math.Mod(x, y), nil
	case token.EQL:
		return boolFloat(x == y), nil
	case token.NEQ:
		return boolFloat(x != y), nil
	case token.LSS:
		return boolFloat(x < y), nil
	case token.LEQ:
		return boolFloat(x <= y), nil
	case token.GTR:
		return boolFloat(x > y), nil
	case token.GEQ:
		return boolFloat(x >= y), nil
	default:
		return 0, fmt.Errorf("expr: unsupported binary operator %s", v.Op)
	}
}

func evalCall(v *ast.CallExpr, env Env) (float64, error) {
	name := v.Fun.(*ast.Ident).Name

	// __cond__ short-circuits: only the taken branch is evaluated so a
	// random() call in the untaken branch never consumes the PRNG.
	if name == "__cond__" {
		if len(v.Args) != 3 {
			return 0, fmt.Errorf("expr: __cond__ expects 3 arguments")
		}
		cond, err := evalNode(v.Args[0], env)
		if err != nil {
			return 0, err
		}
		if truthy(cond) {
			return evalNode(v.Args[1], env)
		}
		return evalNode(v.Args[2], env)
	}

	args := make([]float64, len(v.Args))
	for i, a := range v.Args {
		val, err := evalNode(a, env)
		if err != nil {
			return 0, err
		}
		args[i] = val
	}

	switch name {
	case "sin":
		return math.Sin(args[0]), nil
	case "cos":
		return math.Cos(args[0]), nil
	case "tan":
		return math.Tan(args[0]), nil
	case "asin":
		return domainGuard(env, "asin", args[0] >= -1 && args[0] <= 1, math.Asin(args[0])), nil
	case "acos":
		return domainGuard(env, "acos", args[0] >= -1 && args[0] <= 1, math.Acos(args[0])), nil
	case "atan":
		return math.Atan(args[0]), nil
	case "sinh":
		return math.Sinh(args[0]), nil
	case "cosh":
		return math.Cosh(args[0]), nil
	case "tanh":
		return math.Tanh(args[0]), nil
	case "exp":
		return math.Exp(args[0]), nil
	case "log":
		return domainGuard(env, "log", args[0] > 0, math.Log(args[0])), nil
	case "log10":
		return domainGuard(env, "log10", args[0] > 0, math.Log10(args[0])), nil
	case "sqrt":
		return domainGuard(env, "sqrt", args[0] >= 0, math.Sqrt(args[0])), nil
	case "pow":
		return math.Pow(args[0], args[1]), nil
	case "abs":
		return math.Abs(args[0]), nil
	case "sign":
		switch {
		case args[0] > 0:
			return 1, nil
		case args[0] < 0:
			return -1, nil
		default:
			return 0, nil
		}
	case "floor":
		return math.Floor(args[0]), nil
	case "ceil":
		return math.Ceil(args[0]), nil
	case "round":
		return math.Round(args[0]), nil
	case "min":
		return math.Min(args[0], args[1]), nil
	case "max":
		return math.Max(args[0], args[1]), nil
	case "clamp":
		return math.Min(math.Max(args[0], args[1]), args[2]), nil
	case "int":
		return math.Trunc(args[0]), nil
	case "float":
		return args[0], nil
	case "bool":
		return boolFloat(truthy(args[0])), nil
	case "random":
		switch len(args) {
		case 0:
			return env.Random(), nil
		case 2:
			return env.RandomRange(args[0], args[1]), nil
		default:
			return 0, fmt.Errorf("expr: random() takes 0 or 2 arguments")
		}
	case "random_normal":
		if len(args) != 2 {
			return 0, fmt.Errorf("expr: random_normal(mean, stddev) takes 2 arguments")
		}
		return env.RandomNormal(args[0], args[1]), nil
	case "random_int":
		if len(args) != 2 {
			return 0, fmt.Errorf("expr: random_int(min, max) takes 2 arguments")
		}
		return float64(env.RandomInt(int64(args[0]), int64(args[1]))), nil
	default:
		return 0, fmt.Errorf("expr: call to non-whitelisted function %s", name)
	}
}

func domainGuard(env Env, name string, ok bool, v float64) float64 {
	if !ok {
		env.Warn(fmt.Sprintf("expr: domain error in %s", name))
		return 0
	}
	return v
}
