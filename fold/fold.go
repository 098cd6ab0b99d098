// Package fold implements the constant-folding optimization pass over
// HIR described in spec §4.4: a bottom-up rewrite that replaces pure
// constant sub-expressions with literal values while preserving side
// effects and the short-circuit contract of `&&`/`||`.
//
// Grounded on natrix-compiler/src/hir/opt.rs. List and function values
// are never installed back into the tree (their identity would change,
// breaking the aliasing semantics of spec §4.1), so only the five
// primitive Value kinds (Null, Bool, Int, Float, String) are ever
// "foldable values" in the sense this package uses the term.
package fold

import (
	"github.com/informatter/natrix/builtin"
	"github.com/informatter/natrix/hir"
	"github.com/informatter/natrix/source"
	"github.com/informatter/natrix/sourceerr"
	"github.com/informatter/natrix/value"
)

// FoldConstants rewrites every function body in program in place. It
// returns the first error encountered — a folded operation whose
// operands are known but which fails, e.g. operands of incompatible
// types or an integer divide by a folded zero (spec §4.4 "Binary" rule).
func FoldConstants(program *hir.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*sourceerr.Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	for _, g := range program.Globals {
		if g.Kind != hir.GlobalFunction {
			continue
		}
		for i, s := range g.Func.Body {
			g.Func.Body[i] = foldStmt(s)
		}
	}
	return nil
}

func foldStmt(s hir.Stmt) hir.Stmt {
	switch st := s.(type) {
	case *hir.Block:
		for i, inner := range st.Stmts {
			st.Stmts[i] = foldStmt(inner)
		}
	case *hir.IfStmt:
		st.Cond = doBoolExpr(st.Cond)
		st.Then = foldStmt(st.Then)
		if st.Else != nil {
			st.Else = foldStmt(st.Else)
		}
	case *hir.WhileStmt:
		st.Cond = doBoolExpr(st.Cond)
		st.Body = foldStmt(st.Body)
	case *hir.ExprStmt:
		st.Expr = foldExpr(st.Expr)
	case *hir.ReturnStmt:
		st.Expr = foldExpr(st.Expr)
	case *hir.VarDeclStmt:
		st.Init = foldExpr(st.Init)
	case *hir.StoreLocalStmt:
		st.Value = foldExpr(st.Value)
	case *hir.StoreGlobalStmt:
		st.Value = foldExpr(st.Value)
	case *hir.SetItemStmt:
		st.Array = foldExpr(st.Array)
		st.Index = foldExpr(st.Index)
		st.Value = foldExpr(st.Value)
	case *hir.BreakStmt, *hir.ContinueStmt:
		// leaves, nothing to fold
	}
	return s
}

// doBoolExpr folds e and, if the result is a known value, checks that
// it is a bool — failing compilation otherwise. It is used everywhere
// spec §4.4 requires a boolean context: if/while conditions and both
// operands of `&&`/`||`. If e does not fold to a constant at all, it is
// returned unfolded for the runtime to type-check.
func doBoolExpr(e hir.Expr) hir.Expr {
	folded := foldExpr(e)
	if v, ok := constValue(folded); ok && v.Kind() != value.KindBool {
		panic(sourceerr.New(hir.Span(folded), "expected a boolean expression"))
	}
	return folded
}

// foldExpr folds e bottom-up, returning either e itself (with its
// subterms folded in place) or a replacement constant-literal node.
func foldExpr(e hir.Expr) hir.Expr {
	switch x := e.(type) {
	case *hir.BinaryExpr:
		x.Left = foldExpr(x.Left)
		x.Right = foldExpr(x.Right)
		lv, lok := constValue(x.Left)
		rv, rok := constValue(x.Right)
		if !lok || !rok {
			return x
		}
		result, err := evalBinary(x.Op, lv, rv)
		if err != nil {
			panic(sourceerr.New(x.OpSpan, "%s", err.Error()))
		}
		return valueToExpr(result, x.OpSpan)

	case *hir.UnaryExpr:
		x.Expr = foldExpr(x.Expr)
		v, ok := constValue(x.Expr)
		if !ok {
			return x
		}
		result, err := evalUnary(x.Op, v)
		if err != nil {
			panic(sourceerr.New(x.OpSpan, "%s", err.Error()))
		}
		return valueToExpr(result, x.OpSpan)

	case *hir.LogicalBinaryExpr:
		x.Left = doBoolExpr(x.Left)
		lv, lok := constValue(x.Left)
		if !lok {
			// l may have side effects and isn't known: don't fold this
			// node, but still recurse into r for its own local folding.
			x.Right = foldExpr(x.Right)
			return x
		}
		lb := lv.UnwrapBool()
		if x.And && !lb {
			return valueToExpr(value.False, x.OpSpan)
		}
		if !x.And && lb {
			return valueToExpr(value.True, x.OpSpan)
		}
		x.Right = doBoolExpr(x.Right)
		if rv, ok := constValue(x.Right); ok {
			return valueToExpr(rv, x.OpSpan)
		}
		return x

	case *hir.CallExpr:
		x.Callee = foldExpr(x.Callee)
		for i, arg := range x.Args {
			x.Args[i] = foldExpr(arg)
		}
		loadBuiltin, ok := x.Callee.(*hir.LoadBuiltinExpr)
		if !ok {
			return x
		}
		id := builtin.ID(loadBuiltin.Builtin)
		if !id.Pure() {
			return x
		}
		args := make([]value.Value, len(x.Args))
		for i, arg := range x.Args {
			v, ok := constValue(arg)
			if !ok {
				return x
			}
			args[i] = v
		}
		result, err := id.EvalConst(args)
		if err != nil {
			panic(sourceerr.New(x.Span, "%s", err.Error()))
		}
		return valueToExpr(result, x.Span)

	case *hir.GetItemExpr:
		x.Array = foldExpr(x.Array)
		x.Index = foldExpr(x.Index)
		av, aok := constValue(x.Array)
		iv, iok := constValue(x.Index)
		if !aok || !iok {
			return x
		}
		result, err := av.GetItem(iv)
		if err != nil {
			panic(sourceerr.New(x.Span, "%s", err.Error()))
		}
		return valueToExpr(result, x.Span)

	case *hir.MakeListExpr:
		for i, elem := range x.Elements {
			x.Elements[i] = foldExpr(elem)
		}
		return x

	default:
		// ConstBool/Int/Float/String/Null, LoadBuiltin, LoadGlobal,
		// LoadLocal are all opaque to folding.
		return e
	}
}

// constValue reports whether e is already one of the five primitive
// constant-literal HIR node kinds, returning its runtime Value if so.
func constValue(e hir.Expr) (value.Value, bool) {
	switch x := e.(type) {
	case *hir.ConstNullExpr:
		return value.Null, true
	case *hir.ConstBoolExpr:
		return value.FromBool(x.Value), true
	case *hir.ConstIntExpr:
		return value.FromInt(x.Value), true
	case *hir.ConstFloatExpr:
		return value.FromFloat(x.Value), true
	case *hir.ConstStringExpr:
		return value.FromString(x.Value), true
	default:
		return value.Value{}, false
	}
}

// valueToExpr installs v as a constant-literal HIR node. It must never
// be called with a List or Function value (neither is ever produced by
// constValue, so this holds by construction).
func valueToExpr(v value.Value, span source.Span) hir.Expr {
	switch v.Kind() {
	case value.KindNull:
		return &hir.ConstNullExpr{Span: span}
	case value.KindBool:
		return &hir.ConstBoolExpr{Value: v.UnwrapBool(), Span: span}
	case value.KindInt:
		return &hir.ConstIntExpr{Value: v.UnwrapInt(), Span: span}
	case value.KindFloat:
		return &hir.ConstFloatExpr{Value: v.UnwrapFloat(), Span: span}
	case value.KindString:
		return &hir.ConstStringExpr{Value: v.UnwrapString(), Span: span}
	default:
		panic(sourceerr.New(span, "internal error: cannot fold a %s constant", v.Kind()))
	}
}

func evalBinary(op hir.BinaryOp, l, r value.Value) (value.Value, error) {
	switch op {
	case hir.OpAdd:
		return l.Add(r)
	case hir.OpSub:
		return l.Sub(r)
	case hir.OpMul:
		return l.Mul(r)
	case hir.OpDiv:
		return l.Div(r)
	case hir.OpMod:
		return l.Rem(r)
	case hir.OpEq:
		return l.Eq(r)
	case hir.OpNe:
		return l.Ne(r)
	case hir.OpLt:
		return l.Lt(r)
	case hir.OpLe:
		return l.Le(r)
	case hir.OpGt:
		return l.Gt(r)
	case hir.OpGe:
		return l.Ge(r)
	default:
		return value.Value{}, sourceerr.New(source.Span{}, "unknown binary operator")
	}
}

func evalUnary(op hir.UnaryOp, v value.Value) (value.Value, error) {
	switch op {
	case hir.OpNeg:
		return v.Negate()
	case hir.OpNot:
		return v.Not()
	default:
		return value.Value{}, sourceerr.New(source.Span{}, "unknown unary operator")
	}
}
