package main

import (
	"fmt"
	"strings"

	"github.com/informatter/natrix/compilectx"
	"github.com/informatter/natrix/hir"
)

// dumpHIR renders program as indented s-expression-ish text for
// --dump-hir: one function per block, headed by its resolved name;
// statements and expressions refer to locals and globals by their
// numeric Ids.
func dumpHIR(ctx *compilectx.Context, program *hir.Program) string {
	var b strings.Builder
	for _, g := range program.Globals {
		name := ctx.Interner.Resolve(g.Name)
		if g.ID == hir.GlobalId(program.MainIndex) {
			fmt.Fprintf(&b, "fun %s(%d params) [main]\n", name, g.Func.ParamCount)
		} else {
			fmt.Fprintf(&b, "fun %s(%d params)\n", name, g.Func.ParamCount)
		}
		for _, stmt := range g.Func.Body {
			dumpStmt(&b, stmt, 1)
		}
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpStmt(b *strings.Builder, s hir.Stmt, depth int) {
	switch st := s.(type) {
	case *hir.Block:
		for _, inner := range st.Stmts {
			dumpStmt(b, inner, depth)
		}
	case *hir.VarDeclStmt:
		indent(b, depth)
		fmt.Fprintf(b, "let local%d = %s\n", st.Local, dumpExpr(st.Init))
	case *hir.IfStmt:
		indent(b, depth)
		fmt.Fprintf(b, "if %s\n", dumpExpr(st.Cond))
		dumpStmt(b, st.Then, depth+1)
		if st.Else != nil {
			indent(b, depth)
			b.WriteString("else\n")
			dumpStmt(b, st.Else, depth+1)
		}
	case *hir.WhileStmt:
		indent(b, depth)
		fmt.Fprintf(b, "while loop%d: %s\n", st.Loop, dumpExpr(st.Cond))
		dumpStmt(b, st.Body, depth+1)
	case *hir.BreakStmt:
		indent(b, depth)
		fmt.Fprintf(b, "break loop%d\n", st.Loop)
	case *hir.ContinueStmt:
		indent(b, depth)
		fmt.Fprintf(b, "continue loop%d\n", st.Loop)
	case *hir.ReturnStmt:
		indent(b, depth)
		fmt.Fprintf(b, "return %s\n", dumpExpr(st.Expr))
	case *hir.ExprStmt:
		indent(b, depth)
		fmt.Fprintf(b, "%s\n", dumpExpr(st.Expr))
	case *hir.StoreLocalStmt:
		indent(b, depth)
		fmt.Fprintf(b, "local%d = %s\n", st.Local, dumpExpr(st.Value))
	case *hir.StoreGlobalStmt:
		indent(b, depth)
		fmt.Fprintf(b, "global%d = %s\n", st.Global, dumpExpr(st.Value))
	case *hir.SetItemStmt:
		indent(b, depth)
		fmt.Fprintf(b, "%s[%s] = %s\n", dumpExpr(st.Array), dumpExpr(st.Index), dumpExpr(st.Value))
	}
}

func dumpExpr(e hir.Expr) string {
	switch x := e.(type) {
	case *hir.ConstNullExpr:
		return "null"
	case *hir.ConstBoolExpr:
		return fmt.Sprintf("%t", x.Value)
	case *hir.ConstIntExpr:
		return fmt.Sprintf("%d", x.Value)
	case *hir.ConstFloatExpr:
		return fmt.Sprintf("%g", x.Value)
	case *hir.ConstStringExpr:
		return fmt.Sprintf("%q", x.Value)
	case *hir.LoadLocalExpr:
		return fmt.Sprintf("local%d", x.Local)
	case *hir.LoadGlobalExpr:
		return fmt.Sprintf("global%d", x.Global)
	case *hir.LoadBuiltinExpr:
		return fmt.Sprintf("builtin%d", x.Builtin)
	case *hir.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", dumpExpr(x.Left), binaryOpName(x.Op), dumpExpr(x.Right))
	case *hir.LogicalBinaryExpr:
		op := "||"
		if x.And {
			op = "&&"
		}
		return fmt.Sprintf("(%s %s %s)", dumpExpr(x.Left), op, dumpExpr(x.Right))
	case *hir.UnaryExpr:
		if x.Op == hir.OpNeg {
			return fmt.Sprintf("(-%s)", dumpExpr(x.Expr))
		}
		return fmt.Sprintf("(!%s)", dumpExpr(x.Expr))
	case *hir.CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = dumpExpr(a)
		}
		return fmt.Sprintf("%s(%s)", dumpExpr(x.Callee), strings.Join(args, ", "))
	case *hir.GetItemExpr:
		return fmt.Sprintf("%s[%s]", dumpExpr(x.Array), dumpExpr(x.Index))
	case *hir.MakeListExpr:
		elems := make([]string, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = dumpExpr(el)
		}
		return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
	default:
		return "?"
	}
}

func binaryOpName(op hir.BinaryOp) string {
	switch op {
	case hir.OpAdd:
		return "+"
	case hir.OpSub:
		return "-"
	case hir.OpMul:
		return "*"
	case hir.OpDiv:
		return "/"
	case hir.OpMod:
		return "%"
	case hir.OpEq:
		return "=="
	case hir.OpNe:
		return "!="
	case hir.OpLt:
		return "<"
	case hir.OpLe:
		return "<="
	case hir.OpGt:
		return ">"
	case hir.OpGe:
		return ">="
	default:
		return "?"
	}
}
