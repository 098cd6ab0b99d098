package bytecode

import (
	"github.com/informatter/natrix/hir"
	"github.com/informatter/natrix/source"
	"github.com/informatter/natrix/value"
)

// funcCompiler lowers one hir.FunDecl's body into the shared Builder's
// instruction stream. Slot assignment (spec §4.6 "Slot assignment"):
// slot 0 is the callee descriptor, slots 1..=param_count are the
// arguments, and each VarDecl claims the next free slot above whatever
// is currently in scope. A block restores used_slots to its entry value
// on exit so sibling blocks can reuse the same slot range; max_slots
// (the high-water mark of slots used beyond the 1+param_count base) only
// ever grows.
type funcCompiler struct {
	b *Builder

	paramCount int
	localSlot  map[hir.LocalId]int

	usedSlots int // absolute height, including the 1+param_count base
	maxSlots  int // high-water mark, relative to 1+param_count

	loopLabels map[hir.LoopId]loopTarget
}

type loopTarget struct {
	breakLabel    Label
	continueLabel Label
}

func newFuncCompiler(b *Builder, fn *hir.FunDecl) *funcCompiler {
	fc := &funcCompiler{
		b:          b,
		paramCount: fn.ParamCount,
		localSlot:  make(map[hir.LocalId]int),
		usedSlots:  1 + fn.ParamCount,
		loopLabels: make(map[hir.LoopId]loopTarget),
	}
	for _, l := range fn.Locals {
		if l.Kind.IsParameter {
			fc.localSlot[l.ID] = 1 + l.Kind.ParamIndex
		}
	}
	return fc
}

func (fc *funcCompiler) bumpSlots(n int) {
	if n > fc.maxSlots {
		fc.maxSlots = n
	}
}

func (fc *funcCompiler) compileStmts(stmts []hir.Stmt) {
	for _, s := range stmts {
		fc.compileStmt(s)
	}
}

func (fc *funcCompiler) compileStmt(s hir.Stmt) {
	switch st := s.(type) {
	case *hir.Block:
		save := fc.usedSlots
		fc.compileStmts(st.Stmts)
		fc.usedSlots = save

	case *hir.VarDeclStmt:
		fc.compileExpr(st.Init)
		slot := fc.usedSlots
		fc.usedSlots++
		fc.bumpSlots(fc.usedSlots - (1 + fc.paramCount))
		fc.localSlot[st.Local] = slot
		fc.b.StoreLocal(slot)

	case *hir.IfStmt:
		lTrue := fc.b.NewLabel()
		lFalse := fc.b.NewLabel()
		fc.doCond(st.Cond, lTrue, lFalse, false)
		fc.b.DefineLabel(lTrue)
		fc.compileStmt(st.Then)
		if st.Else != nil {
			lEnd := fc.b.NewLabel()
			fc.b.Jmp(lEnd)
			fc.b.DefineLabel(lFalse)
			fc.compileStmt(st.Else)
			fc.b.DefineLabel(lEnd)
		} else {
			fc.b.DefineLabel(lFalse)
		}

	case *hir.WhileStmt:
		lHead := fc.b.NewLabel()
		lBody := fc.b.NewLabel()
		lExit := fc.b.NewLabel()
		fc.loopLabels[st.Loop] = loopTarget{breakLabel: lExit, continueLabel: lHead}
		fc.b.DefineLabel(lHead)
		fc.doCond(st.Cond, lBody, lExit, false)
		fc.b.DefineLabel(lBody)
		fc.compileStmt(st.Body)
		fc.b.Jmp(lHead)
		fc.b.DefineLabel(lExit)

	case *hir.BreakStmt:
		fc.b.Jmp(fc.loopLabels[st.Loop].breakLabel)

	case *hir.ContinueStmt:
		fc.b.Jmp(fc.loopLabels[st.Loop].continueLabel)

	case *hir.ReturnStmt:
		fc.compileExpr(st.Expr)
		fc.b.Ret()

	case *hir.ExprStmt:
		fc.compileExpr(st.Expr)
		fc.b.Pop()

	case *hir.StoreLocalStmt:
		fc.compileExpr(st.Value)
		fc.b.StoreLocal(fc.localSlot[st.Local])

	case *hir.StoreGlobalStmt:
		fc.compileExpr(st.Value)
		fc.b.StoreGlobal(int(st.Global))

	case *hir.SetItemStmt:
		fc.compileExpr(st.Array)
		fc.compileExpr(st.Index)
		fc.compileExpr(st.Value)
		fc.b.SetItem(st.Span)
	}
}

// compileExpr emits code that leaves e's value on top of the stack.
func (fc *funcCompiler) compileExpr(e hir.Expr) {
	switch x := e.(type) {
	case *hir.ConstNullExpr:
		fc.b.PushNull()
	case *hir.ConstBoolExpr:
		if x.Value {
			fc.b.PushTrue()
		} else {
			fc.b.PushFalse()
		}
	case *hir.ConstIntExpr:
		fc.pushInt(x.Value)
	case *hir.ConstFloatExpr:
		fc.b.PushConst(fc.b.AddConstant(value.FromFloat(x.Value)))
	case *hir.ConstStringExpr:
		fc.b.PushConst(fc.b.AddConstant(value.FromString(x.Value)))

	case *hir.LoadLocalExpr:
		slot := fc.localSlot[x.Local]
		if slot == 0 {
			fc.b.Load0()
		} else {
			fc.b.LoadLocal(slot)
		}
	case *hir.LoadGlobalExpr:
		fc.b.LoadGlobal(int(x.Global))
	case *hir.LoadBuiltinExpr:
		fc.b.LoadBuiltin(x.Builtin)

	case *hir.BinaryExpr:
		fc.compileExpr(x.Left)
		fc.compileExpr(x.Right)
		fc.emitBinary(x.Op, x.OpSpan)

	case *hir.UnaryExpr:
		fc.compileExpr(x.Expr)
		if x.Op == hir.OpNeg {
			fc.b.Neg(x.OpSpan)
		} else {
			fc.b.Not(x.OpSpan)
		}

	case *hir.LogicalBinaryExpr:
		lTrue := fc.b.NewLabel()
		lFalse := fc.b.NewLabel()
		lEnd := fc.b.NewLabel()
		fc.doCond(x, lTrue, lFalse, false)
		fc.b.DefineLabel(lTrue)
		fc.b.PushTrue()
		fc.b.Jmp(lEnd)
		fc.b.DefineLabel(lFalse)
		fc.b.PushFalse()
		fc.b.DefineLabel(lEnd)

	case *hir.CallExpr:
		fc.compileExpr(x.Callee)
		for _, arg := range x.Args {
			fc.compileExpr(arg)
		}
		fc.b.Call(len(x.Args), x.Span)

	case *hir.GetItemExpr:
		fc.compileExpr(x.Array)
		fc.compileExpr(x.Index)
		fc.b.GetItem(x.Span)

	case *hir.MakeListExpr:
		for _, elem := range x.Elements {
			fc.compileExpr(elem)
		}
		fc.b.MakeList(len(x.Elements))
	}
}

// pushInt picks the cheapest encoding for an integer literal: the
// dedicated zero/one opcodes, an inline sleb128 literal for anything
// that fits comfortably in 32 bits, or the constants pool for the rest.
func (fc *funcCompiler) pushInt(n int64) {
	switch {
	case n == 0:
		fc.b.Push0()
	case n == 1:
		fc.b.Push1()
	case n >= -(1<<31) && n < (1<<31):
		fc.b.PushInt(n)
	default:
		fc.b.PushConst(fc.b.AddConstant(value.FromInt(n)))
	}
}

func (fc *funcCompiler) emitBinary(op hir.BinaryOp, span source.Span) {
	switch op {
	case hir.OpAdd:
		fc.b.Add(span)
	case hir.OpSub:
		fc.b.Sub(span)
	case hir.OpMul:
		fc.b.Mul(span)
	case hir.OpDiv:
		fc.b.Div(span)
	case hir.OpMod:
		fc.b.Mod(span)
	case hir.OpEq:
		fc.b.Eq(span)
	case hir.OpNe:
		fc.b.Ne(span)
	case hir.OpLt:
		fc.b.Lt(span)
	case hir.OpLe:
		fc.b.Le(span)
	case hir.OpGt:
		fc.b.Gt(span)
	case hir.OpGe:
		fc.b.Ge(span)
	}
}

// doCond compiles e for control flow rather than for its value: it
// falls through to lTrue (which the caller defines immediately
// afterward) when e holds and jumps to lFalse otherwise, fusing
// `!`, `&&`, and `||` directly into the jump graph instead of
// materializing an intermediate bool (spec §4.6).
//
// negate makes doCond compile `!e` instead of e, so a nested `!` only
// flips the flag and allocates no labels of its own.
func (fc *funcCompiler) doCond(e hir.Expr, lTrue, lFalse Label, negate bool) {
	switch x := e.(type) {
	case *hir.UnaryExpr:
		if x.Op == hir.OpNot {
			fc.doCond(x.Expr, lTrue, lFalse, !negate)
			return
		}
		fc.leafCond(e, lFalse, negate)

	case *hir.LogicalBinaryExpr:
		// De Morgan's: negating an `&&` behaves like `||` and vice
		// versa, so the "AND-shaped" branch below applies whenever
		// x.And and negate agree.
		effectiveAnd := x.And != negate
		lRhs := fc.b.NewLabel()
		if effectiveAnd {
			fc.doCond(x.Left, lRhs, lFalse, negate)
			fc.b.DefineLabel(lRhs)
			fc.doCond(x.Right, lTrue, lFalse, negate)
		} else {
			fc.doCond(x.Left, lRhs, lTrue, !negate)
			fc.b.DefineLabel(lRhs)
			fc.doCond(x.Right, lTrue, lFalse, negate)
		}

	default:
		fc.leafCond(e, lFalse, negate)
	}
}

// leafCond compiles e for its value and emits the single conditional
// jump to lFalse, falling through to lTrue (defined by the caller
// immediately afterward).
func (fc *funcCompiler) leafCond(e hir.Expr, lFalse Label, negate bool) {
	fc.compileExpr(e)
	if negate {
		fc.b.JTrue(lFalse)
	} else {
		fc.b.JFalse(lFalse)
	}
}
