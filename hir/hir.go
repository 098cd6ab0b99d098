// Package hir defines the high-level intermediate representation
// produced by the semantic analyzer: a post-resolution tree in which
// every name reference has been classified as builtin, global, or
// local, and every loop-exit statement is bound to a dense LoopId.
//
// Grounded on natrix-compiler/src/hir/mod.rs. Unlike the surface ast
// package (which is walked by a Visitor per spec_full's ambient-stack
// note on preserving the teacher's pattern for multi-consumer surface
// syntax), HIR is consumed by exactly two passes — the constant folder
// and the bytecode compiler — so it is modeled as a small sealed
// interface with a type switch in each consumer, the more idiomatic
// shape for a single-owner internal IR.
package hir

import (
	"github.com/informatter/natrix/interner"
	"github.com/informatter/natrix/source"
)

// GlobalId, LocalId, and LoopId are dense, zero-based per-program (or
// per-function, for LocalId/LoopId) indices assigned by the analyzer.
type GlobalId int
type LocalId int
type LoopId int

// Program is an ordered list of top-level declarations.
type Program struct {
	Globals []GlobalInfo
	// MainIndex is the index into Globals of the function named "main",
	// resolved once analysis completes.
	MainIndex int
}

// GlobalKind distinguishes the (currently singular) variety of
// top-level declaration. Modeled as an enum rather than collapsed into
// GlobalInfo directly so additional global kinds (e.g. constants) can
// be added without reshaping every consumer's switch.
type GlobalKind int

const (
	GlobalFunction GlobalKind = iota
)

type GlobalInfo struct {
	ID       GlobalId
	Name     interner.Name
	NameSpan source.Span
	Kind     GlobalKind
	Func     *FunDecl // set when Kind == GlobalFunction
}

// LocalKind classifies a function-local slot as a parameter (carrying
// its zero-based declaration index) or an ordinary local variable.
type LocalKind struct {
	IsParameter bool
	ParamIndex  int
}

type LocalInfo struct {
	ID       LocalId
	Name     interner.Name
	NameSpan source.Span
	Kind     LocalKind
}

// FunDecl is a lowered function: ParamCount parameters followed by
// zero or more declared locals, both drawn from the same dense Locals
// table (invariant: the first ParamCount entries are the parameters,
// in declaration order), and a body.
type FunDecl struct {
	ParamCount int
	Locals     []LocalInfo
	Body       []Stmt
}

// BinaryOp enumerates the arithmetic and comparison operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

// ---- Statements ----

type Stmt interface{ isStmt() }

type Block struct {
	Stmts []Stmt
}

type BreakStmt struct {
	Loop LoopId
	Span source.Span
}

type ContinueStmt struct {
	Loop LoopId
	Span source.Span
}

type ExprStmt struct {
	Expr Expr
	Span source.Span
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
	Span source.Span
}

type ReturnStmt struct {
	Expr Expr
	Span source.Span
}

type SetItemStmt struct {
	Array Expr
	Index Expr
	Value Expr
	Span  source.Span
}

type StoreGlobalStmt struct {
	Global GlobalId
	Value  Expr
	Span   source.Span
}

type StoreLocalStmt struct {
	Local LocalId
	Value Expr
	Span  source.Span
}

type VarDeclStmt struct {
	Local LocalId
	Init  Expr
	Span  source.Span
}

type WhileStmt struct {
	Loop LoopId
	Cond Expr
	Body Stmt
	Span source.Span
}

func (*Block) isStmt()           {}
func (*BreakStmt) isStmt()       {}
func (*ContinueStmt) isStmt()    {}
func (*ExprStmt) isStmt()        {}
func (*IfStmt) isStmt()          {}
func (*ReturnStmt) isStmt()      {}
func (*SetItemStmt) isStmt()     {}
func (*StoreGlobalStmt) isStmt() {}
func (*StoreLocalStmt) isStmt()  {}
func (*VarDeclStmt) isStmt()     {}
func (*WhileStmt) isStmt()       {}

// ---- Expressions ----

type Expr interface{ isExpr() }

type BinaryExpr struct {
	Op     BinaryOp
	OpSpan source.Span
	Left   Expr
	Right  Expr
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Span   source.Span
}

type ConstBoolExpr struct {
	Value bool
	Span  source.Span
}

type ConstIntExpr struct {
	Value int64
	Span  source.Span
}

type ConstFloatExpr struct {
	Value float64
	Span  source.Span
}

type ConstStringExpr struct {
	Value string
	Span  source.Span
}

type ConstNullExpr struct {
	Span source.Span
}

type GetItemExpr struct {
	Array Expr
	Index Expr
	Span  source.Span
}

type LoadBuiltinExpr struct {
	Builtin int // builtin.ID
	Span    source.Span
}

type LoadGlobalExpr struct {
	Global GlobalId
	Span   source.Span
}

type LoadLocalExpr struct {
	Local LocalId
	Span  source.Span
}

// LogicalBinaryExpr is `&&`/`||`. And is true for `&&`, false for `||`.
type LogicalBinaryExpr struct {
	And    bool
	OpSpan source.Span
	Left   Expr
	Right  Expr
}

type MakeListExpr struct {
	Elements []Expr
	Span     source.Span
}

type UnaryExpr struct {
	Op     UnaryOp
	OpSpan source.Span
	Expr   Expr
}

func (*BinaryExpr) isExpr()        {}
func (*CallExpr) isExpr()          {}
func (*ConstBoolExpr) isExpr()     {}
func (*ConstIntExpr) isExpr()      {}
func (*ConstFloatExpr) isExpr()    {}
func (*ConstStringExpr) isExpr()   {}
func (*ConstNullExpr) isExpr()     {}
func (*GetItemExpr) isExpr()       {}
func (*LoadBuiltinExpr) isExpr()   {}
func (*LoadGlobalExpr) isExpr()    {}
func (*LoadLocalExpr) isExpr()     {}
func (*LogicalBinaryExpr) isExpr() {}
func (*MakeListExpr) isExpr()      {}
func (*UnaryExpr) isExpr()         {}

// Span returns the source span of any expression, used uniformly by
// the folder and compiler without a type switch at every call site.
func Span(e Expr) source.Span {
	switch x := e.(type) {
	case *BinaryExpr:
		return x.OpSpan
	case *CallExpr:
		return x.Span
	case *ConstBoolExpr:
		return x.Span
	case *ConstIntExpr:
		return x.Span
	case *ConstFloatExpr:
		return x.Span
	case *ConstStringExpr:
		return x.Span
	case *ConstNullExpr:
		return x.Span
	case *GetItemExpr:
		return x.Span
	case *LoadBuiltinExpr:
		return x.Span
	case *LoadGlobalExpr:
		return x.Span
	case *LoadLocalExpr:
		return x.Span
	case *LogicalBinaryExpr:
		return x.OpSpan
	case *MakeListExpr:
		return x.Span
	case *UnaryExpr:
		return x.OpSpan
	default:
		return source.Span{}
	}
}
