package analyzer

import (
	"github.com/informatter/natrix/ast"
	"github.com/informatter/natrix/hir"
	"github.com/informatter/natrix/sourceerr"
	"github.com/informatter/natrix/token"
)

func (a *analyzer) lowerStmt(s ast.Stmt) hir.Stmt {
	return s.Accept(a).(hir.Stmt)
}

func (a *analyzer) lowerExpr(e ast.Expression) hir.Expr {
	return e.Accept(a).(hir.Expr)
}

// ---- statements ----

func (a *analyzer) VisitBlockStmt(b ast.BlockStmt) any {
	a.pushScope(scopeBlock)
	stmts := a.lowerStmtList(b.Statements)
	a.popScope()
	return &hir.Block{Stmts: stmts}
}

func (a *analyzer) VisitVarStmt(v ast.VarStmt) any {
	init := a.lowerExpr(v.Initializer)
	name := a.ctx.Interner.Intern(v.Name.Lexeme)
	id := a.fn.declareLocal(name, v.Name.Span, hir.LocalKind{})
	if !a.currentScope().declare(name, symbol{kind: symLocal, local: id}) {
		panic(sourceerr.New(v.Name.Span, "'%s' is already declared in this scope", v.Name.Lexeme))
	}
	return &hir.VarDeclStmt{Local: id, Init: init, Span: v.Name.Span}
}

func (a *analyzer) VisitIfStmt(s ast.IfStmt) any {
	cond := a.lowerExpr(s.Condition)
	then := a.lowerStmt(s.ThenBranch)
	var elseBranch hir.Stmt
	if s.ElseBranch != nil {
		elseBranch = a.lowerStmt(s.ElseBranch)
	}
	return &hir.IfStmt{Cond: cond, Then: then, Else: elseBranch, Span: s.Keyword.Span}
}

func (a *analyzer) VisitWhileStmt(s ast.WhileStmt) any {
	loopID := a.fn.pushLoop()
	cond := a.lowerExpr(s.Condition)
	body := a.lowerStmt(s.Body)
	a.fn.popLoop()
	return &hir.WhileStmt{Loop: loopID, Cond: cond, Body: body, Span: s.Keyword.Span}
}

func (a *analyzer) VisitBreakStmt(s ast.BreakStmt) any {
	id, ok := a.fn.innermostLoop()
	if !ok {
		panic(sourceerr.New(s.Keyword.Span, "'break' outside of a loop"))
	}
	return &hir.BreakStmt{Loop: id, Span: s.Keyword.Span}
}

func (a *analyzer) VisitContinueStmt(s ast.ContinueStmt) any {
	id, ok := a.fn.innermostLoop()
	if !ok {
		panic(sourceerr.New(s.Keyword.Span, "'continue' outside of a loop"))
	}
	return &hir.ContinueStmt{Loop: id, Span: s.Keyword.Span}
}

func (a *analyzer) VisitReturnStmt(s ast.ReturnStmt) any {
	var expr hir.Expr
	if s.Value != nil {
		expr = a.lowerExpr(s.Value)
	} else {
		expr = &hir.ConstNullExpr{Span: s.Keyword.Span}
	}
	return &hir.ReturnStmt{Expr: expr, Span: s.Keyword.Span}
}

func (a *analyzer) VisitFuncDecl(d ast.FuncDecl) any {
	panic(sourceerr.New(d.Name.Span, "nested function declarations are not supported"))
}

// VisitExpressionStmt special-cases the two forms of assignment (plain
// identifier and index) so they lower directly to StoreLocal/
// StoreGlobal/SetItem rather than a general expression evaluated for
// its (nonexistent) HIR value form. Any other expression is compiled
// and its result discarded (spec §4.6 Expr statement: "compile, emit
// Pop").
func (a *analyzer) VisitExpressionStmt(e ast.ExpressionStmt) any {
	switch v := e.Expression.(type) {
	case ast.Assign:
		value := a.lowerExpr(v.Value)
		sym := a.resolve(v.Name)
		switch sym.kind {
		case symLocal:
			return &hir.StoreLocalStmt{Local: sym.local, Value: value, Span: v.Name.Span}
		case symGlobal:
			return &hir.StoreGlobalStmt{Global: sym.global, Value: value, Span: v.Name.Span}
		default:
			panic(sourceerr.New(v.Name.Span, "cannot assign to builtin '%s'", v.Name.Lexeme))
		}
	case ast.IndexSet:
		array := a.lowerExpr(v.Array)
		index := a.lowerExpr(v.Index)
		value := a.lowerExpr(v.Value)
		return &hir.SetItemStmt{Array: array, Index: index, Value: value, Span: v.Bracket.Span}
	default:
		expr := a.lowerExpr(e.Expression)
		return &hir.ExprStmt{Expr: expr, Span: hir.Span(expr)}
	}
}

// ---- expressions ----

func (a *analyzer) VisitLiteral(lit ast.Literal) any {
	span := lit.Span.Span
	switch v := lit.Value.(type) {
	case nil:
		return &hir.ConstNullExpr{Span: span}
	case bool:
		return &hir.ConstBoolExpr{Value: v, Span: span}
	case int64:
		return &hir.ConstIntExpr{Value: v, Span: span}
	case float64:
		return &hir.ConstFloatExpr{Value: v, Span: span}
	case string:
		return &hir.ConstStringExpr{Value: v, Span: span}
	default:
		panic(sourceerr.New(span, "unsupported literal"))
	}
}

func (a *analyzer) VisitGrouping(g ast.Grouping) any {
	return a.lowerExpr(g.Expression)
}

func (a *analyzer) VisitVariableExpression(v ast.Variable) any {
	sym := a.resolve(v.Name)
	switch sym.kind {
	case symBuiltin:
		return &hir.LoadBuiltinExpr{Builtin: int(sym.builtinID), Span: v.Name.Span}
	case symGlobal:
		return &hir.LoadGlobalExpr{Global: sym.global, Span: v.Name.Span}
	default:
		return &hir.LoadLocalExpr{Local: sym.local, Span: v.Name.Span}
	}
}

func (a *analyzer) VisitAssignExpression(assign ast.Assign) any {
	panic(sourceerr.New(assign.Name.Span, "assignment is only supported as a standalone statement"))
}

func (a *analyzer) VisitIndexSetExpression(indexSet ast.IndexSet) any {
	panic(sourceerr.New(indexSet.Bracket.Span, "index assignment is only supported as a standalone statement"))
}

func (a *analyzer) VisitLogicalExpression(l ast.Logical) any {
	left := a.lowerExpr(l.Left)
	right := a.lowerExpr(l.Right)
	return &hir.LogicalBinaryExpr{And: l.Operator.TokenType == token.AND, OpSpan: l.Operator.Span, Left: left, Right: right}
}

func (a *analyzer) VisitBinary(b ast.Binary) any {
	left := a.lowerExpr(b.Left)
	right := a.lowerExpr(b.Right)
	op, ok := binaryOps[b.Operator.TokenType]
	if !ok {
		panic(sourceerr.New(b.Operator.Span, "operator '%s' is not a valid binary operator", b.Operator.Lexeme))
	}
	return &hir.BinaryExpr{Op: op, OpSpan: b.Operator.Span, Left: left, Right: right}
}

var binaryOps = map[token.TokenType]hir.BinaryOp{
	token.ADD:          hir.OpAdd,
	token.SUB:          hir.OpSub,
	token.MULT:         hir.OpMul,
	token.DIV:          hir.OpDiv,
	token.MOD:          hir.OpMod,
	token.EQUAL_EQUAL:  hir.OpEq,
	token.NOT_EQUAL:    hir.OpNe,
	token.LESS:         hir.OpLt,
	token.LESS_EQUAL:   hir.OpLe,
	token.LARGER:       hir.OpGt,
	token.LARGER_EQUAL: hir.OpGe,
}

func (a *analyzer) VisitUnary(u ast.Unary) any {
	expr := a.lowerExpr(u.Right)
	switch u.Operator.TokenType {
	case token.SUB:
		return &hir.UnaryExpr{Op: hir.OpNeg, OpSpan: u.Operator.Span, Expr: expr}
	case token.BANG:
		return &hir.UnaryExpr{Op: hir.OpNot, OpSpan: u.Operator.Span, Expr: expr}
	default:
		panic(sourceerr.New(u.Operator.Span, "operator '%s' is not a valid unary operator", u.Operator.Lexeme))
	}
}

func (a *analyzer) VisitCallExpression(call ast.Call) any {
	callee := a.lowerExpr(call.Callee)
	args := make([]hir.Expr, len(call.Args))
	for i, arg := range call.Args {
		args[i] = a.lowerExpr(arg)
	}
	return &hir.CallExpr{Callee: callee, Args: args, Span: call.Paren.Span}
}

func (a *analyzer) VisitListExpression(list ast.List) any {
	elems := make([]hir.Expr, len(list.Elements))
	for i, e := range list.Elements {
		elems[i] = a.lowerExpr(e)
	}
	return &hir.MakeListExpr{Elements: elems, Span: list.Bracket.Span}
}

func (a *analyzer) VisitIndexGetExpression(g ast.IndexGet) any {
	array := a.lowerExpr(g.Array)
	index := a.lowerExpr(g.Index)
	return &hir.GetItemExpr{Array: array, Index: index, Span: g.Bracket.Span}
}
