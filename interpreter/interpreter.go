// Package interpreter is the tree-walking executable reference
// semantics: it runs a parsed ast.Program directly, independently
// re-deriving name resolution and control flow rather than consuming
// the analyzer's HIR, so it stands as a genuinely separate
// implementation to check the bytecode VM's output against (spec §8
// "Reference-semantics equivalence").
//
// Grounded on the teacher's interpreter.go/environment.go (the Visitor-
// driven walk and the Environment binding scheme), extended to operate
// on value.Value instead of raw `any` and to support the full language:
// functions, lists, indexing, while/break/continue, and logical
// short-circuiting.
package interpreter

import (
	"github.com/informatter/natrix/ast"
	"github.com/informatter/natrix/builtin"
	"github.com/informatter/natrix/rterr"
	"github.com/informatter/natrix/source"
	"github.com/informatter/natrix/token"
	"github.com/informatter/natrix/value"
)

// control-flow signals are panicked and recovered at the statement
// level that can handle them, the same convention the teacher's
// VisitBlockStmt already used for error propagation.
type returnSignal struct{ value value.Value }
type breakSignal struct{}
type continueSignal struct{}

// Interpreter executes one ast.Program. Functions are resolved by name
// through descriptors (covering both builtins and top-level
// declarations); only ordinary local variables live in an Environment.
type Interpreter struct {
	functions   map[string]ast.FuncDecl
	descriptors map[string]value.Value
	builtins    *builtin.Context
	env         *Environment
}

// New builds an Interpreter for program, checking for duplicate
// top-level declarations the same way the analyzer does, but
// independently.
func New(program ast.Program, builtins *builtin.Context) (*Interpreter, error) {
	i := &Interpreter{
		functions:   make(map[string]ast.FuncDecl),
		descriptors: make(map[string]value.Value),
		builtins:    builtins,
	}
	for _, id := range builtin.All {
		i.descriptors[id.Name()] = value.FromFunction(id.AsFunction())
	}
	for _, fn := range program.Functions {
		if _, exists := i.functions[fn.Name.Lexeme]; exists {
			return nil, rterr.New("duplicate top-level declaration '%s'", fn.Name.Lexeme)
		}
		i.functions[fn.Name.Lexeme] = fn
		i.descriptors[fn.Name.Lexeme] = value.FromFunction(&value.Function{
			Kind:       value.FuncUserDefined,
			Name:       fn.Name.Lexeme,
			ParamCount: len(fn.Params),
		})
	}
	return i, nil
}

// Run calls main with args and returns its result or the first error
// encountered.
func (i *Interpreter) Run(args []value.Value) (result value.Value, err error) {
	main, ok := i.functions["main"]
	if !ok {
		return value.Value{}, rterr.New("program has no 'main' function")
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*rterr.Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return i.callUserFunction(main, args)
}

func (i *Interpreter) callUserFunction(fn ast.FuncDecl, args []value.Value) (result value.Value, err error) {
	if len(fn.Params) != len(args) {
		return value.Value{}, rterr.New("%s expects %d argument(s), got %d", fn.Name.Lexeme, len(fn.Params), len(args))
	}
	prevEnv := i.env
	i.env = newEnvironment(nil)
	for idx, p := range fn.Params {
		i.env.define(p.Lexeme, args[idx])
	}
	defer func() {
		i.env = prevEnv
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result, err = rs.value, nil
				return
			}
			panic(r)
		}
	}()
	i.execStmts(fn.Body)
	return value.Null, nil
}

// call dispatches a value as a callee, builtin or user-defined.
func (i *Interpreter) call(callee value.Value, args []value.Value, span source.Span) (value.Value, error) {
	if !callee.IsFunction() {
		return value.Value{}, rterr.New("value is not callable: %s", callee.Kind()).WithSpan(span)
	}
	fn := callee.UnwrapFunction()
	if fn.ParamCount != len(args) {
		return value.Value{}, rterr.New("%s expects %d argument(s), got %d", fn.Name, fn.ParamCount, len(args)).WithSpan(span)
	}
	switch fn.Kind {
	case value.FuncBuiltin:
		result, err := i.builtins.Dispatch(builtin.ID(fn.BuiltinID), args)
		if err != nil {
			if re, ok := err.(*rterr.Error); ok {
				return value.Value{}, re.WithSpan(span)
			}
			return value.Value{}, rterr.New("%s", err.Error()).WithSpan(span)
		}
		return result, nil
	default:
		decl := i.functions[fn.Name]
		return i.callUserFunction(decl, args)
	}
}

// ---- statements ----

func (i *Interpreter) execStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		i.execStmt(s)
	}
}

func (i *Interpreter) execStmt(s ast.Stmt) {
	s.Accept(i)
}

func (i *Interpreter) VisitBlockStmt(b ast.BlockStmt) any {
	prev := i.env
	i.env = newEnvironment(prev)
	i.execStmts(b.Statements)
	i.env = prev
	return nil
}

func (i *Interpreter) VisitVarStmt(v ast.VarStmt) any {
	val := i.eval(v.Initializer)
	if !i.env.define(v.Name.Lexeme, val) {
		panic(rterr.New("'%s' is already declared in this scope", v.Name.Lexeme).WithSpan(v.Name.Span))
	}
	return nil
}

func (i *Interpreter) VisitIfStmt(s ast.IfStmt) any {
	if i.evalBool(s.Condition) {
		i.execStmt(s.ThenBranch)
	} else if s.ElseBranch != nil {
		i.execStmt(s.ElseBranch)
	}
	return nil
}

func (i *Interpreter) VisitWhileStmt(s ast.WhileStmt) any {
	for i.evalBool(s.Condition) {
		if !i.runLoopBody(s.Body) {
			break
		}
	}
	return nil
}

// runLoopBody executes one iteration of a while body, reporting
// whether the loop should continue (false means a break fired).
func (i *Interpreter) runLoopBody(body ast.Stmt) (keepGoing bool) {
	keepGoing = true
	defer func() {
		if r := recover(); r != nil {
			switch r.(type) {
			case breakSignal:
				keepGoing = false
				return
			case continueSignal:
				return
			default:
				panic(r)
			}
		}
	}()
	i.execStmt(body)
	return
}

func (i *Interpreter) VisitBreakStmt(s ast.BreakStmt) any {
	panic(breakSignal{})
}

func (i *Interpreter) VisitContinueStmt(s ast.ContinueStmt) any {
	panic(continueSignal{})
}

func (i *Interpreter) VisitReturnStmt(s ast.ReturnStmt) any {
	var v value.Value = value.Null
	if s.Value != nil {
		v = i.eval(s.Value)
	}
	panic(returnSignal{value: v})
}

func (i *Interpreter) VisitFuncDecl(d ast.FuncDecl) any {
	panic(rterr.New("nested function declarations are not supported").WithSpan(d.Name.Span))
}

// VisitExpressionStmt special-cases assignment to a name or an index,
// same restriction the bytecode path enforces: assignment is only
// meaningful as a standalone statement.
func (i *Interpreter) VisitExpressionStmt(e ast.ExpressionStmt) any {
	switch v := e.Expression.(type) {
	case ast.Assign:
		val := i.eval(v.Value)
		if !i.env.assign(v.Name.Lexeme, val) {
			if _, isFn := i.descriptors[v.Name.Lexeme]; isFn {
				panic(rterr.New("cannot assign to builtin or function '%s'", v.Name.Lexeme).WithSpan(v.Name.Span))
			}
			panic(rterr.New("undeclared identifier '%s'", v.Name.Lexeme).WithSpan(v.Name.Span))
		}
	case ast.IndexSet:
		array := i.eval(v.Array)
		index := i.eval(v.Index)
		val := i.eval(v.Value)
		if err := array.SetItem(index, val); err != nil {
			panic(asRterr(err).WithSpan(v.Bracket.Span))
		}
	default:
		i.eval(e.Expression)
	}
	return nil
}

// ---- expressions ----

func (i *Interpreter) eval(e ast.Expression) value.Value {
	return e.Accept(i).(value.Value)
}

// evalBool evaluates e and requires the result to be a bool, matching
// the bytecode path's lack of implicit truthiness.
func (i *Interpreter) evalBool(e ast.Expression) bool {
	v := i.eval(e)
	if !v.IsBool() {
		panic(rterr.New("condition must be a bool, got %s", v.Kind()))
	}
	return v.UnwrapBool()
}

func (i *Interpreter) VisitLiteral(lit ast.Literal) any {
	switch v := lit.Value.(type) {
	case nil:
		return value.Null
	case bool:
		return value.FromBool(v)
	case int64:
		return value.FromInt(v)
	case float64:
		return value.FromFloat(v)
	case string:
		return value.FromString(v)
	default:
		panic(rterr.New("unsupported literal"))
	}
}

func (i *Interpreter) VisitGrouping(g ast.Grouping) any {
	return i.eval(g.Expression)
}

func (i *Interpreter) VisitVariableExpression(v ast.Variable) any {
	if val, ok := i.env.get(v.Name.Lexeme); ok {
		return val
	}
	if val, ok := i.descriptors[v.Name.Lexeme]; ok {
		return val
	}
	panic(rterr.New("undeclared identifier '%s'", v.Name.Lexeme).WithSpan(v.Name.Span))
}

func (i *Interpreter) VisitAssignExpression(assign ast.Assign) any {
	panic(rterr.New("assignment is only supported as a standalone statement").WithSpan(assign.Name.Span))
}

func (i *Interpreter) VisitIndexSetExpression(indexSet ast.IndexSet) any {
	panic(rterr.New("index assignment is only supported as a standalone statement").WithSpan(indexSet.Bracket.Span))
}

func (i *Interpreter) VisitLogicalExpression(l ast.Logical) any {
	left := i.evalBool(l.Left)
	if l.Operator.TokenType == token.AND {
		if !left {
			return value.False
		}
		return value.FromBool(i.evalBool(l.Right))
	}
	if left {
		return value.True
	}
	return value.FromBool(i.evalBool(l.Right))
}

func (i *Interpreter) VisitBinary(b ast.Binary) any {
	left := i.eval(b.Left)
	right := i.eval(b.Right)
	result, err := evalBinary(b.Operator.TokenType, left, right)
	if err != nil {
		panic(asRterr(err).WithSpan(b.Operator.Span))
	}
	return result
}

func evalBinary(op token.TokenType, l, r value.Value) (value.Value, error) {
	switch op {
	case token.ADD:
		return l.Add(r)
	case token.SUB:
		return l.Sub(r)
	case token.MULT:
		return l.Mul(r)
	case token.DIV:
		return l.Div(r)
	case token.MOD:
		return l.Rem(r)
	case token.EQUAL_EQUAL:
		return l.Eq(r)
	case token.NOT_EQUAL:
		return l.Ne(r)
	case token.LESS:
		return l.Lt(r)
	case token.LESS_EQUAL:
		return l.Le(r)
	case token.LARGER:
		return l.Gt(r)
	case token.LARGER_EQUAL:
		return l.Ge(r)
	default:
		return value.Value{}, rterr.New("operator '%s' is not a valid binary operator", op)
	}
}

func (i *Interpreter) VisitUnary(u ast.Unary) any {
	right := i.eval(u.Right)
	var result value.Value
	var err error
	switch u.Operator.TokenType {
	case token.SUB:
		result, err = right.Negate()
	case token.BANG:
		result, err = right.Not()
	default:
		err = rterr.New("operator '%s' is not a valid unary operator", u.Operator.Lexeme)
	}
	if err != nil {
		panic(asRterr(err).WithSpan(u.Operator.Span))
	}
	return result
}

func (i *Interpreter) VisitCallExpression(call ast.Call) any {
	callee := i.eval(call.Callee)
	args := make([]value.Value, len(call.Args))
	for idx, a := range call.Args {
		args[idx] = i.eval(a)
	}
	result, err := i.call(callee, args, call.Paren.Span)
	if err != nil {
		panic(err)
	}
	return result
}

func (i *Interpreter) VisitListExpression(list ast.List) any {
	elems := make([]value.Value, len(list.Elements))
	for idx, e := range list.Elements {
		elems[idx] = i.eval(e)
	}
	return value.FromList(elems)
}

func (i *Interpreter) VisitIndexGetExpression(g ast.IndexGet) any {
	array := i.eval(g.Array)
	index := i.eval(g.Index)
	result, err := array.GetItem(index)
	if err != nil {
		panic(asRterr(err).WithSpan(g.Bracket.Span))
	}
	return result
}

func asRterr(err error) *rterr.Error {
	if re, ok := err.(*rterr.Error); ok {
		return re
	}
	return rterr.New("%s", err.Error())
}
