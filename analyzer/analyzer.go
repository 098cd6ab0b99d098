package analyzer

import (
	"github.com/informatter/natrix/ast"
	"github.com/informatter/natrix/builtin"
	"github.com/informatter/natrix/compilectx"
	"github.com/informatter/natrix/hir"
	"github.com/informatter/natrix/interner"
	"github.com/informatter/natrix/sourceerr"
	"github.com/informatter/natrix/token"
)

// analyzer holds the state threaded through one Analyze call: the
// always-present builtin and global scopes, the stack of function/block
// scopes currently open, and the funcState of whichever function is
// presently being lowered (nil at the top level, between functions).
type analyzer struct {
	ctx *compilectx.Context

	builtins *scope
	global   *scope

	globals     []hir.GlobalInfo
	globalIndex map[interner.Name]hir.GlobalId

	blocks []*scope // function/block scopes, innermost last
	fn     *funcState
}

// Analyze lowers a parsed program into HIR, resolving every name
// through the lexical scope chain described in spec §4.3. It returns
// the first error encountered; analysis does not continue past it.
func Analyze(ctx *compilectx.Context, program ast.Program) (hirProgram *hir.Program, err error) {
	a := &analyzer{
		ctx:         ctx,
		builtins:    newScope(scopeBuiltin),
		global:      newScope(scopeGlobal),
		globalIndex: make(map[interner.Name]hir.GlobalId),
	}
	for _, id := range builtin.All {
		name, _ := ctx.Interner.Lookup(id.Name())
		a.builtins.names[name] = symbol{kind: symBuiltin, builtinID: id}
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*sourceerr.Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	// Pass 1: declare every top-level function name as a Global so that
	// forward references resolve.
	a.globals = make([]hir.GlobalInfo, len(program.Functions))
	for i, fn := range program.Functions {
		name := a.ctx.Interner.Intern(fn.Name.Lexeme)
		id := hir.GlobalId(i)
		if !a.global.declare(name, symbol{kind: symGlobal, global: id}) {
			panic(sourceerr.New(fn.Name.Span, "duplicate top-level declaration '%s'", fn.Name.Lexeme))
		}
		a.globalIndex[name] = id
		a.globals[i] = hir.GlobalInfo{
			ID:       id,
			Name:     name,
			NameSpan: fn.Name.Span,
			Kind:     hir.GlobalFunction,
		}
	}

	// Pass 2: lower each function body.
	for i, fn := range program.Functions {
		a.globals[i].Func = a.lowerFunction(fn)
	}

	mainName, ok := a.ctx.Interner.Lookup("main")
	if !ok {
		panic(sourceerr.New(token.Token{}.Span, "program has no 'main' function"))
	}
	mainID, ok := a.globalIndex[mainName]
	if !ok {
		panic(sourceerr.New(token.Token{}.Span, "program has no 'main' function"))
	}

	return &hir.Program{Globals: a.globals, MainIndex: int(mainID)}, nil
}

// --- scope stack plumbing ---

func (a *analyzer) pushScope(kind scopeKind) {
	a.blocks = append(a.blocks, newScope(kind))
}

func (a *analyzer) popScope() {
	a.blocks = a.blocks[:len(a.blocks)-1]
}

func (a *analyzer) currentScope() *scope {
	return a.blocks[len(a.blocks)-1]
}

// declare inserts name into the innermost open scope, failing with a
// compile error on collision (spec §4.3 rule 5).
func (a *analyzer) declare(tok token.Token, sym symbol) {
	name := a.ctx.Interner.Intern(tok.Lexeme)
	if !a.currentScope().declare(name, sym) {
		panic(sourceerr.New(tok.Span, "'%s' is already declared in this scope", tok.Lexeme))
	}
}

// resolve walks the scope chain from innermost to the builtin scope and
// returns the symbol bound to name, failing with a compile error if no
// scope binds it (spec §4.3 rule 1).
func (a *analyzer) resolve(tok token.Token) symbol {
	name := a.ctx.Interner.Intern(tok.Lexeme)
	for i := len(a.blocks) - 1; i >= 0; i-- {
		if sym, ok := a.blocks[i].names[name]; ok {
			return sym
		}
	}
	if sym, ok := a.global.names[name]; ok {
		return sym
	}
	if sym, ok := a.builtins.names[name]; ok {
		return sym
	}
	panic(sourceerr.New(tok.Span, "undeclared identifier '%s'", tok.Lexeme))
}

// lowerFunction lowers one top-level function declaration into a
// hir.FunDecl: parameters occupy LocalIds 0..ParamCount-1 in declaration
// order (spec §3's FunDecl invariant), followed by whatever locals the
// body declares.
func (a *analyzer) lowerFunction(fn ast.FuncDecl) *hir.FunDecl {
	a.fn = &funcState{}
	a.pushScope(scopeFunction)
	defer func() {
		a.popScope()
		a.fn = nil
	}()

	for i, p := range fn.Params {
		name := a.ctx.Interner.Intern(p.Lexeme)
		id := a.fn.declareLocal(name, p.Span, hir.LocalKind{IsParameter: true, ParamIndex: i})
		if !a.currentScope().declare(name, symbol{kind: symLocal, local: id}) {
			panic(sourceerr.New(p.Span, "duplicate parameter name '%s'", p.Lexeme))
		}
	}
	paramCount := len(fn.Params)

	body := a.lowerStmtList(fn.Body)
	if !endsInReturn(body) {
		body = append(body, &hir.ReturnStmt{Expr: &hir.ConstNullExpr{}})
	}

	return &hir.FunDecl{ParamCount: paramCount, Locals: a.fn.locals, Body: body}
}

func endsInReturn(stmts []hir.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	_, ok := stmts[len(stmts)-1].(*hir.ReturnStmt)
	return ok
}

// lowerStmtList lowers a sequence of statements in the current scope
// (no new scope is pushed; callers that need one push it themselves).
func (a *analyzer) lowerStmtList(stmts []ast.Stmt) []hir.Stmt {
	out := make([]hir.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, a.lowerStmt(s))
	}
	return out
}
