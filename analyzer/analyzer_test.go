package analyzer

import (
	"testing"

	"github.com/informatter/natrix/ast"
	"github.com/informatter/natrix/compilectx"
	"github.com/informatter/natrix/hir"
	"github.com/informatter/natrix/lexer"
	"github.com/informatter/natrix/parser"
)

func parseOrFail(t *testing.T, source string) ast.Program {
	t.Helper()
	ctx := compilectx.New()
	lex := lexer.New(source, ctx.Sources.Add("<test>", source))
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	p := parser.Make(tokens)
	program, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse: %v", errs[0])
	}
	return program
}

func TestForwardReferenceToLaterFunctionResolves(t *testing.T) {
	ctx := compilectx.New()
	source := `fn main(args) { return helper(); }
	fn helper() { return 1; }`
	program := parseOrFail(t, source)
	if _, err := Analyze(ctx, program); err != nil {
		t.Fatalf("expected a forward reference to 'helper' to resolve, got %v", err)
	}
}

func TestDuplicateTopLevelDeclarationIsAnError(t *testing.T) {
	ctx := compilectx.New()
	source := `fn main(args) { return 0; }
	fn main(args) { return 1; }`
	program := parseOrFail(t, source)
	if _, err := Analyze(ctx, program); err == nil {
		t.Fatal("expected a duplicate 'main' declaration to fail analysis")
	}
}

func TestUndeclaredIdentifierIsAnError(t *testing.T) {
	ctx := compilectx.New()
	source := `fn main(args) { return unknownName; }`
	program := parseOrFail(t, source)
	if _, err := Analyze(ctx, program); err == nil {
		t.Fatal("expected referencing an undeclared identifier to fail analysis")
	}
}

func TestMissingMainIsAnError(t *testing.T) {
	ctx := compilectx.New()
	source := `fn notMain(args) { return 0; }`
	program := parseOrFail(t, source)
	if _, err := Analyze(ctx, program); err == nil {
		t.Fatal("expected a program without 'main' to fail analysis")
	}
}

func TestParametersOccupyLeadingLocalSlots(t *testing.T) {
	ctx := compilectx.New()
	source := `fn main(args) { var x = 1; return x; }`
	program := parseOrFail(t, source)
	hirProgram, err := Analyze(ctx, program)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	main := hirProgram.Globals[hirProgram.MainIndex].Func
	if main.ParamCount != 1 {
		t.Fatalf("ParamCount = %d, want 1", main.ParamCount)
	}
	if len(main.Locals) < 2 {
		t.Fatalf("expected at least 2 locals (param + x), got %d", len(main.Locals))
	}
	if !main.Locals[0].Kind.IsParameter {
		t.Error("Locals[0] should be the 'args' parameter")
	}
	if main.Locals[1].Kind.IsParameter {
		t.Error("Locals[1] ('x') should not be classified as a parameter")
	}
}

func TestBlockScopingShadowsOuterLocal(t *testing.T) {
	ctx := compilectx.New()
	source := `fn main(args) {
		var x = 1;
		if (true) {
			var x = 2;
			x = x + 1;
		}
		return x;
	}`
	program := parseOrFail(t, source)
	hirProgram, err := Analyze(ctx, program)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	main := hirProgram.Globals[hirProgram.MainIndex].Func
	// args + outer x + inner x == 3 locals.
	if len(main.Locals) != 3 {
		t.Errorf("expected 3 locals (args, outer x, inner x), got %d", len(main.Locals))
	}
	ret, ok := main.Body[len(main.Body)-1].(*hir.ReturnStmt)
	if !ok {
		t.Fatal("expected the function body to end in a return statement")
	}
	loadLocal, ok := ret.Expr.(*hir.LoadLocalExpr)
	if !ok {
		t.Fatalf("expected return of a local load, got %T", ret.Expr)
	}
	if loadLocal.Local != 1 {
		t.Errorf("final return should load the outer 'x' (local 1), got local %d", loadLocal.Local)
	}
}
