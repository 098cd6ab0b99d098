package fold

import (
	"testing"

	"github.com/informatter/natrix/analyzer"
	"github.com/informatter/natrix/compilectx"
	"github.com/informatter/natrix/hir"
	"github.com/informatter/natrix/lexer"
	"github.com/informatter/natrix/parser"
)

// mainReturnExpr compiles source through the analyzer, folds it, and
// returns the expression in main's lone `return ...;` statement.
func mainReturnExpr(t *testing.T, source string) hir.Expr {
	t.Helper()
	ctx := compilectx.New()
	sourceID := ctx.Sources.Add("<test>", source)
	lex := lexer.New(source, sourceID)
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	p := parser.Make(tokens)
	program, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse: %v", errs[0])
	}
	hirProgram, err := analyzer.Analyze(ctx, program)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if err := FoldConstants(hirProgram); err != nil {
		t.Fatalf("fold: %v", err)
	}
	main := hirProgram.Globals[hirProgram.MainIndex].Func
	for _, s := range main.Body {
		if ret, ok := s.(*hir.ReturnStmt); ok {
			return ret.Expr
		}
	}
	t.Fatal("main has no return statement")
	return nil
}

func TestFoldsArithmeticToConstant(t *testing.T) {
	expr := mainReturnExpr(t, `fn main(args) { return 2 + 3 * 4; }`)
	got, ok := expr.(*hir.ConstIntExpr)
	if !ok {
		t.Fatalf("expected a folded ConstIntExpr, got %T", expr)
	}
	if got.Value != 14 {
		t.Errorf("2 + 3 * 4 folded to %d, want 14", got.Value)
	}
}

func TestFoldsStringConcat(t *testing.T) {
	expr := mainReturnExpr(t, `fn main(args) { return "foo" + "bar"; }`)
	got, ok := expr.(*hir.ConstStringExpr)
	if !ok {
		t.Fatalf("expected a folded ConstStringExpr, got %T", expr)
	}
	if got.Value != "foobar" {
		t.Errorf("folded to %q, want %q", got.Value, "foobar")
	}
}

func TestDoesNotFoldCallsToImpureBuiltins(t *testing.T) {
	expr := mainReturnExpr(t, `fn main(args) { return time(); }`)
	if _, ok := expr.(*hir.CallExpr); !ok {
		t.Fatalf("expected time() to remain an unfolded CallExpr, got %T", expr)
	}
}

func TestShortCircuitAndDoesNotFoldRightWithSideEffects(t *testing.T) {
	// false && print(1) must stay false without evaluating print, so the
	// fold result is the constant false and print() never shows up folded.
	expr := mainReturnExpr(t, `fn main(args) { return false and print(1); }`)
	got, ok := expr.(*hir.ConstBoolExpr)
	if !ok {
		t.Fatalf("expected a folded ConstBoolExpr, got %T", expr)
	}
	if got.Value != false {
		t.Errorf("false and ... folded to %v, want false", got.Value)
	}
}

func TestShortCircuitOrFoldsToTrueWithoutEvaluatingRight(t *testing.T) {
	expr := mainReturnExpr(t, `fn main(args) { return true or print(1); }`)
	got, ok := expr.(*hir.ConstBoolExpr)
	if !ok {
		t.Fatalf("expected a folded ConstBoolExpr, got %T", expr)
	}
	if got.Value != true {
		t.Errorf("true or ... folded to %v, want true", got.Value)
	}
}

func TestListLiteralsAreNotCollapsedToAConstant(t *testing.T) {
	expr := mainReturnExpr(t, `fn main(args) { return [1, 2, 3]; }`)
	if _, ok := expr.(*hir.MakeListExpr); !ok {
		t.Fatalf("expected list literal to remain a MakeListExpr, got %T", expr)
	}
}

func TestDivisionByFoldedZeroIsACompileError(t *testing.T) {
	ctx := compilectx.New()
	source := `fn main(args) { return 1 / 0; }`
	sourceID := ctx.Sources.Add("<test>", source)
	lex := lexer.New(source, sourceID)
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	p := parser.Make(tokens)
	program, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse: %v", errs[0])
	}
	hirProgram, err := analyzer.Analyze(ctx, program)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if err := FoldConstants(hirProgram); err == nil {
		t.Fatal("expected folding 1 / 0 to report a compile-time error")
	}
}
