// Package main is the natrix CLI entrypoint: a github.com/google/
// subcommands dispatcher over run, repl, and emit, mirroring the
// teacher's cmd_run.go/cmd_repl.go/cmd_emit_bytecode.go structure but
// rebuilt against the analyzer/fold/bytecode/vm pipeline and the
// interpreter oracle.
package main

import (
	"fmt"

	"github.com/informatter/natrix/analyzer"
	"github.com/informatter/natrix/ast"
	"github.com/informatter/natrix/bytecode"
	"github.com/informatter/natrix/compilectx"
	"github.com/informatter/natrix/fold"
	"github.com/informatter/natrix/hir"
	"github.com/informatter/natrix/lexer"
	"github.com/informatter/natrix/parser"
	"github.com/informatter/natrix/rterr"
	"github.com/informatter/natrix/sourceerr"
)

// frontend runs lexing, parsing, semantic analysis, and constant
// folding over one source file, stopping at the first stage that
// fails. It never compiles to bytecode: callers that need the VM call
// bytecode.Compile themselves. The --ast interpreter path also goes
// through frontend, so its program is analyzed and folded before the
// AST is interpreted.
func frontend(ctx *compilectx.Context, name, text string) (ast.Program, *hir.Program, error) {
	sourceID := ctx.Sources.Add(name, text)

	lex := lexer.New(text, sourceID)
	tokens, err := lex.Scan()
	if err != nil {
		return ast.Program{}, nil, err
	}

	p := parser.Make(tokens)
	program, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		return ast.Program{}, nil, parseErrs[0]
	}

	hirProgram, err := analyzer.Analyze(ctx, program)
	if err != nil {
		return program, nil, err
	}
	if err := fold.FoldConstants(hirProgram); err != nil {
		return program, hirProgram, err
	}
	return program, hirProgram, nil
}

// compileToBytecode runs frontend and then lowers the resulting HIR to
// bytecode.
func compileToBytecode(ctx *compilectx.Context, name, text string) (*bytecode.Bytecode, ast.Program, *hir.Program, error) {
	program, hirProgram, err := frontend(ctx, name, text)
	if err != nil {
		return nil, program, hirProgram, err
	}
	bc, err := bytecode.Compile(ctx, hirProgram)
	return bc, program, hirProgram, err
}

// renderError formats any error surfaced by the pipeline the way spec
// §6 requires: file:line:col, the message, and a caret underline.
// sourceerr.Error (compile-time) and rterr.Error (run-time) both anchor
// to a source.Span; anything else (an error with no span, e.g. a lexer
// error, which carries its line number in the message) is printed bare.
func renderError(ctx *compilectx.Context, err error) string {
	switch e := err.(type) {
	case *sourceerr.Error:
		return e.Display(ctx.Sources)
	case *rterr.Error:
		return e.Display(ctx.Sources)
	default:
		return err.Error()
	}
}

func dumpAST(program ast.Program) string {
	s, err := parser.PrintASTJSON(program)
	if err != nil {
		return fmt.Sprintf("(failed to render AST: %v)", err)
	}
	return s
}
