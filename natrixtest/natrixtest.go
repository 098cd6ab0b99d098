// Package natrixtest holds golden/property test helpers used by the vm
// package tests to compare the VM with the interpreter, in the
// spirit of the original's tests/golden_tests.rs harness: every
// fixture is a complete program run end to end, rather than asserting
// on internal compiler structures.
package natrixtest

import (
	"bytes"
	"testing"

	"github.com/informatter/natrix/analyzer"
	"github.com/informatter/natrix/builtin"
	"github.com/informatter/natrix/bytecode"
	"github.com/informatter/natrix/compilectx"
	"github.com/informatter/natrix/fold"
	"github.com/informatter/natrix/hir"
	"github.com/informatter/natrix/interpreter"
	"github.com/informatter/natrix/lexer"
	"github.com/informatter/natrix/parser"
	"github.com/informatter/natrix/value"
	"github.com/informatter/natrix/vm"
)

// Outcome is the observable result of running a program to completion:
// its final value rendered through str(v), and the text written to
// stdout by any print calls.
type Outcome struct {
	Result string
	Output string
	Err    error
}

// RunVM compiles source all the way to bytecode and executes it on
// the stack VM, passing args as the list bound to main's parameter.
func RunVM(t *testing.T, name, source string, args ...string) Outcome {
	t.Helper()
	ctx := compilectx.New()
	hirProgram, err := frontend(ctx, name, source)
	if err != nil {
		return Outcome{Err: err}
	}
	bc, err := bytecode.Compile(ctx, hirProgram)
	if err != nil {
		return Outcome{Err: err}
	}
	var out bytes.Buffer
	result, err := vm.New(bc, builtin.NewContext(&out)).Run(mainArgs(args))
	return Outcome{Result: resultString(result, err), Output: out.String(), Err: err}
}

// RunInterpreter lexes and parses source and runs the AST on the
// tree-walking interpreter; the analyzer and constant folder are not run.
func RunInterpreter(t *testing.T, name, source string, args ...string) Outcome {
	t.Helper()
	ctx := compilectx.New()
	sourceID := ctx.Sources.Add(name, source)
	lex := lexer.New(source, sourceID)
	tokens, err := lex.Scan()
	if err != nil {
		return Outcome{Err: err}
	}
	p := parser.Make(tokens)
	program, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		return Outcome{Err: parseErrs[0]}
	}
	var out bytes.Buffer
	interp, err := interpreter.New(program, builtin.NewContext(&out))
	if err != nil {
		return Outcome{Err: err}
	}
	result, err := interp.Run(mainArgs(args))
	return Outcome{Result: resultString(result, err), Output: out.String(), Err: err}
}

// frontend mirrors cmd/natrix's lex->parse->analyze->fold pipeline.
func frontend(ctx *compilectx.Context, name, source string) (*hir.Program, error) {
	sourceID := ctx.Sources.Add(name, source)
	lex := lexer.New(source, sourceID)
	tokens, err := lex.Scan()
	if err != nil {
		return nil, err
	}
	p := parser.Make(tokens)
	program, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		return nil, parseErrs[0]
	}
	hirProgram, err := analyzer.Analyze(ctx, program)
	if err != nil {
		return nil, err
	}
	if err := fold.FoldConstants(hirProgram); err != nil {
		return nil, err
	}
	return hirProgram, nil
}

func mainArgs(args []string) []value.Value {
	elems := make([]value.Value, len(args))
	for i, a := range args {
		elems[i] = value.FromString(a)
	}
	return []value.Value{value.FromList(elems)}
}

func resultString(result value.Value, err error) string {
	if err != nil {
		return ""
	}
	return result.String()
}

// AssertEquivalent runs source on both engines and fails the test if
// their final results, stdout, or error-ness diverge (spec §8's
// reference-semantics equivalence property).
func AssertEquivalent(t *testing.T, name, source string, args ...string) Outcome {
	t.Helper()
	interp := RunInterpreter(t, name, source, args...)
	vmOut := RunVM(t, name, source, args...)

	if (interp.Err == nil) != (vmOut.Err == nil) {
		t.Fatalf("%s: interpreter err=%v, vm err=%v", name, interp.Err, vmOut.Err)
	}
	if interp.Err == nil {
		if interp.Result != vmOut.Result {
			t.Errorf("%s: result mismatch: interpreter=%q vm=%q", name, interp.Result, vmOut.Result)
		}
		if interp.Output != vmOut.Output {
			t.Errorf("%s: stdout mismatch: interpreter=%q vm=%q", name, interp.Output, vmOut.Output)
		}
	}
	return vmOut
}
