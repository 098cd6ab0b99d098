package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/informatter/natrix/builtin"
	"github.com/informatter/natrix/bytecode"
	"github.com/informatter/natrix/compilectx"
	"github.com/informatter/natrix/interpreter"
	"github.com/informatter/natrix/value"
	"github.com/informatter/natrix/vm"
)

// runCmd implements the "run" verb: compile (or, with --ast, skip
// compiling and walk the AST directly) and execute a single source
// file, or standard input when no file is given.
type runCmd struct {
	useAST  bool
	dumpAST bool
	dumpHIR bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and execute a natrix program" }
func (*runCmd) Usage() string {
	return `run [--ast] [--dump-ast] [--dump-hir] [FILE] [-- ARG...]:
  Execute a natrix program. With no FILE, source is read from stdin.
  Tokens after "--" are passed to main() as a list of strings.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.useAST, "ast", false, "use the tree-walking interpreter instead of the bytecode VM")
	f.BoolVar(&r.dumpAST, "dump-ast", false, "print the parsed AST as JSON before executing")
	f.BoolVar(&r.dumpHIR, "dump-hir", false, "print the resolved HIR before executing")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	files, programArgs := splitArgs(f.Args())
	if len(files) > 1 {
		fmt.Fprintln(os.Stderr, "run: at most one source file may be given")
		return subcommands.ExitUsageError
	}

	name, text, err := readSource(files)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	cctx := compilectx.New()
	astProgram, hirProgram, err := frontend(cctx, name, text)
	if err != nil {
		fmt.Fprintln(os.Stdout, renderError(cctx, err))
		return subcommands.ExitFailure
	}
	if r.dumpAST {
		fmt.Println(dumpAST(astProgram))
	}
	if r.dumpHIR {
		fmt.Println(dumpHIR(cctx, hirProgram))
	}

	mainArgs := []value.Value{argsListValue(programArgs)}
	runtimeCtx := builtin.NewStdoutContext()

	var result value.Value
	if r.useAST {
		interp, ierr := interpreter.New(astProgram, runtimeCtx)
		if ierr != nil {
			fmt.Fprintln(os.Stdout, renderError(cctx, ierr))
			return subcommands.ExitFailure
		}
		result, err = interp.Run(mainArgs)
	} else {
		bc, cerr := bytecode.Compile(cctx, hirProgram)
		if cerr != nil {
			fmt.Fprintln(os.Stdout, renderError(cctx, cerr))
			return subcommands.ExitFailure
		}
		result, err = vm.New(bc, runtimeCtx).Run(mainArgs)
	}
	if err != nil {
		fmt.Fprintln(os.Stdout, renderError(cctx, err))
		return subcommands.ExitFailure
	}
	_ = result
	return subcommands.ExitSuccess
}

// readSource loads program text from the single file in files, or from
// stdin when files is empty (spec §6: "With no files, read program
// text from standard input").
func readSource(files []string) (name, text string, err error) {
	if len(files) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}
	return files[0], string(data), nil
}

// argsListValue builds the single list-of-strings value passed to
// main(args) (spec §6's program-entry contract).
func argsListValue(args []string) value.Value {
	elems := make([]value.Value, len(args))
	for i, a := range args {
		elems[i] = value.FromString(a)
	}
	return value.FromList(elems)
}
