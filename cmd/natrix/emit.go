package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/informatter/natrix/bytecode"
	"github.com/informatter/natrix/compilectx"
)

// emitCmd implements the "emit" verb: compile a source file down to
// bytecode and print a disassembly, the spiritual successor to the
// teacher's cmd_emit_bytecode.go (which disassembled its own Pratt-
// compiler bytecode format; this disassembles the label-resolved
// LEB128 stream produced by package bytecode).
type emitCmd struct {
	dumpHIR bool
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "compile a source file and print its bytecode" }
func (*emitCmd) Usage() string {
	return `emit [--dump-hir] FILE:
  Compile FILE and print a disassembly of the resulting bytecode.
`
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dumpHIR, "dump-hir", false, "also print the resolved HIR")
}

func (cmd *emitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "emit: a source file is required")
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	cctx := compilectx.New()
	_, hirProgram, err := frontend(cctx, args[0], string(data))
	if err != nil {
		fmt.Fprintln(os.Stdout, renderError(cctx, err))
		return subcommands.ExitFailure
	}
	if cmd.dumpHIR {
		fmt.Println(dumpHIR(cctx, hirProgram))
	}

	bc, err := bytecode.Compile(cctx, hirProgram)
	if err != nil {
		fmt.Fprintln(os.Stdout, renderError(cctx, err))
		return subcommands.ExitFailure
	}

	fmt.Print(disassemble(bc))
	return subcommands.ExitSuccess
}

// disassemble renders bc.Code as a flat listing of byte-offset-tagged
// instructions, annotating each PushConst operand with the constant it
// names; other operands are printed as raw numbers.
func disassemble(bc *bytecode.Bytecode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "; %d global(s), %d constant(s), main_index=%d\n", len(bc.Globals), len(bc.Constants), bc.MainIndex)
	code := bc.Code
	for ip := 0; ip < len(code); {
		start := ip
		op := bytecode.Opcode(code[ip])
		ip++
		fmt.Fprintf(&b, "%6d  %-11s", start, op.String())
		switch op {
		case bytecode.PushInt, bytecode.Jmp, bytecode.JFalse, bytecode.JTrue:
			n, next := bytecode.DecodeSLEB128(code, ip)
			ip = next
			if op != bytecode.PushInt {
				fmt.Fprintf(&b, " -> %d", start+int(n))
			} else {
				fmt.Fprintf(&b, " %d", n)
			}
		case bytecode.PushConst, bytecode.LoadLocal, bytecode.StoreLocal,
			bytecode.LoadGlobal, bytecode.StoreGlobal, bytecode.LoadBuiltin,
			bytecode.MakeList, bytecode.Call:
			n, next := bytecode.DecodeULEB128(code, ip)
			ip = next
			fmt.Fprintf(&b, " %d", n)
			if op == bytecode.PushConst && int(n) < len(bc.Constants) {
				fmt.Fprintf(&b, "  ; %s", bc.Constants[n].String())
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
