package bytecode

import (
	"github.com/informatter/natrix/compilectx"
	"github.com/informatter/natrix/hir"
	"github.com/informatter/natrix/source"
	"github.com/informatter/natrix/value"
)

// Bytecode is the fully assembled output of Compile: one flat code
// stream shared by every function, the program's globals (one Function
// descriptor per top-level declaration), and the literal constants pool
// (spec §4.5).
type Bytecode struct {
	Code      []byte
	Globals   []value.Value
	Constants []value.Value
	MainIndex int

	// Spans maps the byte offset of an opcode that can fail at runtime
	// (arithmetic, indexing, a call) to the source span of the HIR node
	// it was lowered from, so the VM can attach a location to an
	// *rterr.Error without a general-purpose debug line table.
	Spans map[int]source.Span
}

// Compile lowers an analyzed, folded HIR program into Bytecode: each
// function is compiled into a contiguous range of one shared code
// stream, slot assignment happens per function (spec §4.6 "Slot
// assignment"), and jump offsets are resolved by Builder.Encode's
// fixpoint assembler once every function's instructions are emitted.
func Compile(ctx *compilectx.Context, program *hir.Program) (*Bytecode, error) {
	b := NewBuilder()

	descriptors := make([]*value.Function, len(program.Globals))
	entryLabels := make([]Label, len(program.Globals))

	for i, g := range program.Globals {
		descriptors[i] = &value.Function{
			Kind:       value.FuncUserDefined,
			Name:       ctx.Interner.Resolve(g.Name),
			ParamCount: g.Func.ParamCount,
		}
	}

	for i, g := range program.Globals {
		entryLabels[i] = b.NewLabel()
		b.DefineLabel(entryLabels[i])
		fc := newFuncCompiler(b, g.Func)
		fc.compileStmts(g.Func.Body)
		descriptors[i].MaxSlots = fc.maxSlots
	}

	code, offsets, spans, err := b.Encode()
	if err != nil {
		return nil, err
	}
	for i, l := range entryLabels {
		descriptors[i].CodeHandle = offsets[l]
	}

	globals := make([]value.Value, len(descriptors))
	for i, fn := range descriptors {
		globals[i] = value.FromFunction(fn)
	}

	return &Bytecode{
		Code:      code,
		Globals:   globals,
		Constants: b.Constants,
		MainIndex: program.MainIndex,
		Spans:     spans,
	}, nil
}
