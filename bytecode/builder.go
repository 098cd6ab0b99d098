package bytecode

import (
	"github.com/informatter/natrix/source"
	"github.com/informatter/natrix/value"
)

// Label names a position in the instruction stream that is not yet
// known as a byte offset. Jmp/JFalse/JTrue reference a Label; Encode
// resolves it to a concrete relative delta via the fixpoint in encode.go.
type Label int

// instr is one entry in a Builder's instruction list: either a real
// opcode (with at most one operand) or a label definition, which marks
// the current position but contributes no bytes of its own.
type instr struct {
	isLabelDef bool
	label      Label // valid when isLabelDef

	op     Opcode
	uintOp uint64
	intOp  int64
	jumpTo Label

	// span is set only for opcodes that can fail at runtime (arithmetic,
	// indexing, calls); Encode threads it through to a byte-offset keyed
	// table so the VM can attach a source location to an *rterr.Error.
	span    source.Span
	hasSpan bool
}

// Builder accumulates one program's worth of instructions across every
// function (spec §4.5: "each function is compiled into a contiguous
// range of the code stream") plus the single shared constants pool.
type Builder struct {
	instrs     []instr
	nextLabel  Label
	Constants  []value.Value
	constIndex map[constKey]int
}

type constKey struct {
	kind byte
	i    int64
	f    float64
	s    string
}

func NewBuilder() *Builder {
	return &Builder{constIndex: make(map[constKey]int)}
}

// NewLabel allocates a fresh, as-yet-undefined label.
func (b *Builder) NewLabel() Label {
	l := b.nextLabel
	b.nextLabel++
	return l
}

// DefineLabel marks the current position in the instruction stream as
// the target of l.
func (b *Builder) DefineLabel(l Label) {
	b.instrs = append(b.instrs, instr{isLabelDef: true, label: l})
}

// AddConstant interns v into the shared constants pool, returning its
// index. Identical literals (by kind and value) share one slot.
func (b *Builder) AddConstant(v value.Value) int {
	var key constKey
	switch v.Kind() {
	case value.KindInt:
		key = constKey{kind: 'i', i: v.UnwrapInt()}
	case value.KindFloat:
		key = constKey{kind: 'f', f: v.UnwrapFloat()}
	case value.KindString:
		key = constKey{kind: 's', s: v.UnwrapString()}
	default:
		// Bool/Null never need the constants pool (Push{True,False,Null}
		// exist); List/Function constants don't exist in this language.
		key = constKey{kind: 'x', i: int64(len(b.Constants))}
	}
	if idx, ok := b.constIndex[key]; ok {
		return idx
	}
	idx := len(b.Constants)
	b.Constants = append(b.Constants, v)
	b.constIndex[key] = idx
	return idx
}

func (b *Builder) emit(op Opcode)                  { b.instrs = append(b.instrs, instr{op: op}) }
func (b *Builder) emitUint(op Opcode, n uint64)     { b.instrs = append(b.instrs, instr{op: op, uintOp: n}) }
func (b *Builder) emitInt(op Opcode, n int64)       { b.instrs = append(b.instrs, instr{op: op, intOp: n}) }
func (b *Builder) emitJump(op Opcode, target Label) { b.instrs = append(b.instrs, instr{op: op, jumpTo: target}) }

// emitFallible is like emit but records span for runtime error reporting.
func (b *Builder) emitFallible(op Opcode, span source.Span) {
	b.instrs = append(b.instrs, instr{op: op, span: span, hasSpan: true})
}

func (b *Builder) Push0()         { b.emit(Push0) }
func (b *Builder) Push1()         { b.emit(Push1) }
func (b *Builder) PushNull()      { b.emit(PushNull) }
func (b *Builder) PushTrue()      { b.emit(PushTrue) }
func (b *Builder) PushFalse()     { b.emit(PushFalse) }
func (b *Builder) PushInt(n int64) { b.emitInt(PushInt, n) }
func (b *Builder) PushConst(idx int) { b.emitUint(PushConst, uint64(idx)) }

func (b *Builder) Add(span source.Span) { b.emitFallible(OpAdd, span) }
func (b *Builder) Sub(span source.Span) { b.emitFallible(OpSub, span) }
func (b *Builder) Mul(span source.Span) { b.emitFallible(OpMul, span) }
func (b *Builder) Div(span source.Span) { b.emitFallible(OpDiv, span) }
func (b *Builder) Mod(span source.Span) { b.emitFallible(OpMod, span) }
func (b *Builder) Eq(span source.Span)  { b.emitFallible(OpEq, span) }
func (b *Builder) Ne(span source.Span)  { b.emitFallible(OpNe, span) }
func (b *Builder) Lt(span source.Span)  { b.emitFallible(OpLt, span) }
func (b *Builder) Le(span source.Span)  { b.emitFallible(OpLe, span) }
func (b *Builder) Gt(span source.Span)  { b.emitFallible(OpGt, span) }
func (b *Builder) Ge(span source.Span)  { b.emitFallible(OpGe, span) }
func (b *Builder) Neg(span source.Span) { b.emitFallible(OpNeg, span) }
func (b *Builder) Not(span source.Span) { b.emitFallible(OpNot, span) }

func (b *Builder) Load0()              { b.emit(Load0) }
func (b *Builder) LoadLocal(slot int)  { b.emitUint(LoadLocal, uint64(slot)) }
func (b *Builder) StoreLocal(slot int) { b.emitUint(StoreLocal, uint64(slot)) }
func (b *Builder) LoadGlobal(idx int)  { b.emitUint(LoadGlobal, uint64(idx)) }
func (b *Builder) StoreGlobal(idx int) { b.emitUint(StoreGlobal, uint64(idx)) }
func (b *Builder) LoadBuiltin(id int)  { b.emitUint(LoadBuiltin, uint64(id)) }
func (b *Builder) MakeList(n int)      { b.emitUint(MakeList, uint64(n)) }
func (b *Builder) GetItem(span source.Span) { b.emitFallible(GetItem, span) }
func (b *Builder) SetItem(span source.Span) { b.emitFallible(SetItem, span) }

func (b *Builder) Jmp(l Label)    { b.emitJump(Jmp, l) }
func (b *Builder) JFalse(l Label) { b.emitJump(JFalse, l) }
func (b *Builder) JTrue(l Label)  { b.emitJump(JTrue, l) }

func (b *Builder) Call(n int, span source.Span) {
	b.instrs = append(b.instrs, instr{op: Call, uintOp: uint64(n), span: span, hasSpan: true})
}
func (b *Builder) Ret() { b.emit(Ret) }
func (b *Builder) Pop() { b.emit(Pop) }
