// Package bytecode implements the compact register-less stack bytecode
// described in spec §4.5/§4.6: opcode definitions, LEB128 immediate
// encoding, a label-based instruction builder, a two-pass fixpoint
// assembler for variable-width jump offsets, and the HIR→instruction
// lowering pass (the bytecode compiler proper).
//
// Grounded on natrix-compiler/src/bc/builder.rs (labels and the
// instruction list), bc/encoder.rs (byte encoding and the fixpoint),
// bc/compiler.rs (HIR→InsKind lowering), and leb128.rs. Kept as three
// files in one package per spec_full's note on preserving that split.
package bytecode

// Opcode is a single-byte instruction tag, optionally followed by one
// LEB128-encoded immediate operand (spec §4.5's opcode table).
type Opcode byte

const (
	Push0 Opcode = iota
	Push1
	PushNull
	PushTrue
	PushFalse
	PushInt    // sleb128 literal
	PushConst  // uleb128 index into Bytecode.Constants
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpNeg
	OpNot
	Load0
	LoadLocal  // uleb128 slot
	StoreLocal // uleb128 slot
	LoadGlobal  // uleb128 idx
	StoreGlobal // uleb128 idx
	LoadBuiltin // uleb128 id
	MakeList    // uleb128 n
	GetItem
	SetItem
	Jmp    // sleb128 delta, relative to the opcode byte
	JFalse // sleb128 delta
	JTrue  // sleb128 delta
	Call   // uleb128 n
	Ret
	Pop
)

var opcodeNames = [...]string{
	Push0: "Push0", Push1: "Push1", PushNull: "PushNull", PushTrue: "PushTrue",
	PushFalse: "PushFalse", PushInt: "PushInt", PushConst: "PushConst",
	OpAdd: "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div", OpMod: "Mod",
	OpEq: "Eq", OpNe: "Ne", OpLt: "Lt", OpLe: "Le", OpGt: "Gt", OpGe: "Ge",
	OpNeg: "Neg", OpNot: "Not", Load0: "Load0", LoadLocal: "LoadLocal",
	StoreLocal: "StoreLocal", LoadGlobal: "LoadGlobal", StoreGlobal: "StoreGlobal",
	LoadBuiltin: "LoadBuiltin", MakeList: "MakeList", GetItem: "GetItem",
	SetItem: "SetItem", Jmp: "Jmp", JFalse: "JFalse", JTrue: "JTrue",
	Call: "Call", Ret: "Ret", Pop: "Pop",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "???"
}

// hasUintOperand reports whether op is followed by a single uleb128
// immediate (slot/index/id/count).
func hasUintOperand(op Opcode) bool {
	switch op {
	case PushConst, LoadLocal, StoreLocal, LoadGlobal, StoreGlobal, LoadBuiltin, MakeList, Call:
		return true
	default:
		return false
	}
}

func isJump(op Opcode) bool {
	switch op {
	case Jmp, JFalse, JTrue:
		return true
	default:
		return false
	}
}
