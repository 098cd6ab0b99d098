// Package vm is the stack-based virtual machine that executes compiled
// natrix bytecode. It is the runtime environment described by spec
// §4.7: a single flat value stack shared by every call frame, a frame
// record per active call holding only a return address and the
// caller's frame pointer, and a straightforward fetch-decode-execute
// loop over the opcodes defined in package bytecode.
//
// Grounded on the teacher's vm.Run fetch-decode loop (vm.go), rebuilt
// around the frame-based calling convention and LEB128 operand decoding
// spec §4.5/§4.7 require instead of the teacher's fixed-width OP_CONSTANT
// encoding.
package vm

import (
	"fmt"

	"github.com/informatter/natrix/builtin"
	"github.com/informatter/natrix/bytecode"
	"github.com/informatter/natrix/rterr"
	"github.com/informatter/natrix/value"
)

// frame is pushed on every user-defined function call and popped on the
// matching Ret; it holds just enough to resume the caller.
type frame struct {
	returnIP int
	callerFP int
}

// VM executes one Bytecode program. It is not safe for concurrent use.
type VM struct {
	bc       *bytecode.Bytecode
	builtins *builtin.Context

	stack  []value.Value
	frames []frame
	fp     int
	ip     int

	// builtinValues holds one stable Function-wrapped Value per builtin
	// so repeated LoadBuiltin of the same id yields the same descriptor
	// identity (spec §4.1: function equality is by descriptor identity).
	builtinValues []value.Value
}

// New creates a VM ready to run bc, dispatching builtin calls (print,
// time, ...) against builtins.
func New(bc *bytecode.Bytecode, builtins *builtin.Context) *VM {
	vals := make([]value.Value, len(builtin.All))
	for _, id := range builtin.All {
		vals[id] = value.FromFunction(id.AsFunction())
	}
	return &VM{bc: bc, builtins: builtins, builtinValues: vals}
}

// Run invokes the program's main function with args and runs it to
// completion, returning its result or the first runtime error.
func (vm *VM) Run(args []value.Value) (value.Value, error) {
	main := vm.bc.Globals[vm.bc.MainIndex]
	fn := main.UnwrapFunction()
	if fn.ParamCount != len(args) {
		return value.Value{}, rterr.New("main expects %d argument(s), got %d", fn.ParamCount, len(args))
	}

	vm.fp = len(vm.stack)
	vm.stack = append(vm.stack, main)
	vm.stack = append(vm.stack, args...)
	for i := 0; i < fn.MaxSlots; i++ {
		vm.stack = append(vm.stack, value.Null)
	}
	vm.ip = fn.CodeHandle

	return vm.loop()
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) readULEB() uint64 {
	n, next := bytecode.DecodeULEB128(vm.bc.Code, vm.ip)
	vm.ip = next
	return n
}

func (vm *VM) readSLEB() int64 {
	n, next := bytecode.DecodeSLEB128(vm.bc.Code, vm.ip)
	vm.ip = next
	return n
}

// loop is the fetch-decode-execute core. It runs until the outermost
// call (the one Run set up, with no frame of its own) returns, or a
// runtime error is raised.
func (vm *VM) loop() (value.Value, error) {
	baseDepth := len(vm.frames)
	for {
		startIP := vm.ip
		op := bytecode.Opcode(vm.bc.Code[vm.ip])
		vm.ip++

		switch op {
		case bytecode.Push0:
			vm.push(value.FromInt(0))
		case bytecode.Push1:
			vm.push(value.FromInt(1))
		case bytecode.PushNull:
			vm.push(value.Null)
		case bytecode.PushTrue:
			vm.push(value.True)
		case bytecode.PushFalse:
			vm.push(value.False)
		case bytecode.PushInt:
			vm.push(value.FromInt(vm.readSLEB()))
		case bytecode.PushConst:
			vm.push(vm.bc.Constants[vm.readULEB()])

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod,
			bytecode.OpEq, bytecode.OpNe, bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
			r := vm.pop()
			l := vm.pop()
			result, err := binaryOp(op, l, r)
			if err != nil {
				return value.Value{}, vm.attachSpan(err, startIP)
			}
			vm.push(result)

		case bytecode.OpNeg:
			result, err := vm.pop().Negate()
			if err != nil {
				return value.Value{}, vm.attachSpan(err, startIP)
			}
			vm.push(result)

		case bytecode.OpNot:
			result, err := vm.pop().Not()
			if err != nil {
				return value.Value{}, vm.attachSpan(err, startIP)
			}
			vm.push(result)

		case bytecode.Load0:
			vm.push(vm.stack[vm.fp])
		case bytecode.LoadLocal:
			slot := vm.readULEB()
			vm.push(vm.stack[vm.fp+int(slot)])
		case bytecode.StoreLocal:
			slot := vm.readULEB()
			vm.stack[vm.fp+int(slot)] = vm.pop()
		case bytecode.LoadGlobal:
			idx := vm.readULEB()
			vm.push(vm.bc.Globals[idx])
		case bytecode.StoreGlobal:
			idx := vm.readULEB()
			vm.bc.Globals[idx] = vm.pop()
		case bytecode.LoadBuiltin:
			id := vm.readULEB()
			vm.push(vm.builtinValues[id])

		case bytecode.MakeList:
			n := int(vm.readULEB())
			elems := append([]value.Value(nil), vm.stack[len(vm.stack)-n:]...)
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(value.FromList(elems))

		case bytecode.GetItem:
			index := vm.pop()
			array := vm.pop()
			result, err := array.GetItem(index)
			if err != nil {
				return value.Value{}, vm.attachSpan(err, startIP)
			}
			vm.push(result)

		case bytecode.SetItem:
			val := vm.pop()
			index := vm.pop()
			array := vm.pop()
			if err := array.SetItem(index, val); err != nil {
				return value.Value{}, vm.attachSpan(err, startIP)
			}

		case bytecode.Jmp:
			delta := vm.readSLEB()
			vm.ip = startIP + int(delta)
		case bytecode.JFalse:
			delta := vm.readSLEB()
			cond, err := vm.popBool(startIP)
			if err != nil {
				return value.Value{}, err
			}
			if !cond {
				vm.ip = startIP + int(delta)
			}
		case bytecode.JTrue:
			delta := vm.readSLEB()
			cond, err := vm.popBool(startIP)
			if err != nil {
				return value.Value{}, err
			}
			if cond {
				vm.ip = startIP + int(delta)
			}

		case bytecode.Call:
			n := int(vm.readULEB())
			if err := vm.call(n, startIP); err != nil {
				return value.Value{}, err
			}

		case bytecode.Ret:
			result := vm.pop()
			if len(vm.frames) == baseDepth {
				return result, nil
			}
			fr := vm.frames[len(vm.frames)-1]
			vm.frames = vm.frames[:len(vm.frames)-1]
			vm.stack = vm.stack[:vm.fp]
			vm.ip = fr.returnIP
			vm.fp = fr.callerFP
			vm.push(result)

		case bytecode.Pop:
			vm.pop()

		default:
			return value.Value{}, fmt.Errorf("vm: unknown opcode %d at offset %d", op, startIP)
		}
	}
}

// popBool pops the top of stack and requires it to be a bool; natrix
// has no implicit truthiness (spec §4.4's do_bool_expr enforces this at
// compile time for constants, but a condition computed at runtime is
// only checked here).
func (vm *VM) popBool(ip int) (bool, error) {
	v := vm.pop()
	if !v.IsBool() {
		return false, vm.attachSpan(rterr.New("condition must be a bool, got %s", v.Kind()), ip)
	}
	return v.UnwrapBool(), nil
}

// call implements the Call n opcode (spec §4.7): n is the argument
// count, the callee descriptor sits just below the n arguments already
// pushed. Builtins are dispatched immediately and never push a frame;
// user-defined functions push a frame and the max_slots locals region
// and transfer control to their entry point.
func (vm *VM) call(n int, ip int) error {
	top := len(vm.stack)
	newFP := top - n
	calleeVal := vm.stack[newFP-1]
	if !calleeVal.IsFunction() {
		return vm.attachSpan(rterr.New("value is not callable: %s", calleeVal.Kind()), ip)
	}
	fn := calleeVal.UnwrapFunction()
	if fn.ParamCount != n {
		return vm.attachSpan(rterr.New("%s expects %d argument(s), got %d", fn.Name, fn.ParamCount, n), ip)
	}

	switch fn.Kind {
	case value.FuncBuiltin:
		args := append([]value.Value(nil), vm.stack[newFP:top]...)
		result, err := vm.builtins.Dispatch(builtin.ID(fn.BuiltinID), args)
		if err != nil {
			return vm.attachSpan(err, ip)
		}
		vm.stack = vm.stack[:newFP-1]
		vm.push(result)
		return nil

	case value.FuncUserDefined:
		for i := 0; i < fn.MaxSlots; i++ {
			vm.push(value.Null)
		}
		vm.frames = append(vm.frames, frame{returnIP: vm.ip, callerFP: vm.fp})
		vm.fp = newFP - 1
		vm.ip = fn.CodeHandle
		return nil

	default:
		return vm.attachSpan(rterr.New("unknown function kind"), ip)
	}
}

// attachSpan wraps err as an *rterr.Error carrying the span recorded for
// the instruction at ip, if any (see bytecode.Bytecode.Spans).
func (vm *VM) attachSpan(err error, ip int) error {
	re, ok := err.(*rterr.Error)
	if !ok {
		re = rterr.New("%s", err.Error())
	}
	if span, ok := vm.bc.Spans[ip]; ok {
		return re.WithSpan(span)
	}
	return re
}

func binaryOp(op bytecode.Opcode, l, r value.Value) (value.Value, error) {
	switch op {
	case bytecode.OpAdd:
		return l.Add(r)
	case bytecode.OpSub:
		return l.Sub(r)
	case bytecode.OpMul:
		return l.Mul(r)
	case bytecode.OpDiv:
		return l.Div(r)
	case bytecode.OpMod:
		return l.Rem(r)
	case bytecode.OpEq:
		return l.Eq(r)
	case bytecode.OpNe:
		return l.Ne(r)
	case bytecode.OpLt:
		return l.Lt(r)
	case bytecode.OpLe:
		return l.Le(r)
	case bytecode.OpGt:
		return l.Gt(r)
	case bytecode.OpGe:
		return l.Ge(r)
	default:
		return value.Value{}, rterr.New("vm: not a binary opcode")
	}
}
