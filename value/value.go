// Package value implements the tagged runtime value of the language:
// Null, Bool, Int, Float, String, List, and Function, plus their
// arithmetic, comparison, coercion, and display semantics.
//
// Grounded on natrix-runtime/src/value.rs and natrix-runtime/src/value/
// mod.rs. The original reference-counts heap variants (Rc<RefCell<...>>)
// because the source language has no GC of its own; this rewrite relies
// on Go's garbage collector instead — List and Function are held behind
// plain pointers, and sharing/aliasing falls out of pointer identity for
// free. That substitution is recorded as an Open Question resolution in
// DESIGN.md.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value currently holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// List is the heap-allocated, mutable backing store of a list value.
// Aliased Value copies that wrap the same *List observe each other's
// mutations, matching the original's Rc<RefCell<Vec<Value>>> sharing.
type List struct {
	Elems []Value
}

// FuncKind distinguishes a host-provided builtin from a user-defined
// function compiled from source.
type FuncKind int

const (
	FuncBuiltin FuncKind = iota
	FuncUserDefined
)

// Function is the heap-allocated, immutable descriptor behind a
// function value. Two function values are equal iff they share the
// same *Function (reference identity), matching spec §4.1.
type Function struct {
	Kind        FuncKind
	Name        string
	ParamCount  int
	MaxSlots    int // only meaningful for FuncUserDefined
	CodeHandle  int // only meaningful for FuncUserDefined
	BuiltinID   int // only meaningful for FuncBuiltin; index into builtin.All
	BuiltinName string
}

// Value is a tagged union over the seven runtime value variants. The
// zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list *List
	fn   *Function
}

// Null is the sole null value.
var Null = Value{kind: KindNull}

// True and False are the two bool values.
var (
	True  = Value{kind: KindBool, b: true}
	False = Value{kind: KindBool, b: false}
)

func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

func FromInt(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func FromFloat(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func FromString(s string) Value {
	return Value{kind: KindString, s: s}
}

func FromList(elems []Value) Value {
	return Value{kind: KindList, list: &List{Elems: elems}}
}

func FromFunction(fn *Function) Value {
	return Value{kind: KindFunction, fn: fn}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) IsBool() bool     { return v.kind == KindBool }
func (v Value) IsInt() bool      { return v.kind == KindInt }
func (v Value) IsFloat() bool    { return v.kind == KindFloat }
func (v Value) IsString() bool   { return v.kind == KindString }
func (v Value) IsList() bool     { return v.kind == KindList }
func (v Value) IsFunction() bool { return v.kind == KindFunction }
func (v Value) isNumeric() bool  { return v.kind == KindInt || v.kind == KindFloat }

// UnwrapBool, UnwrapInt, etc. panic if the Value is not of the expected
// kind; callers must check Kind()/IsX() first, matching the original's
// unwrap_* contract (a compiler/VM bug, not a user error).
func (v Value) UnwrapBool() bool {
	if v.kind != KindBool {
		panic(fmt.Sprintf("value: UnwrapBool on %s", v.kind))
	}
	return v.b
}

func (v Value) UnwrapInt() int64 {
	if v.kind != KindInt {
		panic(fmt.Sprintf("value: UnwrapInt on %s", v.kind))
	}
	return v.i
}

func (v Value) UnwrapFloat() float64 {
	if v.kind != KindFloat {
		panic(fmt.Sprintf("value: UnwrapFloat on %s", v.kind))
	}
	return v.f
}

func (v Value) UnwrapString() string {
	if v.kind != KindString {
		panic(fmt.Sprintf("value: UnwrapString on %s", v.kind))
	}
	return v.s
}

func (v Value) UnwrapList() *List {
	if v.kind != KindList {
		panic(fmt.Sprintf("value: UnwrapList on %s", v.kind))
	}
	return v.list
}

func (v Value) UnwrapFunction() *Function {
	if v.kind != KindFunction {
		panic(fmt.Sprintf("value: UnwrapFunction on %s", v.kind))
	}
	return v.fn
}

func (v Value) toF64() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	default:
		panic("value: toF64 on non-numeric")
	}
}

func (v Value) asI64Pair(other Value) (l, r int64, ok bool) {
	if v.kind == KindInt && other.kind == KindInt {
		return v.i, other.i, true
	}
	return 0, 0, false
}

// String implements fmt.Stringer using the language's str(v) formatting
// rules (spec §4.1): null, true/false, decimal integer, round-tripping
// float, raw string, bracketed/quoted list, and function descriptors.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return v.s
	case KindList:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.list.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			if e.kind == KindString {
				b.WriteString(strconv.Quote(e.s))
			} else {
				b.WriteString(e.String())
			}
		}
		b.WriteByte(']')
		return b.String()
	case KindFunction:
		if v.fn.Kind == FuncBuiltin {
			return fmt.Sprintf("<built-in function %s>", v.fn.Name)
		}
		return fmt.Sprintf("<function %s at %#x>", v.fn.Name, v.fn.CodeHandle)
	default:
		return "<invalid>"
	}
}

// formatFloat renders a float so that it round-trips through parsing,
// always showing a decimal point or exponent the way the original's
// Rust {:?} Debug formatting for f64 does (e.g. "1.0" not "1").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
