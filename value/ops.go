package value

import (
	"strconv"

	"github.com/informatter/natrix/rterr"
)

// Grounded on natrix-runtime/src/value/ops.rs. Every operation here is
// total on its declared domain (spec §4.1) and returns an *rterr.Error
// describing the offending types on any other combination.

func checkNumeric(l, r Value, op string) error {
	if l.isNumeric() && r.isNumeric() {
		return nil
	}
	return rterr.New("operator %s cannot be applied to %s and %s", op, l.Kind(), r.Kind())
}

// Add implements `+`: numeric addition (wrapping int, float promotion),
// string concatenation, and list concatenation.
func (v Value) Add(other Value) (Value, error) {
	if v.kind == KindString && other.kind == KindString {
		return FromString(v.s + other.s), nil
	}
	if v.kind == KindList && other.kind == KindList {
		out := make([]Value, 0, len(v.list.Elems)+len(other.list.Elems))
		out = append(out, v.list.Elems...)
		out = append(out, other.list.Elems...)
		return FromList(out), nil
	}
	if err := checkNumeric(v, other, "+"); err != nil {
		return Value{}, err
	}
	if l, r, ok := v.asI64Pair(other); ok {
		return FromInt(l + r), nil // wrapping: Go int64 overflow already wraps
	}
	return FromFloat(v.toF64() + other.toF64()), nil
}

func (v Value) Sub(other Value) (Value, error) {
	if err := checkNumeric(v, other, "-"); err != nil {
		return Value{}, err
	}
	if l, r, ok := v.asI64Pair(other); ok {
		return FromInt(l - r), nil
	}
	return FromFloat(v.toF64() - other.toF64()), nil
}

// Mul implements `*`: numeric multiplication, string/list repetition
// by a non-negative int (commuted when the int comes first).
func (v Value) Mul(other Value) (Value, error) {
	if v.kind == KindString && other.kind == KindInt {
		return repeatString(v.s, other.i)
	}
	if v.kind == KindList && other.kind == KindInt {
		return repeatList(v.list.Elems, other.i)
	}
	if v.kind == KindInt && (other.kind == KindString || other.kind == KindList) {
		return other.Mul(v)
	}
	if err := checkNumeric(v, other, "*"); err != nil {
		return Value{}, err
	}
	if l, r, ok := v.asI64Pair(other); ok {
		return FromInt(l * r), nil
	}
	return FromFloat(v.toF64() * other.toF64()), nil
}

func repeatString(s string, cnt int64) (Value, error) {
	if cnt < 0 {
		return Value{}, rterr.New("string repetition count cannot be negative")
	}
	n := int(cnt)
	newLen := len(s) * n
	if n != 0 && newLen/n != len(s) {
		return Value{}, rterr.New("string repetition result too large")
	}
	out := make([]byte, 0, newLen)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return FromString(string(out)), nil
}

func repeatList(elems []Value, cnt int64) (Value, error) {
	if cnt < 0 {
		return Value{}, rterr.New("list repetition count cannot be negative")
	}
	n := int(cnt)
	newLen := len(elems) * n
	if n != 0 && newLen/n != len(elems) {
		return Value{}, rterr.New("list repetition result too large")
	}
	out := make([]Value, 0, newLen)
	for i := 0; i < n; i++ {
		out = append(out, elems...)
	}
	return FromList(out), nil
}

// Div implements `/`. Int/int with a zero divisor fails; float division
// by zero yields IEEE-754 inf/nan without error.
func (v Value) Div(other Value) (Value, error) {
	if err := checkNumeric(v, other, "/"); err != nil {
		return Value{}, err
	}
	if l, r, ok := v.asI64Pair(other); ok {
		if r == 0 {
			return Value{}, rterr.New("division by zero")
		}
		return FromInt(wrappingDiv(l, r)), nil
	}
	return FromFloat(v.toF64() / other.toF64()), nil
}

// Rem implements `%`, with the same zero-divisor rule as Div.
func (v Value) Rem(other Value) (Value, error) {
	if err := checkNumeric(v, other, "%"); err != nil {
		return Value{}, err
	}
	if l, r, ok := v.asI64Pair(other); ok {
		if r == 0 {
			return Value{}, rterr.New("division by zero")
		}
		return FromInt(l % r), nil
	}
	return FromFloat(mod(v.toF64(), other.toF64())), nil
}

func mod(a, b float64) float64 {
	r := a - b*float64(int64(a/b))
	return r
}

// wrappingDiv matches Rust's wrapping_div: ordinary division except for
// the i64::MIN / -1 overflow case, which wraps back to i64::MIN.
func wrappingDiv(l, r int64) int64 {
	const minInt64 = -1 << 63
	if l == minInt64 && r == -1 {
		return minInt64
	}
	return l / r
}

// Eq implements `==`. Heterogeneous types never compare equal (no error).
func (v Value) Eq(other Value) (Value, error) {
	if v.kind == KindString && other.kind == KindString {
		return FromBool(v.s == other.s), nil
	}
	if v.kind == KindList && other.kind == KindList {
		a, b := v.list.Elems, other.list.Elems
		if len(a) != len(b) {
			return False, nil
		}
		for i := range a {
			eq, err := a[i].Eq(b[i])
			if err != nil {
				return Value{}, err
			}
			if !eq.b {
				return False, nil
			}
		}
		return True, nil
	}
	if v.kind == KindFunction && other.kind == KindFunction {
		return FromBool(v.fn == other.fn), nil
	}
	if v.kind == KindBool && other.kind == KindBool {
		return FromBool(v.b == other.b), nil
	}
	if v.isNumeric() && other.isNumeric() {
		if l, r, ok := v.asI64Pair(other); ok {
			return FromBool(l == r), nil
		}
		return FromBool(v.toF64() == other.toF64()), nil
	}
	return False, nil
}

func (v Value) Ne(other Value) (Value, error) {
	eq, err := v.Eq(other)
	if err != nil {
		return Value{}, err
	}
	return FromBool(!eq.b), nil
}

func (v Value) Lt(other Value) (Value, error) { return v.compare(other, "<") }
func (v Value) Le(other Value) (Value, error) { return v.compare(other, "<=") }
func (v Value) Gt(other Value) (Value, error) { return v.compare(other, ">") }
func (v Value) Ge(other Value) (Value, error) { return v.compare(other, ">=") }

func (v Value) compare(other Value, op string) (Value, error) {
	if v.kind == KindString && other.kind == KindString {
		switch op {
		case "<":
			return FromBool(v.s < other.s), nil
		case "<=":
			return FromBool(v.s <= other.s), nil
		case ">":
			return FromBool(v.s > other.s), nil
		case ">=":
			return FromBool(v.s >= other.s), nil
		}
	}
	if err := checkNumeric(v, other, op); err != nil {
		return Value{}, err
	}
	if l, r, ok := v.asI64Pair(other); ok {
		switch op {
		case "<":
			return FromBool(l < r), nil
		case "<=":
			return FromBool(l <= r), nil
		case ">":
			return FromBool(l > r), nil
		case ">=":
			return FromBool(l >= r), nil
		}
	}
	lf, rf := v.toF64(), other.toF64()
	switch op {
	case "<":
		return FromBool(lf < rf), nil
	case "<=":
		return FromBool(lf <= rf), nil
	case ">":
		return FromBool(lf > rf), nil
	default:
		return FromBool(lf >= rf), nil
	}
}

// Negate implements unary `-`.
func (v Value) Negate() (Value, error) {
	switch v.kind {
	case KindInt:
		return FromInt(-v.i), nil // two's-complement wrap: -MinInt64 == MinInt64
	case KindFloat:
		return FromFloat(-v.f), nil
	default:
		return Value{}, rterr.New("unary negation cannot be applied to %s", v.kind)
	}
}

// Not implements unary `!`.
func (v Value) Not() (Value, error) {
	if v.kind != KindBool {
		return Value{}, rterr.New("logical negation cannot be applied to %s", v.kind)
	}
	return FromBool(!v.b), nil
}

// GetItem implements get_item(array, index): list element read or
// string byte read.
func (v Value) GetItem(index Value) (Value, error) {
	if index.kind != KindInt {
		return Value{}, rterr.New("index must be an integer")
	}
	if index.i < 0 {
		return Value{}, rterr.New("index cannot be negative")
	}
	idx := int(index.i)
	switch v.kind {
	case KindList:
		if idx >= len(v.list.Elems) {
			return Value{}, rterr.New("list index out of bounds")
		}
		return v.list.Elems[idx], nil
	case KindString:
		if idx >= len(v.s) {
			return Value{}, rterr.New("string index out of bounds")
		}
		return FromInt(int64(v.s[idx])), nil
	default:
		return Value{}, rterr.New("only lists and strings support indexing")
	}
}

// SetItem implements set_item(array, index, value): list element write.
func (v Value) SetItem(index, newValue Value) error {
	if index.kind != KindInt {
		return rterr.New("index must be an integer")
	}
	if index.i < 0 {
		return rterr.New("index cannot be negative")
	}
	idx := int(index.i)
	if v.kind != KindList {
		return rterr.New("only lists support indexing in assignments")
	}
	if idx >= len(v.list.Elems) {
		return rterr.New("list index out of bounds")
	}
	v.list.Elems[idx] = newValue
	return nil
}

// ToInt implements the `int` coercion builtin: identity on int,
// truncate-toward-zero/saturate/NaN→0 on float, decimal parse on string.
func (v Value) ToInt() (Value, error) {
	switch v.kind {
	case KindInt:
		return v, nil
	case KindFloat:
		return FromInt(floatToInt64(v.f)), nil
	case KindString:
		i, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			return Value{}, rterr.New("%s", err.Error())
		}
		return FromInt(i), nil
	default:
		return Value{}, rterr.New("int cannot be applied to %s", v.kind)
	}
}

func floatToInt64(f float64) int64 {
	const maxInt64 = 1<<63 - 1
	const minInt64 = -1 << 63
	if f != f { // NaN
		return 0
	}
	if f >= maxInt64 {
		return maxInt64
	}
	if f <= minInt64 {
		return minInt64
	}
	return int64(f)
}

// ToFloat implements the `float` coercion builtin.
func (v Value) ToFloat() (Value, error) {
	switch v.kind {
	case KindInt:
		return FromFloat(float64(v.i)), nil
	case KindFloat:
		return v, nil
	case KindString:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return Value{}, rterr.New("%s", err.Error())
		}
		return FromFloat(f), nil
	default:
		return Value{}, rterr.New("float cannot be applied to %s", v.kind)
	}
}

// Len implements the `len` builtin: byte length of a string, element
// count of a list.
func (v Value) Len() (Value, error) {
	switch v.kind {
	case KindString:
		return FromInt(int64(len(v.s))), nil
	case KindList:
		return FromInt(int64(len(v.list.Elems))), nil
	default:
		return Value{}, rterr.New("len cannot be applied to %s", v.kind)
	}
}

// Str implements the `str` builtin: total, always succeeds.
func (v Value) Str() Value {
	return FromString(v.String())
}
