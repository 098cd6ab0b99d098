// Package builtin implements the closed, compile-time enumeration of
// host-provided functions: print, len, int, float, str, and time.
//
// Grounded on natrix-runtime/src/runtime.rs (the define_builtins! macro
// enumerating name/arity pairs) and natrix-runtime/src/value/ops.rs
// (Builtin::eval / Builtin::eval_const, the split between "run for
// real against a RuntimeContext" and "run at compile time, impure
// builtins abstain").
package builtin

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/informatter/natrix/rterr"
	"github.com/informatter/natrix/value"
)

// ID enumerates the builtins in declaration order; it doubles as the
// dense index the bytecode compiler/VM use for LoadBuiltin.
type ID int

const (
	Float ID = iota
	Int
	Len
	Print
	Str
	Time
)

// All lists every builtin ID in registry order.
var All = []ID{Float, Int, Len, Print, Str, Time}

var names = [...]string{
	Float: "float",
	Int:   "int",
	Len:   "len",
	Print: "print",
	Str:   "str",
	Time:  "time",
}

var arities = [...]int{
	Float: 1,
	Int:   1,
	Len:   1,
	Print: 1,
	Str:   1,
	Time:  0,
}

// Name returns the builtin's name as it is bound in the outermost scope.
func (id ID) Name() string { return names[id] }

// ParamCount returns the builtin's fixed arity.
func (id ID) ParamCount() int { return arities[id] }

// Lookup finds a builtin by name.
func Lookup(name string) (ID, bool) {
	for _, id := range All {
		if id.Name() == name {
			return id, true
		}
	}
	return 0, false
}

// Pure reports whether a builtin may be evaluated at compile time by
// the constant folder. print and time are impure: the former has an
// observable side effect, the latter is non-deterministic.
func (id ID) Pure() bool {
	return id != Print && id != Time
}

// Context owns the output sink used by print; time reads the system
// clock directly. It is the Go analogue of the original's RuntimeContext.
type Context struct {
	out io.Writer
}

// NewContext creates a Context that writes print output to w.
func NewContext(w io.Writer) *Context {
	return &Context{out: w}
}

// NewStdoutContext creates a Context that writes to os.Stdout.
func NewStdoutContext() *Context {
	return NewContext(os.Stdout)
}

// Dispatch invokes a builtin for real, with I/O side effects permitted.
func (c *Context) Dispatch(id ID, args []value.Value) (value.Value, error) {
	switch id {
	case Float:
		return args[0].ToFloat()
	case Int:
		return args[0].ToInt()
	case Len:
		return args[0].Len()
	case Print:
		fmt.Fprintf(c.out, "%s\n", args[0].String())
		return value.Null, nil
	case Str:
		return args[0].Str(), nil
	case Time:
		return value.FromFloat(float64(time.Now().UnixNano()) / 1e9), nil
	default:
		return value.Value{}, rterr.New("unknown builtin id %d", id)
	}
}

// EvalConst evaluates a pure builtin at compile time. It must never be
// called for print or time; the constant folder checks Pure() first.
func (id ID) EvalConst(args []value.Value) (value.Value, error) {
	switch id {
	case Float:
		return args[0].ToFloat()
	case Int:
		return args[0].ToInt()
	case Len:
		return args[0].Len()
	case Str:
		return args[0].Str(), nil
	default:
		return value.Value{}, rterr.New("builtin %s is not pure", id.Name())
	}
}

// AsFunction returns the Function descriptor used to represent this
// builtin as a first-class value (what LoadBuiltin pushes).
func (id ID) AsFunction() *value.Function {
	return &value.Function{
		Kind:       value.FuncBuiltin,
		Name:       id.Name(),
		ParamCount: id.ParamCount(),
		BuiltinID:  int(id),
	}
}
