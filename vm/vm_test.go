package vm_test

import (
	"testing"

	"github.com/informatter/natrix/natrixtest"
)

func TestArithmeticAndControlFlow(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			"fibonacci",
			`fn fib(n) {
				if (n < 2) { return n; }
				return fib(n - 1) + fib(n - 2);
			}
			fn main(args) { return fib(10); }`,
			"55",
		},
		{
			"while loop accumulation",
			`fn main(args) {
				var total = 0;
				var i = 0;
				while (i < 5) {
					total = total + i;
					i = i + 1;
				}
				return total;
			}`,
			"10",
		},
		{
			"break and continue",
			`fn main(args) {
				var total = 0;
				var i = 0;
				while (i < 10) {
					i = i + 1;
					if (i == 5) { break; }
					if (i % 2 == 0) { continue; }
					total = total + i;
				}
				return total;
			}`,
			"4", // 1 + 3
		},
		{
			"list index",
			`fn main(args) {
				var xs = [1, 2, 3];
				return xs[0] + xs[2];
			}`,
			"4",
		},
		{
			"string builtins",
			`fn main(args) { return str(len("hello")); }`,
			"5",
		},
		{
			"a helper with its own locals",
			`fn helper(a, b) {
				var sum = a + b;
				return sum * 2;
			}
			fn main(args) { return helper(3, 4); }`,
			"14",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			out := natrixtest.AssertEquivalent(t, tt.name, tt.source)
			if out.Err != nil {
				t.Fatalf("unexpected error: %v", out.Err)
			}
			if out.Result != tt.want {
				t.Errorf("result = %q, want %q", out.Result, tt.want)
			}
		})
	}
}

func TestMainArgsPassthrough(t *testing.T) {
	source := `fn main(args) { return args[0]; }`
	out := natrixtest.AssertEquivalent(t, "args", source, "hello")
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if out.Result != "hello" {
		t.Errorf("result = %q, want %q", out.Result, "hello")
	}
}

func TestPrintGoesToTheSuppliedWriter(t *testing.T) {
	source := `fn main(args) { print("hi"); return 0; }`
	out := natrixtest.AssertEquivalent(t, "print", source)
	if out.Output != "hi\n" {
		t.Errorf("stdout = %q, want %q", out.Output, "hi\n")
	}
}

func TestRuntimeErrorSurfacesFromBothEngines(t *testing.T) {
	source := `fn main(args) {
		var xs = [1, 2];
		return xs[10];
	}`
	interp := natrixtest.RunInterpreter(t, "oob", source)
	vmRun := natrixtest.RunVM(t, "oob", source)
	if interp.Err == nil || vmRun.Err == nil {
		t.Fatalf("expected an out-of-bounds index error from both engines, got interp=%v vm=%v", interp.Err, vmRun.Err)
	}
}

func TestArityMismatchIsARuntimeError(t *testing.T) {
	source := `fn add(a, b) { return a + b; }
	fn main(args) { return add(1); }`
	out := natrixtest.RunVM(t, "arity", source)
	if out.Err == nil {
		t.Fatal("expected calling add/2 with one argument to fail")
	}
}
