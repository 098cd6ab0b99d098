package value

import "testing"

func TestStringFormatting(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null, "null"},
		{"true", True, "true"},
		{"false", False, "false"},
		{"int", FromInt(42), "42"},
		{"negative int", FromInt(-7), "-7"},
		{"float with fraction", FromFloat(3.14), "3.14"},
		{"whole float keeps decimal point", FromFloat(2), "2.0"},
		{"string", FromString("hi"), "hi"},
		{"list of ints", FromList([]Value{FromInt(1), FromInt(2)}), "[1, 2]"},
		{"list with string quotes its elements", FromList([]Value{FromString("a")}), `["a"]`},
		{"empty list", FromList(nil), "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListIdentitySharing(t *testing.T) {
	a := FromList([]Value{FromInt(1)})
	b := a // copying the Value copies the pointer, not the backing List
	b.UnwrapList().Elems[0] = FromInt(99)
	if a.UnwrapList().Elems[0].UnwrapInt() != 99 {
		t.Fatal("expected aliased list copies to observe each other's mutation")
	}
}

func TestFunctionEqualityIsByIdentity(t *testing.T) {
	fn1 := &Function{Kind: FuncUserDefined, Name: "f"}
	fn2 := &Function{Kind: FuncUserDefined, Name: "f"}
	a, b, c := FromFunction(fn1), FromFunction(fn2), FromFunction(fn1)

	eq, err := a.Eq(b)
	if err != nil || eq.UnwrapBool() {
		t.Error("two distinct *Function descriptors with identical fields should not compare equal")
	}
	eq, err = a.Eq(c)
	if err != nil || !eq.UnwrapBool() {
		t.Error("two Values wrapping the same *Function should compare equal")
	}
}

func TestUnwrapWrongKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected UnwrapInt on a string Value to panic")
		}
	}()
	FromString("x").UnwrapInt()
}
