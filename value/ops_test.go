package value

import "testing"

func TestAdd(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Value
		want    string
		wantErr bool
	}{
		{"int + int", FromInt(2), FromInt(3), "5", false},
		{"int + float promotes", FromInt(2), FromFloat(0.5), "2.5", false},
		{"string concat", FromString("foo"), FromString("bar"), "foobar", false},
		{"list concat", FromList([]Value{FromInt(1)}), FromList([]Value{FromInt(2)}), "[1, 2]", false},
		{"bool + int is an error", FromBool(true), FromInt(1), "", true},
		{"string + int is an error", FromString("a"), FromInt(1), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.String() != tt.want {
				t.Errorf("Add() = %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestIntOverflowWraps(t *testing.T) {
	const maxInt64 = 1<<63 - 1
	got, err := FromInt(maxInt64).Add(FromInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UnwrapInt() != -1<<63 {
		t.Errorf("overflowing add = %d, want wraparound to min int64", got.UnwrapInt())
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := FromInt(1).Div(FromInt(0)); err == nil {
		t.Error("expected an error dividing an int by zero")
	}
	got, err := FromFloat(1).Div(FromFloat(0))
	if err != nil {
		t.Fatalf("float division by zero should not error, got %v", err)
	}
	if got.String() != "+Inf" {
		t.Errorf("1.0 / 0.0 = %s, want +Inf", got.String())
	}
}

func TestMulRepetition(t *testing.T) {
	got, err := FromString("ab").Mul(FromInt(3))
	if err != nil || got.UnwrapString() != "ababab" {
		t.Errorf("\"ab\" * 3 = %v, %v, want \"ababab\"", got, err)
	}
	got, err = FromInt(2).Mul(FromString("x")) // commuted
	if err != nil || got.UnwrapString() != "xx" {
		t.Errorf("2 * \"x\" = %v, %v, want \"xx\"", got, err)
	}
	if _, err := FromString("a").Mul(FromInt(-1)); err == nil {
		t.Error("expected negative repetition count to error")
	}
}

func TestCompareStrings(t *testing.T) {
	lt, err := FromString("a").Lt(FromString("b"))
	if err != nil || !lt.UnwrapBool() {
		t.Errorf("\"a\" < \"b\" = %v, %v, want true", lt, err)
	}
}

func TestEqHeterogeneousNeverEqual(t *testing.T) {
	eq, err := FromInt(1).Eq(FromString("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eq.UnwrapBool() {
		t.Error("int 1 and string \"1\" should never compare equal")
	}
}

func TestGetItemAndSetItem(t *testing.T) {
	list := FromList([]Value{FromInt(10), FromInt(20)})
	got, err := list.GetItem(FromInt(1))
	if err != nil || got.UnwrapInt() != 20 {
		t.Fatalf("GetItem(1) = %v, %v, want 20", got, err)
	}
	if err := list.SetItem(FromInt(0), FromInt(99)); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	got, _ = list.GetItem(FromInt(0))
	if got.UnwrapInt() != 99 {
		t.Errorf("after SetItem(0, 99), GetItem(0) = %d, want 99", got.UnwrapInt())
	}
	if _, err := list.GetItem(FromInt(5)); err == nil {
		t.Error("expected out-of-bounds GetItem to error")
	}
	if _, err := list.GetItem(FromInt(-1)); err == nil {
		t.Error("expected negative index to error")
	}
}

func TestGetItemOnString(t *testing.T) {
	got, err := FromString("AB").GetItem(FromInt(1))
	if err != nil || got.UnwrapInt() != 'B' {
		t.Fatalf("\"AB\"[1] = %v, %v, want 66", got, err)
	}
}

func TestToIntCoercions(t *testing.T) {
	got, err := FromFloat(3.9).ToInt()
	if err != nil || got.UnwrapInt() != 3 {
		t.Errorf("int(3.9) = %v, %v, want 3", got, err)
	}
	got, err = FromString("42").ToInt()
	if err != nil || got.UnwrapInt() != 42 {
		t.Errorf("int(\"42\") = %v, %v, want 42", got, err)
	}
	if _, err := FromString("nope").ToInt(); err == nil {
		t.Error("expected int(\"nope\") to error")
	}
}

func TestLen(t *testing.T) {
	got, err := FromString("hello").Len()
	if err != nil || got.UnwrapInt() != 5 {
		t.Errorf("len(\"hello\") = %v, %v, want 5", got, err)
	}
	if _, err := FromInt(1).Len(); err == nil {
		t.Error("expected len(1) to error")
	}
}
