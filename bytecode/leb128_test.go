package bytecode

import "testing"

func TestULEB128RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 63, 64, 127, 128, 300, 1 << 20, 1<<63 - 1}
	for _, n := range cases {
		buf := appendULEB128(nil, n)
		got, pos := DecodeULEB128(buf, 0)
		if got != n {
			t.Errorf("ULEB128 round trip for %d got %d", n, got)
		}
		if pos != len(buf) {
			t.Errorf("ULEB128(%d): decode consumed %d bytes, encoding is %d bytes", n, pos, len(buf))
		}
	}
}

func TestSLEB128RoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 63, -63, 64, -64, 1000, -1000, 1<<62 - 1, -(1 << 62)}
	for _, n := range cases {
		buf := appendSLEB128(nil, n)
		got, pos := DecodeSLEB128(buf, 0)
		if got != n {
			t.Errorf("SLEB128 round trip for %d got %d", n, got)
		}
		if pos != len(buf) {
			t.Errorf("SLEB128(%d): decode consumed %d bytes, encoding is %d bytes", n, pos, len(buf))
		}
	}
}

func TestULEB128SingleByteForSmallValues(t *testing.T) {
	for n := uint64(0); n < 128; n++ {
		buf := appendULEB128(nil, n)
		if len(buf) != 1 {
			t.Errorf("ULEB128(%d) encoded to %d bytes, want 1", n, len(buf))
		}
	}
}

func TestULEB128SequentialDecode(t *testing.T) {
	var buf []byte
	buf = appendULEB128(buf, 5)
	buf = appendULEB128(buf, 300)
	buf = appendULEB128(buf, 0)

	n1, pos := DecodeULEB128(buf, 0)
	n2, pos := DecodeULEB128(buf, pos)
	n3, pos := DecodeULEB128(buf, pos)
	if n1 != 5 || n2 != 300 || n3 != 0 {
		t.Fatalf("sequential decode = (%d, %d, %d), want (5, 300, 0)", n1, n2, n3)
	}
	if pos != len(buf) {
		t.Fatalf("final position = %d, want %d", pos, len(buf))
	}
}
