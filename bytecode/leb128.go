package bytecode

// appendULEB128 appends the unsigned LEB128 encoding of n to buf,
// matching the index/slot/count immediates used by PushConst, LoadLocal,
// StoreLocal, LoadGlobal, StoreGlobal, LoadBuiltin, MakeList and Call.
func appendULEB128(buf []byte, n uint64) []byte {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			buf = append(buf, b|0x80)
		} else {
			buf = append(buf, b)
			return buf
		}
	}
}

// DecodeULEB128 reads an unsigned LEB128 value starting at buf[pos] and
// returns it along with the position just past its last byte. Exported
// for the vm package, which decodes operands out of the final code
// stream at run time.
func DecodeULEB128(buf []byte, pos int) (uint64, int) {
	var result uint64
	var shift uint
	for {
		b := buf[pos]
		pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, pos
		}
		shift += 7
	}
}

// appendSLEB128 appends the signed LEB128 encoding of n to buf, used for
// PushInt literals and Jmp/JFalse/JTrue relative offsets.
func appendSLEB128(buf []byte, n int64) []byte {
	more := true
	for more {
		b := byte(n & 0x7f)
		n >>= 7
		signBitSet := b&0x40 != 0
		if (n == 0 && !signBitSet) || (n == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		buf = append(buf, b)
	}
	return buf
}

// DecodeSLEB128 reads a signed LEB128 value starting at buf[pos] and
// returns it along with the position just past its last byte. Exported
// for the vm package.
func DecodeSLEB128(buf []byte, pos int) (int64, int) {
	var result int64
	var shift uint
	var b byte
	for {
		b = buf[pos]
		pos++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, pos
}
