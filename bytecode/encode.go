package bytecode

import (
	"fmt"

	"github.com/informatter/natrix/source"
)

// Encode turns b's instruction list into bytes, resolving every label
// reference to a concrete relative jump delta.
//
// Jump deltas are variable-width (sleb128), and a delta's width can
// depend on label positions which themselves depend on the width of
// every jump between the start of the stream and that label — a
// circular dependency. Spec §4.5/§9 resolves it with a monotonic
// fixpoint: the first pass encodes every jump as if its delta were 0
// (the smallest possible sleb128 encoding, one byte), giving a lower
// bound on every label's offset. Each subsequent pass re-encodes using
// the previous pass's label offsets to compute real deltas; since those
// deltas can only be as large or larger than the all-zero guess, offsets
// only grow, never shrink, so the process terminates once a pass leaves
// every offset unchanged.
func (b *Builder) Encode() ([]byte, map[Label]int, map[int]source.Span, error) {
	labelOffset := make(map[Label]int)
	firstPass := true
	var code []byte
	var spans map[int]source.Span

	for iter := 0; ; iter++ {
		newOffsets := make(map[Label]int, len(labelOffset))
		newSpans := make(map[int]source.Span)
		buf := make([]byte, 0, len(code))
		cursor := 0

		for _, in := range b.instrs {
			if in.isLabelDef {
				newOffsets[in.label] = cursor
				continue
			}
			if in.hasSpan {
				newSpans[cursor] = in.span
			}
			var enc []byte
			switch {
			case isJump(in.op):
				var delta int64
				if firstPass {
					delta = 0
				} else {
					delta = int64(labelOffset[in.jumpTo] - cursor)
				}
				enc = append(enc, byte(in.op))
				enc = appendSLEB128(enc, delta)
			case in.op == PushInt:
				enc = append(enc, byte(in.op))
				enc = appendSLEB128(enc, in.intOp)
			case hasUintOperand(in.op):
				enc = append(enc, byte(in.op))
				enc = appendULEB128(enc, in.uintOp)
			default:
				enc = append(enc, byte(in.op))
			}
			buf = append(buf, enc...)
			cursor += len(enc)
		}

		firstPass = false
		stable := true
		for l, off := range newOffsets {
			prev, seen := labelOffset[l]
			if !seen {
				stable = false
				continue
			}
			if off < prev {
				return nil, nil, nil, fmt.Errorf("bytecode: label offset shrank between assembly passes (non-monotonic)")
			}
			if off != prev {
				stable = false
			}
		}
		labelOffset = newOffsets
		code = buf
		spans = newSpans
		if stable {
			return code, labelOffset, spans, nil
		}
		if iter > 10000 {
			return nil, nil, nil, fmt.Errorf("bytecode: jump-offset assembly did not converge")
		}
	}
}
