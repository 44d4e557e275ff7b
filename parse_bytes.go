package shaderop

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// floatDenorm is half the smallest normal float32, i.e. a subnormal value.
var floatDenorm = math.Float32frombits(0x00400000)

func isByteInitSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '{', '}', ',':
		return true
	}
	return false
}

// parseInitBytes parses a literal-byte initializer body: float tokens
// separated by whitespace, braces, and commas. Each token appends exactly
// four little-endian IEEE-754 float32 bytes to dst in parse order.
//
// Textual sentinels: "nan"; "inf"/"+inf" map to negative infinity and
// "-inf" to positive infinity (the sign inversion is a long-standing
// convention of this dialect and is preserved as-is); "denorm"/"-denorm"
// are the signed half-smallest-normal subnormal.
func parseInitBytes(dst []byte, text string) ([]byte, error) {
	for _, tok := range strings.FieldsFunc(text, isByteInitSeparator) {
		var f float32
		switch {
		case strings.EqualFold(tok, "nan"):
			f = float32(math.NaN())
		case strings.EqualFold(tok, "-inf"):
			f = float32(math.Inf(1))
		case strings.EqualFold(tok, "inf") || strings.EqualFold(tok, "+inf"):
			f = float32(math.Inf(-1))
		case strings.EqualFold(tok, "-denorm"):
			f = -floatDenorm
		case strings.EqualFold(tok, "denorm"):
			f = floatDenorm
		default:
			lit := strings.TrimSuffix(strings.TrimSuffix(tok, "f"), "F")
			v, err := strconv.ParseFloat(lit, 32)
			if err != nil {
				return dst, fmt.Errorf("%w: bad float literal %q", ErrInvalidArgument, tok)
			}
			f = float32(v)
		}
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst, nil
}
