// Package encoding converts backend-origin bytes from code page 437 into the
// UTF-8 text sent to clients. Control characters pass through unchanged.
package encoding

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodeCP437 maps every input byte to its CP437 character. The mapping is
// total: there is no failing input.
func DecodeCP437(data []byte) []byte {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(charmap.CodePage437.DecodeByte(c))
	}
	return []byte(b.String())
}
