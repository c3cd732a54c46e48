package encoding

import (
	"testing"
	"unicode/utf8"
)

func TestDecodeASCIIPassthrough(t *testing.T) {
	out := DecodeCP437([]byte{0x41, 0x42})
	if string(out) != "AB" {
		t.Errorf("expected AB, got %q", out)
	}
}

func TestDecodeControlCharactersPreserved(t *testing.T) {
	out := DecodeCP437([]byte{'\r', '\n', 0x1b})
	if string(out) != "\r\n\x1b" {
		t.Errorf("control bytes not preserved: %q", out)
	}
}

func TestDecodeBoxDrawing(t *testing.T) {
	// 0xDB is the CP437 full block, common in BBS art.
	out := DecodeCP437([]byte{0xDB})
	if string(out) != "█" {
		t.Errorf("expected full block, got %q", out)
	}
}

func TestDecodeIsTotal(t *testing.T) {
	for i := 0; i < 256; i++ {
		out := DecodeCP437([]byte{byte(i)})
		if len(out) == 0 {
			t.Fatalf("byte 0x%02x produced empty output", i)
		}
		if !utf8.Valid(out) {
			t.Fatalf("byte 0x%02x produced invalid UTF-8: %v", i, out)
		}
	}
}
