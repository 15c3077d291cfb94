package dsv

import (
	"bytes"
	"errors"
	"testing"
)

func transcodeAll(t *testing.T, chunks [][]byte) ([]byte, error) {
	t.Helper()
	var f frontEnd
	var out []byte
	for _, c := range chunks {
		view, err := f.push(c)
		if err != nil {
			return out, err
		}
		out = append(out, view...)
	}
	view, err := f.finish()
	out = append(out, view...)
	return out, err
}

func TestDetectUTF8NoBOM(t *testing.T) {
	got, err := transcodeAll(t, [][]byte{[]byte("a,b\n1,2\n")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "a,b\n1,2\n" {
		t.Fatalf("got %q", got)
	}
}

func TestDetectUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n")...)
	got, err := transcodeAll(t, [][]byte{input})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "a,b\n" {
		t.Fatalf("got %q, want BOM stripped", got)
	}
}

func TestBOMSplitAcrossChunks(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n")...)
	// split 2+1+rest and 1+2+rest
	for _, split := range [][]int{{2, 1}, {1, 2}} {
		var chunks [][]byte
		offset := 0
		for _, n := range split {
			chunks = append(chunks, input[offset:offset+n])
			offset += n
		}
		chunks = append(chunks, input[offset:])
		got, err := transcodeAll(t, chunks)
		if err != nil {
			t.Fatalf("split %v: unexpected error: %v", split, err)
		}
		if string(got) != "a,b\n" {
			t.Fatalf("split %v: got %q", split, got)
		}
	}
}

func TestUTF16LERoundTrip(t *testing.T) {
	text := "a,b\n1,2\n"
	input := encodeUTF16LE(text)
	got, err := transcodeAll(t, [][]byte{input})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != text {
		t.Fatalf("got %q, want %q", got, text)
	}
}

func TestUTF16BERoundTrip(t *testing.T) {
	text := "a,b\n1,2,ʤ\n"
	input := encodeUTF16BE(text)
	got, err := transcodeAll(t, [][]byte{input})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != text {
		t.Fatalf("got %q, want %q", got, text)
	}
}

func TestUTF16SurrogatePairSplitAcrossChunks(t *testing.T) {
	text := "a\n\U0001F600\n" // a surrogate pair (emoji), BE
	full := encodeUTF16BE(text)
	// split so the break falls inside the 4-byte surrogate pair.
	for splitAt := 2; splitAt < len(full); splitAt++ {
		got, err := transcodeAll(t, [][]byte{full[:splitAt], full[splitAt:]})
		if err != nil {
			t.Fatalf("splitAt=%d: unexpected error: %v", splitAt, err)
		}
		if string(got) != text {
			t.Fatalf("splitAt=%d: got %q, want %q", splitAt, got, text)
		}
	}
}

func TestUTF16OddTrailingByteIsFatal(t *testing.T) {
	input := []byte{0xFE, 0xFF, 0x00, 'a', 0x00}
	_, err := transcodeAll(t, [][]byte{input})
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestUTF16UnpairedSurrogateSubstituted(t *testing.T) {
	// A lone high surrogate (0xD800) with no following low surrogate.
	input := []byte{0xFE, 0xFF, 0xD8, 0x00, 0x00, 'x'}
	got, err := transcodeAll(t, [][]byte{input})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(got, []byte("�")) {
		t.Fatalf("got %q, want U+FFFD substitution", got)
	}
	if !bytes.HasSuffix(got, []byte("x")) {
		t.Fatalf("got %q, want trailing x preserved", got)
	}
}

func TestEmptyInputDefaultsToUTF8(t *testing.T) {
	got, err := transcodeAll(t, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %q, want empty", got)
	}
}

func encodeUTF16LE(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, r := range s {
		if r <= 0xFFFF {
			out = append(out, byte(r), byte(r>>8))
			continue
		}
		r -= 0x10000
		hi := 0xD800 + (r >> 10)
		lo := 0xDC00 + (r & 0x3FF)
		out = append(out, byte(hi), byte(hi>>8), byte(lo), byte(lo>>8))
	}
	return out
}
