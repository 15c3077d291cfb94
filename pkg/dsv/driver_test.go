package dsv

import (
	"errors"
	"testing"
)

// parseAll pushes data through a fresh Parser built from cfg in
// chunks of size chunkSize (0 means "whole input in one Push"), then
// flushes it. It returns every record and the final error, if any.
func parseAll(t *testing.T, cfg Config, data []byte, chunkSize int) ([]Record, []string, error) {
	t.Helper()
	p, err := NewParser(cfg)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	var all []Record
	if chunkSize <= 0 {
		chunkSize = len(data) + 1
	}
	for i := 0; i < len(data); i += chunkSize {
		end := i + chunkSize
		if end > len(data) {
			end = len(data)
		}
		recs, err := p.Push(data[i:end])
		all = append(all, recs...)
		if err != nil {
			headers, _ := p.Headers()
			return all, headers, err
		}
	}
	recs, err := p.Flush()
	all = append(all, recs...)
	headers, _ := p.Headers()
	if err != nil {
		return all, headers, err
	}
	return all, headers, nil
}

func mustGet(t *testing.T, r Record, header string) string {
	t.Helper()
	v, ok := r.Get(header)
	if !ok {
		t.Fatalf("missing header %q in record %v", header, r)
	}
	return v
}

func TestBasic(t *testing.T) {
	input := []byte("a,b,c\n1,2,3\n")
	recs, headers, err := parseAll(t, DefaultConfig(), input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := headers, []string{"a", "b", "c"}; !eqStrings(got, want) {
		t.Fatalf("headers = %v, want %v", got, want)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if v := mustGet(t, recs[0], "a"); v != "1" {
		t.Fatalf("a = %q", v)
	}
	if v := mustGet(t, recs[0], "b"); v != "2" {
		t.Fatalf("b = %q", v)
	}
	if v := mustGet(t, recs[0], "c"); v != "3" {
		t.Fatalf("c = %q", v)
	}
}

func TestQuotedCommasAndNewlines(t *testing.T) {
	input := []byte("a,b,c,d,e\nJohn,Doe,120 any st.,\"Anytown, WW\",08123\n")
	recs, _, err := parseAll(t, DefaultConfig(), input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if v := mustGet(t, recs[0], "d"); v != "Anytown, WW" {
		t.Fatalf("d = %q", v)
	}
}

func TestDoubledQuoteEscape(t *testing.T) {
	input := []byte("a\n\"ha \"\"ha\"\" ha\"\n")
	recs, _, err := parseAll(t, DefaultConfig(), input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if v := mustGet(t, recs[0], "a"); v != `ha "ha" ha` {
		t.Fatalf("a = %q", v)
	}
}

func TestStrictMismatch(t *testing.T) {
	input := []byte("a,b,c\n1,2,3\n4,5\n6,7,8\n")
	cfg := DefaultConfig()
	cfg.Strict = true
	recs, _, err := parseAll(t, cfg, input, 0)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !errors.Is(err, ErrRowLengthMismatch) {
		t.Fatalf("expected ErrRowLengthMismatch, got %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records before the error, want 1", len(recs))
	}
}

func TestMaxRowBytes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRowBytes = 190

	var data []byte
	data = append(data, []byte("id,name,note\n")...)
	rowsWritten := 0
	for i := 0; i < 1200; i++ {
		row := []byte{}
		row = append(row, []byte("1,short,ok\n")...)
		data = append(data, row...)
		rowsWritten++
	}
	// One oversized row near the end.
	big := make([]byte, 0, 250)
	big = append(big, []byte("2,\"")...)
	for len(big) < 240 {
		big = append(big, 'x')
	}
	big = append(big, []byte("\",done\n")...)
	data = append(data, big...)

	recs, _, err := parseAll(t, cfg, data, 4096)
	if err == nil {
		t.Fatalf("expected ErrRowTooLarge, got nil")
	}
	if !errors.Is(err, ErrRowTooLarge) {
		t.Fatalf("expected ErrRowTooLarge, got %v", err)
	}
	if len(recs) < 1000 {
		t.Fatalf("got %d records before the error, want > 1000", len(recs))
	}
}

func TestUTF16BE(t *testing.T) {
	text := "a,b,c\n1,2,3\n4,5,ʤ\n"
	input := encodeUTF16BE(text)

	recs, _, err := parseAll(t, DefaultConfig(), input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if v := mustGet(t, recs[1], "c"); v != "ʤ" {
		t.Fatalf("c = %q, want %q", v, "ʤ")
	}
}

func encodeUTF16BE(s string) []byte {
	out := []byte{0xFE, 0xFF}
	for _, r := range s {
		if r <= 0xFFFF {
			out = append(out, byte(r>>8), byte(r))
			continue
		}
		r -= 0x10000
		hi := 0xD800 + (r >> 10)
		lo := 0xDC00 + (r & 0x3FF)
		out = append(out, byte(hi>>8), byte(hi), byte(lo>>8), byte(lo))
	}
	return out
}

func TestChunkInvariance(t *testing.T) {
	input := []byte("a,b,c\n\"x,y\",\"line1\nline2\",\"q\"\"q\"\n1,2,3\n")
	baseline, baseHeaders, baseErr := parseAll(t, DefaultConfig(), input, 0)
	if baseErr != nil {
		t.Fatalf("baseline error: %v", baseErr)
	}

	for chunkSize := 1; chunkSize <= len(input); chunkSize++ {
		recs, headers, err := parseAll(t, DefaultConfig(), input, chunkSize)
		if err != nil {
			t.Fatalf("chunkSize=%d: unexpected error: %v", chunkSize, err)
		}
		if !eqStrings(headers, baseHeaders) {
			t.Fatalf("chunkSize=%d: headers = %v, want %v", chunkSize, headers, baseHeaders)
		}
		if len(recs) != len(baseline) {
			t.Fatalf("chunkSize=%d: got %d records, want %d", chunkSize, len(recs), len(baseline))
		}
		for i := range recs {
			if !eqRecord(recs[i], baseline[i]) {
				t.Fatalf("chunkSize=%d: record %d = %v, want %v", chunkSize, i, recs[i], baseline[i])
			}
		}
	}
}

func TestHeadersDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeaderMode = HeadersDisabled
	recs, headers, err := parseAll(t, cfg, []byte("1,2,3\n4,5,6\n"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"_0", "_1", "_2"}; !eqStrings(headers, want) {
		t.Fatalf("headers = %v, want %v", headers, want)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if v := mustGet(t, recs[0], "_0"); v != "1" {
		t.Fatalf("_0 = %q", v)
	}
}

func TestHeadersLiteral(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeaderMode = HeadersLiteral
	cfg.Headers = []string{"x", "y"}
	recs, headers, err := parseAll(t, cfg, []byte("1,2\n3,4\n"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eqStrings(headers, []string{"x", "y"}) {
		t.Fatalf("headers = %v", headers)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (first row must be data, not header)", len(recs))
	}
	if v := mustGet(t, recs[0], "x"); v != "1" {
		t.Fatalf("x = %q", v)
	}
}

func TestSkipLines(t *testing.T) {
	input := []byte("junk line\nmore junk\na,b\n1,2\n")
	cfg := DefaultConfig()
	cfg.SkipLines = 2
	recs, headers, err := parseAll(t, cfg, input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eqStrings(headers, []string{"a", "b"}) {
		t.Fatalf("headers = %v", headers)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
}

func TestSkipComments(t *testing.T) {
	input := []byte("# a comment\na,b\n# another\n1,2\n")
	cfg := DefaultConfig()
	cfg.CommentMode = CommentEnabled
	recs, headers, err := parseAll(t, cfg, input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eqStrings(headers, []string{"a", "b"}) {
		t.Fatalf("headers = %v", headers)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
}

func TestCommentMidRowIsLiteral(t *testing.T) {
	input := []byte("a,b\n1,has#hash\n")
	cfg := DefaultConfig()
	cfg.CommentMode = CommentEnabled
	recs, _, err := parseAll(t, cfg, input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := mustGet(t, recs[0], "b"); v != "has#hash" {
		t.Fatalf("b = %q", v)
	}
}

func TestCRLF(t *testing.T) {
	input := []byte("a,b\r\n1,2\r\n")
	lf := []byte("a,b\n1,2\n")
	got, _, err := parseAll(t, DefaultConfig(), input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _, err := parseAll(t, DefaultConfig(), lf, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) || !eqRecord(got[0], want[0]) {
		t.Fatalf("CRLF parse = %v, want %v", got, want)
	}
}

func TestUnterminatedQuote(t *testing.T) {
	input := []byte("a,b\n\"unterminated,2\n")
	_, _, err := parseAll(t, DefaultConfig(), input, 0)
	if !errors.Is(err, ErrUnterminatedQuote) {
		t.Fatalf("expected ErrUnterminatedQuote, got %v", err)
	}
}

func TestUnterminatedQuoteLenient(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LenientQuotes = true
	input := []byte("a,b\n\"trailing,2\n")
	recs, _, err := parseAll(t, cfg, input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
}

func TestNoTrailingNewline(t *testing.T) {
	input := []byte("a,b\n1,2")
	recs, _, err := parseAll(t, DefaultConfig(), input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || mustGet(t, recs[0], "b") != "2" {
		t.Fatalf("recs = %v", recs)
	}
}

func TestEmptyInput(t *testing.T) {
	recs, headers, err := parseAll(t, DefaultConfig(), []byte{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 || headers != nil {
		t.Fatalf("recs=%v headers=%v, want empty", recs, headers)
	}
}

func TestEmptyTrailingField(t *testing.T) {
	input := []byte("a,b\n1,\n")
	recs, _, err := parseAll(t, DefaultConfig(), input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := mustGet(t, recs[0], "b"); v != "" {
		t.Fatalf("b = %q, want empty", v)
	}
}

func TestNonStrictRaggedRows(t *testing.T) {
	input := []byte("a,b,c\n1,2\n3,4,5,6\n")
	recs, _, err := parseAll(t, DefaultConfig(), input, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := mustGet(t, recs[0], "c"); v != "" {
		t.Fatalf("missing field default = %q, want empty", v)
	}
	if v := mustGet(t, recs[1], "_3"); v != "6" {
		t.Fatalf("surplus field _3 = %q, want 6", v)
	}
}

func TestPoisonedAfterError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strict = true
	p, err := NewParser(cfg)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.Push([]byte("a,b\n1\n")); !errors.Is(err, ErrRowLengthMismatch) {
		t.Fatalf("expected ErrRowLengthMismatch, got %v", err)
	}
	if _, err := p.Push([]byte("1,2\n")); !errors.Is(err, ErrRowLengthMismatch) {
		t.Fatalf("expected poisoned parser to keep returning the same error, got %v", err)
	}
	if _, err := p.Flush(); !errors.Is(err, ErrRowLengthMismatch) {
		t.Fatalf("expected poisoned parser to keep returning the same error, got %v", err)
	}
}

func TestClosedAfterFlush(t *testing.T) {
	p, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.Push([]byte("a,b\n1,2\n")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if _, err := p.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, err := p.Push([]byte("3,4\n")); !errors.Is(err, ErrParserClosed) {
		t.Fatalf("expected ErrParserClosed, got %v", err)
	}
}

func eqStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func eqRecord(a, b Record) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, f := range a.fields {
		if f.Header != b.fields[i].Header || f.Value != b.fields[i].Value {
			return false
		}
	}
	return true
}
