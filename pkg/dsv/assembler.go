package dsv

import (
	"strings"
	"unicode/utf8"
)

// assembler receives row-boundary events from the scanner and turns
// them into Records, applying skipLines, header acquisition/synthesis,
// strict field-count checking, and UTF-8 decoding.
type assembler struct {
	cfg Config

	rowIndex int // 0-based count of rows seen, before skipLines filtering

	headers        []string
	headersReady   bool
	headersPending bool // one-shot "headers just installed" notice

	out []Record
}

func newAssembler(cfg Config) *assembler {
	a := &assembler{cfg: cfg}
	if cfg.HeaderMode == HeadersLiteral {
		a.headers = append([]string(nil), cfg.Headers...)
		a.headersReady = true
		a.headersPending = true
	}
	return a
}

// onRow implements rowSink.
func (a *assembler) onRow(fields [][]byte) error {
	if a.rowIndex < a.cfg.SkipLines {
		a.rowIndex++
		return nil
	}
	a.rowIndex++

	if !a.headersReady {
		switch a.cfg.HeaderMode {
		case HeadersDisabled:
			a.headers = make([]string, len(fields))
			for i := range fields {
				a.headers[i] = syntheticHeader(i)
			}
			a.headersReady = true
			a.headersPending = true
			return a.buildRecord(fields)
		default: // HeadersAuto
			a.headers = make([]string, len(fields))
			for i, f := range fields {
				a.headers[i] = decodeHeader(f)
			}
			a.headersReady = true
			a.headersPending = true
			return nil
		}
	}

	return a.buildRecord(fields)
}

func (a *assembler) buildRecord(fields [][]byte) error {
	nh := len(a.headers)
	if a.cfg.Strict && len(fields) != nh {
		return ErrRowLengthMismatch
	}

	n := nh
	if len(fields) > n {
		n = len(fields)
	}
	rec := Record{fields: make([]Field, 0, n)}
	for i := 0; i < n; i++ {
		header := syntheticHeader(i)
		if i < nh {
			header = a.headers[i]
		}
		var f Field
		f.Header = header
		if i < len(fields) {
			if a.cfg.Raw {
				f.Raw = fields[i]
			} else {
				v, err := decodeFieldChecked(fields[i])
				if err != nil {
					return err
				}
				f.Value = v
			}
		}
		rec.fields = append(rec.fields, f)
	}
	a.out = append(a.out, rec)
	return nil
}

// drain returns and clears the buffered output records, along with
// whether a one-shot headers-ready notice is pending.
func (a *assembler) drain() ([]Record, bool) {
	out := a.out
	a.out = nil
	pending := a.headersPending
	a.headersPending = false
	return out, pending
}

// decodeHeader decodes a header field tolerantly: headers are always
// strings regardless of Config.Raw, and an embedded NUL never fails
// header acquisition (only row values trigger ErrInvalidData).
func decodeHeader(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}

// decodeFieldChecked decodes b as UTF-8, replacing invalid sequences,
// and rejects embedded NUL bytes.
func decodeFieldChecked(b []byte) (string, error) {
	for _, r := range b {
		if r == 0 {
			return "", ErrInvalidData
		}
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError)), nil
}
