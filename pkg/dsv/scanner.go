package dsv

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// scanState is the field scanner's state.
type scanState int

const (
	stateStartOfField scanState = iota
	stateInUnquotedField
	stateInQuotedField
	stateAfterClosingQuote
	stateAfterCR
	stateComment
	// stateQuotePending/stateEscapePending handle a peek-ahead decision
	// (doubled quote, or an escaped quote) that straddles a chunk
	// boundary: the byte that would resolve the decision hasn't
	// arrived yet.
	stateQuotePending
	stateEscapePending
)

// useWideScan gates the bulk-scan fast path used for runs of plain
// unquoted-field bytes. Both branches are byte-for-byte equivalent;
// this only changes which one runs, mirroring the CPU-feature gating
// nnnkkk7-go-simdcsv/simd_scanner.go uses to pick a scan strategy at
// runtime rather than at compile time.
var useWideScan = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

// rowSink receives completed rows and fatal errors from the scanner.
type rowSink interface {
	onRow(fields [][]byte) error
}

// scanner is the byte-level field/row tokenizer. It consumes the
// UTF-8 view produced by frontEnd and never buffers more than one
// in-flight field and row.
type scanner struct {
	sep     byte
	quote   byte
	escape  byte
	newline byte
	comment byte

	noQuoting         bool
	escapeEqualsQuote bool
	commentEnabled    bool
	lenientQuotes     bool
	maxRowBytes       int

	state      scanState
	preCRState scanState

	field    []byte
	row      [][]byte
	rowBytes int

	sink rowSink
}

func newScanner(cfg Config, sink rowSink) *scanner {
	return &scanner{
		sep:               cfg.Separator,
		quote:             cfg.Quote,
		escape:            cfg.Escape,
		newline:           cfg.Newline,
		comment:           cfg.Comment,
		noQuoting:         cfg.NoQuoting,
		escapeEqualsQuote: !cfg.NoQuoting && cfg.Escape == cfg.Quote,
		commentEnabled:    cfg.CommentMode == CommentEnabled,
		lenientQuotes:     cfg.LenientQuotes,
		maxRowBytes:       cfg.MaxRowBytes,
		sink:              sink,
		state:             stateStartOfField,
	}
}

// feed processes a chunk of the decoded UTF-8 view.
func (s *scanner) feed(data []byte) error {
	i := 0
	for i < len(data) {
		if s.state == stateComment {
			j := bytes.IndexByte(data[i:], s.newline)
			if j < 0 {
				return nil
			}
			i += j + 1
			s.state = stateStartOfField
			continue
		}

		if s.state == stateInUnquotedField && useWideScan {
			n := s.scanUnquotedRun(data[i:])
			if n > 0 {
				if err := s.appendCounted(data[i : i+n]); err != nil {
					return err
				}
				i += n
				continue
			}
		}

		b := data[i]
		redo, err := s.step(b)
		if err != nil {
			return err
		}
		if !redo {
			i++
		}
	}
	return nil
}

// scanUnquotedRun returns the length of the longest prefix of data
// containing none of sep/newline/'\r' — the only bytes with special
// meaning in stateInUnquotedField (quote and escape are literal there).
// A zero result means the very next byte is special and must go
// through step.
func (s *scanner) scanUnquotedRun(data []byte) int {
	n := len(data)
	if j := bytes.IndexByte(data, s.sep); j >= 0 && j < n {
		n = j
	}
	if j := bytes.IndexByte(data[:n], s.newline); j >= 0 {
		n = j
	}
	if j := bytes.IndexByte(data[:n], '\r'); j >= 0 {
		n = j
	}
	return n
}

func (s *scanner) appendCounted(b []byte) error {
	s.rowBytes += len(b)
	if s.rowBytes > s.maxRowBytes {
		return ErrRowTooLarge
	}
	s.field = append(s.field, b...)
	return nil
}

func (s *scanner) countByte() error {
	s.rowBytes++
	if s.rowBytes > s.maxRowBytes {
		return ErrRowTooLarge
	}
	return nil
}

func (s *scanner) appendByte(b byte) error {
	if err := s.countByte(); err != nil {
		return err
	}
	s.field = append(s.field, b)
	return nil
}

// closeField appends the current field buffer to the row and resets it.
func (s *scanner) closeField() {
	cp := append([]byte(nil), s.field...)
	s.row = append(s.row, cp)
	s.field = s.field[:0]
}

// closeRow emits the current row and resets row state.
func (s *scanner) closeRow() error {
	s.closeField()
	row := s.row
	s.row = nil
	s.rowBytes = 0
	s.state = stateStartOfField
	return s.sink.onRow(row)
}

// step processes one byte under the current state. redo is true when
// the byte was not consumed and must be re-presented to the (now
// updated) state — used for the AfterCR resume and the quote/escape
// pending resolution, both of which react to a byte without having
// "used up" it on a prior call.
func (s *scanner) step(b byte) (redo bool, err error) {
	switch s.state {
	case stateQuotePending:
		// b resolves a decision deferred from a previous call; it is
		// only "consumed" (and counted) if it turns out to be the
		// second half of a doubled quote. Otherwise it is handed,
		// uncounted so far, to the state this byte actually belongs to.
		if b == s.quote {
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.field = append(s.field, s.quote)
			s.state = stateInQuotedField
			return false, nil
		}
		s.state = stateAfterClosingQuote
		return true, nil

	case stateEscapePending:
		if b == s.quote {
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.field = append(s.field, s.quote)
			s.state = stateInQuotedField
			return false, nil
		}
		s.field = append(s.field, s.escape)
		s.state = stateInQuotedField
		return true, nil

	case stateStartOfField:
		if s.commentEnabled && len(s.row) == 0 && len(s.field) == 0 && b == s.comment {
			s.state = stateComment
			return false, nil
		}
		switch {
		case b == s.newline:
			if err := s.countByte(); err != nil {
				return false, err
			}
			return false, s.closeRow()
		case b == s.sep:
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.closeField()
			return false, nil
		case !s.noQuoting && b == s.quote:
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.state = stateInQuotedField
			return false, nil
		case b == '\r':
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.preCRState = stateStartOfField
			s.state = stateAfterCR
			return false, nil
		default:
			if err := s.appendByte(b); err != nil {
				return false, err
			}
			s.state = stateInUnquotedField
			return false, nil
		}

	case stateInUnquotedField:
		switch {
		case b == s.newline:
			if err := s.countByte(); err != nil {
				return false, err
			}
			return false, s.closeRow()
		case b == s.sep:
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.closeField()
			s.state = stateStartOfField
			return false, nil
		case b == '\r':
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.preCRState = stateInUnquotedField
			s.state = stateAfterCR
			return false, nil
		default:
			// Quote and escape are ordinary bytes here.
			if err := s.appendByte(b); err != nil {
				return false, err
			}
			return false, nil
		}

	case stateInQuotedField:
		switch {
		case !s.noQuoting && b == s.quote:
			if err := s.countByte(); err != nil {
				return false, err
			}
			if s.escapeEqualsQuote {
				s.state = stateQuotePending
				return false, nil
			}
			s.state = stateAfterClosingQuote
			return false, nil
		case !s.escapeEqualsQuote && !s.noQuoting && b == s.escape:
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.state = stateEscapePending
			return false, nil
		default:
			if err := s.appendByte(b); err != nil {
				return false, err
			}
			return false, nil
		}

	case stateAfterClosingQuote:
		switch {
		case b == s.newline:
			if err := s.countByte(); err != nil {
				return false, err
			}
			return false, s.closeRow()
		case b == s.sep:
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.closeField()
			s.state = stateStartOfField
			return false, nil
		case b == '\r':
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.preCRState = stateAfterClosingQuote
			s.state = stateAfterCR
			return false, nil
		default:
			// Tolerate junk between the closing quote and the next
			// separator/newline by gluing it onto the field.
			if err := s.appendByte(b); err != nil {
				return false, err
			}
			return false, nil
		}

	case stateAfterCR:
		switch {
		case b == s.newline:
			if err := s.countByte(); err != nil {
				return false, err
			}
			return false, s.closeRow()
		case b == s.sep:
			if err := s.countByte(); err != nil {
				return false, err
			}
			s.closeField()
			s.state = stateStartOfField
			return false, nil
		default:
			s.state = s.preCRState
			return true, nil
		}
	}
	return false, nil
}

// atEOF resolves any pending state at Flush() and emits a final row
// if one is in progress. It returns ErrUnterminatedQuote when the
// scanner is mid-quote and lenientQuotes is not set.
func (s *scanner) atEOF() error {
	switch s.state {
	case stateComment:
		return nil

	case stateQuotePending:
		s.state = stateAfterClosingQuote
		fallthrough
	case stateAfterClosingQuote, stateStartOfField, stateInUnquotedField:
		if len(s.row) == 0 && len(s.field) == 0 {
			return nil
		}
		return s.closeRow()

	case stateAfterCR:
		s.state = s.preCRState
		return s.atEOF()

	case stateEscapePending:
		s.field = append(s.field, s.escape)
		s.state = stateInQuotedField
		fallthrough
	case stateInQuotedField:
		if !s.lenientQuotes {
			return ErrUnterminatedQuote
		}
		return s.closeRow()
	}
	return nil
}
