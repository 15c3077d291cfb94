// Package dsv implements a streaming, chunk-invariant parser for
// delimiter-separated values (CSV/TSV and relatives). It converts an
// arbitrary sequence of byte chunks into an ordered stream of records
// bound to header names, honoring quoting, escaping, embedded
// separators/newlines, UTF-8/UTF-16 input, and configurable row-size
// and strictness policies.
//
// A Parser is single-threaded, non-suspending, and allocates only what
// it needs for the current in-flight field and row; it never buffers
// more than one record ahead. It is driven with Push and Flush:
//
//	p, err := dsv.NewParser(dsv.DefaultConfig())
//	for chunk := range chunks {
//	    records, err := p.Push(chunk)
//	    ...
//	}
//	records, err := p.Flush()
package dsv

// Parser owns configuration, lifecycle, and the output queue of
// records emitted since the last drain.
type Parser struct {
	cfg Config

	front     frontEnd
	scan      *scanner
	asm       *assembler
	rawOffset int64

	closed bool
	err    error
}

// NewParser validates cfg and returns a ready-to-use Parser.
func NewParser(cfg Config) (*Parser, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	asm := newAssembler(cfg)
	return &Parser{
		cfg:  cfg,
		scan: newScanner(cfg, asm),
		asm:  asm,
	}, nil
}

// Push feeds the next chunk of input. Chunk boundaries are invisible
// in the output: splitting the same byte stream into any sequence of
// chunks and calling Push per chunk, then Flush, yields identical
// records and headers.
func (p *Parser) Push(chunk []byte) ([]Record, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.closed {
		return nil, ErrParserClosed
	}

	p.rawOffset += int64(len(chunk))

	view, err := p.front.push(chunk)
	if err != nil {
		records, _ := p.asm.drain()
		return records, p.fail(err)
	}
	feedErr := p.scan.feed(view)
	records, _ := p.asm.drain()
	if feedErr != nil {
		return records, p.fail(feedErr)
	}
	return records, nil
}

// Flush signals end of input, committing any open trailing field/row.
// After Flush, the Parser rejects further Push/Flush calls.
func (p *Parser) Flush() ([]Record, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.closed {
		return nil, ErrParserClosed
	}
	p.closed = true

	view, err := p.front.finish()
	if err != nil {
		records, _ := p.asm.drain()
		return records, p.fail(err)
	}
	if len(view) > 0 {
		if feedErr := p.scan.feed(view); feedErr != nil {
			records, _ := p.asm.drain()
			return records, p.fail(feedErr)
		}
	}
	eofErr := p.scan.atEOF()
	records, _ := p.asm.drain()
	if eofErr != nil {
		return records, p.fail(eofErr)
	}
	return records, nil
}

// Headers returns the installed header list, or (nil, false) if
// headers have not been observed yet (no row has been assembled).
func (p *Parser) Headers() ([]string, bool) {
	if !p.asm.headersReady {
		return nil, false
	}
	return append([]string(nil), p.asm.headers...), true
}

// fail poisons the parser: every subsequent Push/Flush returns the
// same error.
func (p *Parser) fail(cause error) error {
	err := &ParseError{Offset: p.rawOffset, Kind: cause, Err: cause}
	p.err = err
	return err
}
