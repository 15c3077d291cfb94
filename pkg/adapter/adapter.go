// Package adapter turns pkg/dsv's chunked Push/Flush driver into a
// pull-based Reader over an io.Reader, in the style of this module's
// original single-shot ReadRecord() loop. It also applies optional
// header/value transformation hooks that sit outside the parsing core.
package adapter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ooyeku/csvstream/pkg/dsv"
)

// chunkSize is the read buffer size handed to the parser per Push.
// 64KB matches the buffer size the hand-rolled byte-at-a-time reader
// this package replaces used for its bufio.Reader.
const chunkSize = 64 * 1024

// HeaderMapper renames or drops a header discovered at parse time.
// Returning ok=false drops the column: its values are excluded from
// every subsequent record.
type HeaderMapper func(header string, index int) (name string, ok bool)

// ValueMapper transforms a single field's decoded value before it
// reaches the caller.
type ValueMapper func(header string, index int, value string) string

// Options configures a Reader beyond what dsv.Config covers.
type Options struct {
	Config     dsv.Config
	MapHeaders HeaderMapper
	MapValues  ValueMapper
}

// Reader adapts an io.Reader into a pull-based stream of dsv.Records,
// applying Options' transformation hooks and tracking how many
// (post-transformation) output bytes have been handed back so far.
type Reader struct {
	src *bufio.Reader
	buf []byte
	p   *dsv.Parser
	opt Options

	keep    []bool   // per-original-column: kept after HeaderMapper
	headers []string // post-mapping header names, once resolved

	queue []dsv.Record
	pos   int
	eof   bool
	err   error

	outputByteOffset int64
}

// NewReader constructs a Reader. cfg is validated the same way
// dsv.NewParser validates it.
func NewReader(r io.Reader, opt Options) (*Reader, error) {
	p, err := dsv.NewParser(opt.Config)
	if err != nil {
		return nil, err
	}
	return &Reader{
		src: bufio.NewReaderSize(r, chunkSize),
		buf: make([]byte, chunkSize),
		p:   p,
		opt: opt,
	}, nil
}

// Headers returns the (possibly renamed/filtered) header list. It is
// only populated once the first row has been parsed; ok is false
// until then.
func (rd *Reader) Headers() ([]string, bool) {
	if rd.headers == nil {
		return nil, false
	}
	return append([]string(nil), rd.headers...), true
}

// OutputByteOffset returns the number of value bytes handed back to
// the caller across every Record.Value read so far, after mapping.
func (rd *Reader) OutputByteOffset() int64 {
	return rd.outputByteOffset
}

// ReadRecord returns the next transformed record, or io.EOF once the
// stream is exhausted. Once ReadRecord returns a non-EOF error, every
// subsequent call returns the same error.
func (rd *Reader) ReadRecord() (dsv.Record, error) {
	if rd.err != nil {
		return dsv.Record{}, rd.err
	}
	for rd.pos >= len(rd.queue) {
		if rd.eof {
			return dsv.Record{}, io.EOF
		}
		if err := rd.fill(); err != nil {
			rd.err = err
			return dsv.Record{}, err
		}
	}
	rec := rd.queue[rd.pos]
	rd.pos++
	return rd.transform(rec), nil
}

// fill pulls one more chunk from src and pushes it through the
// parser, replacing the pending-records queue.
func (rd *Reader) fill() error {
	n, readErr := rd.src.Read(rd.buf)

	var recs []dsv.Record
	if n > 0 {
		var pushErr error
		recs, pushErr = rd.p.Push(rd.buf[:n])
		if pushErr != nil {
			return pushErr
		}
	}

	if readErr == io.EOF {
		flushed, flushErr := rd.p.Flush()
		recs = append(recs, flushed...)
		rd.eof = true
		if flushErr != nil {
			return flushErr
		}
	} else if readErr != nil {
		return fmt.Errorf("adapter: reading input: %w", readErr)
	}

	rd.bindHeaders()
	rd.queue = recs
	rd.pos = 0
	return nil
}

// bindHeaders resolves rd.headers/rd.keep from the parser's header
// list the first time they become available, applying MapHeaders.
func (rd *Reader) bindHeaders() {
	if rd.headers != nil {
		return
	}
	headers, ok := rd.p.Headers()
	if !ok {
		return
	}
	rd.keep = make([]bool, len(headers))
	for i, h := range headers {
		name := h
		keep := true
		if rd.opt.MapHeaders != nil {
			name, keep = rd.opt.MapHeaders(h, i)
		}
		rd.keep[i] = keep
		if keep {
			rd.headers = append(rd.headers, name)
		}
	}
}

// transform applies MapValues and column filtering to rec, producing
// the record actually returned to the caller.
func (rd *Reader) transform(rec dsv.Record) dsv.Record {
	if rd.opt.MapValues == nil && allTrue(rd.keep) {
		for _, f := range rec.Fields() {
			rd.outputByteOffset += int64(len(f.Value))
		}
		return rec
	}

	out := make([]dsv.Field, 0, rec.Len())
	outPos := 0
	for i, f := range rec.Fields() {
		if i < len(rd.keep) && !rd.keep[i] {
			continue
		}
		v := f.Value
		if rd.opt.MapValues != nil {
			v = rd.opt.MapValues(f.Header, i, v)
		}
		header := f.Header
		if outPos < len(rd.headers) {
			header = rd.headers[outPos]
		}
		outPos++
		rd.outputByteOffset += int64(len(v))
		out = append(out, dsv.Field{Header: header, Value: v})
	}
	return dsv.NewRecord(out)
}

func allTrue(bs []bool) bool {
	for _, b := range bs {
		if !b {
			return false
		}
	}
	return true
}
