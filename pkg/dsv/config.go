package dsv

// HeaderMode selects how the row assembler obtains header names.
type HeaderMode int

const (
	// HeadersAuto infers headers from the first non-skipped row.
	HeadersAuto HeaderMode = iota
	// HeadersLiteral uses Config.Headers verbatim; the first data row
	// is not consumed as headers.
	HeadersLiteral
	// HeadersDisabled synthesises _0, _1, ... names from the first
	// data row's field count.
	HeadersDisabled
)

// CommentMode selects whether comment lines are recognised.
type CommentMode int

const (
	// CommentDisabled means no byte is treated as a comment marker.
	CommentDisabled CommentMode = iota
	// CommentEnabled means Config.Comment (defaulting to '#' if zero)
	// marks a comment line when it is the first byte of an empty row.
	CommentEnabled
)

// Config is immutable once passed to NewParser.
type Config struct {
	// Separator is the single-byte field delimiter. Zero value defaults to ','.
	Separator byte
	// Quote is the single-byte quote character. Zero value defaults to '"'.
	// Set NoQuoting to disable quoting entirely instead.
	Quote     byte
	NoQuoting bool
	// Escape is the single-byte escape character. Zero value defaults to Quote.
	Escape byte
	// Newline is the single-byte row terminator. Zero value defaults to '\n'.
	// A '\r' immediately preceding Newline is always silently discarded.
	Newline byte

	HeaderMode HeaderMode
	Headers    []string // only consulted when HeaderMode == HeadersLiteral

	// SkipLines is the count of raw rows dropped before header detection.
	SkipLines int

	CommentMode CommentMode
	Comment     byte // zero defaults to '#' when CommentMode == CommentEnabled

	// MaxRowBytes caps the cumulative bytes of one row, separators and
	// terminator included. Must be positive.
	MaxRowBytes int

	// Strict rejects rows whose field count differs from the header count.
	Strict bool

	// Raw emits field values as raw byte sequences rather than decoded
	// strings; NUL bytes and invalid UTF-8 are passed through unexamined.
	Raw bool

	// LenientQuotes makes Flush tolerate an input that ends inside a
	// quoted field instead of returning ErrUnterminatedQuote. Off by
	// default.
	LenientQuotes bool
}

// DefaultConfig returns comma-separated, double-quoted, LF-terminated,
// header-inferring, non-strict defaults with a 1MiB row cap.
func DefaultConfig() Config {
	return Config{
		Separator:   ',',
		Quote:       '"',
		Newline:     '\n',
		HeaderMode:  HeadersAuto,
		MaxRowBytes: 1 << 20,
	}
}

func (c *Config) normalize() error {
	if c.Separator == 0 {
		c.Separator = ','
	}
	if !c.NoQuoting {
		if c.Quote == 0 {
			c.Quote = '"'
		}
		if c.Escape == 0 {
			c.Escape = c.Quote
		}
	} else {
		c.Quote = 0
		c.Escape = 0
	}
	if c.Newline == 0 {
		c.Newline = '\n'
	}
	if c.CommentMode == CommentEnabled && c.Comment == 0 {
		c.Comment = '#'
	}
	if c.MaxRowBytes <= 0 {
		return parseErrf(0, ErrInvalidConfig, "maxRowBytes must be positive, got %d", c.MaxRowBytes)
	}
	if c.SkipLines < 0 {
		return parseErrf(0, ErrInvalidConfig, "skipLines must be non-negative, got %d", c.SkipLines)
	}
	if c.HeaderMode == HeadersLiteral && len(c.Headers) == 0 {
		return parseErrf(0, ErrInvalidConfig, "headerMode is HeadersLiteral but Headers is empty")
	}
	// Ambiguous configs aren't rejected. No fixed priority is applied
	// when one byte has two roles: the scanner tests newline, then
	// separator, then quote at the start of a field, tests the comment
	// byte before all of those at the start of a row, and tests quote
	// before escape inside a quoted field.
	return nil
}
