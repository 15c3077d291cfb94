package dsv

import "fmt"

// Field is one header/value pair within a Record, in header order.
type Field struct {
	Header string
	Value  string
	// Raw holds the undecoded bytes when Config.Raw is set; Value is
	// left empty in that case.
	Raw []byte
}

// Record is a row bound to header names. Its field order always
// matches the header list currently installed on the Parser that
// produced it, followed by any synthetic "_k" fields for surplus
// columns beyond the header count (non-strict mode only).
type Record struct {
	fields []Field
}

// NewRecord builds a Record from fields in header order. Callers
// outside this package use it to construct derived records (e.g. after
// filtering or renaming columns).
func NewRecord(fields []Field) Record {
	return Record{fields: fields}
}

// Len returns the number of fields in the record.
func (r Record) Len() int { return len(r.fields) }

// Fields returns the record's fields in order. The returned slice must
// not be mutated.
func (r Record) Fields() []Field { return r.fields }

// Get returns the value for header, and whether it was present.
func (r Record) Get(header string) (string, bool) {
	for _, f := range r.fields {
		if f.Header == header {
			return f.Value, true
		}
	}
	return "", false
}

// Map materialises the record as a map[string]string. Later duplicate
// headers (a literal header list or an inferred header row may repeat
// a name) overwrite earlier ones, matching plain map semantics.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.fields))
	for _, f := range r.fields {
		m[f.Header] = f.Value
	}
	return m
}

func (r Record) String() string {
	return fmt.Sprintf("%v", r.Map())
}

func syntheticHeader(index int) string {
	return fmt.Sprintf("_%d", index)
}
