package table

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/ooyeku/csvstream/pkg/adapter"
	"github.com/ooyeku/csvstream/pkg/dsv"
)

// Table represents a data table with headers and rows. Rows are kept
// as dsv.Record values rather than flattened [][]string, so a field's
// header binding and its decoded value travel together the way the
// parser produced them, and the JSON/HTML/REPL consumers below read
// straight off the Record rather than a positional slice.
type Table struct {
	Headers []string
	Rows    []dsv.Record
	types   []ColumnType
	index   map[string]int // Header to column index mapping
}

// ColumnType represents the detected type of a column
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeNull
)

// NewTable creates a new table with the given headers
func NewTable(headers []string) *Table {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	types := make([]ColumnType, len(headers))
	for i := range types {
		types[i] = TypeNull
	}
	return &Table{
		Headers: headers,
		Rows:    make([]dsv.Record, 0),
		types:   types,
		index:   index,
	}
}

// FromRecords builds a Table from a batch of decoded dsv records,
// rebinding each record's fields to headers. Records whose field count
// differs from headers (possible in non-strict mode) are padded or
// truncated to headers' width.
func FromRecords(headers []string, records []dsv.Record) (*Table, error) {
	t := NewTable(headers)
	for _, rec := range records {
		fields := rec.Fields()
		bound := make([]dsv.Field, len(headers))
		for i, h := range headers {
			var v string
			if i < len(fields) {
				v = fields[i].Value
			}
			bound[i] = dsv.Field{Header: h, Value: v}
		}
		if err := t.AddRecord(dsv.NewRecord(bound)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ReadTable drains r through a parser built from cfg and collects the
// result into a Table. It is the table package's equivalent of the
// original one-shot "read the whole file" entry point, built on top of
// the streaming adapter.Reader instead of a single-pass scanner.
func ReadTable(r io.Reader, cfg dsv.Config) (*Table, error) {
	rd, err := adapter.NewReader(r, adapter.Options{Config: cfg})
	if err != nil {
		return nil, err
	}

	var records []dsv.Record
	for {
		rec, err := rd.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	headers, _ := rd.Headers()
	return FromRecords(headers, records)
}

// AddRecord appends rec as a row. rec must have exactly one field per
// table header; its fields keep their own Header names, and table
// accessors read them by position.
func (t *Table) AddRecord(rec dsv.Record) error {
	if rec.Len() != len(t.Headers) {
		return fmt.Errorf("row length %d does not match headers length %d", rec.Len(), len(t.Headers))
	}
	t.Rows = append(t.Rows, rec)
	t.updateTypes(rec)
	return nil
}

// AddRow is a convenience for building rows from plain values (e.g.
// the REPL's synthesized report tables); it binds each value to the
// table's headers and funnels through AddRecord like any other row.
func (t *Table) AddRow(row []string) error {
	if len(row) != len(t.Headers) {
		return fmt.Errorf("row length %d does not match headers length %d", len(row), len(t.Headers))
	}
	fields := make([]dsv.Field, len(row))
	for i, v := range row {
		fields[i] = dsv.Field{Header: t.Headers[i], Value: v}
	}
	return t.AddRecord(dsv.NewRecord(fields))
}

// valueAt returns rec's value at column index idx, or "" if rec is
// shorter than idx (possible for ragged non-strict rows).
func valueAt(rec dsv.Record, idx int) string {
	fields := rec.Fields()
	if idx < len(fields) {
		return fields[idx].Value
	}
	return ""
}

// rowValues materialises rec as a positional []string the width of
// the table's headers, for renderers that need plain cell text.
func (t *Table) rowValues(rec dsv.Record) []string {
	row := make([]string, len(t.Headers))
	for i := range t.Headers {
		row[i] = valueAt(rec, i)
	}
	return row
}

// updateTypes updates the detected types for each column based on rec
func (t *Table) updateTypes(rec dsv.Record) {
	for i, f := range rec.Fields() {
		if i >= len(t.types) {
			break
		}
		if t.types[i] == TypeNull {
			t.types[i] = detectType(f.Value)
			continue
		}
		newType := detectType(f.Value)
		if newType != t.types[i] {
			// If types conflict, fall back to string
			t.types[i] = TypeString
		}
	}
}

// detectType attempts to determine the type of a value
func detectType(val string) ColumnType {
	if val == "" || strings.EqualFold(val, "null") || strings.EqualFold(val, "\\N") {
		return TypeNull
	}
	if strings.EqualFold(val, "true") || strings.EqualFold(val, "false") {
		return TypeBoolean
	}
	if _, err := strconv.ParseInt(val, 10, 64); err == nil {
		return TypeInteger
	}
	if _, err := strconv.ParseFloat(val, 64); err == nil {
		return TypeFloat
	}
	return TypeString
}

// GetColumn returns all values in a column by header name
func (t *Table) GetColumn(header string) ([]string, error) {
	idx, ok := t.index[header]
	if !ok {
		return nil, fmt.Errorf("column %q not found", header)
	}
	col := make([]string, len(t.Rows))
	for i, rec := range t.Rows {
		col[i] = valueAt(rec, idx)
	}
	return col, nil
}

// GetColumnType returns the detected type of a column
func (t *Table) GetColumnType(header string) (ColumnType, error) {
	idx, ok := t.index[header]
	if !ok {
		return TypeString, fmt.Errorf("column %q not found", header)
	}
	return t.types[idx], nil
}

// Filter returns a new table containing only records that match the predicate
func (t *Table) Filter(predicate func(rec dsv.Record) bool) *Table {
	newTable := NewTable(t.Headers)
	for _, rec := range t.Rows {
		if predicate(rec) {
			if err := newTable.AddRecord(rec); err != nil {
				return nil
			}
		}
	}
	return newTable
}

// Sort sorts the table by the specified columns
// columns should be in the format: ["name:asc", "age:desc"]
func (t *Table) Sort(columns []string) error {
	type sortKey struct {
		idx  int
		desc bool
	}

	keys := make([]sortKey, len(columns))
	for i, col := range columns {
		parts := strings.Split(col, ":")
		if len(parts) != 2 {
			return fmt.Errorf("invalid sort format for %q, expected 'column:asc' or 'column:desc'", col)
		}

		idx, ok := t.index[parts[0]]
		if !ok {
			return fmt.Errorf("column %q not found", parts[0])
		}

		keys[i] = sortKey{idx: idx, desc: strings.EqualFold(parts[1], "desc")}
	}

	sort.SliceStable(t.Rows, func(i, j int) bool {
		for _, key := range keys {
			a, b := valueAt(t.Rows[i], key.idx), valueAt(t.Rows[j], key.idx)
			if a == b {
				continue
			}
			less := a < b
			if key.desc {
				less = !less
			}
			return less
		}
		return false
	})

	return nil
}

// GroupBy groups rows by the specified columns and applies aggregations
func (t *Table) GroupBy(groupCols []string, aggs map[string]string) (*Table, error) {
	groupIndices := make([]int, len(groupCols))
	for i, col := range groupCols {
		idx, ok := t.index[col]
		if !ok {
			return nil, fmt.Errorf("group column %q not found", col)
		}
		groupIndices[i] = idx
	}

	aggIndices := make(map[string]int, len(aggs))
	for col := range aggs {
		idx, ok := t.index[col]
		if !ok {
			return nil, fmt.Errorf("aggregation column %q not found", col)
		}
		aggIndices[col] = idx
	}

	headers := make([]string, 0, len(groupCols)+len(aggs))
	headers = append(headers, groupCols...)
	for col := range aggs {
		headers = append(headers, col)
	}

	groups := make(map[string][]dsv.Record)
	order := make([]string, 0)
	for _, rec := range t.Rows {
		key := make([]string, len(groupIndices))
		for i, idx := range groupIndices {
			key[i] = valueAt(rec, idx)
		}
		groupKey := strings.Join(key, "\x00")
		if _, seen := groups[groupKey]; !seen {
			order = append(order, groupKey)
		}
		groups[groupKey] = append(groups[groupKey], rec)
	}

	result := NewTable(headers)
	for _, groupKey := range order {
		rows := groups[groupKey]
		groupVals := strings.Split(groupKey, "\x00")

		fields := make([]dsv.Field, len(headers))
		for i, h := range headers {
			fields[i] = dsv.Field{Header: h}
		}
		for i, v := range groupVals {
			fields[i].Value = v
		}

		i := len(groupVals)
		for _, col := range headers[len(groupCols):] {
			agg := aggs[col]
			idx := aggIndices[col]
			vals := make([]string, len(rows))
			for j, rec := range rows {
				vals[j] = valueAt(rec, idx)
			}

			aggVal, err := aggregate(vals, agg)
			if err != nil {
				return nil, fmt.Errorf("aggregation error for %q: %w", col, err)
			}
			fields[i].Value = aggVal
			i++
		}

		if err := result.AddRecord(dsv.NewRecord(fields)); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// aggregate performs the named aggregation on a column's values
func aggregate(vals []string, agg string) (string, error) {
	switch strings.ToLower(agg) {
	case "count":
		return strconv.Itoa(len(vals)), nil

	case "sum":
		var sum float64
		for _, v := range vals {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return "", fmt.Errorf("invalid number %q for sum", v)
			}
			sum += f
		}
		return strconv.FormatFloat(sum, 'f', -1, 64), nil

	case "avg":
		if len(vals) == 0 {
			return "0", nil
		}
		var sum float64
		for _, v := range vals {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return "", fmt.Errorf("invalid number %q for average", v)
			}
			sum += f
		}
		avg := sum / float64(len(vals))
		return strconv.FormatFloat(avg, 'f', -1, 64), nil

	case "minimum":
		if len(vals) == 0 {
			return "", nil
		}
		minValue := vals[0]
		for _, v := range vals[1:] {
			if v < minValue {
				minValue = v
			}
		}
		return minValue, nil

	case "maximum":
		if len(vals) == 0 {
			return "", nil
		}
		maximum := vals[0]
		for _, v := range vals[1:] {
			if v > maximum {
				maximum = v
			}
		}
		return maximum, nil

	default:
		return "", fmt.Errorf("unknown aggregation %q", agg)
	}
}

// String returns a string representation of the table
func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return "empty table"
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, rec := range t.Rows {
		for i, cell := range t.rowValues(rec) {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder

	for i, h := range t.Headers {
		if i > 0 {
			sb.WriteString(" | ")
		}
		fmt.Fprintf(&sb, "%-*s", widths[i], h)
	}
	sb.WriteString("\n")

	for i, w := range widths {
		if i > 0 {
			sb.WriteString("-+-")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")

	for _, rec := range t.Rows {
		for i, cell := range t.rowValues(rec) {
			if i > 0 {
				sb.WriteString(" | ")
			}
			fmt.Fprintf(&sb, "%-*s", widths[i], cell)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Copy creates a deep copy of the table
func (t *Table) Copy() *Table {
	newTable := NewTable(append([]string{}, t.Headers...))
	newTable.types = append([]ColumnType{}, t.types...)
	for k, v := range t.index {
		newTable.index[k] = v
	}
	for _, rec := range t.Rows {
		fields := append([]dsv.Field(nil), rec.Fields()...)
		newTable.Rows = append(newTable.Rows, dsv.NewRecord(fields))
	}
	return newTable
}

// ExportToJSON writes the table to writer as an indented JSON array of objects
func (t *Table) ExportToJSON(writer io.Writer) error {
	if t == nil || len(t.Headers) == 0 {
		return fmt.Errorf("cannot export empty table")
	}

	data := make([]map[string]interface{}, len(t.Rows))
	for i, rec := range t.Rows {
		rowMap := make(map[string]interface{})
		for j, header := range t.Headers {
			colType, _ := t.GetColumnType(header)
			value := valueAt(rec, j)

			switch colType {
			case TypeInteger:
				if val, err := strconv.ParseInt(value, 10, 64); err == nil {
					rowMap[header] = val
					continue
				}
			case TypeFloat:
				if val, err := strconv.ParseFloat(value, 64); err == nil {
					rowMap[header] = val
					continue
				}
			case TypeBoolean:
				if strings.EqualFold(value, "true") {
					rowMap[header] = true
					continue
				} else if strings.EqualFold(value, "false") {
					rowMap[header] = false
					continue
				}
			case TypeNull:
				if value == "" || strings.EqualFold(value, "null") || strings.EqualFold(value, "\\N") {
					rowMap[header] = nil
					continue
				}
			}
			rowMap[header] = value
		}
		data[i] = rowMap
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// ExportToHTML exports the table to an HTML file with responsive styling
func (t *Table) ExportToHTML(writer io.Writer) error {
	if t == nil || len(t.Headers) == 0 {
		return fmt.Errorf("cannot export empty table")
	}

	const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>CSV Data</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
            line-height: 1.6;
            padding: 20px;
            max-width: 100%;
            overflow-x: auto;
        }
        table {
            border-collapse: collapse;
            width: 100%;
            margin: 20px 0;
            background-color: white;
            box-shadow: 0 1px 3px rgba(0,0,0,0.2);
        }
        th, td {
            padding: 12px 15px;
            text-align: left;
            border-bottom: 1px solid #ddd;
        }
        th {
            background-color: #f8f9fa;
            font-weight: 600;
            color: #333;
            position: sticky;
            top: 0;
        }
        tr:nth-child(even) {
            background-color: #f8f9fa;
        }
        tr:hover {
            background-color: #f2f2f2;
        }
        @media (max-width: 600px) {
            table {
                display: block;
                overflow-x: auto;
            }
            th, td {
                min-width: 120px;
            }
        }
    </style>
</head>
<body>
    <table>
        <thead>
            <tr>
                {{range .Headers}}<th>{{.}}</th>{{end}}
            </tr>
        </thead>
        <tbody>
            {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
        </tbody>
    </table>
</body>
</html>`

	tmpl, err := template.New("table").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("error parsing HTML template: %w", err)
	}

	view := struct {
		Headers []string
		Rows    [][]string
	}{
		Headers: t.Headers,
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, rec := range t.Rows {
		view.Rows[i] = t.rowValues(rec)
	}

	return tmpl.Execute(writer, view)
}

// GetTypes returns the column types
func (t *Table) GetTypes() []ColumnType {
	return t.types
}

// GetIndex returns the header to column index mapping
func (t *Table) GetIndex() map[string]int {
	return t.index
}
