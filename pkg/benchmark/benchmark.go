package benchmark

import (
	"fmt"
	"os"
	"strings"
)

// BenchData represents a benchmark dataset
type BenchData struct {
	Name     string
	Content  string
	FileSize int64
}

// GenerateBenchmarkData creates benchmark datasets of various sizes and complexities
func GenerateBenchmarkData() []BenchData {
	return []BenchData{
		generateSimpleCSV(1000),      // 1K rows
		generateSimpleCSV(100000),    // 100K rows
		generateSimpleCSV(1000000),   // 1M rows
		generateQuotedCSV(1000),      // 1K rows with quotes
		generateQuotedCSV(100000),    // 100K rows with quotes
		generateComplexCSV(1000),     // 1K rows with mixed content
		generateComplexCSV(100000),   // 100K rows with mixed content
		generateWideCSV(1000, 100),   // 1K rows x 100 columns
		generateWideCSV(100000, 100), // 100K rows x 100 columns
		generateUTF16CSV(1000),       // 1K rows, UTF-16 BE with BOM
		generateOversizedRowCSV(1000, 8192), // rows with one oversized field
		generateCommentedCSV(1000),          // rows interleaved with comment lines
		generateRaggedCSV(1000),             // rows with inconsistent field counts
	}
}

// SaveBenchmarkData saves benchmark data to files in the specified directory
func SaveBenchmarkData(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create benchmark directory: %w", err)
	}

	for _, data := range GenerateBenchmarkData() {
		filename := fmt.Sprintf("%s/bench_%s.csv", dir, strings.ReplaceAll(data.Name, " ", "_"))
		if err := os.WriteFile(filename, []byte(data.Content), 0644); err != nil {
			return fmt.Errorf("failed to write benchmark file %s: %w", filename, err)
		}
	}

	return nil
}

// generateSimpleCSV generates a simple CSV with numeric data
func generateSimpleCSV(rows int) BenchData {
	var sb strings.Builder
	sb.WriteString("id,value1,value2,value3,value4,value5\n")

	for i := 0; i < rows; i++ {
		sb.WriteString(fmt.Sprintf("%d,%d,%d,%d,%d,%d\n",
			i, i*2, i*3, i*4, i*5, i*6))
	}

	content := sb.String()
	return BenchData{
		Name:     fmt.Sprintf("simple_%dk", rows/1000),
		Content:  content,
		FileSize: int64(len(content)),
	}
}

// generateQuotedCSV generates a CSV with quoted fields containing commas
func generateQuotedCSV(rows int) BenchData {
	var sb strings.Builder
	sb.WriteString("id,description,data,notes\n")

	for i := 0; i < rows; i++ {
		sb.WriteString(fmt.Sprintf("%d,\"Description, with comma\",\"Data, with, multiple, commas\",\"Note %d\"\n",
			i, i))
	}

	content := sb.String()
	return BenchData{
		Name:     fmt.Sprintf("quoted_%dk", rows/1000),
		Content:  content,
		FileSize: int64(len(content)),
	}
}

// generateComplexCSV generates a CSV with mixed content types and special cases
func generateComplexCSV(rows int) BenchData {
	var sb strings.Builder
	sb.WriteString("id,text,quoted,null,comment,empty\n")

	for i := 0; i < rows; i++ {
		// Mix of normal text, quoted text with commas, NULL values, and empty fields
		sb.WriteString(fmt.Sprintf("%d,normal text,\"quoted, with \"\"escaped\"\" quotes\",\\N,#comment,\n",
			i))
	}

	content := sb.String()
	return BenchData{
		Name:     fmt.Sprintf("complex_%dk", rows/1000),
		Content:  content,
		FileSize: int64(len(content)),
	}
}

// generateUTF16CSV generates a BOM-prefixed, UTF-16BE-encoded CSV so
// benchmarks exercise the transcoding front end, not just the scanner.
func generateUTF16CSV(rows int) BenchData {
	var sb strings.Builder
	sb.WriteString("id,name,note\n")
	for i := 0; i < rows; i++ {
		sb.WriteString(fmt.Sprintf("%d,café-%d,ßé\n", i, i))
	}

	content := utf16BEWithBOM(sb.String())
	return BenchData{
		Name:     fmt.Sprintf("utf16_%dk", rows/1000),
		Content:  content,
		FileSize: int64(len(content)),
	}
}

func utf16BEWithBOM(s string) string {
	var b strings.Builder
	b.WriteByte(0xFE)
	b.WriteByte(0xFF)
	for _, r := range s {
		if r <= 0xFFFF {
			b.WriteByte(byte(r >> 8))
			b.WriteByte(byte(r))
			continue
		}
		r -= 0x10000
		hi := 0xD800 + (r >> 10)
		lo := 0xDC00 + (r & 0x3FF)
		b.WriteByte(byte(hi >> 8))
		b.WriteByte(byte(hi))
		b.WriteByte(byte(lo >> 8))
		b.WriteByte(byte(lo))
	}
	return b.String()
}

// generateOversizedRowCSV generates mostly ordinary rows plus a single
// row carrying a fieldWidth-byte quoted field, for exercising
// Config.MaxRowBytes rejection paths at benchmark scale.
func generateOversizedRowCSV(rows, fieldWidth int) BenchData {
	var sb strings.Builder
	sb.WriteString("id,value\n")
	for i := 0; i < rows-1; i++ {
		sb.WriteString(fmt.Sprintf("%d,ok\n", i))
	}
	sb.WriteString(fmt.Sprintf("%d,\"%s\"\n", rows, strings.Repeat("x", fieldWidth)))

	content := sb.String()
	return BenchData{
		Name:     fmt.Sprintf("oversized_%dk", rows/1000),
		Content:  content,
		FileSize: int64(len(content)),
	}
}

// generateCommentedCSV interleaves full-line '#' comments between data
// rows. BenchmarkCSVParser parses it with the default config, where
// comment recognition is off, so those lines are read as data rows.
func generateCommentedCSV(rows int) BenchData {
	var sb strings.Builder
	sb.WriteString("id,value\n")
	for i := 0; i < rows; i++ {
		if i%10 == 0 {
			sb.WriteString(fmt.Sprintf("# row block starting at %d\n", i))
		}
		sb.WriteString(fmt.Sprintf("%d,%d\n", i, i*2))
	}

	content := sb.String()
	return BenchData{
		Name:     fmt.Sprintf("commented_%dk", rows/1000),
		Content:  content,
		FileSize: int64(len(content)),
	}
}

// generateRaggedCSV alternates rows with fewer or more fields than the
// header, exercising non-strict row assembly.
func generateRaggedCSV(rows int) BenchData {
	var sb strings.Builder
	sb.WriteString("a,b,c\n")
	for i := 0; i < rows; i++ {
		switch i % 3 {
		case 0:
			sb.WriteString(fmt.Sprintf("%d,%d\n", i, i+1))
		case 1:
			sb.WriteString(fmt.Sprintf("%d,%d,%d,%d\n", i, i+1, i+2, i+3))
		default:
			sb.WriteString(fmt.Sprintf("%d,%d,%d\n", i, i+1, i+2))
		}
	}

	content := sb.String()
	return BenchData{
		Name:     fmt.Sprintf("ragged_%dk", rows/1000),
		Content:  content,
		FileSize: int64(len(content)),
	}
}

// generateWideCSV generates a CSV with many columns
func generateWideCSV(rows, cols int) BenchData {
	var sb strings.Builder

	// Generate header
	for i := 0; i < cols; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf("col%d", i))
	}
	sb.WriteString("\n")

	// Generate rows
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(fmt.Sprintf("value_%d_%d", i, j))
		}
		sb.WriteString("\n")
	}

	content := sb.String()
	return BenchData{
		Name:     fmt.Sprintf("wide_%dk_%dcols", rows/1000, cols),
		Content:  content,
		FileSize: int64(len(content)),
	}
}
