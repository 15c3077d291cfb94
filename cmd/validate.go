package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ooyeku/csvstream/pkg/adapter"
	"github.com/ooyeku/csvstream/pkg/dsv"
	"github.com/spf13/cobra"
)

var validateStrict bool

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate DSV file structure",
	Long: `Validate the structure of a delimiter-separated file by parsing it under
strict row-length checking and reporting the first structural error found.

Example:
  csvstream validate data.csv
  csvstream validate --strict=false data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer file.Close()

		cfg := dsv.DefaultConfig()
		cfg.Strict = validateStrict
		rd, err := adapter.NewReader(file, adapter.Options{Config: cfg})
		if err != nil {
			return fmt.Errorf("error creating reader: %w", err)
		}

		var rowCount int
		for {
			_, err := rd.ReadRecord()
			if err != nil {
				if err == io.EOF {
					break
				}
				fmt.Printf("File: %s\n", filePath)
				fmt.Printf("Rows processed before error: %d\n", rowCount)
				var perr *dsv.ParseError
				if errors.As(err, &perr) {
					return fmt.Errorf("validation failed: %w", perr)
				}
				return fmt.Errorf("validation failed: %w", err)
			}
			rowCount++
		}

		fmt.Printf("File: %s\n", filePath)
		fmt.Printf("Rows processed: %d\n", rowCount)
		fmt.Println("Validation successful! No errors found.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVarP(&validateStrict, "strict", "s", true,
		"Reject rows whose field count differs from the header")
}
