package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ooyeku/csvstream/pkg/adapter"
	"github.com/ooyeku/csvstream/pkg/dsv"
	"github.com/spf13/cobra"
)

var (
	delimiter string
	quote     string
	strictFlag bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse and display DSV file contents",
	Long: `Parse and display the contents of a delimiter-separated file with
customizable options for separator, quote character, and strictness.

Example:
  csvstream parse data.csv
  csvstream parse --delimiter=";" --quote="'" data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer func() {
			if err := file.Close(); err != nil {
				fmt.Printf("Error closing file: %v\n", err)
			}
		}()

		cfg := dsv.DefaultConfig()
		cfg.Separator = []byte(delimiter)[0]
		cfg.Quote = []byte(quote)[0]
		cfg.Strict = strictFlag

		rd, err := adapter.NewReader(file, adapter.Options{Config: cfg})
		if err != nil {
			return fmt.Errorf("error creating reader: %w", err)
		}

		for {
			record, err := rd.ReadRecord()
			if err != nil {
				if err == io.EOF {
					break
				}
				return fmt.Errorf("error reading record: %w", err)
			}

			for i, f := range record.Fields() {
				if i > 0 {
					fmt.Print("\t")
				}
				fmt.Print(f.Value)
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&delimiter, "delimiter", "d", ",", "Field separator character")
	parseCmd.Flags().StringVarP(&quote, "quote", "q", "\"", "Quote character")
	parseCmd.Flags().BoolVarP(&strictFlag, "strict", "s", false, "Reject rows whose field count differs from the header")
}
