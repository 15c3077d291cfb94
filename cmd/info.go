package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ooyeku/csvstream/pkg/adapter"
	"github.com/ooyeku/csvstream/pkg/dsv"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display information about a DSV file",
	Long: `Display basic information about a delimiter-separated file including:
- Number of rows
- Number of columns
- Column headers

Example:
  csvstream info data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer file.Close()

		rd, err := adapter.NewReader(file, adapter.Options{Config: dsv.DefaultConfig()})
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
				return fmt.Errorf("error reading record: %w", err)
			}
			rowCount++
		}

		headers, _ := rd.Headers()

		fmt.Printf("File: %s\n", filePath)
		fmt.Printf("Total Rows: %d\n", rowCount)
		fmt.Printf("Columns: %d\n", len(headers))

		if len(headers) > 0 {
			fmt.Println("\nColumn Headers:")
			for i, header := range headers {
				fmt.Printf("%d. %s\n", i+1, header)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
