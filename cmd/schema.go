package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bisegni/jframe/pkg/engine"
	"github.com/bisegni/jframe/pkg/parser"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [file|-]",
	Short: "Show the column schema of a JSON/JSONL file",
	Long: `Load a JSON or JSONL file into a table and print its row count, column types
and null counts.

Examples:
  jframe schema data.jsonl
  cat data.json | jframe schema`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	filename := "-"
	if len(args) > 0 {
		filename = args[0]
	}

	t, err := parser.LoadTable(filename)
	if err != nil {
		return err
	}
	defer t.Release()

	if filename == "-" {
		fmt.Printf("File: <stdin>\n")
	} else {
		fmt.Printf("File: %s\n", filename)
	}
	fmt.Print(engine.FormatSchema(t))
	return nil
}
