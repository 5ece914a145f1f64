package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/parser"
	"github.com/bisegni/jframe/pkg/query"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file|-] [expression]",
	Short: "Validate a JSON/JSONL file and optionally an expression",
	Long: `Validate that a JSON or JSONL file has correct syntax. When an expression is
given it is compiled against the file's columns without being evaluated.

Examples:
  jframe validate data.jsonl
  jframe validate data.jsonl 'price * qty'
  cat data.json | jframe validate - 'upper(name)'`,
	Args: cobra.MaximumNArgs(2),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	filename := "-"
	if len(args) > 0 {
		filename = args[0]
	}

	p, err := parser.NewParser(filename)
	if err != nil {
		return err
	}
	defer p.Close()

	records, err := p.ReadAll()
	if err != nil {
		fmt.Printf("❌ Validation failed: %v\n", err)
		return err
	}
	fmt.Printf("✅ Valid %s file with %d record(s)\n", getFormat(p.IsJSONL()), len(records))

	if len(args) < 2 {
		return nil
	}
	t, err := frame.FromRecords(records)
	if err != nil {
		fmt.Printf("❌ Validation failed: %v\n", err)
		return err
	}
	defer t.Release()

	program, err := query.Compile(args[1], t.Names())
	if err != nil {
		fmt.Printf("❌ Invalid expression: %v\n", err)
		return err
	}
	fmt.Printf("✅ Valid expression %s\n", program)
	if cols := program.Columns(); len(cols) > 0 {
		fmt.Printf("   columns: %s\n", strings.Join(cols, ", "))
	}
	return nil
}

func getFormat(isJSONL bool) string {
	if isJSONL {
		return "JSONL"
	}
	return "JSON"
}
