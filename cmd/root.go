package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bisegni/jframe/pkg/apply"
	"github.com/bisegni/jframe/pkg/engine"
	jlog "github.com/bisegni/jframe/pkg/log"
	"github.com/bisegni/jframe/pkg/parser"
	"github.com/bisegni/jframe/pkg/perrors"
)

var (
	OutputFormat    string
	OutputPretty    bool
	OutputName      string
	InferenceSize   int
	InteractiveMode bool
	LogConfig       = jlog.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "jframe [file|-|JSON] <expression>",
	Short: "Apply a row expression to JSON and JSONL data",
	Long: `jframe loads JSON or JSONL records into a columnar table and evaluates an
expression once per row. The type of the output is discovered from the values the
expression returns: scalars become a column, mappings a struct column, series() a
list column and list literals a new table.

Supports:
  - File paths: jframe data.jsonl 'price * qty'
  - Stdin: cat data.jsonl | jframe 'price * qty'  (or use "-" as filename)
  - Inline JSON: jframe '[{"a":1},{"a":2}]' 'a + 1'

Examples:
  jframe data.jsonl 'upper(name)'
  jframe data.jsonl '{"total": price * qty, "big": qty > 10}'
  jframe data.jsonl '[a, b * 2]' --format table
  jframe schema data.jsonl
  jframe validate data.jsonl 'a + b'`,
	Args: cobra.RangeArgs(0, 2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return LogConfig.Configure()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check if stdin has data
		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if InteractiveMode {
			var filename string
			if len(args) > 0 {
				filename = args[0]
			} else if hasStdin {
				filename = "-"
			} else {
				return fmt.Errorf("interactive mode requires a file or stdin input")
			}
			return RunInteractive(filename)
		}

		var filename, expression string
		switch len(args) {
		case 0:
			return cmd.Help()
		case 1:
			if !hasStdin {
				return fmt.Errorf("missing expression for %s", args[0])
			}
			filename = "-"
			expression = args[0]
		default:
			filename = args[0]
			expression = args[1]
		}

		executor := newExecutor()
		if err := executor.Validate(); err != nil {
			return err
		}
		input, err := parser.LoadTable(filename)
		if err != nil {
			return err
		}
		if _, err = executor.Execute(expression, input, os.Stdout); err != nil {
			err = perrors.MaybeAddStack(err)
			log.Debugf("%+v", err)
		}
		return err
	},
}

func newExecutor() *engine.Executor {
	executor := engine.NewExecutor()
	executor.Format = OutputFormat
	executor.Pretty = OutputPretty
	executor.Name = OutputName
	executor.InferenceSize = InferenceSize
	return executor
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&OutputFormat, "format", "f", engine.FormatJSONL, "Output format (jsonl, table)")
	rootCmd.PersistentFlags().BoolVar(&OutputPretty, "pretty", false, "Pretty print output")
	rootCmd.PersistentFlags().StringVarP(&OutputName, "name", "n", apply.DefaultName, "Name of the output column")
	rootCmd.PersistentFlags().IntVar(&InferenceSize, "infer-size", apply.DefaultInferenceSize, "Rows sampled to infer the schema of row outputs")
	rootCmd.PersistentFlags().BoolVarP(&InteractiveMode, "interactive", "i", false, "Interactive REPL mode")
	rootCmd.PersistentFlags().StringVar(&LogConfig.Level, "log-level", LogConfig.Level, "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&LogConfig.Format, "log-format", LogConfig.Format, "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&LogConfig.File, "log-file", LogConfig.File, "Log file, '-' for stderr")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(validateCmd)
}
