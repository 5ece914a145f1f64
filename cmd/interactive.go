package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/bisegni/jframe/pkg/engine"
	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/parser"
)

// resultTable is the catalog name the last table output is registered under
const resultTable = "_"

type session struct {
	catalog *frame.Catalog
	current string
}

func RunInteractive(filename string) error {
	fmt.Println("Interactive mode enabled. Type 'exit' or 'quit' to leave.")
	if filename == "-" {
		fmt.Println("Reading from stdin...")
	} else {
		fmt.Printf("Reading from file: %s\n", filename)
	}

	// Stdin can only be consumed once, so the input is loaded up front and every
	// expression runs against the in-memory table.
	input, err := parser.LoadTable(filename)
	if err != nil {
		return err
	}
	s := &session{catalog: frame.NewCatalog(), current: "input"}
	s.catalog.RegisterTable(s.current, input)
	fmt.Printf("Loaded %d row(s), columns: %s\n", input.Height(), strings.Join(input.Names(), ", "))

	if err := newExecutor().Validate(); err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
			break
		}

		if err := s.execute(trimmed, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return nil
}

func (s *session) execute(line string, w io.Writer) error {
	if strings.HasPrefix(line, `\`) {
		return s.command(line, w)
	}

	input, err := s.catalog.GetTable(s.current)
	if err != nil {
		return err
	}
	out, err := newExecutor().Execute(line, input, w)
	if err != nil {
		return err
	}
	if out.IsTable {
		s.catalog.RegisterTable(resultTable, out.Table)
		fmt.Fprintf(w, "(result registered as %s, \\use %s to query it)\n", resultTable, resultTable)
	}
	return nil
}

func (s *session) command(line string, w io.Writer) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case `\schema`:
		t, err := s.catalog.GetTable(s.current)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Table: %s\n", s.current)
		fmt.Fprint(w, engine.FormatSchema(t))
	case `\tables`:
		for _, name := range s.catalog.TableNames() {
			marker := " "
			if name == s.current {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s\n", marker, name)
		}
	case `\use`:
		if len(fields) != 2 {
			return fmt.Errorf(`usage: \use <table>`)
		}
		if _, err := s.catalog.GetTable(fields[1]); err != nil {
			return err
		}
		s.current = fields[1]
	default:
		return fmt.Errorf(`unknown command %s (try \schema, \tables or \use <table>)`, fields[0])
	}
	return nil
}
