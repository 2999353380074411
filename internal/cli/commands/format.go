package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Formatter renders one command's result to a writer.
type Formatter interface {
	Format(w io.Writer) error
}

// JSONFormatter renders any value as indented JSON.
type JSONFormatter struct {
	Value interface{}
}

// Format implements Formatter.
func (f JSONFormatter) Format(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f.Value)
}

// TableFormatter adapts a human-readable render function to Formatter.
type TableFormatter func(w io.Writer) error

// Format implements Formatter.
func (f TableFormatter) Format(w io.Writer) error {
	return f(w)
}

// output renders value as JSON when asJSON is set, otherwise through
// the table renderer.
func output(cmd *cobra.Command, asJSON bool, value interface{}, table TableFormatter) error {
	var f Formatter = table
	if asJSON {
		f = JSONFormatter{Value: value}
	}
	return f.Format(cmd.OutOrStdout())
}

// writeDiagram prints rendered diagram text, or writes it to path when
// one is given.
func writeDiagram(cmd *cobra.Command, path, text string) error {
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}

	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
