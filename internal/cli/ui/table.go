// Package ui renders terminal output for the orglens CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Table renders rows under a highlighted header with aligned columns.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{writer: w, headers: headers}
}

// AddRow appends a row. Missing cells render empty; extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := 0; i < len(t.headers) && i < len(cells); i++ {
		row[i] = cells[i]
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows added so far.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to the underlying writer.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header := color.New(color.FgCyan, color.Bold)
	for i, h := range t.headers {
		if i > 0 {
			fmt.Fprint(t.writer, "  ")
		}
		header.Fprint(t.writer, pad(h, widths[i]))
	}
	fmt.Fprintln(t.writer)

	total := 0
	for i, w := range widths {
		if i > 0 {
			total += 2
		}
		total += w
	}
	color.New(color.FgHiBlack).Fprintln(t.writer, strings.Repeat("─", total))

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(t.writer, "  ")
			}
			fmt.Fprint(t.writer, pad(cell, widths[i]))
		}
		fmt.Fprintln(t.writer)
	}
}

// KeyValue renders aligned key/value pairs with highlighted keys.
type KeyValue struct {
	writer io.Writer
	pairs  [][2]string
}

// NewKeyValue creates an empty key/value block.
func NewKeyValue(w io.Writer) *KeyValue {
	return &KeyValue{writer: w}
}

// Add appends one pair.
func (kv *KeyValue) Add(key, value string) {
	kv.pairs = append(kv.pairs, [2]string{key, value})
}

// Render writes the pairs with keys padded to a common width.
func (kv *KeyValue) Render() {
	width := 0
	for _, p := range kv.pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}

	key := color.New(color.FgCyan)
	for _, p := range kv.pairs {
		key.Fprint(kv.writer, pad(p[0]+":", width+1))
		fmt.Fprintf(kv.writer, " %s\n", p[1])
	}
}

// Section groups indented lines under a bold title.
type Section struct {
	writer io.Writer
	title  string
	lines  []string
}

// NewSection creates a section with the given title.
func NewSection(w io.Writer, title string) *Section {
	return &Section{writer: w, title: title}
}

// AddLine appends one line to the section body.
func (s *Section) AddLine(line string) {
	s.lines = append(s.lines, line)
}

// Render writes the title, the indented body, and a trailing blank
// line.
func (s *Section) Render() {
	color.New(color.Bold).Fprintf(s.writer, "%s\n", s.title)
	for _, line := range s.lines {
		fmt.Fprintf(s.writer, "  %s\n", line)
	}
	fmt.Fprintln(s.writer)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
