package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TableWriter prints rows as a bordered table.
type TableWriter struct {
	headers []string
	rows    [][]string
	widths  []int
}

func NewTableWriter(headers ...string) *TableWriter {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	return &TableWriter{headers: headers, widths: widths}
}

func (t *TableWriter) AddRow(row ...string) {
	t.rows = append(t.rows, row)
	for i, cell := range row {
		if i < len(t.widths) {
			t.widths[i] = max(t.widths[i], utf8.RuneCountInString(cell))
		}
	}
}

func (t *TableWriter) Len() int { return len(t.rows) }

func (t *TableWriter) Print(w io.Writer) {
	t.separator(w, "┌", "┬", "┐")
	t.row(w, t.headers)
	t.separator(w, "├", "┼", "┤")
	for _, r := range t.rows {
		t.row(w, r)
	}
	t.separator(w, "└", "┴", "┘")
}

func (t *TableWriter) separator(w io.Writer, left, mid, right string) {
	fmt.Fprint(w, left)
	for i, width := range t.widths {
		fmt.Fprint(w, strings.Repeat("─", width+2))
		if i < len(t.widths)-1 {
			fmt.Fprint(w, mid)
		}
	}
	fmt.Fprintln(w, right)
}

func (t *TableWriter) row(w io.Writer, row []string) {
	fmt.Fprint(w, "│")
	for i, width := range t.widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := width - utf8.RuneCountInString(cell)
		fmt.Fprintf(w, " %s%s │", cell, strings.Repeat(" ", pad))
	}
	fmt.Fprintln(w)
}
