package main

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiPattern matches CSI escape sequences such as the ones fatih/color emits.
var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;?]*[A-Za-z]")

// ColumnData is one column of the instance table
type ColumnData struct {
	Header   string
	Values   []string
	MinWidth int
}

// TableFormatter lays out columns whose cells may carry color codes
type TableFormatter struct {
	Columns []ColumnData
	Padding int
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(padding int) *TableFormatter {
	return &TableFormatter{
		Columns: make([]ColumnData, 0),
		Padding: padding,
	}
}

// AddColumn adds a column to the table
func (tf *TableFormatter) AddColumn(header string, values []string, minWidth int) {
	tf.Columns = append(tf.Columns, ColumnData{
		Header:   header,
		Values:   values,
		MinWidth: minWidth,
	})
}

func (tf *TableFormatter) columnWidths() []int {
	widths := make([]int, len(tf.Columns))
	for i, col := range tf.Columns {
		width := max(col.MinWidth, visibleWidth(col.Header))
		for _, value := range col.Values {
			width = max(width, visibleWidth(value))
		}
		widths[i] = width
	}
	return widths
}

func stripAnsiCodes(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// visibleWidth is the number of terminal cells s occupies.
func visibleWidth(s string) int {
	return runewidth.StringWidth(stripAnsiCodes(s))
}

// FormatHeader returns the header line and a dashed separator under it
func (tf *TableFormatter) FormatHeader() string {
	if len(tf.Columns) == 0 {
		return ""
	}

	widths := tf.columnWidths()
	headers := make([]string, len(tf.Columns))
	rules := make([]string, len(tf.Columns))
	for i, col := range tf.Columns {
		headers[i] = col.Header
		rules[i] = strings.Repeat("-", widths[i])
	}
	return tf.join(headers, widths) + "\n" + tf.join(rules, widths)
}

// FormatRow formats one row. It returns "" when any column is too short.
func (tf *TableFormatter) FormatRow(rowIndex int) string {
	if len(tf.Columns) == 0 || rowIndex < 0 {
		return ""
	}

	cells := make([]string, len(tf.Columns))
	for i, col := range tf.Columns {
		if rowIndex >= len(col.Values) {
			return ""
		}
		cells[i] = col.Values[rowIndex]
	}
	return tf.join(cells, tf.columnWidths())
}

// join pads every cell but the last to its column width.
func (tf *TableFormatter) join(cells []string, widths []int) string {
	var b strings.Builder
	last := len(cells) - 1
	for i, cell := range cells {
		b.WriteString(cell)
		if i == last {
			break
		}
		if pad := widths[i] - visibleWidth(cell); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(strings.Repeat(" ", tf.Padding))
	}
	return b.String()
}

// GetRowCount returns the number of rows in the first column
func (tf *TableFormatter) GetRowCount() int {
	if len(tf.Columns) == 0 {
		return 0
	}
	return len(tf.Columns[0].Values)
}
