package render

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Column describes one table column over rows of type T.
type Column[T any] struct {
	Name    string
	Value   func(T) string
	Numeric bool
}

var cellReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	"|", `\|`,
)

// Cell makes a value safe to place inside a Markdown table cell.
func Cell(value string) string {
	return cellReplacer.Replace(value)
}

// Table renders rows as a fixed-width Markdown table. Each column is as wide
// as its widest cell or header.
func Table[T any](columns []Column[T], rows []T) string {
	if len(columns) == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = width(Cell(col.Name))
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			value := ""
			if col.Value != nil {
				value = Cell(col.Value(row))
			}
			cells[r][i] = value
			if w := width(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = pad(Cell(col.Name), widths[i], col.Numeric)
	}
	writeRow(&b, header)

	b.WriteString("| ")
	for i, col := range columns {
		if i > 0 {
			b.WriteString("| ")
		}
		b.WriteString(strings.Repeat("-", widths[i]))
		if col.Numeric {
			b.WriteByte(':')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString("|\n")

	line := make([]string, len(columns))
	for _, row := range cells {
		for i, col := range columns {
			line[i] = pad(row[i], widths[i], col.Numeric)
		}
		writeRow(&b, line)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func width(s string) int {
	return text.RuneWidthWithoutEscSequences(s)
}

func pad(s string, w int, right bool) string {
	gap := w - width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return text.Pad(s, w, ' ')
}
