package render

import "strings"

// Document accumulates a Markdown document section by section.
type Document struct {
	b strings.Builder
}

// Heading appends a heading of the given level followed by a blank line.
func (d *Document) Heading(level int, title string) *Document {
	if level < 1 {
		level = 1
	}
	d.separate()
	d.b.WriteString(strings.Repeat("#", level))
	d.b.WriteByte(' ')
	d.b.WriteString(title)
	d.b.WriteString("\n\n")
	return d
}

// Paragraph appends a line of text followed by a blank line.
func (d *Document) Paragraph(text string) *Document {
	d.separate()
	d.b.WriteString(text)
	d.b.WriteString("\n\n")
	return d
}

// Raw appends pre-rendered Markdown such as a table.
func (d *Document) Raw(block string) *Document {
	d.separate()
	d.b.WriteString(block)
	return d
}

func (d *Document) separate() {
	s := d.b.String()
	if s != "" && !strings.HasSuffix(s, "\n\n") {
		d.b.WriteByte('\n')
	}
}

// String returns the document.
func (d *Document) String() string {
	return d.b.String()
}

// Bytes returns the document as bytes.
func (d *Document) Bytes() []byte {
	return []byte(d.b.String())
}
