// Package render turns decoded records into Markdown tables, pretty JSON, and
// directory index pages.
//
// Tables are driven by explicit column descriptors rather than reflection:
// each Column names its header, extracts a cell string from a row, and says
// whether it is numeric. Numeric columns are right-aligned and carry a ':'
// marker in the divider row. Column order is declaration order and rows are
// emitted in the order given.
package render
