package render

import (
	"slices"
	"strings"
)

// IndexThreshold is the file count above which the index is named so that it
// sorts ahead of the listed files.
const IndexThreshold = 1000

const (
	indexName      = "README.md"
	largeIndexName = "0README.md"
)

// IndexName returns the index file name for a directory holding count files.
func IndexName(count int) string {
	if count > IndexThreshold {
		return largeIndexName
	}
	return indexName
}

// IsIndexName reports whether name is one of the generated index file names.
func IsIndexName(name string) bool {
	return name == indexName || name == largeIndexName
}

// Index renders a heading and one link line per file, sorted lexicographically.
func Index(title string, files []string) string {
	sorted := slices.Clone(files)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n## Content\n")
	for _, name := range sorted {
		b.WriteString("- [")
		b.WriteString(name)
		b.WriteString("](")
		b.WriteString(strings.ReplaceAll(name, " ", "%20"))
		b.WriteString(")\n")
	}
	return b.String()
}
