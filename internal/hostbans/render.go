package hostbans

import (
	"strconv"

	"datamine/internal/render"
)

var addressColumns = []render.Column[AddressFilter]{
	{Name: "Address", Value: func(a AddressFilter) string { return a.CIDR() }},
	{Name: "Reasons", Value: func(a AddressFilter) string { return a.Flags.String() }},
}

var patternColumns = []render.Column[PatternFilter]{
	{Name: "Pattern", Value: func(p PatternFilter) string { return "`" + p.Pattern + "`" }},
	{Name: "Reasons", Value: func(p PatternFilter) string { return p.Flags.String() }},
}

var steamIDColumns = []render.Column[SteamIDFilter]{
	{Name: "Steam ID", Value: func(s SteamIDFilter) string { return s.ID() }, Numeric: true},
	{Name: "Reasons", Value: func(s SteamIDFilter) string { return s.Flags.String() }},
}

// Markdown renders one table per filter collection.
func (s *FilterSet) Markdown() string {
	var doc render.Document
	doc.Heading(1, "Host Bans")
	doc.Paragraph(strconv.Itoa(s.Total()) + " filters")
	section := func(title string, count int, table string) {
		doc.Heading(2, title+" ("+strconv.Itoa(count)+")")
		doc.Raw(table)
	}
	section("Addresses", len(s.Addresses), render.Table(addressColumns, s.Addresses))
	section("Names", len(s.Names), render.Table(patternColumns, s.Names))
	section("Descriptions", len(s.Descriptions), render.Table(patternColumns, s.Descriptions))
	section("Thumbnails", len(s.Thumbnails), render.Table(patternColumns, s.Thumbnails))
	section("Steam IDs", len(s.SteamIDs), render.Table(steamIDColumns, s.SteamIDs))
	return doc.String()
}

// JSON renders the filter set as pretty JSON.
func (s *FilterSet) JSON() ([]byte, error) {
	return render.JSON(s)
}
