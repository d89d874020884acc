package econ

import (
	"strconv"
	"strings"

	"datamine/internal/render"
)

func itoa(v int32) string { return strconv.FormatInt(int64(v), 10) }

// RecordColumns describes the item table.
var RecordColumns = []render.Column[Record]{
	{Name: "ID", Value: func(r Record) string { return itoa(r.ItemID) }, Numeric: true},
	{Name: "Name", Value: func(r Record) string { return r.Name }},
	{Name: "Type", Value: func(r Record) string { return r.Type }},
	{Name: "Description", Value: func(r Record) string { return r.Description }},
	{Name: "Name Color", Value: func(r Record) string { return r.NameColor }},
	{Name: "Tradable", Value: func(r Record) string { return strconv.FormatBool(r.Tradable) }},
	{Name: "Scrap", Value: func(r Record) string { return itoa(r.ScrapCount) }, Numeric: true},
	{Name: "Asset GUID", Value: func(r Record) string { return r.AssetGUID.String() }},
	{Name: "Skin", Value: func(r Record) string { return itoa(r.SkinID) }, Numeric: true},
	{Name: "Effect", Value: func(r Record) string { return itoa(r.EffectID) }, Numeric: true},
	{Name: "Quality", Value: func(r Record) string { return r.Quality.String() }},
	{Name: "Econ Type", Value: func(r Record) string { return itoa(r.EconType) }, Numeric: true},
}

// BundleColumns describes the bundle table.
var BundleColumns = []render.Column[Bundle]{
	{Name: "Bundle ID", Value: func(b Bundle) string { return itoa(b.ItemID) }, Numeric: true},
	{Name: "Items", Value: func(b Bundle) string { return strconv.Itoa(len(b.Members)) }, Numeric: true},
	{Name: "Contents", Value: func(b Bundle) string {
		ids := make([]string, len(b.Members))
		for i, id := range b.Members {
			ids[i] = itoa(id)
		}
		return strings.Join(ids, ", ")
	}},
}

// Markdown renders the item and bundle tables as one document.
func (c *Catalog) Markdown() string {
	var doc render.Document
	doc.Heading(1, "Economy")
	doc.Paragraph(strconv.Itoa(c.Len()) + " items, " + strconv.Itoa(len(c.bundleOrder)) + " bundles")
	doc.Heading(2, "Items")
	doc.Raw(render.Table(RecordColumns, c.Records()))
	doc.Heading(2, "Bundles")
	doc.Raw(render.Table(BundleColumns, c.Bundles()))
	return doc.String()
}

// JSON renders the catalog as pretty JSON.
func (c *Catalog) JSON() ([]byte, error) {
	return render.JSON(c)
}
