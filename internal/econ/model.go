package econ

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// CurrentVersion is the only stream version Decode understands.
const CurrentVersion int32 = 1

// Quality is the rarity tier of an item.
type Quality int32

const (
	QualityCommon Quality = iota
	QualityUncommon
	QualityRare
	QualityUltraRare
	QualityMythical
	// QualityUnknown is the catch-all for out-of-range values.
	QualityUnknown
)

var qualityNames = [...]string{
	QualityCommon:    "Common",
	QualityUncommon:  "Uncommon",
	QualityRare:      "Rare",
	QualityUltraRare: "Ultra-rare",
	QualityMythical:  "Mythical",
	QualityUnknown:   "Unknown",
}

// QualityFromRaw maps a raw stream value onto a tier.
func QualityFromRaw(raw int32) Quality {
	if raw < int32(QualityCommon) || raw >= int32(QualityUnknown) {
		return QualityUnknown
	}
	return Quality(raw)
}

func (q Quality) String() string {
	if q < QualityCommon || q > QualityUnknown {
		return qualityNames[QualityUnknown]
	}
	return qualityNames[q]
}

func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// Record is one item's economy metadata.
type Record struct {
	ItemID      int32     `json:"item_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	NameColor   string    `json:"name_color"`
	Tradable    bool      `json:"tradable"`
	ScrapCount  int32     `json:"scrap_count"`
	AssetGUID   uuid.UUID `json:"asset_guid"`
	SkinID      int32     `json:"skin_id"`
	EffectID    int32     `json:"effect_id"`
	Quality     Quality   `json:"quality"`
	// RawQuality keeps the stream value so out-of-range tiers survive a re-encode.
	RawQuality int32 `json:"-"`
	EconType   int32 `json:"econ_type"`
}

// Bundle lists the item ids contained in one bundle item.
type Bundle struct {
	ItemID  int32   `json:"item_id"`
	Members []int32 `json:"members"`
}

// Catalog is a decoded economy stream. Records and bundles keep stream order.
type Catalog struct {
	records     map[int32]Record
	order       []int32
	bundles     map[int32][]int32
	bundleOrder []int32
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		records: make(map[int32]Record),
		bundles: make(map[int32][]int32),
	}
}

// AddRecord inserts rec unless its id is already present. It reports whether
// the record was added.
func (c *Catalog) AddRecord(rec Record) bool {
	if _, exists := c.records[rec.ItemID]; exists {
		return false
	}
	c.records[rec.ItemID] = rec
	c.order = append(c.order, rec.ItemID)
	return true
}

// AddBundle inserts a bundle unless its owner id is already present.
func (c *Catalog) AddBundle(owner int32, members []int32) bool {
	if _, exists := c.bundles[owner]; exists {
		return false
	}
	c.bundles[owner] = members
	c.bundleOrder = append(c.bundleOrder, owner)
	return true
}

// Record looks up an item by id.
func (c *Catalog) Record(id int32) (Record, bool) {
	rec, ok := c.records[id]
	return rec, ok
}

// Members returns the contents of a bundle.
func (c *Catalog) Members(owner int32) ([]int32, bool) {
	members, ok := c.bundles[owner]
	return members, ok
}

// Records returns every record in stream order.
func (c *Catalog) Records() []Record {
	out := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.records[id])
	}
	return out
}

// Bundles returns every bundle in stream order.
func (c *Catalog) Bundles() []Bundle {
	out := make([]Bundle, 0, len(c.bundleOrder))
	for _, id := range c.bundleOrder {
		out = append(out, Bundle{ItemID: id, Members: c.bundles[id]})
	}
	return out
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.order)
}

// MarshalJSON encodes the catalog as ordered records and bundles.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	payload := struct {
		Version int32    `json:"version"`
		Items   []Record `json:"items"`
		Bundles []Bundle `json:"bundles"`
	}{
		Version: CurrentVersion,
		Items:   c.Records(),
		Bundles: c.Bundles(),
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("marshal econ catalog: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
