package econ

import "datamine/internal/binreader"

// Encode writes c in the version 1 stream layout. Decode(Encode(c)) yields an
// equivalent catalog.
func Encode(c *Catalog) []byte {
	w := binreader.NewWriter(binreader.DotNet)
	w.WriteInt32(CurrentVersion)

	records := c.Records()
	w.WriteInt32(int32(len(records)))
	for _, rec := range records {
		w.WriteString(rec.Name)
		w.WriteString(rec.Type)
		w.WriteString(rec.Description)
		w.WriteString(rec.NameColor)
		w.WriteInt32(rec.ItemID)
		w.WriteBool(rec.Tradable)
		w.WriteInt32(rec.ScrapCount)
		w.WriteBytes(guidToDotNet(rec.AssetGUID))
		w.WriteInt32(rec.SkinID)
		w.WriteInt32(rec.EffectID)
		w.WriteInt32(rawQuality(rec))
		w.WriteInt32(rec.EconType)
	}

	bundles := c.Bundles()
	w.WriteInt32(int32(len(bundles)))
	for _, b := range bundles {
		w.WriteInt32(b.ItemID)
		w.WriteInt32(int32(len(b.Members)))
		for _, id := range b.Members {
			w.WriteInt32(id)
		}
	}
	return w.Bytes()
}

// rawQuality prefers the original stream value when it still maps to the
// record's tier.
func rawQuality(rec Record) int32 {
	if QualityFromRaw(rec.RawQuality) == rec.Quality {
		return rec.RawQuality
	}
	return int32(rec.Quality)
}
