package econ

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"datamine/internal/binreader"
	"datamine/internal/services"
)

const sourceName = "econ"

// maxPrealloc caps slice preallocation driven by declared counts.
const maxPrealloc = 4096

// Decode reads a full economy stream. On any error the returned catalog is nil.
func Decode(r binreader.Reader) (*Catalog, error) {
	version, err := r.ReadInt32()
	if err != nil {
		return nil, truncated("version", err)
	}
	if version != CurrentVersion {
		return nil, services.Wrap(services.ErrUnsupportedVersion, sourceName, "decode",
			fmt.Sprintf("stream version %d, want %d", version, CurrentVersion), nil)
	}

	count, err := readCount(r, "record count")
	if err != nil {
		return nil, err
	}
	catalog := NewCatalog()
	for i := 0; i < count; i++ {
		rec, err := readRecord(r)
		if err != nil {
			return nil, truncated(fmt.Sprintf("record %d of %d", i+1, count), err)
		}
		catalog.AddRecord(rec)
	}

	bundleCount, err := readCount(r, "bundle count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < bundleCount; i++ {
		owner, members, err := readBundle(r)
		if err != nil {
			return nil, truncated(fmt.Sprintf("bundle %d of %d", i+1, bundleCount), err)
		}
		catalog.AddBundle(owner, members)
	}
	return catalog, nil
}

func readCount(r binreader.Reader, what string) (int, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return 0, truncated(what, err)
	}
	if n < 0 {
		return 0, truncated(what, fmt.Errorf("negative count %d: %w", n, io.ErrUnexpectedEOF))
	}
	return int(n), nil
}

func readRecord(r binreader.Reader) (Record, error) {
	var rec Record
	var err error
	if rec.Name, err = r.ReadString(); err != nil {
		return rec, err
	}
	if rec.Type, err = r.ReadString(); err != nil {
		return rec, err
	}
	if rec.Description, err = r.ReadString(); err != nil {
		return rec, err
	}
	if rec.NameColor, err = r.ReadString(); err != nil {
		return rec, err
	}
	if rec.ItemID, err = r.ReadInt32(); err != nil {
		return rec, err
	}
	if rec.Tradable, err = r.ReadBool(); err != nil {
		return rec, err
	}
	if rec.ScrapCount, err = r.ReadInt32(); err != nil {
		return rec, err
	}
	guid, err := r.ReadBytes(16)
	if err != nil {
		return rec, err
	}
	rec.AssetGUID = guidFromDotNet(guid)
	if rec.SkinID, err = r.ReadInt32(); err != nil {
		return rec, err
	}
	if rec.EffectID, err = r.ReadInt32(); err != nil {
		return rec, err
	}
	if rec.RawQuality, err = r.ReadInt32(); err != nil {
		return rec, err
	}
	rec.Quality = QualityFromRaw(rec.RawQuality)
	if rec.EconType, err = r.ReadInt32(); err != nil {
		return rec, err
	}
	return rec, nil
}

func readBundle(r binreader.Reader) (int32, []int32, error) {
	owner, err := r.ReadInt32()
	if err != nil {
		return 0, nil, err
	}
	count, err := r.ReadInt32()
	if err != nil {
		return 0, nil, err
	}
	if count < 0 {
		return 0, nil, fmt.Errorf("bundle %d: negative member count %d: %w", owner, count, io.ErrUnexpectedEOF)
	}
	members := make([]int32, 0, min(int(count), maxPrealloc))
	for j := int32(0); j < count; j++ {
		id, err := r.ReadInt32()
		if err != nil {
			return 0, nil, fmt.Errorf("bundle %d member %d of %d: %w", owner, j+1, count, err)
		}
		members = append(members, id)
	}
	return owner, members, nil
}

func truncated(what string, err error) error {
	return services.Wrap(services.ErrTruncatedStream, sourceName, "decode", what, err)
}

// guidFromDotNet converts the System.Guid byte layout (first three groups
// little-endian) into RFC 4122 order.
func guidFromDotNet(b []byte) uuid.UUID {
	var u uuid.UUID
	copy(u[:], b)
	swapGUIDGroups(&u)
	return u
}

func guidToDotNet(u uuid.UUID) []byte {
	swapGUIDGroups(&u)
	return u[:]
}

func swapGUIDGroups(u *uuid.UUID) {
	u[0], u[1], u[2], u[3] = u[3], u[2], u[1], u[0]
	u[4], u[5] = u[5], u[4]
	u[6], u[7] = u[7], u[6]
}
