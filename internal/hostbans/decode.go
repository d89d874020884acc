package hostbans

import (
	"fmt"

	"datamine/internal/binreader"
	"datamine/internal/services"
)

const sourceName = "host_bans"

const maxPrealloc = 4096

// Decode reads a filter stream. When every collection is empty the decoded
// set is returned together with an error wrapping services.ErrLikelyFormatDrift.
func Decode(r binreader.Reader) (*FilterSet, error) {
	version, err := r.ReadUint8()
	if err != nil {
		return nil, truncated("version", err)
	}
	if version != CurrentVersion {
		return nil, services.Wrap(services.ErrUnsupportedVersion, sourceName, "decode",
			fmt.Sprintf("filter protocol version %d, want %d", version, CurrentVersion), nil)
	}

	set := &FilterSet{Version: version}
	if set.Addresses, err = readSection(r, "address", readAddress); err != nil {
		return nil, err
	}
	if set.Names, err = readSection(r, "name", readPattern); err != nil {
		return nil, err
	}
	if set.Descriptions, err = readSection(r, "description", readPattern); err != nil {
		return nil, err
	}
	if set.Thumbnails, err = readSection(r, "thumbnail", readPattern); err != nil {
		return nil, err
	}
	if set.SteamIDs, err = readSection(r, "steam id", readSteamID); err != nil {
		return nil, err
	}

	if set.Empty() {
		return set, services.Wrap(services.ErrLikelyFormatDrift, sourceName, "decode",
			"all five filter collections are empty", nil)
	}
	return set, nil
}

func readSection[T any](r binreader.Reader, name string, read func(binreader.Reader) (T, error)) ([]T, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, truncated(name+" count", err)
	}
	out := make([]T, 0, min(int(count), maxPrealloc))
	for i := uint32(0); i < count; i++ {
		entry, err := read(r)
		if err != nil {
			return nil, truncated(fmt.Sprintf("%s filter %d of %d", name, i+1, count), err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func readAddress(r binreader.Reader) (AddressFilter, error) {
	var f AddressFilter
	var err error
	if f.IP, err = r.ReadUint32(); err != nil {
		return f, err
	}
	if f.PrefixBits, err = r.ReadUint8(); err != nil {
		return f, err
	}
	flags, err := r.ReadUint32()
	f.Flags = Flags(flags)
	return f, err
}

func readPattern(r binreader.Reader) (PatternFilter, error) {
	var f PatternFilter
	var err error
	if f.Pattern, err = r.ReadString(); err != nil {
		return f, err
	}
	flags, err := r.ReadUint32()
	f.Flags = Flags(flags)
	return f, err
}

func readSteamID(r binreader.Reader) (SteamIDFilter, error) {
	var f SteamIDFilter
	var err error
	if f.SteamID, err = r.ReadUint64(); err != nil {
		return f, err
	}
	flags, err := r.ReadUint32()
	f.Flags = Flags(flags)
	return f, err
}

func truncated(what string, err error) error {
	return services.Wrap(services.ErrTruncatedStream, sourceName, "decode", what, err)
}
