package testsupport

import "datamine/internal/binreader"

// EconItem is a compact description of one econ stream record.
type EconItem struct {
	ID       int32
	Name     string
	Type     string
	Quality  int32
	Tradable bool
	GUID     []byte
}

// EconBundle is a compact description of one econ stream bundle.
type EconBundle struct {
	ID      int32
	Members []int32
}

// EconStream encodes a version 1 econ stream without bundles.
func EconStream(items ...EconItem) []byte {
	return EconStreamWithBundles(items, nil)
}

// EconStreamWithBundles encodes a version 1 econ stream. Duplicate ids are
// written as given.
func EconStreamWithBundles(items []EconItem, bundles []EconBundle) []byte {
	w := binreader.NewWriter(binreader.DotNet)
	w.WriteInt32(1)
	w.WriteInt32(int32(len(items)))
	for _, item := range items {
		w.WriteString(item.Name)
		w.WriteString(item.Type)
		w.WriteString("")
		w.WriteString("")
		w.WriteInt32(item.ID)
		w.WriteBool(item.Tradable)
		w.WriteInt32(0)
		guid := make([]byte, 16)
		copy(guid, item.GUID)
		w.WriteBytes(guid)
		w.WriteInt32(0)
		w.WriteInt32(0)
		w.WriteInt32(item.Quality)
		w.WriteInt32(0)
	}
	w.WriteInt32(int32(len(bundles)))
	for _, b := range bundles {
		w.WriteInt32(b.ID)
		w.WriteInt32(int32(len(b.Members)))
		for _, m := range b.Members {
			w.WriteInt32(m)
		}
	}
	return w.Bytes()
}

// HostBanName is one pattern filter in a host ban stream.
type HostBanName struct {
	Pattern string
	Flags   uint32
}

// HostBanAddress is one address filter in a host ban stream.
type HostBanAddress struct {
	IP         uint32
	PrefixBits uint8
	Flags      uint32
}

// HostBanSteamID is one Steam id filter in a host ban stream.
type HostBanSteamID struct {
	ID    uint64
	Flags uint32
}

// HostBans collects the five sections of a host ban stream.
type HostBans struct {
	Version      uint8
	Addresses    []HostBanAddress
	Names        []HostBanName
	Descriptions []HostBanName
	Thumbnails   []HostBanName
	SteamIDs     []HostBanSteamID
}

// HostBansStream encodes h in the filter protocol. A zero Version writes 1.
func HostBansStream(h HostBans) []byte {
	w := binreader.NewWriter(binreader.NetPak)
	version := h.Version
	if version == 0 {
		version = 1
	}
	w.WriteUint8(version)

	w.WriteUint32(uint32(len(h.Addresses)))
	for _, a := range h.Addresses {
		w.WriteUint32(a.IP)
		w.WriteUint8(a.PrefixBits)
		w.WriteUint32(a.Flags)
	}
	for _, section := range [][]HostBanName{h.Names, h.Descriptions, h.Thumbnails} {
		w.WriteUint32(uint32(len(section)))
		for _, n := range section {
			w.WriteString(n.Pattern)
			w.WriteUint32(n.Flags)
		}
	}
	w.WriteUint32(uint32(len(h.SteamIDs)))
	for _, s := range h.SteamIDs {
		w.WriteUint64(s.ID)
		w.WriteUint32(s.Flags)
	}
	return w.Bytes()
}
