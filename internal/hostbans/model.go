package hostbans

import (
	"fmt"
	"net/netip"
	"strconv"
)

// CurrentVersion is the only filter protocol version Decode understands.
const CurrentVersion uint8 = 1

// AddressFilter bans an IPv4 range.
type AddressFilter struct {
	IP         uint32 `json:"-"`
	PrefixBits uint8  `json:"-"`
	Flags      Flags  `json:"flags"`
}

// CIDR formats the filter as a.b.c.d/bits.
func (a AddressFilter) CIDR() string {
	addr := netip.AddrFrom4([4]byte{byte(a.IP >> 24), byte(a.IP >> 16), byte(a.IP >> 8), byte(a.IP)})
	if prefix := netip.PrefixFrom(addr, int(a.PrefixBits)); prefix.IsValid() {
		return prefix.String()
	}
	return fmt.Sprintf("%s/%d", addr, a.PrefixBits)
}

func (a AddressFilter) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"address":%q,"flags":%q}`, a.CIDR(), a.Flags.String())), nil
}

// PatternFilter bans servers whose name, description or thumbnail matches Pattern.
type PatternFilter struct {
	Pattern string `json:"pattern"`
	Flags   Flags  `json:"flags"`
}

// SteamIDFilter bans a server owner by Steam id.
type SteamIDFilter struct {
	SteamID uint64 `json:"-"`
	Flags   Flags  `json:"flags"`
}

// ID formats the Steam id as decimal text.
func (s SteamIDFilter) ID() string {
	return strconv.FormatUint(s.SteamID, 10)
}

func (s SteamIDFilter) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"steam_id":%q,"flags":%q}`, s.ID(), s.Flags.String())), nil
}

// FilterSet holds the five decoded filter collections.
type FilterSet struct {
	Version      uint8           `json:"version"`
	Addresses    []AddressFilter `json:"addresses"`
	Names        []PatternFilter `json:"names"`
	Descriptions []PatternFilter `json:"descriptions"`
	Thumbnails   []PatternFilter `json:"thumbnails"`
	SteamIDs     []SteamIDFilter `json:"steam_ids"`
}

// Total returns the number of filters across all collections.
func (s *FilterSet) Total() int {
	return len(s.Addresses) + len(s.Names) + len(s.Descriptions) + len(s.Thumbnails) + len(s.SteamIDs)
}

// Empty reports whether every collection is empty.
func (s *FilterSet) Empty() bool {
	return s.Total() == 0
}
