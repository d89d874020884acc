package hostbans_test

import (
	"errors"
	"strings"
	"testing"

	"datamine/internal/binreader"
	"datamine/internal/hostbans"
	"datamine/internal/services"
	"datamine/internal/testsupport"
)

func sampleStream() []byte {
	return testsupport.HostBansStream(testsupport.HostBans{
		Addresses:    []testsupport.HostBanAddress{{IP: 0xC0A80100, PrefixBits: 24, Flags: uint32(hostbans.FlagCheating)}},
		Names:        []testsupport.HostBanName{{Pattern: "*free skins*", Flags: uint32(hostbans.FlagMonetization | hostbans.FlagMisleading)}},
		Descriptions: []testsupport.HostBanName{{Pattern: "discord.gg/*", Flags: uint32(hostbans.FlagSpam)}},
		SteamIDs:     []testsupport.HostBanSteamID{{ID: 76561198000000001, Flags: 1 << 9}},
	})
}

func decode(data []byte) (*hostbans.FilterSet, error) {
	return hostbans.Decode(binreader.FromBytes(data, binreader.NetPak))
}

func TestDecode(t *testing.T) {
	set, err := decode(sampleStream())
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if set.Total() != 4 {
		t.Fatalf("expected 4 filters, got %d", set.Total())
	}
	if got := set.Addresses[0].CIDR(); got != "192.168.1.0/24" {
		t.Fatalf("unexpected cidr %q", got)
	}
	if got := set.Names[0].Flags.String(); got != "Monetization, Misleading" {
		t.Fatalf("unexpected flags %q", got)
	}
	if len(set.Thumbnails) != 0 {
		t.Fatalf("expected no thumbnails, got %v", set.Thumbnails)
	}
	if got := set.SteamIDs[0].Flags.String(); got != "0x200" {
		t.Fatalf("unexpected unknown flag rendering %q", got)
	}
}

func TestAllEmptyIsLikelyFormatDrift(t *testing.T) {
	set, err := decode(testsupport.HostBansStream(testsupport.HostBans{}))
	if !errors.Is(err, services.ErrLikelyFormatDrift) {
		t.Fatalf("expected ErrLikelyFormatDrift, got %v", err)
	}
	if set == nil || !set.Empty() {
		t.Fatalf("expected an empty decoded set alongside the drift signal, got %+v", set)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	_, err := decode(testsupport.HostBansStream(testsupport.HostBans{Version: 2}))
	if !errors.Is(err, services.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestTruncated(t *testing.T) {
	full := sampleStream()
	for cut := 0; cut < len(full); cut++ {
		set, err := decode(full[:cut])
		if !errors.Is(err, services.ErrTruncatedStream) {
			t.Fatalf("cut at %d: expected ErrTruncatedStream, got %v", cut, err)
		}
		if set != nil {
			t.Fatalf("cut at %d: expected nil set", cut)
		}
	}
}

func TestFlagsString(t *testing.T) {
	if hostbans.Flags(0).String() != "None" {
		t.Fatal("expected None for empty flags")
	}
	all := hostbans.FlagMonetization | hostbans.FlagImpersonation | hostbans.FlagOffensive | hostbans.FlagCheating | hostbans.FlagSpam | hostbans.FlagMisleading
	if got := all.String(); got != "Monetization, Impersonation, Offensive, Cheating, Spam, Misleading" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestAddressWithHostBits(t *testing.T) {
	f := hostbans.AddressFilter{IP: 0x0A000001, PrefixBits: 8}
	if got := f.CIDR(); got != "10.0.0.1/8" {
		t.Fatalf("unexpected cidr %q", got)
	}
	f.PrefixBits = 40
	if got := f.CIDR(); got != "10.0.0.1/40" {
		t.Fatalf("unexpected cidr for invalid prefix %q", got)
	}
}

func TestRender(t *testing.T) {
	set, err := decode(sampleStream())
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	md := set.Markdown()
	for _, want := range []string{"# Host Bans", "4 filters", "## Addresses (1)", "192.168.1.0/24", "## Thumbnails (0)", "`*free skins*`", "76561198000000001"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}

	data, err := set.JSON()
	if err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}
	for _, want := range []string{`"address": "192.168.1.0/24"`, `"steam_id": "76561198000000001"`, `"flags": "Spam"`, `"thumbnails": []`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %q in json:\n%s", want, data)
		}
	}
}
