package econ_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"datamine/internal/binreader"
	"datamine/internal/econ"
	"datamine/internal/services"
	"datamine/internal/testsupport"
)

func sampleCatalog() *econ.Catalog {
	c := econ.NewCatalog()
	c.AddRecord(econ.Record{
		ItemID:      1043,
		Name:        "Eaglefire",
		Type:        "Rifle",
		Description: "A classic.",
		NameColor:   "#ffffff",
		Tradable:    true,
		ScrapCount:  2,
		AssetGUID:   uuid.MustParse("0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"),
		SkinID:      12,
		EffectID:    0,
		Quality:     econ.QualityRare,
		RawQuality:  2,
		EconType:    1,
	})
	c.AddRecord(econ.Record{ItemID: 7, Name: "Café crate", Quality: econ.QualityUnknown, RawQuality: 99})
	c.AddBundle(50000, []int32{1043, 7})
	c.AddBundle(50001, nil)
	return c
}

func decodeBytes(t *testing.T, data []byte) (*econ.Catalog, error) {
	t.Helper()
	return econ.Decode(binreader.FromBytes(data, binreader.DotNet))
}

func TestRoundTrip(t *testing.T) {
	want := sampleCatalog()
	got, err := decodeBytes(t, econ.Encode(want))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got.Len() != want.Len() {
		t.Fatalf("record count %d want %d", got.Len(), want.Len())
	}
	if !reflect.DeepEqual(got.Records(), want.Records()) {
		t.Fatalf("records differ:\n got %+v\nwant %+v", got.Records(), want.Records())
	}
	gotBundles, wantBundles := got.Bundles(), want.Bundles()
	if len(gotBundles) != len(wantBundles) {
		t.Fatalf("bundle count %d want %d", len(gotBundles), len(wantBundles))
	}
	for i := range wantBundles {
		if gotBundles[i].ItemID != wantBundles[i].ItemID || len(gotBundles[i].Members) != len(wantBundles[i].Members) {
			t.Fatalf("bundle %d differs: %+v vs %+v", i, gotBundles[i], wantBundles[i])
		}
		for j := range wantBundles[i].Members {
			if gotBundles[i].Members[j] != wantBundles[i].Members[j] {
				t.Fatalf("bundle %d member %d differs", i, j)
			}
		}
	}
}

func TestQualityOutOfRangeMapsToUnknown(t *testing.T) {
	stream := testsupport.EconStream(
		testsupport.EconItem{ID: 1, Name: "Common thing", Quality: 0},
		testsupport.EconItem{ID: 2, Name: "Odd thing", Quality: 99},
	)
	got, err := decodeBytes(t, stream)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	first, _ := got.Record(1)
	second, _ := got.Record(2)
	if first.Quality != econ.QualityCommon || first.Quality.String() != "Common" {
		t.Fatalf("expected Common, got %v", first.Quality)
	}
	if second.Quality != econ.QualityUnknown || second.Quality.String() != "Unknown" {
		t.Fatalf("expected Unknown, got %v", second.Quality)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	w := binreader.NewWriter(binreader.DotNet)
	w.WriteInt32(2)
	w.WriteInt32(1)
	r := binreader.FromBytes(w.Bytes(), binreader.DotNet)

	got, err := econ.Decode(r)
	if !errors.Is(err, services.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
	if got != nil {
		t.Fatal("expected no catalog")
	}
	if r.Offset() != 4 {
		t.Fatalf("expected only the version consumed, offset %d", r.Offset())
	}
}

func TestDeclaredCountBeyondDataIsTruncated(t *testing.T) {
	full := econ.Encode(sampleCatalog())

	w := binreader.NewWriter(binreader.DotNet)
	w.WriteInt32(1)
	w.WriteInt32(5)
	// Copy the two real records after the version and count header.
	w.WriteBytes(full[8:])

	got, err := decodeBytes(t, w.Bytes())
	if !errors.Is(err, services.ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream, got %v", err)
	}
	if got != nil {
		t.Fatal("expected no partial records")
	}
}

func TestEveryTruncationPointFails(t *testing.T) {
	full := econ.Encode(sampleCatalog())
	for cut := 0; cut < len(full); cut++ {
		got, err := decodeBytes(t, full[:cut])
		if !errors.Is(err, services.ErrTruncatedStream) {
			t.Fatalf("cut at %d: expected ErrTruncatedStream, got %v", cut, err)
		}
		if got != nil {
			t.Fatalf("cut at %d: expected nil catalog", cut)
		}
	}
}

func TestNegativeCountIsTruncated(t *testing.T) {
	w := binreader.NewWriter(binreader.DotNet)
	w.WriteInt32(1)
	w.WriteInt32(-1)
	if _, err := decodeBytes(t, w.Bytes()); !errors.Is(err, services.ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream, got %v", err)
	}
}

func TestDuplicateIDsKeepFirst(t *testing.T) {
	stream := testsupport.EconStreamWithBundles(
		[]testsupport.EconItem{{ID: 5, Name: "first"}, {ID: 5, Name: "second"}},
		[]testsupport.EconBundle{{ID: 9, Members: []int32{1}}, {ID: 9, Members: []int32{2, 3}}},
	)
	got, err := decodeBytes(t, stream)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("expected one record, got %d", got.Len())
	}
	if rec, _ := got.Record(5); rec.Name != "first" {
		t.Fatalf("expected first occurrence, got %q", rec.Name)
	}
	if members, _ := got.Members(9); len(members) != 1 || members[0] != 1 {
		t.Fatalf("expected first bundle, got %v", members)
	}
}

func TestGUIDUsesDotNetByteOrder(t *testing.T) {
	raw := []byte{0x3d, 0x2c, 0x1b, 0x0a, 0x5f, 0x4e, 0x71, 0x60, 0x82, 0x93, 0xa4, 0xb5, 0xc6, 0xd7, 0xe8, 0xf9}
	stream := testsupport.EconStream(testsupport.EconItem{ID: 1, GUID: raw})
	got, err := decodeBytes(t, stream)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	rec, _ := got.Record(1)
	if rec.AssetGUID.String() != "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9" {
		t.Fatalf("unexpected guid %s", rec.AssetGUID)
	}
}

func TestMarkdownAndJSON(t *testing.T) {
	c := sampleCatalog()
	md := c.Markdown()
	for _, want := range []string{"# Economy", "2 items, 2 bundles", "| 1043 | Eaglefire", "| Unknown ", "1043, 7"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}

	data, err := c.JSON()
	if err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"quality": "Rare"`, `"asset_guid": "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"`, `"name": "Café crate"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in json:\n%s", want, text)
		}
	}
	if strings.Contains(text, "RawQuality") || strings.Contains(text, "raw_quality") {
		t.Fatal("raw quality should not be serialized")
	}
}

func TestPrettyJSON(t *testing.T) {
	in := []byte(`{"Items":[{"name":"Café","description":"Line one\nLine two"}]}`)
	out, err := econ.PrettyJSON(in)
	if err != nil {
		t.Fatalf("PrettyJSON returned error: %v", err)
	}
	want := "{\n  \"Items\": [\n    {\n      \"name\": \"Café\",\n      \"description\": \"Line oneLine two\"\n    }\n  ]\n}\n"
	if string(out) != want {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err := econ.PrettyJSON([]byte("{")); !errors.Is(err, services.ErrLikelyFormatDrift) {
		t.Fatalf("expected drift error for invalid json, got %v", err)
	}
}
