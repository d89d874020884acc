package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// AppManifest renders a minimal Steam appmanifest_<id>.acf body.
func AppManifest(appID int, buildID string) []byte {
	return []byte(fmt.Sprintf(`"AppState"
{
	"appid"		"%d"
	"Universe"		"1"
	"name"		"Unturned"
	"StateFlags"		"4"
	"buildid"		"%s"
	"InstalledDepots"
	{
		"1110391"
		{
			"manifest"		"123456789"
		}
	}
}
`, appID, buildID))
}

// StatusJSON renders a Status.json body carrying the given game version.
func StatusJSON(major, minor, patch int) []byte {
	return []byte(fmt.Sprintf(`{
	// comments are tolerated
	"Game": {
		"Major_Version": %d,
		"Minor_Version": %d,
		"Patch_Version": %d,
	},
}
`, major, minor, patch))
}

// GlobalGameManagers renders a globalgamemanagers header carrying version.
func GlobalGameManagers(version string) []byte {
	data := make([]byte, 48, 48+len(version)+16)
	data = append(data, version...)
	data = append(data, 0)
	return append(data, make([]byte, 16)...)
}
