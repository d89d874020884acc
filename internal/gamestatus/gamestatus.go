// Package gamestatus reads the game's Status.json and formats the release
// version used in commit messages.
package gamestatus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"datamine/internal/services"
)

// FileName is the status document shipped with every build.
const FileName = "Status.json"

// Version identifies a game release.
type Version struct {
	Major int `json:"Major_Version"`
	Minor int `json:"Minor_Version"`
	Patch int `json:"Patch_Version"`
}

// String formats the version as 3.<major>.<minor>.<patch>.
func (v Version) String() string {
	return fmt.Sprintf("3.%d.%d.%d", v.Major, v.Minor, v.Patch)
}

type statusDocument struct {
	Game *Version `json:"Game"`
}

// Path returns the Status.json location inside a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Parse decodes a Status.json body. Comments and trailing commas are tolerated.
func Parse(data []byte) (Version, error) {
	var doc statusDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return Version{}, services.Wrap(services.ErrLikelyFormatDrift, "game_status", "parse", FileName, err)
	}
	if doc.Game == nil {
		return Version{}, services.Wrap(services.ErrLikelyFormatDrift, "game_status", "parse", "Game node missing", nil)
	}
	return *doc.Game, nil
}

// Read loads and parses the status file at path.
func Read(path string) (Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Version{}, services.Wrap(services.ErrMissingUpstreamFile, "game_status", "read", FileName+" not found", err)
		}
		return Version{}, fmt.Errorf("read %s: %w", FileName, err)
	}
	return Parse(data)
}
