package manifest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"

	"datamine/internal/services"
)

// AppManifestPath returns steamapps/appmanifest_<appID>.acf below root.
func AppManifestPath(root string, appID int) string {
	return filepath.Join(root, "steamapps", "appmanifest_"+strconv.Itoa(appID)+".acf")
}

// Parse reads a KeyValues text document into nested maps. Objects are
// map[string]any and leaves are strings.
func Parse(r io.Reader) (map[string]any, error) {
	return vdf.NewParser(r).Parse()
}

// Lookup walks path through nested objects. Keys match case-insensitively.
func Lookup(doc map[string]any, path ...string) (any, bool) {
	var cur any = doc
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = child(obj, key)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func child(obj map[string]any, key string) (any, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// BuildID reads AppState/buildid from the manifest at path. A missing file or
// entry is reported as services.ErrMissingUpstreamFile.
func BuildID(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrMissingUpstreamFile, "manifest", "open", filepath.Base(path)+" not found", err)
		}
		return "", fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return "", services.Wrap(services.ErrLikelyFormatDrift, "manifest", "parse", filepath.Base(path), err)
	}
	value, _ := Lookup(doc, "AppState", "buildid")
	id, _ := value.(string)
	if id = strings.TrimSpace(id); id == "" {
		return "", services.Wrap(services.ErrMissingUpstreamFile, "manifest", "read", "buildid missing from "+filepath.Base(path), nil)
	}
	return id, nil
}
