package scenario

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"datamine/internal/binreader"
	"datamine/internal/decompile"
	"datamine/internal/econ"
	"datamine/internal/hostbans"
	"datamine/internal/pipeline"
	"datamine/internal/services"
	"datamine/internal/unityversion"
)

// decodeFunc turns fetched bytes into renderable data.
type decodeFunc func(ctx context.Context, raw []byte) (pipeline.Renderable, error)

// fileSource reads one file below the root.
type fileSource struct {
	name   string
	path   string
	decode decodeFunc
}

func (s fileSource) Name() string { return s.name }

func (s fileSource) Fetch(context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, services.Wrap(services.ErrMissingUpstreamFile, s.name, "read", filepath.Base(s.path)+" not found", err)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, s.name, "read", s.path, err)
	}
	return data, nil
}

func (s fileSource) Decode(ctx context.Context, raw []byte) (pipeline.Renderable, error) {
	return s.decode(ctx, raw)
}

// urlSource downloads one document.
type urlSource struct {
	name    string
	fetcher Fetcher
	urls    []string
	decode  decodeFunc
}

func (s urlSource) Name() string { return s.name }

func (s urlSource) Fetch(ctx context.Context) ([]byte, error) {
	if len(s.urls) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, s.name, "fetch", "no URL configured", nil)
	}
	if len(s.urls) == 1 {
		return s.fetcher.Bytes(ctx, s.urls[0])
	}
	data, _, err := s.fetcher.FirstOf(ctx, s.urls)
	return data, err
}

func (s urlSource) Decode(ctx context.Context, raw []byte) (pipeline.Renderable, error) {
	return s.decode(ctx, raw)
}

// verbatim writes the fetched bytes to name. An empty body is treated as
// drift so the last good copy survives.
func verbatim(source, name string) decodeFunc {
	return func(_ context.Context, raw []byte) (pipeline.Renderable, error) {
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, services.Wrap(services.ErrLikelyFormatDrift, source, "decode", "empty response", nil)
		}
		return pipeline.Static(pipeline.Artifact{Name: name, Content: raw}), nil
	}
}

func decodeEcon(_ context.Context, raw []byte) (pipeline.Renderable, error) {
	catalog, err := econ.Decode(binreader.FromBytes(raw, binreader.DotNet))
	if err != nil {
		return nil, err
	}
	return pipeline.RenderFunc(func() ([]pipeline.Artifact, error) {
		js, err := catalog.JSON()
		if err != nil {
			return nil, err
		}
		return []pipeline.Artifact{
			{Name: "Econ/EconInfo.md", Content: []byte(catalog.Markdown())},
			{Name: "Econ/EconInfo.json", Content: js},
		}, nil
	}), nil
}

func decodeEconJSON(_ context.Context, raw []byte) (pipeline.Renderable, error) {
	pretty, err := econ.PrettyJSON(raw)
	if err != nil {
		return nil, err
	}
	return pipeline.Static(pipeline.Artifact{Name: econJSONFile, Content: pretty}), nil
}

func decodeUnityVersion(_ context.Context, raw []byte) (pipeline.Renderable, error) {
	version, err := unityversion.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return pipeline.Static(pipeline.Artifact{Name: unityversion.OutputFile, Content: []byte(version)}), nil
}

func decodeHostBans(_ context.Context, raw []byte) (pipeline.Renderable, error) {
	filters, err := hostbans.Decode(binreader.FromBytes(raw, binreader.NetPak))
	if err != nil {
		return nil, err
	}
	return pipeline.RenderFunc(func() ([]pipeline.Artifact, error) {
		js, err := filters.JSON()
		if err != nil {
			return nil, err
		}
		return []pipeline.Artifact{
			{Name: "HostBans/Filters.md", Content: []byte(filters.Markdown())},
			{Name: "HostBans/Filters.json", Content: js},
		}, nil
	}), nil
}

// moduleSource decompiles one managed assembly into its own directory.
type moduleSource struct {
	module     decompile.Module
	decompiler decompile.Decompiler
	workers    int
	logger     *slog.Logger
}

func (s moduleSource) Name() string { return s.module.Name }

// Fetch confirms the assembly exists. The decompiler reads it directly.
func (s moduleSource) Fetch(context.Context) ([]byte, error) {
	info, err := os.Stat(s.module.Assembly)
	if err != nil {
		return nil, services.Wrap(services.ErrMissingUpstreamFile, s.module.Name, "stat", filepath.Base(s.module.Assembly)+" not found", err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrMissingUpstreamFile, s.module.Name, "stat", s.module.Assembly+" is a directory", nil)
	}
	return nil, nil
}

func (s moduleSource) Decode(ctx context.Context, _ []byte) (pipeline.Renderable, error) {
	files, err := decompile.Run(ctx, s.decompiler, s.module, s.workers, s.logger)
	if err != nil {
		return nil, err
	}
	dir := decompile.OutputDir(s.module.Name)
	artifacts := make([]pipeline.Artifact, len(files))
	for i, f := range files {
		artifacts[i] = pipeline.Artifact{Name: path.Join(dir, f.Path), Content: f.Content}
	}
	return pipeline.Static(artifacts...), nil
}

func (s moduleSource) OwnedDirs() []string {
	return []string{decompile.OutputDir(s.module.Name)}
}
