package decompile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"golang.org/x/sync/errgroup"

	"datamine/internal/logging"
	"datamine/internal/render"
	"datamine/internal/services"
	"datamine/internal/textutil"
)

// File is one generated file, relative to the module output directory.
type File struct {
	Path    string
	Content []byte
}

// Module describes one assembly to decompile.
type Module struct {
	Name     string
	Assembly string
	RefDirs  []string
}

// Run lists and decompiles every group of m with at most workers groups in
// flight. The result holds the group files followed by README indexes, sorted
// by path.
func Run(ctx context.Context, d Decompiler, m Module, workers int, logger *slog.Logger) ([]File, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	types, err := d.ListTypes(ctx, m.Assembly, m.RefDirs)
	if err != nil {
		return nil, wrap(ctx, m.Name, "", err)
	}
	groups := Groups(types)
	if len(groups) == 0 {
		return nil, services.Wrap(services.ErrLikelyFormatDrift, m.Name, "list types", "no types listed", nil)
	}
	logger.Info("decompiling module",
		logging.String("module", m.Name),
		logging.Int("groups", len(groups)),
	)

	files := make([]File, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, group := range groups {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			src, err := d.DecompileTypes(gctx, m.Assembly, m.RefDirs, group.Types)
			if err != nil {
				return wrap(gctx, m.Name, group.Key, err)
			}
			files[i] = File{Path: group.Key, Content: []byte(textutil.NormalizeNewlines(string(src)))}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files = append(files, Indexes(files)...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Indexes renders one README per directory that holds group files. Files at
// the module root get no index.
func Indexes(files []File) []File {
	byDir := make(map[string][]string)
	for _, f := range files {
		dir, name := path.Split(f.Path)
		if dir == "" || render.IsIndexName(name) {
			continue
		}
		dir = path.Clean(dir)
		byDir[dir] = append(byDir[dir], name)
	}
	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	indexes := make([]File, 0, len(dirs))
	for _, dir := range dirs {
		names := byDir[dir]
		indexes = append(indexes, File{
			Path:    path.Join(dir, render.IndexName(len(names))),
			Content: []byte(render.Index(path.Base(dir), names)),
		})
	}
	return indexes
}

// wrap attaches module and group context. Cancellation keeps its identity.
func wrap(ctx context.Context, module, key string, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}
	op, msg := "list types", ""
	if key != "" {
		op, msg = "decompile", fmt.Sprintf("error decompiling %q", key)
	}
	marker := services.ErrExternalTool
	if errors.Is(err, services.ErrConfiguration) {
		marker = services.ErrConfiguration
	}
	return services.Wrap(marker, module, op, msg, err)
}
