package pipeline

import "context"

// Artifact is one rendered output file. Name is slash-separated and relative
// to the run root.
type Artifact struct {
	Name    string
	Content []byte
}

// Renderable is decoded data that knows how to render its artifacts.
type Renderable interface {
	Render() ([]Artifact, error)
}

// Source is one independently processed data source.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
	Decode(ctx context.Context, raw []byte) (Renderable, error)
}

// Pruner is implemented by sources that own whole directories. After a
// successful persist, files below an owned directory that were not rendered
// in this run are removed.
type Pruner interface {
	OwnedDirs() []string
}

// RenderFunc adapts a function to Renderable.
type RenderFunc func() ([]Artifact, error)

// Render calls f.
func (f RenderFunc) Render() ([]Artifact, error) {
	return f()
}

// Static returns a Renderable producing fixed artifacts.
func Static(artifacts ...Artifact) Renderable {
	return RenderFunc(func() ([]Artifact, error) {
		return artifacts, nil
	})
}
