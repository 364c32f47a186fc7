package thicket

import (
	"context"
	"log/slog"
	"slices"
	"testing"

	"github.com/ARTM2000/thicket/scene"
)

// Shared test components and helpers used across test files.

type Gun struct {
	scene.Base
	Ammo int
}

type Radar struct{ scene.Base }

type Weapon interface{ Fire() }

func (g *Gun) Fire() {}

type AudioManager struct {
	scene.Base
	Singleton
	Volume int
}

func (a *AudioManager) Dependencies() []*Binding { return nil }

// probe is a behaviour whose bindings are supplied by the test.
type probe struct {
	scene.Base
	deps []*Binding
}

func (p *probe) Dependencies() []*Binding { return p.deps }

func newProbe(bindings ...*Binding) *probe { return &probe{deps: bindings} }

// add creates a node under parent, or as a root of p when parent is nil,
// and attaches comps to it.
func add(p *scene.Partition, parent *scene.Node, name string, comps ...any) *scene.Node {
	n := p.NewNode(name)
	if parent != nil {
		n.SetParent(parent)
	}
	for _, c := range comps {
		n.Add(c)
	}
	return n
}

// fixture is a world with one loaded partition called Main.
type fixture struct {
	world *scene.World
	main  *scene.Partition
	ctx   *Context
	logs  *recorder
}

func newFixture(t testing.TB, opts ...Option) *fixture {
	t.Helper()
	w := scene.NewWorld()
	main := w.AddPartition("Main", scene.Loaded)
	rec := newRecorder()
	opts = append([]Option{WithLogger(slog.New(rec))}, opts...)
	return &fixture{world: w, main: main, ctx: New(w, opts...), logs: rec}
}

// ---------------------------------------------------------------------------
// Log recording
// ---------------------------------------------------------------------------

type record struct {
	Level slog.Level
	Msg   string
	Attrs map[string]string
}

// recorder is a slog.Handler keeping every record in memory.
type recorder struct {
	records *[]record
	attrs   []slog.Attr
}

func newRecorder() *recorder { return &recorder{records: new([]record)} }

func (h *recorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *recorder) Handle(_ context.Context, r slog.Record) error {
	rec := record{Level: r.Level, Msg: r.Message, Attrs: make(map[string]string)}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.String()
		return true
	})
	*h.records = append(*h.records, rec)
	return nil
}

func (h *recorder) WithAttrs(as []slog.Attr) slog.Handler {
	return &recorder{records: h.records, attrs: append(slices.Clone(h.attrs), as...)}
}

func (h *recorder) WithGroup(string) slog.Handler { return h }

// at returns the records logged at level.
func (h *recorder) at(level slog.Level) []record {
	var out []record
	for _, r := range *h.records {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

func (h *recorder) messages(level slog.Level) []string {
	var out []string
	for _, r := range h.at(level) {
		out = append(out, r.Msg)
	}
	return out
}

func (h *recorder) reset() { *h.records = nil }
