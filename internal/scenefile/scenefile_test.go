package scenefile

import (
	"errors"
	"testing"

	"github.com/ARTM2000/thicket"
	"github.com/ARTM2000/thicket/scene"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("YAML and HCL decode to the same fixture", func(t *testing.T) {
		y, err := Load("testdata/arena.yaml")
		require.NoError(t, err)
		h, err := Load("testdata/arena.hcl")
		require.NoError(t, err)

		// gohcl decodes an empty block list as a non-nil slice.
		if diff := cmp.Diff(y, h, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("fixtures differ (-yaml +hcl):\n%s", diff)
		}
	})

	t.Run("unknown extension is rejected", func(t *testing.T) {
		_, err := Load("testdata/arena.toml")
		require.Error(t, err)
	})

	t.Run("unknown YAML keys are rejected", func(t *testing.T) {
		_, err := ParseYAML([]byte("partitions:\n  - name: A\n    colour: red\n"))
		require.Error(t, err)
	})

	t.Run("HCL syntax errors are reported", func(t *testing.T) {
		_, err := ParseHCL([]byte(`partition "A" {`), "broken.hcl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.hcl")
	})
}

func TestBuild(t *testing.T) {
	f, err := Load("testdata/arena.yaml")
	require.NoError(t, err)
	s, err := f.Build()
	require.NoError(t, err)

	parts := s.World.Partitions()
	require.Len(t, parts, 2)
	assert.Equal(t, "Arena", parts[0].Name())
	assert.True(t, parts[0].IsLoaded())
	assert.Equal(t, "Lobby", parts[1].Name())
	assert.False(t, parts[1].IsLoaded())

	require.Len(t, s.Probes, 1)
	probe := s.Probes[0]
	assert.Equal(t, "Red team/Player", probe.Node().Path())

	alpha := parts[1].Roots()[0]
	tag, ok := scene.Get[*Tag](alpha)
	require.True(t, ok)
	assert.Equal(t, "Scoreboard", tag.Type)

	assert.Empty(t, s.Advance(1))
	loaded := s.Advance(2)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Lobby", loaded[0].Name())
	assert.Empty(t, s.Advance(3))
}

func TestBuild_Errors(t *testing.T) {
	t.Run("partition without a name", func(t *testing.T) {
		_, err := (&File{Partitions: []PartitionSpec{{}}}).Build()
		require.Error(t, err)
	})

	t.Run("node strategy on a component slot", func(t *testing.T) {
		f := &File{Partitions: []PartitionSpec{{
			Name: "A",
			Roots: []NodeSpec{{
				Name: "n",
				Probes: []ProbeSpec{{
					Name: "p",
					Bindings: []BindingSpec{{
						Field:      "f",
						Type:       "Weapon",
						Strategies: []StrategySpec{{Kind: "Parent"}},
					}},
				}},
			}},
		}}}
		_, err := f.Build()
		require.Error(t, err)
		assert.True(t, errors.Is(err, thicket.ErrMisconfigured))
	})

	t.Run("duplicate field", func(t *testing.T) {
		_, err := NewProbe(ProbeSpec{Name: "p", Bindings: []BindingSpec{{Field: "f"}, {Field: "f"}}})
		require.Error(t, err)
	})
}

func TestStrategySpec(t *testing.T) {
	gens := 3
	tests := []struct {
		name string
		spec StrategySpec
		want string
	}{
		{"family defaults to one generation", StrategySpec{Kind: "FamilyComponent"}, "FamilyComponent(1)"},
		{"family generations", StrategySpec{Kind: "FamilyComponent", Generations: &gens, SkipSelf: true}, "FamilyComponent(3, SkipSelf)"},
		{"family from root", StrategySpec{Kind: "FamilyComponent", FromRoot: true, Generations: &gens}, "FamilyComponent(FromRoot=3)"},
		{"reference deep", StrategySpec{Kind: "ReferenceComponent", Deep: true, Offset: 1}, "ReferenceComponent(Offset=1, Deep)"},
		{"global of", StrategySpec{Kind: "GlobalComponent", Of: "Audio", Optional: true}, `GlobalComponent(Of="Audio", Optional)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.spec.ComponentDescriptor()
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}

	nodeTests := []struct {
		name string
		spec StrategySpec
		want string
	}{
		{"child by index", StrategySpec{Kind: "Child", Index: 2}, "Child(2)"},
		{"child by name", StrategySpec{Kind: "Child", Name: "Gun"}, `Child("Gun")`},
		{"root from top", StrategySpec{Kind: "Root", FromTop: 1}, "Root(FromTop=1)"},
		{"reference by of", StrategySpec{Kind: "Reference", Of: "Camera"}, `Reference("Camera")`},
		{"optional sibling", StrategySpec{Kind: "Sibling", Name: "Pad", Optional: true}, `Sibling("Pad", Optional)`},
	}
	for _, tt := range nodeTests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.spec.NodeDescriptor()
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := StrategySpec{Kind: "Cousin"}.NodeDescriptor()
		assert.ErrorIs(t, err, thicket.ErrMisconfigured)
	})
}

func TestProbe(t *testing.T) {
	t.Run("resolves after the loading partition loads", func(t *testing.T) {
		f, err := Load("testdata/arena.hcl")
		require.NoError(t, err)
		s, err := f.Build()
		require.NoError(t, err)

		c := thicket.New(s.World)
		c.AwakeAll()
		probe := s.Probes[0]

		assert.Equal(t, map[string]string{
			"team":       "Red team",
			"spawn":      "Red team/Player/Spawn",
			"weapon":     "Red team/Weapon",
			"scoreboard": "",
			"shield":     "",
		}, targets(probe))
		assert.Equal(t, 1, c.Pending())

		s.Advance(1)
		assert.Equal(t, 0, c.Tick())
		s.Advance(2)
		assert.Equal(t, 1, c.Tick())
		assert.Equal(t, 0, c.Pending())

		assert.Equal(t, "Alpha", probe.Target("scoreboard").Path())
		assert.Nil(t, probe.Target("shield"))
	})

	t.Run("fallback chain creates the last parent", func(t *testing.T) {
		f, err := Load("testdata/chain.yaml")
		require.NoError(t, err)
		s, err := f.Build()
		require.NoError(t, err)

		thicket.New(s.World).AwakeAll()
		probe := s.Probes[0]

		results := probe.Results()
		require.Len(t, results, 1)
		assert.Equal(t, Result{
			Probe:    "fallback",
			Node:     "Red team/Dead/Player",
			NodeID:   probe.Node().ID().String(),
			Field:    "target",
			Type:     "node",
			Target:   "Red team/Dead",
			TargetID: probe.Target("target").ID().String(),
		}, results[0])
	})
}

func targets(p *Probe) map[string]string {
	out := make(map[string]string)
	for _, r := range p.Results() {
		out[r.Field] = r.Target
	}
	return out
}
