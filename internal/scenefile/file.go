// Package scenefile loads declarative scene fixtures: partitions, node
// forests, tag components and probe behaviours declaring dependency
// bindings. Fixtures are YAML or HCL; both decode into [File].
package scenefile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// File is a decoded fixture.
type File struct {
	Partitions []PartitionSpec `yaml:"partitions" hcl:"partition,block"`
	Persistent *PersistentSpec `yaml:"persistent" hcl:"persistent,block"`
}

// PartitionSpec declares a partition. A positive LoadAfter keeps the
// partition loading until that tick.
type PartitionSpec struct {
	Name      string     `yaml:"name" hcl:"name,label"`
	LoadAfter int        `yaml:"load_after" hcl:"load_after,optional"`
	Roots     []NodeSpec `yaml:"roots" hcl:"node,block"`
}

// PersistentSpec lists the roots of the persistent partition.
type PersistentSpec struct {
	Roots []NodeSpec `yaml:"roots" hcl:"node,block"`
}

// NodeSpec declares a node, its tag components, probes and children.
type NodeSpec struct {
	Name       string      `yaml:"name" hcl:"name,label"`
	Components []string    `yaml:"components" hcl:"components,optional"`
	Probes     []ProbeSpec `yaml:"probes" hcl:"probe,block"`
	Children   []NodeSpec  `yaml:"children" hcl:"node,block"`
}

// ProbeSpec declares a behaviour whose bindings are given in the fixture.
type ProbeSpec struct {
	Name     string        `yaml:"name" hcl:"name,label"`
	Bindings []BindingSpec `yaml:"bindings" hcl:"binding,block"`
}

// BindingSpec declares one slot. An empty Type makes it a node slot.
type BindingSpec struct {
	Field          string         `yaml:"field" hcl:"field,label"`
	Type           string         `yaml:"type" hcl:"type,optional"`
	ReferencePoint bool           `yaml:"reference_point" hcl:"reference_point,optional"`
	Strategies     []StrategySpec `yaml:"strategies" hcl:"strategy,block"`
}

// StrategySpec declares one descriptor of a binding's chain.
type StrategySpec struct {
	Kind        string `yaml:"kind" hcl:"kind,label"`
	Of          string `yaml:"of" hcl:"of,optional"`
	Offset      int    `yaml:"offset" hcl:"offset,optional"`
	Optional    bool   `yaml:"optional" hcl:"optional,optional"`
	SkipSelf    bool   `yaml:"skip_self" hcl:"skip_self,optional"`
	Deep        bool   `yaml:"deep" hcl:"deep,optional"`
	FromRoot    bool   `yaml:"from_root" hcl:"from_root,optional"`
	Generations *int   `yaml:"generations" hcl:"generations,optional"`
	Index       int    `yaml:"index" hcl:"index,optional"`
	Name        string `yaml:"name" hcl:"name,optional"`
	FromTop     int    `yaml:"from_top" hcl:"from_top,optional"`
}

// Load reads a fixture, choosing the decoder by file extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".hcl":
		return ParseHCL(data, path)
	default:
		return nil, fmt.Errorf("unsupported fixture format %q", filepath.Ext(path))
	}
}

// ParseYAML decodes a YAML fixture. Unknown keys are rejected.
func ParseYAML(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding YAML fixture: %w", err)
	}
	return &f, nil
}

// ParseHCL decodes an HCL fixture. filename is used in diagnostics.
func ParseHCL(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL fixture %s: %w", filename, diags)
	}

	var f File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL fixture %s: %w", filename, diags)
	}
	return &f, nil
}
