package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ARTM2000/thicket"
	"github.com/ARTM2000/thicket/internal/scenefile"
	"github.com/ARTM2000/thicket/scene"
)

// Report is the outcome of a resolve run.
type Report struct {
	Ticks   int                `json:"ticks"`
	Pending int                `json:"pending"`
	Waiting []string           `json:"waiting,omitempty"`
	Results []scenefile.Result `json:"results"`
}

// TreeNode is the JSON form of a scene node.
type TreeNode struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Components []string   `json:"components,omitempty"`
	Children   []TreeNode `json:"children,omitempty"`
}

// TreePartition is the JSON form of a partition.
type TreePartition struct {
	Name  string     `json:"name"`
	State string     `json:"state"`
	Roots []TreeNode `json:"roots"`
}

func validateFormat(f string) error {
	switch f {
	case "json", "text":
		return nil
	}
	return fmt.Errorf("invalid format %q: must be json or text", f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReport(w io.Writer, format string, r Report) error {
	if format == "json" {
		return writeJSON(w, r)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tPROBE\tFIELD\tTYPE\tTARGET")
	for _, res := range r.Results {
		target := res.Target
		if !res.Resolved() {
			target = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", res.Node, res.Probe, res.Field, res.Type, target)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nticks: %d, pending: %d\n", r.Ticks, r.Pending)
	if len(r.Waiting) > 0 {
		fmt.Fprintf(w, "waiting on: %s\n", strings.Join(r.Waiting, ", "))
	}
	return nil
}

func writeTree(w io.Writer, format string, world *scene.World) error {
	var parts []TreePartition
	for _, p := range thicket.EnumeratePartitions(world, nil) {
		tp := TreePartition{Name: p.Name(), State: p.State().String()}
		for _, r := range thicket.EnumerateRoots(p) {
			tp.Roots = append(tp.Roots, treeNode(r))
		}
		parts = append(parts, tp)
	}

	if format == "json" {
		return writeJSON(w, parts)
	}
	for _, tp := range parts {
		fmt.Fprintf(w, "%s (%s)\n", tp.Name, tp.State)
		for _, r := range tp.Roots {
			writeTreeNode(w, r, 1)
		}
	}
	return nil
}

func treeNode(n *scene.Node) TreeNode {
	tn := TreeNode{ID: n.ID().String(), Name: n.Name()}
	for _, c := range n.Components() {
		switch c := c.(type) {
		case *scenefile.Tag:
			tn.Components = append(tn.Components, c.Type)
		case *scenefile.Probe:
			tn.Components = append(tn.Components, "probe "+c.Name)
		}
	}
	for _, child := range n.Children() {
		tn.Children = append(tn.Children, treeNode(child))
	}
	return tn
}

func writeTreeNode(w io.Writer, n TreeNode, depth int) {
	fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth), n.Name)
	if len(n.Components) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(n.Components, ", "))
	}
	fmt.Fprintln(w)
	for _, c := range n.Children {
		writeTreeNode(w, c, depth+1)
	}
}
