package thicket

import (
	"fmt"
	"strings"
)

// descriptor is the shared representation of component and node
// descriptors.
type descriptor struct {
	kind        Kind
	of          string
	offset      int
	optional    bool
	skipSelf    bool
	deep        bool
	fromRoot    bool
	generations int
	index       int
	fromTop     int
	named       string

	// set records which kind-specific flags were given, for validation.
	set flag
}

type flag uint8

const (
	flagSkipSelf flag = 1 << iota
	flagDeep
	flagFromTop
)

func (d descriptor) validate() error {
	switch {
	case d.set&flagSkipSelf != 0 && !d.kind.allows(flagSkipSelf):
		return fmt.Errorf("%w: SkipSelf does not apply to %s", ErrMisconfigured, d.kind)
	case d.set&flagDeep != 0 && !d.kind.allows(flagDeep):
		return fmt.Errorf("%w: Deep does not apply to %s", ErrMisconfigured, d.kind)
	case d.set&flagFromTop != 0 && !d.kind.allows(flagFromTop):
		return fmt.Errorf("%w: FromTop does not apply to %s", ErrMisconfigured, d.kind)
	case (d.kind == KindChild || d.kind == KindSibling) && d.named == "" && d.index < 0:
		return fmt.Errorf("%w: negative %s index %d", ErrMisconfigured, d.kind, d.index)
	case d.kind == KindReference && d.of == "":
		return fmt.Errorf("%w: Reference needs a name", ErrMisconfigured)
	}
	return nil
}

// parentIndex is the part of offset that Parent(index) contributed.
func (d descriptor) parentIndex() int {
	if d.kind == KindParent && d.named == "" {
		return d.index
	}
	return 0
}

func (k Kind) allows(f flag) bool {
	switch f {
	case flagSkipSelf:
		return k == KindChildComponent || k == KindParentComponent ||
			k == KindSiblingComponent || k == KindFamilyComponent
	case flagDeep:
		return k == KindReferenceComponent
	case flagFromTop:
		return k == KindRoot
	}
	return false
}

// String renders the descriptor the way it is declared, for log records.
func (d descriptor) String() string {
	var args []string
	switch {
	case d.named != "":
		args = append(args, fmt.Sprintf("%q", d.named))
	case d.kind == KindReference:
		args = append(args, fmt.Sprintf("%q", d.of))
	case d.kind == KindChild || d.kind == KindSibling || d.kind == KindParent:
		args = append(args, fmt.Sprint(d.index))
	case d.kind == KindFamilyComponent && !d.fromRoot:
		args = append(args, fmt.Sprint(d.generations))
	}
	if d.fromRoot {
		args = append(args, fmt.Sprintf("FromRoot=%d", d.generations))
	}
	if d.of != "" && d.kind != KindReference {
		args = append(args, fmt.Sprintf("Of=%q", d.of))
	}
	if offset := d.offset - d.parentIndex(); offset != 0 {
		args = append(args, fmt.Sprintf("Offset=%d", offset))
	}
	if d.fromTop != 0 {
		args = append(args, fmt.Sprintf("FromTop=%d", d.fromTop))
	}
	if d.skipSelf {
		args = append(args, "SkipSelf")
	}
	if d.deep {
		args = append(args, "Deep")
	}
	if d.optional {
		args = append(args, "Optional")
	}
	if len(args) == 0 {
		return d.kind.String()
	}
	return d.kind.String() + "(" + strings.Join(args, ", ") + ")"
}

// ---------------------------------------------------------------------------
// Component descriptors
// ---------------------------------------------------------------------------

// ComponentDescriptor declares how a component dependency is located. Build
// one with a constructor such as [ChildComponent] and refine it with its
// methods; every method returns a modified copy.
type ComponentDescriptor struct{ d descriptor }

func component(k Kind) ComponentDescriptor {
	return ComponentDescriptor{descriptor{kind: k}}
}

// OwnComponent looks for the component on the start point only.
func OwnComponent() ComponentDescriptor { return component(KindOwnComponent) }

// Component finds the component automatically. Search order: singletons,
// reference points, the start point and its subtree, then at each ancestor
// level the siblings, their subtrees and the ancestor itself, then the roots
// of other forests.
func Component() ComponentDescriptor { return component(KindComponent) }

// GlobalComponent finds the component independently of the start point:
// singletons, then all roots, then all roots' subtrees, visiting roots in
// alphabetical order.
func GlobalComponent() ComponentDescriptor { return component(KindGlobalComponent) }

// ReferenceComponent searches the behaviour's reference points in
// registration order.
func ReferenceComponent() ComponentDescriptor { return component(KindReferenceComponent) }

// ChildComponent searches the start point and its descendants.
func ChildComponent() ComponentDescriptor { return component(KindChildComponent) }

// ParentComponent searches the start point and its ancestors.
func ParentComponent() ComponentDescriptor { return component(KindParentComponent) }

// SiblingComponent searches the start point's siblings, the start point
// included unless SkipSelf is set.
func SiblingComponent() ComponentDescriptor { return component(KindSiblingComponent) }

// FamilyComponent searches the subtree of the ancestor generations levels
// above the start point.
func FamilyComponent(generations int) ComponentDescriptor {
	c := component(KindFamilyComponent)
	c.d.generations = generations
	return c
}

// FamilyFromRoot searches the subtree of the start point's forest root, or of
// the node skipFromTop levels below it on the path to the start point.
func FamilyFromRoot(skipFromTop int) ComponentDescriptor {
	c := component(KindFamilyComponent)
	c.d.fromRoot = true
	c.d.generations = skipFromTop
	return c
}

// Of makes the search start from the node called name instead of the
// behaviour's own node.
func (c ComponentDescriptor) Of(name string) ComponentDescriptor {
	c.d.of = name
	return c
}

// Offset moves the start point: positive values climb toward the root,
// negative values descend into first children.
func (c ComponentDescriptor) Offset(n int) ComponentDescriptor {
	c.d.offset = n
	return c
}

// Optional disables auto-creation when nothing is found.
func (c ComponentDescriptor) Optional() ComponentDescriptor {
	c.d.optional = true
	return c
}

// SkipSelf excludes the start point from Child, Parent, Sibling and Family
// searches.
func (c ComponentDescriptor) SkipSelf() ComponentDescriptor {
	c.d.skipSelf = true
	c.d.set |= flagSkipSelf
	return c
}

// Deep extends a ReferenceComponent search into the reference points'
// descendants.
func (c ComponentDescriptor) Deep() ComponentDescriptor {
	c.d.deep = true
	c.d.set |= flagDeep
	return c
}

// Kind returns the descriptor's strategy.
func (c ComponentDescriptor) Kind() Kind { return c.d.kind }

func (c ComponentDescriptor) String() string { return c.d.String() }

// ---------------------------------------------------------------------------
// Node descriptors
// ---------------------------------------------------------------------------

// NodeDescriptor declares how a node dependency is located.
type NodeDescriptor struct{ d descriptor }

// Child resolves the start point's child at index.
func Child(index int) NodeDescriptor {
	return NodeDescriptor{descriptor{kind: KindChild, index: index}}
}

// ChildNamed finds a descendant called name, direct children first.
func ChildNamed(name string) NodeDescriptor {
	return NodeDescriptor{descriptor{kind: KindChild, named: name, index: -1}}
}

// Parent resolves the ancestor index levels above the start point's parent;
// 0 is the direct parent.
func Parent(index int) NodeDescriptor {
	return NodeDescriptor{descriptor{kind: KindParent, offset: index, index: index}}
}

// ParentNamed finds the nearest ancestor called name.
func ParentNamed(name string) NodeDescriptor {
	return NodeDescriptor{descriptor{kind: KindParent, named: name}}
}

// Sibling resolves the sibling at index, the start point itself counted. At
// root level the partition's roots, sorted by name, are the siblings.
// A sibling created at root level is placed by host order, so a later lookup
// by the same index may find another root.
func Sibling(index int) NodeDescriptor {
	return NodeDescriptor{descriptor{kind: KindSibling, index: index}}
}

// SiblingNamed finds a sibling called name.
func SiblingNamed(name string) NodeDescriptor {
	return NodeDescriptor{descriptor{kind: KindSibling, named: name, index: -1}}
}

// Root resolves the start point's forest root, or the node fromTop levels
// below it on the path to the start point.
func Root(fromTop int) NodeDescriptor {
	return NodeDescriptor{descriptor{kind: KindRoot, fromTop: fromTop}}
}

// RootNamed finds a node called name at root level, then among that level's
// siblings, then on the path down to the start point.
func RootNamed(name string) NodeDescriptor {
	return NodeDescriptor{descriptor{kind: KindRoot, named: name}}
}

// Reference finds the node called name anywhere, starting with reference
// points and then searching outward from the behaviour's node.
func Reference(name string) NodeDescriptor {
	return NodeDescriptor{descriptor{kind: KindReference, of: name}}
}

// Of makes the search start from the node called name.
func (n NodeDescriptor) Of(name string) NodeDescriptor {
	n.d.of = name
	return n
}

// Offset moves the start point by generations.
func (n NodeDescriptor) Offset(k int) NodeDescriptor {
	n.d.offset += k
	return n
}

// Optional disables auto-creation when nothing is found.
func (n NodeDescriptor) Optional() NodeDescriptor {
	n.d.optional = true
	return n
}

// FromTop sets the hierarchy level treated as root by Root descriptors.
func (n NodeDescriptor) FromTop(k int) NodeDescriptor {
	n.d.fromTop = k
	n.d.set |= flagFromTop
	return n
}

// Kind returns the descriptor's strategy.
func (n NodeDescriptor) Kind() Kind { return n.d.kind }

// Name returns the name of the node the descriptor looks for, if any.
func (n NodeDescriptor) Name() string {
	if n.d.kind == KindReference {
		return n.d.of
	}
	return n.d.named
}

func (n NodeDescriptor) String() string { return n.d.String() }
