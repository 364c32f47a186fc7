package thicket

// Kind is the search strategy of a dependency descriptor.
type Kind int

const (
	// KindOwnComponent looks only on the start point.
	KindOwnComponent Kind = iota
	// KindComponent searches singletons, reference points, then the
	// hierarchy outward from the start point.
	KindComponent
	// KindGlobalComponent searches singletons, then every root.
	KindGlobalComponent
	// KindReferenceComponent searches the registered reference points.
	KindReferenceComponent
	// KindChildComponent searches the start point's subtree.
	KindChildComponent
	// KindParentComponent searches the start point's ancestors.
	KindParentComponent
	// KindSiblingComponent searches the start point's siblings.
	KindSiblingComponent
	// KindFamilyComponent searches the subtree of an ancestor.
	KindFamilyComponent

	// KindChild resolves a child node by index or name.
	KindChild
	// KindParent resolves an ancestor node by index or name.
	KindParent
	// KindSibling resolves a sibling node by index or name.
	KindSibling
	// KindRoot resolves a root-level node.
	KindRoot
	// KindReference resolves a node by name anywhere.
	KindReference
)

var kindNames = [...]string{
	KindOwnComponent:       "OwnComponent",
	KindComponent:          "Component",
	KindGlobalComponent:    "GlobalComponent",
	KindReferenceComponent: "ReferenceComponent",
	KindChildComponent:     "ChildComponent",
	KindParentComponent:    "ParentComponent",
	KindSiblingComponent:   "SiblingComponent",
	KindFamilyComponent:    "FamilyComponent",
	KindChild:              "Child",
	KindParent:             "Parent",
	KindSibling:            "Sibling",
	KindRoot:               "Root",
	KindReference:          "Reference",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsComponent reports whether the kind resolves components rather than
// nodes.
func (k Kind) IsComponent() bool {
	return k >= KindOwnComponent && k <= KindFamilyComponent
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}
