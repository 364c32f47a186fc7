package thicket

import "errors"

var (
	// ErrNotFound is reported when a strategy yields no candidate.
	ErrNotFound = errors.New("dependency not found")

	// ErrPending is returned by [Instance] while a partition is still loading
	// and no instance could be found yet. Callers retry on a later tick.
	ErrPending = errors.New("partition still loading")

	// ErrMisconfigured is reported for descriptors whose flags do not apply to
	// their kind, and for bindings that cannot be resolved as declared.
	ErrMisconfigured = errors.New("misconfigured dependency")

	// ErrNoReferencePoints is reported when a reference strategy runs on a
	// behaviour that registered no reference points.
	ErrNoReferencePoints = errors.New("no reference points registered")

	// ErrDuplicateSingleton is reported when a second instance of a singleton
	// type activates. The first registrant is kept.
	ErrDuplicateSingleton = errors.New("duplicate singleton")

	// ErrNotConstructible is reported when a missing component cannot be
	// created because no factory is known for its type.
	ErrNotConstructible = errors.New("no factory for type")
)
