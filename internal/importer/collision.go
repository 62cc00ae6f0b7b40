package importer

import "github.com/MyCarrier-DevOps/go-gitimport/internal/git"

// Action is the collision resolver's verdict for one destination ref.
type Action int

const (
	// ActionCreate means the ref does not exist (or was force-removed) and
	// should be created.
	ActionCreate Action = iota

	// ActionSkip means the ref already exists and force mode is off; it is
	// recorded as skipped and the batch continues.
	ActionSkip
)

// CollisionPolicy decides per destination ref whether to create, skip, or
// clear-then-create. A collision never aborts the whole run.
type CollisionPolicy struct {
	Force bool
}

// Resolve applies the policy to one destination ref. In force mode an
// existing ref is deleted first, so creation proceeds as if it never existed.
func (p CollisionPolicy) Resolve(repo git.Repository, ref string) (Action, error) {
	exists, err := repo.HasReference(ref)
	if err != nil {
		return ActionSkip, err
	}
	if !exists {
		return ActionCreate, nil
	}
	if !p.Force {
		return ActionSkip, nil
	}
	if err := repo.RemoveReference(ref); err != nil {
		return ActionSkip, err
	}
	return ActionCreate, nil
}
