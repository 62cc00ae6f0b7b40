// Package git provides the git abstraction layer for the import orchestrator.
// It defines concrete entity types (Commit, Branch, Tag, RemoteRef), a
// Repository interface, a go-git backed implementation, and a typed subprocess
// runner for porcelain operations go-git does not cover.
package git

import (
	"strings"
	"time"
)

const (
	localBranchPrefix          = "refs/heads/"
	remoteTrackingBranchPrefix = "refs/remotes/"
	tagRefPrefix               = "refs/tags/"

	// derefMarker suffixes peeled tag entries in a remote ref advertisement.
	// An entry carrying it is not a real tag and must be filtered out.
	derefMarker = "^{}"
)

// RefKind distinguishes branches from tags in enumerated remote refs.
type RefKind int

const (
	KindBranch RefKind = iota
	KindTag
)

// String returns the lowercase kind name.
func (k RefKind) String() string {
	if k == KindTag {
		return "tag"
	}
	return "branch"
}

// Commit represents a git commit.
type Commit struct {
	Sha     string
	Parents []string // parent SHAs; len > 1 means merge commit
	When    time.Time
	Message string
}

// IsMerge returns true if the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// ShortSha returns the first 7 characters of the SHA.
func (c Commit) ShortSha() string {
	if len(c.Sha) >= 7 {
		return c.Sha[:7]
	}
	return c.Sha
}

// IsEmpty returns true if the commit has no SHA (zero value).
func (c Commit) IsEmpty() bool {
	return c.Sha == ""
}

// ReferenceName represents a git reference with canonical and friendly forms.
type ReferenceName struct {
	Canonical string // e.g., "refs/heads/main"
	Friendly  string // e.g., "main"
}

// NewReferenceName creates a ReferenceName from a canonical ref path.
func NewReferenceName(canonical string) ReferenceName {
	friendly := canonical
	switch {
	case strings.HasPrefix(canonical, localBranchPrefix):
		friendly = canonical[len(localBranchPrefix):]
	case strings.HasPrefix(canonical, remoteTrackingBranchPrefix):
		friendly = canonical[len(remoteTrackingBranchPrefix):]
	case strings.HasPrefix(canonical, tagRefPrefix):
		friendly = canonical[len(tagRefPrefix):]
	}
	return ReferenceName{Canonical: canonical, Friendly: friendly}
}

// NewBranchReferenceName creates a ReferenceName for a local branch.
func NewBranchReferenceName(name string) ReferenceName {
	return NewReferenceName(localBranchPrefix + name)
}

// NewTagReferenceName creates a ReferenceName for a tag.
func NewTagReferenceName(name string) ReferenceName {
	return NewReferenceName(tagRefPrefix + name)
}

// IsBranch returns true if this reference is a local branch.
func (r ReferenceName) IsBranch() bool {
	return strings.HasPrefix(r.Canonical, localBranchPrefix)
}

// IsTag returns true if this reference is a tag.
func (r ReferenceName) IsTag() bool {
	return strings.HasPrefix(r.Canonical, tagRefPrefix)
}

// Branch represents a local branch.
type Branch struct {
	Name           ReferenceName
	Tip            *Commit
	IsDetachedHead bool
}

// FriendlyName returns the friendly name of the branch.
func (b Branch) FriendlyName() string {
	return b.Name.Friendly
}

// Tag represents a local tag.
type Tag struct {
	Name      ReferenceName
	TargetSha string // SHA of the object this tag points to
}

// RemoteRef is one enumerated remote reference: an immutable snapshot of a
// branch or tag as advertised by the source repository at list time.
type RemoteRef struct {
	Kind RefKind
	Name string // short name, e.g. "main" or "v1.0"
	Sha  string // advertised target object
}

// RemoteState is the complete enumerated state of a source repository.
type RemoteState struct {
	Branches      []RemoteRef
	Tags          []RemoteRef
	DefaultBranch string // from the remote's symbolic HEAD; empty if undeterminable
}

// BranchNames returns the short names of all enumerated branches.
func (s RemoteState) BranchNames() []string {
	names := make([]string, 0, len(s.Branches))
	for _, b := range s.Branches {
		names = append(names, b.Name)
	}
	return names
}

// HasBranch reports whether the remote advertised a branch with the given name.
func (s RemoteState) HasBranch(name string) bool {
	for _, b := range s.Branches {
		if b.Name == name {
			return true
		}
	}
	return false
}
