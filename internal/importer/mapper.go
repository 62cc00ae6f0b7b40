// Package importer implements the ref-import and history-rewrite
// orchestrator: it enumerates a source repository's branches and tags over a
// transient remote, maps them to namespaced destination names, resolves
// collisions, optionally relocates all imported files under a subdirectory
// with a full history rewrite, and optionally merges the imported default
// branch into an existing branch.
package importer

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern matches valid source identifiers: a short token used as
// the namespace prefix for every imported ref.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateIdentifier rejects malformed source identifiers before any remote
// operation takes place.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("source identifier is required")
	}
	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("invalid source identifier %q: only letters, digits, '.', '_' and '-' are allowed", id)
	}
	return nil
}

// BranchName maps a remote branch name to its destination name. Branches use
// a hyphen join; tags use a slash join. The asymmetry is deliberate: it keeps
// imported branch and tag namespaces unambiguous when a branch and a tag
// share a base name.
func BranchName(id, remoteName string) string {
	return id + "-" + remoteName
}

// TagName maps a remote tag name to its destination name.
func TagName(id, remoteName string) string {
	return id + "/" + remoteName
}

// DestinationBranchRef returns the canonical destination ref for a remote
// branch, or an error if the derived name is not a well-formed ref name.
func DestinationBranchRef(id, remoteName string) (string, error) {
	name := BranchName(id, remoteName)
	if err := checkRefName(name); err != nil {
		return "", fmt.Errorf("branch %q maps to invalid ref name %q: %w", remoteName, name, err)
	}
	return "refs/heads/" + name, nil
}

// DestinationTagRef returns the canonical destination ref for a remote tag,
// or an error if the derived name is not a well-formed ref name.
func DestinationTagRef(id, remoteName string) (string, error) {
	name := TagName(id, remoteName)
	if err := checkRefName(name); err != nil {
		return "", fmt.Errorf("tag %q maps to invalid ref name %q: %w", remoteName, name, err)
	}
	return "refs/tags/" + name, nil
}

// checkRefName enforces the git ref-name rules that matter for derived names.
// A name that fails is skipped with an error, never silently mangled.
func checkRefName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("empty or slash-delimited name")
	}
	if strings.Contains(name, "//") || strings.Contains(name, "..") || strings.Contains(name, "@{") {
		return fmt.Errorf("forbidden sequence")
	}
	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, ".lock") {
		return fmt.Errorf("forbidden suffix")
	}
	for _, component := range strings.Split(name, "/") {
		if strings.HasPrefix(component, ".") || strings.HasSuffix(component, ".lock") {
			return fmt.Errorf("invalid component %q", component)
		}
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[\\", r) {
			return fmt.Errorf("forbidden character %q", r)
		}
	}
	return nil
}
