// Package config loads and layers gitimport configuration. A repository may
// provide defaults in .gitimport.yml; command-line flags always win over file
// configuration.
package config

// Config holds import defaults. Pointer fields distinguish "unset" from an
// explicit zero value so overrides layer correctly.
type Config struct {
	// Strategy is the default merge strategy: recursive, ours, or subtree.
	Strategy *string `yaml:"strategy,omitempty" json:"strategy,omitempty"`

	// SkipTags disables tag import by default.
	SkipTags *bool `yaml:"skip-tags,omitempty" json:"skip-tags,omitempty"`

	// RewriteHistory selects the external filter-repo rewrite strategy by
	// default instead of the in-process tree filter.
	RewriteHistory *bool `yaml:"rewrite-history,omitempty" json:"rewrite-history,omitempty"`

	// FallbackBranches are probed in order when the remote's default branch
	// cannot be determined.
	FallbackBranches []string `yaml:"fallback-branches,omitempty" json:"fallback-branches,omitempty"`
}

// EffectiveStrategy returns the configured strategy or the default.
func (c *Config) EffectiveStrategy() string {
	if c.Strategy != nil {
		return *c.Strategy
	}
	return "recursive"
}

// EffectiveSkipTags returns the configured skip-tags setting.
func (c *Config) EffectiveSkipTags() bool {
	return c.SkipTags != nil && *c.SkipTags
}

// EffectiveRewriteHistory returns the configured rewrite strategy selection.
func (c *Config) EffectiveRewriteHistory() bool {
	return c.RewriteHistory != nil && *c.RewriteHistory
}
