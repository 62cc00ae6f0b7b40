package config

import "fmt"

// Builder constructs a Config by layering overrides on top of defaults.
type Builder struct {
	overrides []*Config
}

// NewBuilder creates a new configuration builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add adds a configuration override. Overrides are applied in order: later
// overrides take precedence over earlier ones.
func (b *Builder) Add(override *Config) *Builder {
	if override != nil {
		b.overrides = append(b.overrides, override)
	}
	return b
}

// Build constructs the final configuration by starting with defaults,
// applying all overrides, and validating.
func (b *Builder) Build() (*Config, error) {
	cfg := CreateDefaultConfiguration()

	for _, override := range b.overrides {
		mergeConfig(cfg, override)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig applies non-nil fields from src to dst.
func mergeConfig(dst, src *Config) {
	if src.Strategy != nil {
		dst.Strategy = src.Strategy
	}
	if src.SkipTags != nil {
		dst.SkipTags = src.SkipTags
	}
	if src.RewriteHistory != nil {
		dst.RewriteHistory = src.RewriteHistory
	}
	if len(src.FallbackBranches) > 0 {
		dst.FallbackBranches = src.FallbackBranches
	}
}

func validate(cfg *Config) error {
	switch cfg.EffectiveStrategy() {
	case "recursive", "ours", "subtree":
		return nil
	default:
		return fmt.Errorf("invalid strategy %q: want recursive, ours, or subtree", cfg.EffectiveStrategy())
	}
}
