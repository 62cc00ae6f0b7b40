package config

// CreateDefaultConfiguration returns the built-in defaults applied before any
// file overrides.
func CreateDefaultConfiguration() *Config {
	strategy := "recursive"
	skipTags := false
	rewriteHistory := false
	return &Config{
		Strategy:         &strategy,
		SkipTags:         &skipTags,
		RewriteHistory:   &rewriteHistory,
		FallbackBranches: []string{"main", "master", "trunk", "develop"},
	}
}
