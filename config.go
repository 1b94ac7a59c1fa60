package zigtooling

import (
	"context"
	"fmt"

	"github.com/scoomboot/zig-tooling/pattern"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// MemoryConfig groups every option that governs the Memory Analyzer.
type MemoryConfig struct {
	CheckDefer             bool `yaml:"checkDefer"`
	CheckArenaUsage        bool `yaml:"checkArenaUsage"`
	CheckAllocatorUsage    bool `yaml:"checkAllocatorUsage"`
	CheckOwnershipTransfer bool `yaml:"checkOwnershipTransfer"`
	TrackTestAllocations   bool `yaml:"trackTestAllocations"`

	// MaxScopeDepth caps how deeply the Scope Tracker will nest scopes; 0
	// means unlimited. Scopes past the cap are attributed to the last
	// permitted scope rather than rejected, per scope.Options.MaxDepth.
	MaxScopeDepth int `yaml:"maxScopeDepth"`

	AllowedAllocators []string `yaml:"allowedAllocators,omitempty"`

	AllocatorPatterns []pattern.AllocatorRule `yaml:"allocatorPatterns,omitempty"`
	OwnershipPatterns []pattern.OwnershipRule `yaml:"ownershipPatterns,omitempty"`

	UseDefaultAllocatorPatterns      bool     `yaml:"useDefaultAllocatorPatterns"`
	DisabledDefaultAllocatorPatterns []string `yaml:"disabledDefaultAllocatorPatterns,omitempty"`
	UseDefaultOwnershipPatterns      bool     `yaml:"useDefaultOwnershipPatterns"`
}

// TestingConfig groups every option that governs the Testing Analyzer.
type TestingConfig struct {
	EnforceCategories bool     `yaml:"enforceCategories"`
	EnforceNaming     bool     `yaml:"enforceNaming"`
	EnforceTestFiles  bool     `yaml:"enforceTestFiles"`
	AllowedCategories []string `yaml:"allowedCategories,omitempty"`
	TestFileSuffix    string   `yaml:"testFileSuffix"`
}

// OptionsConfig groups cross-cutting analysis options.
type OptionsConfig struct {
	MaxIssues       int  `yaml:"maxIssues"`
	Verbose         bool `yaml:"verbose"`
	ContinueOnError bool `yaml:"continueOnError"`
}

// LogFunc is a caller-supplied logging callback, invoked synchronously on
// whichever goroutine is running the analysis. It must be safe for
// concurrent use if the caller runs multiple analyses in parallel.
type LogFunc func(level LogLevel, message string)

// LoggingConfig groups the optional logging callback and its filter level.
type LoggingConfig struct {
	Enabled  bool    `yaml:"enabled"`
	MinLevel LogLevel `yaml:"minLevel"`
	Callback LogFunc  `yaml:"-"`
}

// Config is the library's top-level configuration record. The zero value is
// not ready to use; construct one with DefaultConfig or NewConfig.
type Config struct {
	Memory  MemoryConfig  `yaml:"memory"`
	Testing TestingConfig `yaml:"testing"`
	Options OptionsConfig `yaml:"options"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the library's documented defaults (see the external
// interfaces' configuration table).
func DefaultConfig() *Config {
	return &Config{
		Memory: MemoryConfig{
			CheckDefer:                  true,
			CheckArenaUsage:             true,
			CheckAllocatorUsage:         true,
			CheckOwnershipTransfer:      true,
			TrackTestAllocations:        true,
			UseDefaultAllocatorPatterns: true,
			UseDefaultOwnershipPatterns: true,
		},
		Testing: TestingConfig{
			EnforceCategories: true,
			EnforceNaming:     true,
			EnforceTestFiles:  true,
			AllowedCategories: []string{"unit", "integration", "e2e", "performance", "stress"},
			TestFileSuffix:    "_test",
		},
		Options: OptionsConfig{
			MaxIssues:       0,
			Verbose:         false,
			ContinueOnError: true,
		},
		Logging: LoggingConfig{
			Enabled:  false,
			MinLevel: LogLevelWarn,
		},
	}
}

// ConfigOption mutates a Config at construction time, in the style the
// library uses throughout for optional configuration.
type ConfigOption func(*Config)

// NewConfig builds a Config starting from DefaultConfig and applying opts in
// order.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithAllowedAllocators restricts allocation sites to the given canonical
// allocator names.
func WithAllowedAllocators(names ...string) ConfigOption {
	return func(c *Config) { c.Memory.AllowedAllocators = names }
}

// WithAllocatorPattern adds a user-defined allocator classification rule.
// User rules always take precedence over shipped defaults.
func WithAllocatorPattern(name, substringPattern string) ConfigOption {
	return func(c *Config) {
		c.Memory.AllocatorPatterns = append(c.Memory.AllocatorPatterns, pattern.AllocatorRule{Name: name, Pattern: substringPattern})
	}
}

// WithDisabledDefaultAllocatorPattern disables a single shipped default
// allocator rule by its canonical name.
func WithDisabledDefaultAllocatorPattern(name string) ConfigOption {
	return func(c *Config) {
		c.Memory.DisabledDefaultAllocatorPatterns = append(c.Memory.DisabledDefaultAllocatorPatterns, name)
	}
}

// WithLogging enables the logging callback at the given minimum level.
func WithLogging(level LogLevel, callback LogFunc) ConfigOption {
	return func(c *Config) {
		c.Logging.Enabled = true
		c.Logging.MinLevel = level
		c.Logging.Callback = callback
	}
}

// WithMaxIssues caps the number of diagnostics a single analysis call may
// return; 0 means unlimited.
func WithMaxIssues(n int) ConfigOption {
	return func(c *Config) { c.Options.MaxIssues = n }
}

// WithMaxScopeDepth caps how deeply the Scope Tracker nests scopes; 0 means
// unlimited.
func WithMaxScopeDepth(n int) ConfigOption {
	return func(c *Config) { c.Memory.MaxScopeDepth = n }
}

// Validate rejects configuration combinations that cannot produce sensible
// analysis behavior. It is not part of the original specification's
// surface; it exists so malformed configuration fails fast rather than
// misbehaving silently during analysis. NewConfig and DefaultConfig do not
// call it; LoadConfigFile and every Analyzer analysis call do.
func (c *Config) Validate() error {
	if c.Options.MaxIssues < 0 {
		return fmt.Errorf("zigtooling: options.maxIssues must be >= 0, got %d", c.Options.MaxIssues)
	}
	if c.Testing.TestFileSuffix == "" {
		return fmt.Errorf("zigtooling: testing.testFileSuffix must not be empty")
	}
	return nil
}

// patternConfig projects the Memory group into the leaf pattern package's
// own configuration shape.
func (c *Config) patternConfig() pattern.Config {
	return pattern.Config{
		UseDefaultAllocatorPatterns:      c.Memory.UseDefaultAllocatorPatterns,
		DisabledDefaultAllocatorPatterns: c.Memory.DisabledDefaultAllocatorPatterns,
		AllocatorPatterns:                c.Memory.AllocatorPatterns,
		UseDefaultOwnershipPatterns:      c.Memory.UseDefaultOwnershipPatterns,
		OwnershipPatterns:                c.Memory.OwnershipPatterns,
		AllowedAllocators:                c.Memory.AllowedAllocators,
	}
}

// LoadConfigFile reads and parses a YAML configuration file through the
// given afs.Service, layering it over DefaultConfig.
func LoadConfigFile(ctx context.Context, fs afs.Service, path string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, classifyIOError(path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, newError(ParseError, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
