package zigtooling

import "github.com/viant/afs"

// Option configures an Analyzer at construction time.
type Option func(*Analyzer)

// WithFS overrides the afs.Service used by AnalyzeFile. LoadConfigFile is
// not affected: it takes its afs.Service as an argument. Tests substitute an in-memory or mem:// service here instead of touching
// the real filesystem.
func WithFS(fs afs.Service) Option {
	return func(a *Analyzer) { a.fs = fs }
}

// WithDefaultConfig sets the Config used by calls that pass a nil
// configuration. The zero value otherwise falls back to DefaultConfig().
func WithDefaultConfig(cfg *Config) Option {
	return func(a *Analyzer) { a.defaultConfig = cfg }
}
