package zigtooling

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/scoomboot/zig-tooling/internal/dedupe"
	"github.com/scoomboot/zig-tooling/pattern"
	"github.com/scoomboot/zig-tooling/srcctx"
	"github.com/viant/afs"
)

// Analyzer is the library's entry point. A single instance may analyze many
// files in sequence or be shared read-only across goroutines each analyzing
// a different file; nothing about an Analyzer's own state is mutated by an
// analysis call — every call builds its own Pattern Registry and scope
// tracker from the configuration it is given.
type Analyzer struct {
	fs            afs.Service
	defaultConfig *Config
}

// NewAnalyzer returns an Analyzer ready to analyze source text or files.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		fs:            afs.New(),
		defaultConfig: DefaultConfig(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

func (a *Analyzer) resolveConfig(cfg *Config) *Config {
	if cfg == nil {
		return a.defaultConfig
	}
	return cfg
}

// AnalyzeSource runs both the Memory and Testing analyzers over source,
// labelling every diagnostic with filePath. A nil cfg uses the Analyzer's
// default configuration.
func (a *Analyzer) AnalyzeSource(source []byte, filePath string, cfg *Config) (*Result, error) {
	return a.analyze(source, filePath, cfg, true, true)
}

// AnalyzeFile reads path through the Analyzer's afs.Service and runs
// AnalyzeSource over its contents. Read failures are returned as a typed
// *Error (FileNotFound or AccessDenied).
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string, cfg *Config) (*Result, error) {
	data, err := a.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, classifyIOError(path, err)
	}
	return a.AnalyzeSource(data, path, cfg)
}

// AnalyzeMemory runs only the Memory Analyzer.
func (a *Analyzer) AnalyzeMemory(source []byte, filePath string, cfg *Config) (*Result, error) {
	return a.analyze(source, filePath, cfg, true, false)
}

// AnalyzeTests runs only the Testing Analyzer.
func (a *Analyzer) AnalyzeTests(source []byte, filePath string, cfg *Config) (*Result, error) {
	return a.analyze(source, filePath, cfg, false, true)
}

func (a *Analyzer) analyze(source []byte, filePath string, cfg *Config, runMemory, runTests bool) (*Result, error) {
	start := time.Now()
	cfg = a.resolveConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := newLogger(cfg.Logging)
	log.debug("analyzing %s (memory=%v tests=%v)", filePath, runMemory, runTests)

	if len(source) == 0 {
		return newResult(nil, 1, time.Since(start).Milliseconds()), nil
	}

	lines := strings.Split(string(source), "\n")
	ctxMap := srcctx.New().Build(source)

	var diags []Diagnostic
	if runMemory {
		registry := pattern.NewRegistry(cfg.patternConfig())
		ma := newMemoryAnalyzer(cfg, registry, log)
		memDiags, err := ma.analyze(filePath, lines, ctxMap)
		if err != nil {
			return nil, err
		}
		diags = append(diags, memDiags...)
	}
	if runTests {
		ta := newTestingAnalyzer(cfg, log)
		testDiags, err := ta.analyze(filePath, lines, ctxMap)
		if err != nil {
			return nil, err
		}
		diags = append(diags, testDiags...)
	}

	diags = dedupeDiagnostics(diags)

	if runMemory && runTests {
		sort.SliceStable(diags, func(i, j int) bool {
			if diags[i].Line != diags[j].Line {
				return diags[i].Line < diags[j].Line
			}
			return diags[i].Column < diags[j].Column
		})
	}

	if cfg.Options.MaxIssues > 0 && len(diags) > cfg.Options.MaxIssues {
		log.warn("capping %d diagnostics to max_issues=%d", len(diags), cfg.Options.MaxIssues)
		diags = diags[:cfg.Options.MaxIssues]
	}

	log.info("found %d issue(s) in %s", len(diags), filePath)
	return newResult(diags, 1, time.Since(start).Milliseconds()), nil
}

// dedupeDiagnostics collapses diagnostics that independent rules raised for
// the same (file, line, column, kind), keeping the first occurrence so
// emission order is preserved. Diagnostics of different kinds at the same
// site are all kept.
func dedupeDiagnostics(diags []Diagnostic) []Diagnostic {
	if len(diags) < 2 {
		return diags
	}
	seen := make(map[uint64]bool, len(diags))
	out := diags[:0]
	for _, d := range diags {
		key := dedupe.DiagnosticKey(d.FilePath, d.Line, d.Column, string(d.Kind))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}
