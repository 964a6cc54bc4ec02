package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/cache"
	"github.com/issuehound/issuehound/internal/dispatch"
	"github.com/issuehound/issuehound/internal/logger"
	"github.com/issuehound/issuehound/internal/rules"
	"github.com/issuehound/issuehound/internal/scanner"
	"github.com/issuehound/issuehound/internal/types"
	"go.uber.org/zap"
)

// Config controls a run: scope, performance, and rule selection.
type Config struct {
	Service types.ServiceKind
	Session *atlassian.Session

	// Collections limits the run to the named project or space keys.
	// Empty means enumerate everything visible to the session.
	Collections []string
	// Keyword switches the run to service-side text search instead of full
	// collection enumeration.
	Keyword string

	IncludeGlobs string
	ExcludeGlobs string

	PageSize int
	Threads  int

	EnableRules  string
	DisableRules string
	ExtraRules   []rules.Spec
	// ExtractRecon also turns on the URL and IP indicator rules, which are
	// noise in a pure secret hunt but useful for attack-surface mapping.
	ExtractRecon bool

	NoCache  bool
	CacheDir string

	Log      *logger.Logger
	Progress func()
}

// Result contains findings and run statistics.
type Result struct {
	Findings     []types.Finding
	Failures     []types.Failure
	Gaps         []atlassian.Gap
	Collections  int
	ItemsScanned int
	ItemsSkipped int
	Duration     time.Duration
}

// Scan runs a scan and returns only findings (without stats).
func Scan(ctx context.Context, cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

// ScanWithStats runs a full reconnaissance pass and returns findings along
// with timing and counts. A fatal error (rejected credentials, bad rule
// config) aborts the run; the partial result accumulated so far is still
// returned with it.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	var result Result

	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	lib, err := rules.Load(cfg.ExtraRules)
	if err != nil {
		return result, err
	}
	rls := selectRules(lib.Rules(), cfg)

	src, err := newSource(cfg)
	if err != nil {
		return result, err
	}

	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}

	var db cache.DB
	cacheDir := cfg.CacheDir
	if !cfg.NoCache {
		if cacheDir == "" {
			if cacheDir, err = cache.DefaultDir(); err != nil {
				cfg.NoCache = true
			}
		}
	}
	if !cfg.NoCache {
		db, _ = cache.Load(cacheDir, src.host())
	} else {
		db.Entries = map[string]string{}
	}

	started := time.Now()

	refs, err := collectRefs(ctx, cfg, src, log, &result)
	if err != nil {
		result.Duration = time.Since(started)
		return result, err
	}
	log.Info("enumeration finished",
		zap.Int("collections", result.Collections),
		zap.Int("items", len(refs)),
		zap.Int("gaps", len(result.Gaps)))

	var (
		mu      sync.Mutex
		updated = map[string]string{}
		scanned int
		skipped int
	)
	pipe := func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
		blocks, err := src.fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		key := cache.Key(ref)
		h := cache.Hash(blocks)
		if !cfg.NoCache && db.Entries[key] == h {
			mu.Lock()
			skipped++
			mu.Unlock()
			if cfg.Progress != nil {
				cfg.Progress()
			}
			return nil, nil
		}
		findings := scanner.Scan(blocks, rls)
		mu.Lock()
		scanned++
		updated[key] = h
		mu.Unlock()
		if cfg.Progress != nil {
			cfg.Progress()
		}
		return findings, nil
	}

	res, runErr := dispatch.Run(ctx, refs, pipe, cfg.Threads)
	result.Findings = res.Findings
	result.Failures = res.Failures
	result.ItemsScanned = scanned
	result.ItemsSkipped = skipped
	result.Duration = time.Since(started)

	if !cfg.NoCache && len(updated) > 0 {
		if db.Entries == nil {
			db.Entries = map[string]string{}
		}
		for k, v := range updated {
			db.Entries[k] = v
		}
		_ = cache.Save(cacheDir, src.host(), db)
	}
	return result, runErr
}

// collectRefs enumerates item refs either per collection or through keyword
// search, recording pagination gaps on the result.
func collectRefs(ctx context.Context, cfg Config, src source, log *logger.Logger, result *Result) ([]types.ItemRef, error) {
	var refs []types.ItemRef
	collect := func(rs []types.ItemRef) { refs = append(refs, rs...) }
	first := atlassian.FirstPage(cfg.PageSize)

	if cfg.Keyword != "" {
		keys := cfg.Collections
		if len(keys) == 0 {
			keys = []string{""}
		}
		result.Collections = len(keys)
		for _, key := range keys {
			gaps, err := atlassian.Enumerate(ctx, key, first, src.searchPager(key, cfg.Keyword), collect)
			result.Gaps = append(result.Gaps, gaps...)
			if err != nil {
				return refs, err
			}
		}
		return refs, nil
	}

	cols, err := targetCollections(ctx, cfg, src)
	if err != nil {
		return nil, err
	}
	result.Collections = len(cols)
	for _, col := range cols {
		log.Debug("enumerating collection", zap.String("key", col.Key))
		gaps, err := atlassian.Enumerate(ctx, col.Key, first, src.itemPager(col.Key), collect)
		result.Gaps = append(result.Gaps, gaps...)
		if err != nil {
			return refs, err
		}
	}
	return refs, nil
}

// targetCollections resolves the run scope: explicit keys pass through,
// otherwise every visible collection is listed, then globs are applied.
func targetCollections(ctx context.Context, cfg Config, src source) ([]types.CollectionRef, error) {
	var cols []types.CollectionRef
	if len(cfg.Collections) > 0 {
		for _, key := range cfg.Collections {
			cols = append(cols, types.CollectionRef{Key: key})
		}
	} else {
		listed, err := src.collections(ctx)
		if err != nil {
			return nil, err
		}
		cols = listed
	}
	var out []types.CollectionRef
	for _, col := range cols {
		if allowedByGlobs(col.Key, cfg) {
			out = append(out, col)
		}
	}
	return out, nil
}
