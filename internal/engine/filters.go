package engine

import (
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/issuehound/issuehound/internal/rules"
	"github.com/issuehound/issuehound/internal/types"
)

// selectRules applies enable/disable lists and the recon-rule gate to the
// loaded library. URL and IP indicator rules only run in extract mode, unless
// explicitly enabled by name.
func selectRules(all []rules.Rule, cfg Config) []rules.Rule {
	allowed := idSet(cfg.EnableRules)
	blocked := idSet(cfg.DisableRules)

	var out []rules.Rule
	for _, r := range all {
		recon := r.Category == types.CatURL || r.Category == types.CatIP
		if recon && !cfg.ExtractRecon && !allowed[r.Name] {
			continue
		}
		if len(allowed) > 0 && !allowed[r.Name] {
			continue
		}
		if blocked[r.Name] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func idSet(s string) map[string]bool {
	out := map[string]bool{}
	if s == "" {
		return out
	}
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = true
		}
	}
	return out
}

// allowedByGlobs returns true if the collection key passes the
// include/exclude glob configuration. Include globs, if provided, act as a
// positive filter; exclude globs are subtracted last.
func allowedByGlobs(key string, cfg Config) bool {
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(key, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(key, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAnyGlob(key string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, key); ok {
			return true
		}
	}
	return false
}
