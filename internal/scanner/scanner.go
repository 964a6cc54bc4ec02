// Package scanner applies a rule catalog to normalized content blocks.
// Scanning is pure: no network, no process-wide state, safe for concurrent
// use on disjoint block sets.
package scanner

import (
	"sort"

	"github.com/issuehound/issuehound/internal/rules"
	"github.com/issuehound/issuehound/internal/types"
)

// displayLimit caps the rendered form of a match. Truncation is cosmetic:
// dedup always uses the full matched text.
const displayLimit = 120

const truncMarker = "…[truncated]"

// Scan runs every rule against every block and returns deduplicated findings.
// The result is sorted by (item, source, offset, rule) so permuting the rule
// order never changes the output.
func Scan(blocks []types.ContentBlock, rls []rules.Rule) []types.Finding {
	seen := make(map[string]bool)
	var out []types.Finding
	for _, b := range blocks {
		for _, r := range rls {
			for _, loc := range r.Pattern.FindAllStringIndex(b.Text, -1) {
				matched := b.Text[loc[0]:loc[1]]
				key := dedupKey(b.Ref, r.Name, matched)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, types.Finding{
					Ref:      b.Ref,
					Rule:     r.Name,
					Category: r.Category,
					Severity: r.Severity,
					Matched:  matched,
					Display:  truncate(matched),
					Source:   b.Source,
					Offset:   loc[0],
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Ref.ID != b.Ref.ID {
			return a.Ref.ID < b.Ref.ID
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return a.Rule < b.Rule
	})
	return out
}

func dedupKey(ref types.ItemRef, rule, matched string) string {
	return ref.CollectionKey + "/" + ref.ID + "|" + rule + "|" + matched
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= displayLimit {
		return s
	}
	return string(r[:displayLimit]) + truncMarker
}
