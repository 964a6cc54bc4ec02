package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	ItemsScanned int
	ItemsSkipped int
	Failures     []types.Failure
	Gaps         []atlassian.Gap
}

func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Ref.ID == findings[j].Ref.ID {
			return findings[i].Offset < findings[j].Offset
		}
		return findings[i].Ref.ID < findings[j].Ref.ID
	})
	if len(findings) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
	} else {
		maxRule := 8
		for _, f := range findings {
			if l := len(f.Rule); l > maxRule {
				maxRule = l
			}
		}
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			sev := string(f.Severity)
			if !opts.NoColor {
				sev = colorSeverity(f.Severity)
			}
			mask := maskValue(f.Matched)
			fmt.Fprintf(w, "%-6s %-*s %s/%s [%s]  %s\n", sev, maxRule, f.Rule, f.Ref.CollectionKey, f.Ref.ID, f.Source, mask)
		}
	}

	high, med, low := 0, 0, 0
	for _, f := range findings {
		switch f.Severity {
		case types.SevHigh:
			high++
		case types.SevMed:
			med++
		default:
			low++
		}
	}
	if opts.Duration > 0 || opts.ItemsScanned > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Findings: %d (high: %d, medium: %d, low: %d)\n", len(findings), high, med, low)
		if opts.Duration > 0 {
			fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
		}
		if opts.ItemsScanned > 0 {
			fmt.Fprintf(w, "Items scanned: %d\n", opts.ItemsScanned)
		}
		if opts.ItemsSkipped > 0 {
			fmt.Fprintf(w, "Items unchanged (cache): %d\n", opts.ItemsSkipped)
		}
	}
	if len(opts.Failures) > 0 {
		fmt.Fprintf(w, "Items failed: %d\n", len(opts.Failures))
		for _, f := range opts.Failures {
			fmt.Fprintf(w, "  %s: %s\n", f.Ref.ID, f.Msg)
		}
	}
	if len(opts.Gaps) > 0 {
		fmt.Fprintf(w, "Pages skipped: %d (results are partial)\n", len(opts.Gaps))
		for _, g := range opts.Gaps {
			fmt.Fprintf(w, "  %s @%d: %s\n", g.Collection, g.StartAt, g.Msg)
		}
	}
}

func maskValue(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func colorSeverity(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "\x1b[31mhigh\x1b[0m" // red
	case types.SevMed:
		return "\x1b[33mmedium\x1b[0m" // yellow
	default:
		return "\x1b[36mlow\x1b[0m" // cyan
	}
}
