package core

import (
	"context"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/engine"
	"github.com/issuehound/issuehound/internal/rules"
	"github.com/issuehound/issuehound/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type (
	Config        = engine.Config
	Result        = engine.Result
	Finding       = types.Finding
	Failure       = types.Failure
	SessionConfig = atlassian.Config
	Session       = atlassian.Session
	RuleSpec      = rules.Spec
)

const (
	ServiceJira       = types.ServiceJira
	ServiceConfluence = types.ServiceConfluence
)

// NewSession builds an authenticated rate-limited session.
func NewSession(cfg SessionConfig) (*Session, error) {
	return atlassian.NewSession(cfg)
}

// Scan is the stable entrypoint for other programs.
func Scan(ctx context.Context, cfg Config) ([]Finding, error) {
	return engine.Scan(ctx, cfg)
}

// ScanWithStats runs a scan and returns findings plus run statistics.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.ScanWithStats(ctx, cfg)
}

// RuleNames returns the configured rule names, exposed for convenience so
// callers never import internals directly.
func RuleNames() []string {
	lib, err := rules.Load(nil)
	if err != nil {
		return nil
	}
	return lib.Names()
}
