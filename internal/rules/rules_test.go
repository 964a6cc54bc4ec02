package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/issuehound/issuehound/internal/types"
)

func TestLoadBuiltin(t *testing.T) {
	lib, err := Load(nil)
	if err != nil {
		t.Fatalf("load builtin: %v", err)
	}
	if lib.Len() == 0 {
		t.Fatalf("expected builtin rules")
	}
	seen := map[string]bool{}
	for _, n := range lib.Names() {
		if seen[n] {
			t.Fatalf("duplicate rule name %q", n)
		}
		seen[n] = true
	}
}

func TestLoadOverrideByName(t *testing.T) {
	lib, err := Load([]Spec{{
		Name:     "github_token",
		Pattern:  `ghx_[a-z]{4}`,
		Category: "token",
		Severity: "low",
	}})
	require.NoError(t, err)

	var got Rule
	for _, r := range lib.Rules() {
		if r.Name == "github_token" {
			got = r
		}
	}
	require.Equal(t, types.SevLow, got.Severity)
	require.True(t, got.Pattern.MatchString("ghx_abcd"))
	// Replaced, not appended.
	count := 0
	for _, n := range lib.Names() {
		if n == "github_token" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestLoadAppendsNewRule(t *testing.T) {
	base, _ := Load(nil)
	lib, err := Load([]Spec{{Name: "acme_token", Pattern: `acme_[0-9]{8}`, Category: "token", Severity: "high"}})
	require.NoError(t, err)
	require.Equal(t, base.Len()+1, lib.Len())
}

func TestLoadBadPattern(t *testing.T) {
	_, err := Load([]Spec{{Name: "broken", Pattern: `[unclosed`}})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, "broken", cfgErr.Rule)
}

func TestLoadUnknownSeverity(t *testing.T) {
	_, err := Load([]Spec{{Name: "odd", Pattern: `x`, Severity: "critical"}})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestSpecDefaults(t *testing.T) {
	lib, err := Load([]Spec{{Name: "bare", Pattern: `bare-[a-z]+`}})
	require.NoError(t, err)
	for _, r := range lib.Rules() {
		if r.Name == "bare" {
			require.Equal(t, types.CatGeneric, r.Category)
			require.Equal(t, types.SevMed, r.Severity)
		}
	}
}
