package rules

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/issuehound/issuehound/internal/types"
)

// Rule is one named detection pattern with its classification metadata.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Category types.Category
	Severity types.Severity
}

// Spec is the uncompiled form of a rule as supplied by callers, typically
// parsed from a YAML rules file.
type Spec struct {
	Name     string `yaml:"name"`
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
	Severity string `yaml:"severity"`
}

// ConfigurationError reports a rule that could not be loaded. It is fatal at
// startup: a run never proceeds with a partially loaded catalog.
type ConfigurationError struct {
	Rule string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Library is an immutable catalog of rules keyed by name. Built once at
// startup and never mutated afterwards.
type Library struct {
	rules []Rule
}

// Load builds a Library from the builtin set plus caller extensions. An
// extension whose name matches a builtin replaces it; new names are appended.
// Returns a *ConfigurationError for the first spec that fails to compile or
// carries an unknown category/severity.
func Load(extra []Spec) (*Library, error) {
	byName := make(map[string]int)
	var out []Rule
	for _, r := range builtin() {
		byName[r.Name] = len(out)
		out = append(out, r)
	}
	for _, s := range extra {
		r, err := compile(s)
		if err != nil {
			return nil, err
		}
		if i, ok := byName[r.Name]; ok {
			out[i] = r
		} else {
			byName[r.Name] = len(out)
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return &Library{rules: out}, nil
}

func compile(s Spec) (Rule, error) {
	if s.Name == "" {
		return Rule{}, &ConfigurationError{Rule: s.Name, Err: fmt.Errorf("missing name")}
	}
	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		return Rule{}, &ConfigurationError{Rule: s.Name, Err: err}
	}
	cat, err := parseCategory(s.Category)
	if err != nil {
		return Rule{}, &ConfigurationError{Rule: s.Name, Err: err}
	}
	sev, err := parseSeverity(s.Severity)
	if err != nil {
		return Rule{}, &ConfigurationError{Rule: s.Name, Err: err}
	}
	return Rule{Name: s.Name, Pattern: re, Category: cat, Severity: sev}, nil
}

func parseCategory(s string) (types.Category, error) {
	switch types.Category(s) {
	case types.CatCredential, types.CatKey, types.CatToken, types.CatURL, types.CatIP, types.CatGeneric:
		return types.Category(s), nil
	case "":
		return types.CatGeneric, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func parseSeverity(s string) (types.Severity, error) {
	switch types.Severity(s) {
	case types.SevLow, types.SevMed, types.SevHigh:
		return types.Severity(s), nil
	case "":
		return types.SevMed, nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Rules returns the catalog in name order. Callers must not modify the
// returned slice's patterns; the slice itself is a fresh copy.
func (l *Library) Rules() []Rule {
	out := make([]Rule, len(l.rules))
	copy(out, l.rules)
	return out
}

// Names returns rule names in catalog order.
func (l *Library) Names() []string {
	out := make([]string, len(l.rules))
	for i, r := range l.rules {
		out[i] = r.Name
	}
	return out
}

// Len reports the number of rules in the catalog.
func (l *Library) Len() int { return len(l.rules) }

func mustRule(name, pattern string, cat types.Category, sev types.Severity) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Category: cat, Severity: sev}
}

// builtin assembles the base catalog from the per-concern files.
func builtin() []Rule {
	var out []Rule
	out = append(out, cloudRules()...)
	out = append(out, vcsRules()...)
	out = append(out, messagingRules()...)
	out = append(out, keyRules()...)
	out = append(out, paymentRules()...)
	out = append(out, uriRules()...)
	out = append(out, reconRules()...)
	out = append(out, genericRules()...)
	return out
}
