package cache

import (
	"encoding/json"
	"os"
	"time"

	"github.com/issuehound/issuehound/internal/types"
)

// ScanResults stores the findings and metadata of the most recent run
// against a host, so the browse view can open without rescanning.
type ScanResults struct {
	Findings  []types.Finding `json:"findings"`
	Timestamp time.Time       `json:"timestamp"`
	Host      string          `json:"host"`
	Count     int             `json:"count"`
}

func resultsPath(dir, host string) string {
	return filePath(dir, host+"#last")
}

// SaveResults persists the findings of a finished run.
func SaveResults(dir, host string, findings []types.Finding) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	results := ScanResults{
		Findings:  findings,
		Timestamp: time.Now(),
		Host:      host,
		Count:     len(findings),
	}
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(resultsPath(dir, host), b, 0o600)
}

// LoadResults loads the last run's findings for a host.
func LoadResults(dir, host string) (ScanResults, error) {
	var results ScanResults
	f, err := os.ReadFile(resultsPath(dir, host))
	if err != nil {
		return results, err
	}
	if err := json.Unmarshal(f, &results); err != nil {
		return results, err
	}
	return results, nil
}
