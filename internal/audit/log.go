// Package audit appends one JSONL record per reconnaissance run so findings
// over time are reviewable without rescanning.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/issuehound/issuehound/internal/types"
)

type RunRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	RunID          string           `json:"run_id"`
	Host           string           `json:"host"`
	Service        string           `json:"service"`
	TotalFindings  int              `json:"total_findings"`
	SeverityCounts map[string]int   `json:"severity_counts"`
	Collections    int              `json:"collections"`
	ItemsScanned   int              `json:"items_scanned"`
	ItemsFailed    int              `json:"items_failed"`
	PagesSkipped   int              `json:"pages_skipped"`
	Duration       string           `json:"duration"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
	AllFindings    []types.Finding  `json:"all_findings,omitempty"`
}

type FindingSummary struct {
	Item     string `json:"item"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Source   string `json:"source"`
}

type Log struct {
	logPath string
}

func NewLog(path string) *Log {
	return &Log{logPath: path}
}

// DefaultPath places the log next to the cache files.
func DefaultPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "issuehound", "audit.jsonl"), nil
}

func (a *Log) LoadHistory() ([]RunRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record RunRecord
		if err := decoder.Decode(&record); err != nil {
			continue
		}
		records = append(records, record)
	}

	// newest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *Log) LogRun(record RunRecord) error {
	if record.RunID == "" {
		record.RunID = uuid.NewString()
	}
	if err := os.MkdirAll(filepath.Dir(a.logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create audit log dir: %w", err)
	}

	// Owner-only: records carry finding metadata.
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

func CreateRunRecord(
	host string,
	service types.ServiceKind,
	findings []types.Finding,
	collections, itemsScanned, itemsFailed, pagesSkipped int,
	duration time.Duration,
) RunRecord {
	severityCounts := make(map[string]int)
	for _, f := range findings {
		severityCounts[string(f.Severity)]++
	}

	topFindings := make([]FindingSummary, 0, 10)
	for i, f := range findings {
		if i >= 10 {
			break
		}
		topFindings = append(topFindings, FindingSummary{
			Item:     f.Ref.CollectionKey + "/" + f.Ref.ID,
			Rule:     f.Rule,
			Severity: string(f.Severity),
			Source:   string(f.Source),
		})
	}

	return RunRecord{
		Timestamp:      time.Now(),
		RunID:          uuid.NewString(),
		Host:           host,
		Service:        string(service),
		TotalFindings:  len(findings),
		SeverityCounts: severityCounts,
		Collections:    collections,
		ItemsScanned:   itemsScanned,
		ItemsFailed:    itemsFailed,
		PagesSkipped:   pagesSkipped,
		Duration:       duration.String(),
		TopFindings:    topFindings,
		AllFindings:    redactSecrets(findings),
	}
}

// redactSecrets copies findings with matched text removed so raw secret
// values never land in the audit log.
func redactSecrets(findings []types.Finding) []types.Finding {
	redacted := make([]types.Finding, len(findings))
	for i, f := range findings {
		redacted[i] = f
		if f.Matched != "" {
			redacted[i].Matched = "[REDACTED]"
			redacted[i].Display = "[REDACTED]"
		}
	}
	return redacted
}
