package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for issuehound.
// Fields are pointers so a set-to-zero value is distinguishable from unset;
// local values win over global ones field by field.
type FileConfig struct {
	Threads        *int     `yaml:"threads"`
	PageSize       *int     `yaml:"page_size"`
	RPS            *float64 `yaml:"rps"`
	MaxAttempts    *int     `yaml:"max_attempts"`
	RetryAfterHint *bool    `yaml:"retry_after_hint"`
	Timeout        *string  `yaml:"timeout"`

	Enable  *string `yaml:"enable"`
	Disable *string `yaml:"disable"`
	Rules   *string `yaml:"rules"`

	Include *string `yaml:"include"`
	Exclude *string `yaml:"exclude"`

	NoCache   *bool   `yaml:"no_cache"`
	CacheDir  *string `yaml:"cache_dir"`
	ExportDir *string `yaml:"export_dir"`
	AuditLog  *string `yaml:"audit_log"`
	NoColor   *bool   `yaml:"no_color"`
}

// Merge overlays local values on top of global ones. Local wins per field.
func Merge(global, local FileConfig) FileConfig {
	out := global
	if local.Threads != nil {
		out.Threads = local.Threads
	}
	if local.PageSize != nil {
		out.PageSize = local.PageSize
	}
	if local.RPS != nil {
		out.RPS = local.RPS
	}
	if local.MaxAttempts != nil {
		out.MaxAttempts = local.MaxAttempts
	}
	if local.RetryAfterHint != nil {
		out.RetryAfterHint = local.RetryAfterHint
	}
	if local.Timeout != nil {
		out.Timeout = local.Timeout
	}
	if local.Enable != nil {
		out.Enable = local.Enable
	}
	if local.Disable != nil {
		out.Disable = local.Disable
	}
	if local.Rules != nil {
		out.Rules = local.Rules
	}
	if local.Include != nil {
		out.Include = local.Include
	}
	if local.Exclude != nil {
		out.Exclude = local.Exclude
	}
	if local.NoCache != nil {
		out.NoCache = local.NoCache
	}
	if local.CacheDir != nil {
		out.CacheDir = local.CacheDir
	}
	if local.ExportDir != nil {
		out.ExportDir = local.ExportDir
	}
	if local.AuditLog != nil {
		out.AuditLog = local.AuditLog
	}
	if local.NoColor != nil {
		out.NoColor = local.NoColor
	}
	return out
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the working directory.
// It supports .issuehound.yml/.yaml and issuehound.yml/.yaml.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".issuehound.yml", ".issuehound.yaml", "issuehound.yml", "issuehound.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "issuehound", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
