package issuehound

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/audit"
	"github.com/issuehound/issuehound/internal/cache"
	"github.com/issuehound/issuehound/internal/config"
	"github.com/issuehound/issuehound/internal/engine"
	"github.com/issuehound/issuehound/internal/logger"
	"github.com/issuehound/issuehound/internal/report"
	"github.com/issuehound/issuehound/internal/rules"
	"github.com/issuehound/issuehound/internal/types"
	"github.com/issuehound/issuehound/internal/update"
)

var (
	flagURL            string
	flagToken          string
	flagUser           string
	flagPassword       string
	flagCollections    []string
	flagKeyword        string
	flagInclude        string
	flagExclude        string
	flagPageSize       int
	flagRPS            float64
	flagMaxAttempts    int
	flagRetryAfterHint bool
	flagTimeout        time.Duration
	flagRulesFile      string
	flagEnable         string
	flagDisable        string
	flagExtract        bool
	flagBaseline       string
)

// addServiceFlags registers the connection and scope flags shared by the
// jira and confluence command trees. noun is "project" or "space".
func addServiceFlags(cmd *cobra.Command, noun string) {
	cmd.PersistentFlags().StringVar(&flagURL, "url", "", "service base URL (or ISSUEHOUND_URL)")
	cmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token for bearer auth (or ISSUEHOUND_TOKEN)")
	cmd.PersistentFlags().StringVar(&flagUser, "user", "", "username for basic auth (or ISSUEHOUND_USER)")
	cmd.PersistentFlags().StringVar(&flagPassword, "password", "", "password for basic auth (or ISSUEHOUND_PASSWORD)")
	cmd.PersistentFlags().StringSliceVar(&flagCollections, noun, nil, fmt.Sprintf("limit to these %s keys (repeatable)", noun))
	cmd.PersistentFlags().StringVar(&flagInclude, "include", "", noun+" key include globs, comma-separated")
	cmd.PersistentFlags().StringVar(&flagExclude, "exclude", "", noun+" key exclude globs, comma-separated")
	cmd.PersistentFlags().IntVar(&flagPageSize, "page-size", 0, "items per page (max 100)")
	cmd.PersistentFlags().Float64Var(&flagRPS, "rps", 0, "request rate limit per second")
	cmd.PersistentFlags().IntVar(&flagMaxAttempts, "max-attempts", 0, "retry attempts per request")
	cmd.PersistentFlags().BoolVar(&flagRetryAfterHint, "retry-after-hint", true, "honor server Retry-After on 429")
	cmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-request timeout")
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagKeyword, "keyword", "", "service-side text search instead of full enumeration")
	cmd.Flags().StringVar(&flagRulesFile, "rules", "", "YAML file with extra or overriding rules")
	cmd.Flags().StringVar(&flagEnable, "enable", "", "only run these rules (comma-separated names)")
	cmd.Flags().StringVar(&flagDisable, "disable", "", "disable these rules (comma-separated names)")
	cmd.Flags().BoolVar(&flagExtract, "extract", false, "also extract URLs and IP addresses")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "baseline file of accepted findings")
}

func loadFileConfigs() (global, local config.FileConfig) {
	if c, err := config.LoadGlobal(); err == nil {
		global = c
	}
	wd, _ := os.Getwd()
	if c, err := config.LoadLocal(wd); err == nil {
		local = c
	}
	return global, local
}

func newLogger() *logger.Logger {
	log, err := logger.New(logger.Config{Level: flagLogLevel, Format: flagLogFormat})
	if err != nil {
		return logger.Nop()
	}
	return log
}

func buildSession(lcfg, gcfg config.FileConfig, log *logger.Logger) (*atlassian.Session, error) {
	base := flagURL
	if base == "" {
		base = os.Getenv("ISSUEHOUND_URL")
	}
	if base == "" {
		return nil, fmt.Errorf("no service URL: pass --url or set ISSUEHOUND_URL")
	}
	token := flagToken
	if token == "" {
		token = os.Getenv("ISSUEHOUND_TOKEN")
	}
	user := flagUser
	if user == "" {
		user = os.Getenv("ISSUEHOUND_USER")
	}
	password := flagPassword
	if password == "" {
		password = os.Getenv("ISSUEHOUND_PASSWORD")
	}
	if token == "" && user == "" {
		return nil, fmt.Errorf("no credentials: pass --token or --user/--password")
	}

	hint := flagRetryAfterHint
	if v := pickBoolPtr(lcfg.RetryAfterHint, gcfg.RetryAfterHint); v != nil {
		hint = *v
	}
	var timeout time.Duration
	if flagTimeout > 0 {
		timeout = flagTimeout
	} else if s := pickString("", lcfg.Timeout, gcfg.Timeout); s != "" {
		timeout, _ = time.ParseDuration(s)
	}

	return atlassian.NewSession(atlassian.Config{
		BaseURL:        base,
		Token:          token,
		Username:       user,
		Password:       password,
		RequestTimeout: timeout,
		RPS:            pickFloat(flagRPS, lcfg.RPS, gcfg.RPS),
		MaxAttempts:    pickInt(flagMaxAttempts, lcfg.MaxAttempts, gcfg.MaxAttempts),
		RetryAfterHint: hint,
		Logger:         log,
	})
}

func loadExtraRules(lcfg, gcfg config.FileConfig) ([]rules.Spec, error) {
	path := pickString(flagRulesFile, lcfg.Rules, gcfg.Rules)
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var specs []rules.Spec
	if err := yaml.Unmarshal(b, &specs); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	return specs, nil
}

// runRecon is the shared scan path behind `jira scan` and `confluence scan`.
func runRecon(service types.ServiceKind) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	gcfg, lcfg := loadFileConfigs()
	session, err := buildSession(lcfg, gcfg, log)
	if err != nil {
		return err
	}
	extra, err := loadExtraRules(lcfg, gcfg)
	if err != nil {
		return err
	}

	if !flagJSON && !flagSARIF && !flagNoUpdateCheck {
		if latest, newer, _ := update.Check(version, false); newer && latest != "" {
			_, _ = fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'issuehound update' to upgrade\n", latest)
		}
	}

	cfg := engine.Config{
		Service:      service,
		Session:      session,
		Collections:  flagCollections,
		Keyword:      flagKeyword,
		IncludeGlobs: pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		PageSize:     pickInt(flagPageSize, lcfg.PageSize, gcfg.PageSize),
		Threads:      pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		EnableRules:  pickString(flagEnable, lcfg.Enable, gcfg.Enable),
		DisableRules: pickString(flagDisable, lcfg.Disable, gcfg.Disable),
		ExtraRules:   extra,
		ExtractRecon: flagExtract,
		NoCache:      pickBool(flagNoCache, lcfg.NoCache, gcfg.NoCache),
		CacheDir:     pickString("", lcfg.CacheDir, gcfg.CacheDir),
		Log:          log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !flagJSON && !flagSARIF {
		_, _ = fmt.Fprintf(os.Stderr, "Scanning %s on %s...\n", service, session.Host())
	}

	res, err := engine.ScanWithStats(ctx, cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}

	findings := res.Findings
	if flagBaseline != "" {
		baseline, _ := report.LoadBaseline(flagBaseline)
		findings = report.FilterNewFindings(findings, baseline)
	}
	if findings == nil {
		findings = []types.Finding{} // no `null` in JSON
	}

	recordRun(session.Host(), service, res, lcfg, gcfg, log)
	saveLastResults(session.Host(), res.Findings, cfg.CacheDir)

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, findings); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(findings); err != nil {
			return err
		}
	default:
		noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor)
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			noColor = true
		}
		report.PrintTable(os.Stdout, findings, report.PrintOptions{
			NoColor:      noColor,
			Duration:     res.Duration,
			ItemsScanned: res.ItemsScanned,
			ItemsSkipped: res.ItemsSkipped,
			Failures:     res.Failures,
			Gaps:         res.Gaps,
		})
	}

	if flagFailOn != "" && report.ShouldFail(findings, flagFailOn) {
		return fmt.Errorf("findings at or above %s severity", flagFailOn)
	}
	return nil
}

func recordRun(host string, service types.ServiceKind, res engine.Result, lcfg, gcfg config.FileConfig, log *logger.Logger) {
	path := pickString("", lcfg.AuditLog, gcfg.AuditLog)
	if path == "" {
		var err error
		if path, err = audit.DefaultPath(); err != nil {
			return
		}
	}
	rec := audit.CreateRunRecord(host, service, res.Findings,
		res.Collections, res.ItemsScanned, len(res.Failures), len(res.Gaps), res.Duration)
	if err := audit.NewLog(path).LogRun(rec); err != nil {
		log.Warn("audit record not written: " + err.Error())
	}
}

func saveLastResults(host string, findings []types.Finding, cacheDir string) {
	if cacheDir == "" {
		var err error
		if cacheDir, err = cache.DefaultDir(); err != nil {
			return
		}
	}
	_ = cache.SaveResults(cacheDir, host, findings)
}
