package issuehound

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issuehound/issuehound/internal/cache"
	"github.com/issuehound/issuehound/internal/engine"
	"github.com/issuehound/issuehound/internal/logger"
	"github.com/issuehound/issuehound/internal/tui"
	"github.com/issuehound/issuehound/internal/types"
)

var flagBrowseService string

func init() {
	cmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"tui"},
		Short:   "Browse the last run's findings interactively",
		Long:    "Opens the findings browser on the cached results of the most recent scan against the given host. Press r inside to rescan live.",
		RunE:    runBrowse,
	}
	addServiceFlags(cmd, "project")
	cmd.Flags().StringVar(&flagBrowseService, "service", "jira", "service to rescan with: jira|confluence")
	rootCmd.AddCommand(cmd)
}

func runBrowse(_ *cobra.Command, _ []string) error {
	log := logger.Nop() // the alt screen owns the terminal
	gcfg, lcfg := loadFileConfigs()
	session, err := buildSession(lcfg, gcfg, log)
	if err != nil {
		return err
	}

	service := types.ServiceKind(flagBrowseService)
	if service != types.ServiceJira && service != types.ServiceConfluence {
		return fmt.Errorf("unknown service %q", flagBrowseService)
	}

	cacheDir := pickString("", lcfg.CacheDir, gcfg.CacheDir)
	if cacheDir == "" {
		if cacheDir, err = cache.DefaultDir(); err != nil {
			return err
		}
	}

	rescan := func() ([]types.Finding, error) {
		cfg := engine.Config{
			Service:     service,
			Session:     session,
			Collections: flagCollections,
			Threads:     flagThreads,
			NoCache:     true, // live rescan must not skip unchanged items
			CacheDir:    cacheDir,
			Log:         log,
		}
		findings, err := engine.Scan(context.Background(), cfg)
		if err == nil {
			_ = cache.SaveResults(cacheDir, session.Host(), findings)
		}
		return findings, err
	}

	last, err := cache.LoadResults(cacheDir, session.Host())
	if err != nil {
		// no previous run: scan first, then browse
		findings, err := rescan()
		if err != nil {
			return err
		}
		return tui.Run(findings, rescan)
	}
	return tui.RunCached(last.Findings, rescan, last.Timestamp)
}
