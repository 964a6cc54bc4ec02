package issuehound

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/issuehound/issuehound/internal/engine"
	"github.com/issuehound/issuehound/internal/report"
	"github.com/issuehound/issuehound/internal/types"
)

var flagBaselineService string

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	update := &cobra.Command{
		Use:   "update <file>",
		Short: "Write the current scan's findings as the accepted baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			log := newLogger()
			defer func() { _ = log.Sync() }()

			gcfg, lcfg := loadFileConfigs()
			session, err := buildSession(lcfg, gcfg, log)
			if err != nil {
				return err
			}

			service := types.ServiceKind(flagBaselineService)
			if service != types.ServiceJira && service != types.ServiceConfluence {
				return fmt.Errorf("unknown service %q", flagBaselineService)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			findings, err := engine.Scan(ctx, engine.Config{
				Service:     service,
				Session:     session,
				Collections: flagCollections,
				Threads:     pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
				NoCache:     true, // a baseline must cover unchanged items too
				Log:         log,
			})
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(args[0], findings); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "Baseline updated.")
			return nil
		},
	}
	update.Flags().StringVar(&flagBaselineService, "service", "jira", "service to scan: jira|confluence")
	addServiceFlags(update, "project")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
