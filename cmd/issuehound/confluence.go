package issuehound

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/types"
)

func init() {
	confluenceCmd := &cobra.Command{
		Use:   "confluence",
		Short: "Crawl and scan Confluence spaces",
	}
	addServiceFlags(confluenceCmd, "space")
	rootCmd.AddCommand(confluenceCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan page content and attachment names for secrets",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRecon(types.ServiceConfluence)
		},
	}
	addScanFlags(scanCmd)
	confluenceCmd.AddCommand(scanCmd)

	confluenceCmd.AddCommand(&cobra.Command{
		Use:   "spaces",
		Short: "List spaces visible to the session",
		RunE:  runConfluenceSpaces,
	})

	confluenceCmd.AddCommand(&cobra.Command{
		Use:   "pages <space>",
		Short: "List a space's pages without scanning",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runListItems(types.ServiceConfluence, args[0])
		},
	})

	exportCmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Export pages as markdown files",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExport(types.ServiceConfluence, args[0])
		},
	}
	confluenceCmd.AddCommand(exportCmd)
}

func runConfluenceSpaces(_ *cobra.Command, _ []string) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	gcfg, lcfg := loadFileConfigs()
	session, err := buildSession(lcfg, gcfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spaces, err := atlassian.NewConfluence(session).ListSpaces(ctx)
	if err != nil {
		return err
	}
	renderCollections(spaces)
	return nil
}
