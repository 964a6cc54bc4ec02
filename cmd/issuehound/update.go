package issuehound

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/issuehound/issuehound/internal/update"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update issuehound to the latest release",
		RunE:  runUpdate,
	})
}

func runUpdate(_ *cobra.Command, _ []string) error {
	latest, newer, err := update.Check(version, false)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !newer {
		_, _ = fmt.Fprintf(os.Stderr, "already up to date (v%s)\n", version)
		return nil
	}
	_, _ = fmt.Fprintf(os.Stderr, "updating to v%s...\n", latest)
	if err := selfUpdate(); err != nil {
		return fmt.Errorf("self-update failed: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stderr, "updated; re-run your command")
	return nil
}
