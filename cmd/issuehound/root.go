package issuehound

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON          bool
	flagSARIF         bool
	flagThreads       int
	flagFailOn        string
	flagNoColor       bool
	flagNoCache       bool
	flagNoUpdateCheck bool
	flagLogLevel      string
	flagLogFormat     string

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the issuehound CLI.
var rootCmd = &cobra.Command{
	Use:           "issuehound",
	Short:         "Find secrets in Jira and Confluence",
	Long:          "issuehound crawls Jira projects and Confluence spaces, scans issue bodies, comments, page content, and attachment names for leaked credentials, and reports findings with low noise.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the issuehound CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "", "exit non-zero on findings at low|medium|high")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the unchanged-item cache")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "console", "log format: console|json")
}
