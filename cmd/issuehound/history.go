package issuehound

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/issuehound/issuehound/internal/audit"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs from the audit log",
		RunE:  runHistory,
	}
	cmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "show at most this many runs")
	rootCmd.AddCommand(cmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	gcfg, lcfg := loadFileConfigs()
	path := pickString("", lcfg.AuditLog, gcfg.AuditLog)
	if path == "" {
		var err error
		if path, err = audit.DefaultPath(); err != nil {
			return err
		}
	}
	records, err := audit.NewLog(path).LoadHistory()
	if err != nil {
		return fmt.Errorf("no run history at %s", path)
	}
	if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
		records = records[:flagHistoryLimit]
	}

	t := tablewriter.NewWriter(os.Stdout)
	t.Header("When", "Host", "Service", "Findings", "Items", "Failed", "Duration")
	for _, r := range records {
		_ = t.Append([]string{
			r.Timestamp.Format("2006-01-02 15:04"),
			r.Host,
			r.Service,
			strconv.Itoa(r.TotalFindings),
			strconv.Itoa(r.ItemsScanned),
			strconv.Itoa(r.ItemsFailed),
			r.Duration,
		})
	}
	_ = t.Render()
	return nil
}
