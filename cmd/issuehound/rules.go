package issuehound

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/issuehound/issuehound/internal/rules"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available detection rules",
		RunE: func(_ *cobra.Command, _ []string) error {
			gcfg, lcfg := loadFileConfigs()
			extra, err := loadExtraRules(lcfg, gcfg)
			if err != nil {
				return err
			}
			lib, err := rules.Load(extra)
			if err != nil {
				return err
			}
			t := tablewriter.NewWriter(os.Stdout)
			t.Header("Name", "Category", "Severity")
			for _, r := range lib.Rules() {
				_ = t.Append([]string{r.Name, string(r.Category), string(r.Severity)})
			}
			_ = t.Render()
			fmt.Printf("%d rules\n", lib.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&flagRulesFile, "rules", "", "YAML file with extra or overriding rules")
	rootCmd.AddCommand(cmd)
}
