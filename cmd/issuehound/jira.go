package issuehound

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/types"
)

func init() {
	jiraCmd := &cobra.Command{
		Use:   "jira",
		Short: "Crawl and scan Jira projects",
	}
	addServiceFlags(jiraCmd, "project")
	rootCmd.AddCommand(jiraCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan issue bodies, comments, and attachment names for secrets",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRecon(types.ServiceJira)
		},
	}
	addScanFlags(scanCmd)
	jiraCmd.AddCommand(scanCmd)

	jiraCmd.AddCommand(&cobra.Command{
		Use:   "projects",
		Short: "List projects visible to the session",
		RunE:  runJiraProjects,
	})

	jiraCmd.AddCommand(&cobra.Command{
		Use:   "issues <project>",
		Short: "List a project's issues without scanning",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runListItems(types.ServiceJira, args[0])
		},
	})

	exportCmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Export issues as markdown files",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExport(types.ServiceJira, args[0])
		},
	}
	jiraCmd.AddCommand(exportCmd)
}

func runJiraProjects(_ *cobra.Command, _ []string) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	gcfg, lcfg := loadFileConfigs()
	session, err := buildSession(lcfg, gcfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	projects, err := atlassian.NewJira(session).ListProjects(ctx)
	if err != nil {
		return err
	}
	renderCollections(projects)
	return nil
}

// runListItems enumerates one collection and renders its item refs.
func runListItems(service types.ServiceKind, key string) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	gcfg, lcfg := loadFileConfigs()
	session, err := buildSession(lcfg, gcfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	first := atlassian.FirstPage(pickInt(flagPageSize, lcfg.PageSize, gcfg.PageSize))
	var refs []types.ItemRef
	collect := func(rs []types.ItemRef) { refs = append(refs, rs...) }

	var pager atlassian.PageFunc
	switch service {
	case types.ServiceJira:
		j := atlassian.NewJira(session)
		pager = func(ctx context.Context, tok atlassian.PageToken) ([]types.ItemRef, *atlassian.PageToken, error) {
			return j.IssuePage(ctx, key, tok)
		}
	case types.ServiceConfluence:
		c := atlassian.NewConfluence(session)
		pager = func(ctx context.Context, tok atlassian.PageToken) ([]types.ItemRef, *atlassian.PageToken, error) {
			return c.PagePage(ctx, key, tok)
		}
	}

	gaps, err := atlassian.Enumerate(ctx, key, first, pager, collect)
	if err != nil {
		return err
	}

	t := tablewriter.NewWriter(os.Stdout)
	t.Header("ID", "Kind", "Title")
	for _, r := range refs {
		_ = t.Append([]string{r.ID, string(r.Kind), r.Title})
	}
	_ = t.Render()
	fmt.Printf("%d items\n", len(refs))
	for _, g := range gaps {
		_, _ = fmt.Fprintf(os.Stderr, "page gap at %d (+%d): %s\n", g.StartAt, g.Limit, g.Msg)
	}
	return nil
}

func renderCollections(cols []types.CollectionRef) {
	t := tablewriter.NewWriter(os.Stdout)
	t.Header("Key", "Name", "ID")
	for _, c := range cols {
		_ = t.Append([]string{c.Key, c.Name, c.ID})
	}
	_ = t.Render()
	fmt.Printf("%d total\n", len(cols))
}
