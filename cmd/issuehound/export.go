package issuehound

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/dispatch"
	"github.com/issuehound/issuehound/internal/export"
	"github.com/issuehound/issuehound/internal/types"
)

// runExport downloads full item content and writes one markdown file per
// issue or page. It honors the same scope flags as scan but skips the rule
// engine entirely.
func runExport(service types.ServiceKind, dir string) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	gcfg, lcfg := loadFileConfigs()
	session, err := buildSession(lcfg, gcfg, log)
	if err != nil {
		return err
	}
	w, err := export.NewWriter(filepath.Join(dir, string(service), session.Host()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	first := atlassian.FirstPage(pickInt(flagPageSize, lcfg.PageSize, gcfg.PageSize))

	var refs []types.ItemRef
	collect := func(rs []types.ItemRef) { refs = append(refs, rs...) }

	var pipe dispatch.Pipeline
	switch service {
	case types.ServiceJira:
		j := atlassian.NewJira(session)
		keys := flagCollections
		if len(keys) == 0 {
			cols, err := j.ListProjects(ctx)
			if err != nil {
				return err
			}
			for _, c := range cols {
				keys = append(keys, c.Key)
			}
		}
		for _, key := range keys {
			pager := func(ctx context.Context, tok atlassian.PageToken) ([]types.ItemRef, *atlassian.PageToken, error) {
				return j.IssuePage(ctx, key, tok)
			}
			if _, err := atlassian.Enumerate(ctx, key, first, pager, collect); err != nil {
				return err
			}
		}
		pipe = func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
			issue, err := j.FetchIssue(ctx, ref)
			if err != nil {
				return nil, err
			}
			_, err = w.Issue(issue, ref)
			return nil, err
		}

	case types.ServiceConfluence:
		c := atlassian.NewConfluence(session)
		keys := flagCollections
		if len(keys) == 0 {
			cols, err := c.ListSpaces(ctx)
			if err != nil {
				return err
			}
			for _, col := range cols {
				keys = append(keys, col.Key)
			}
		}
		for _, key := range keys {
			pager := func(ctx context.Context, tok atlassian.PageToken) ([]types.ItemRef, *atlassian.PageToken, error) {
				return c.PagePage(ctx, key, tok)
			}
			if _, err := atlassian.Enumerate(ctx, key, first, pager, collect); err != nil {
				return err
			}
		}
		pipe = func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
			page, err := c.FetchPage(ctx, ref)
			if err != nil {
				return nil, err
			}
			_, err = w.Page(page, ref)
			return nil, err
		}

	default:
		return fmt.Errorf("unknown service %q", service)
	}

	var exported int64
	progress := pipe
	pipe = func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
		fs, err := progress(ctx, ref)
		if err == nil {
			atomic.AddInt64(&exported, 1)
		}
		return fs, err
	}

	res, err := dispatch.Run(ctx, refs, pipe, flagThreads)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "Exported %d items to %s\n", atomic.LoadInt64(&exported), w.Dir())
	if len(res.Failures) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "%d items failed:\n", len(res.Failures))
		for _, f := range res.Failures {
			_, _ = fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Ref.ID, f.Msg)
		}
	}
	return nil
}
