package engine

import (
	"context"
	"fmt"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/normalize"
	"github.com/issuehound/issuehound/internal/types"
)

// source abstracts the two services behind the operations the engine needs:
// list collections, page through item refs, and fetch one item as blocks.
type source interface {
	host() string
	collections(ctx context.Context) ([]types.CollectionRef, error)
	itemPager(key string) atlassian.PageFunc
	searchPager(key, keyword string) atlassian.PageFunc
	fetch(ctx context.Context, ref types.ItemRef) ([]types.ContentBlock, error)
}

func newSource(cfg Config) (source, error) {
	if cfg.Session == nil {
		return nil, fmt.Errorf("no session configured")
	}
	switch cfg.Service {
	case types.ServiceJira:
		return &jiraSource{j: atlassian.NewJira(cfg.Session)}, nil
	case types.ServiceConfluence:
		return &confluenceSource{c: atlassian.NewConfluence(cfg.Session)}, nil
	default:
		return nil, fmt.Errorf("unknown service %q", cfg.Service)
	}
}

type jiraSource struct {
	j *atlassian.Jira
}

func (s *jiraSource) host() string { return s.j.Session().Host() }

func (s *jiraSource) collections(ctx context.Context) ([]types.CollectionRef, error) {
	return s.j.ListProjects(ctx)
}

func (s *jiraSource) itemPager(key string) atlassian.PageFunc {
	return func(ctx context.Context, tok atlassian.PageToken) ([]types.ItemRef, *atlassian.PageToken, error) {
		return s.j.IssuePage(ctx, key, tok)
	}
}

func (s *jiraSource) searchPager(key, keyword string) atlassian.PageFunc {
	return func(ctx context.Context, tok atlassian.PageToken) ([]types.ItemRef, *atlassian.PageToken, error) {
		return s.j.SearchPage(ctx, key, keyword, tok)
	}
}

func (s *jiraSource) fetch(ctx context.Context, ref types.ItemRef) ([]types.ContentBlock, error) {
	issue, err := s.j.FetchIssue(ctx, ref)
	if err != nil {
		return nil, err
	}
	return normalize.Issue(issue, ref)
}

type confluenceSource struct {
	c *atlassian.Confluence
}

func (s *confluenceSource) host() string { return s.c.Session().Host() }

func (s *confluenceSource) collections(ctx context.Context) ([]types.CollectionRef, error) {
	return s.c.ListSpaces(ctx)
}

func (s *confluenceSource) itemPager(key string) atlassian.PageFunc {
	return func(ctx context.Context, tok atlassian.PageToken) ([]types.ItemRef, *atlassian.PageToken, error) {
		return s.c.PagePage(ctx, key, tok)
	}
}

func (s *confluenceSource) searchPager(key, keyword string) atlassian.PageFunc {
	return func(ctx context.Context, tok atlassian.PageToken) ([]types.ItemRef, *atlassian.PageToken, error) {
		return s.c.SearchPage(ctx, key, keyword, tok)
	}
}

func (s *confluenceSource) fetch(ctx context.Context, ref types.ItemRef) ([]types.ContentBlock, error) {
	page, err := s.c.FetchPage(ctx, ref)
	if err != nil {
		return nil, err
	}
	if ref.CollectionKey == "" {
		ref.CollectionKey = page.Space.Key
	}
	return normalize.Page(page, ref)
}
