package atlassian

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/issuehound/issuehound/internal/types"
)

// Jira enumerates projects and issues over a session.
type Jira struct {
	s *Session
}

func NewJira(s *Session) *Jira { return &Jira{s: s} }

// Session exposes the underlying session for callers that need host info.
func (j *Jira) Session() *Session { return j.s }

type jiraProject struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type jiraSearchResponse struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []jiraIssue `json:"issues"`
}

type jiraIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

// Issue is the full payload fetched for one issue; the normalizer flattens
// it into content blocks.
type Issue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
		Created     string `json:"created"`
		Updated     string `json:"updated"`
		Status      struct {
			Name string `json:"name"`
		} `json:"status"`
		Comment struct {
			Comments []IssueComment `json:"comments"`
		} `json:"comment"`
		Attachment []IssueAttachment `json:"attachment"`
	} `json:"fields"`
}

// IssueComment is one threaded comment on an issue.
type IssueComment struct {
	Author struct {
		DisplayName string `json:"displayName"`
	} `json:"author"`
	Created string `json:"created"`
	Body    string `json:"body"`
}

// IssueAttachment carries attachment metadata; bodies are never fetched for
// scanning, only the filename is.
type IssueAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ListProjects returns every project visible to the session. Jira's v2
// project listing is a single unpaged response, so this is one retried call.
func (j *Jira) ListProjects(ctx context.Context) ([]types.CollectionRef, error) {
	body, err := j.s.get(ctx, "/rest/api/2/project", nil)
	if err != nil {
		return nil, err
	}
	var projects []jiraProject
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("decode project list: %w", err)
	}
	out := make([]types.CollectionRef, 0, len(projects))
	for _, p := range projects {
		out = append(out, types.CollectionRef{Key: p.Key, Name: p.Name, ID: p.ID, Kind: types.KindProject})
	}
	return out, nil
}

// IssuePage fetches one page of issue refs for a project via JQL search.
func (j *Jira) IssuePage(ctx context.Context, project string, tok PageToken) ([]types.ItemRef, *PageToken, error) {
	jql := fmt.Sprintf("project = %q", project)
	return j.searchPage(ctx, project, jql, tok)
}

// SearchPage fetches one page of issue refs matching a keyword in a project.
// With an empty project the search spans every visible project.
func (j *Jira) SearchPage(ctx context.Context, project, keyword string, tok PageToken) ([]types.ItemRef, *PageToken, error) {
	jql := fmt.Sprintf("text ~ %q", keyword)
	if project != "" {
		jql = fmt.Sprintf("project = %q AND text ~ %q", project, keyword)
	}
	return j.searchPage(ctx, project, jql, tok)
}

func (j *Jira) searchPage(ctx context.Context, project, jql string, tok PageToken) ([]types.ItemRef, *PageToken, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("startAt", strconv.Itoa(tok.StartAt))
	q.Set("maxResults", strconv.Itoa(tok.Limit))
	q.Set("fields", "key,summary")

	body, err := j.s.get(ctx, "/rest/api/2/search", q)
	if err != nil {
		return nil, nil, err
	}
	var resp jiraSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, fmt.Errorf("decode search page: %w", err)
	}

	refs := make([]types.ItemRef, 0, len(resp.Issues))
	for _, is := range resp.Issues {
		refs = append(refs, types.ItemRef{
			ID:            is.Key,
			CollectionKey: project,
			Kind:          types.KindIssue,
			Title:         is.Fields.Summary,
		})
	}

	next := tok.advance(len(refs))
	next.Total = resp.Total
	if tok.exhausted(len(refs)) || len(refs) == 0 || (next.Total >= 0 && next.StartAt >= next.Total) {
		return refs, nil, nil
	}
	return refs, &next, nil
}

// FetchIssue retrieves the full content of one issue.
func (j *Jira) FetchIssue(ctx context.Context, ref types.ItemRef) (*Issue, error) {
	q := url.Values{}
	q.Set("fields", "summary,description,comment,attachment,status,created,updated")
	body, err := j.s.get(ctx, "/rest/api/2/issue/"+url.PathEscape(ref.ID), q)
	if err != nil {
		return nil, err
	}
	var issue Issue
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("decode issue %s: %w", ref.ID, err)
	}
	return &issue, nil
}
