package atlassian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/issuehound/issuehound/internal/types"
)

// Confluence enumerates spaces and pages over a session.
type Confluence struct {
	s *Session
}

func NewConfluence(s *Session) *Confluence { return &Confluence{s: s} }

// Session exposes the underlying session for callers that need host info.
func (c *Confluence) Session() *Session { return c.s }

type confluenceListResponse struct {
	Results []confluenceContent `json:"results"`
	Start   int                 `json:"start"`
	Limit   int                 `json:"limit"`
	Size    int                 `json:"size"`
}

type confluenceContent struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Page is the full payload fetched for one Confluence page.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Space struct {
		Key string `json:"key"`
	} `json:"space"`
	Body struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`

	// AttachmentNames is filled by FetchPage from the child attachment
	// listing; only names are kept.
	AttachmentNames []string `json:"-"`
}

// spaceListLimit is the space-listing page size; the space API accepts a
// larger limit than content listing does.
const spaceListLimit = 500

// ListSpaces enumerates every visible space, page by page.
func (c *Confluence) ListSpaces(ctx context.Context) ([]types.CollectionRef, error) {
	var out []types.CollectionRef
	tok := PageToken{StartAt: 0, Limit: spaceListLimit, Total: -1}
	for {
		q := url.Values{}
		q.Set("start", strconv.Itoa(tok.StartAt))
		q.Set("limit", strconv.Itoa(tok.Limit))
		body, err := c.s.get(ctx, "/rest/api/space", q)
		if err != nil {
			return nil, err
		}
		var resp confluenceListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode space list: %w", err)
		}
		for _, sp := range resp.Results {
			out = append(out, types.CollectionRef{Key: sp.Key, Name: sp.Name, ID: sp.ID, Kind: types.KindSpace})
		}
		if len(resp.Results) < tok.Limit {
			return out, nil
		}
		tok = tok.advance(len(resp.Results))
	}
}

// PagePage fetches one page of page refs for a space.
func (c *Confluence) PagePage(ctx context.Context, space string, tok PageToken) ([]types.ItemRef, *PageToken, error) {
	q := url.Values{}
	q.Set("spaceKey", space)
	q.Set("type", "page")
	q.Set("start", strconv.Itoa(tok.StartAt))
	q.Set("limit", strconv.Itoa(tok.Limit))
	body, err := c.s.get(ctx, "/rest/api/content", q)
	if err != nil {
		return nil, nil, err
	}
	var resp confluenceListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, fmt.Errorf("decode content page: %w", err)
	}

	refs := make([]types.ItemRef, 0, len(resp.Results))
	for _, p := range resp.Results {
		refs = append(refs, types.ItemRef{
			ID:            p.ID,
			CollectionKey: space,
			Kind:          types.KindPage,
			Title:         p.Title,
		})
	}
	if tok.exhausted(len(refs)) || len(refs) == 0 {
		return refs, nil, nil
	}
	next := tok.advance(len(refs))
	return refs, &next, nil
}

// SearchPage fetches one page of refs matching a CQL text search. An empty
// space searches the whole site.
func (c *Confluence) SearchPage(ctx context.Context, space, keyword string, tok PageToken) ([]types.ItemRef, *PageToken, error) {
	cql := fmt.Sprintf("text ~ %q", keyword)
	if space != "" {
		cql = fmt.Sprintf("space = %q AND %s", space, cql)
	}
	q := url.Values{}
	q.Set("cql", cql)
	q.Set("start", strconv.Itoa(tok.StartAt))
	q.Set("limit", strconv.Itoa(tok.Limit))
	body, err := c.s.get(ctx, "/rest/api/content/search", q)
	if err != nil {
		return nil, nil, err
	}
	var resp confluenceListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, fmt.Errorf("decode search page: %w", err)
	}

	refs := make([]types.ItemRef, 0, len(resp.Results))
	for _, p := range resp.Results {
		refs = append(refs, types.ItemRef{ID: p.ID, CollectionKey: space, Kind: types.KindPage, Title: p.Title})
	}
	if tok.exhausted(len(refs)) || len(refs) == 0 {
		return refs, nil, nil
	}
	next := tok.advance(len(refs))
	return refs, &next, nil
}

// FetchPage retrieves one page's storage-format body plus its attachment
// names. A failed attachment listing degrades to a page without names
// rather than failing the item.
func (c *Confluence) FetchPage(ctx context.Context, ref types.ItemRef) (*Page, error) {
	q := url.Values{}
	q.Set("expand", "body.storage,space")
	body, err := c.s.get(ctx, "/rest/api/content/"+url.PathEscape(ref.ID), q)
	if err != nil {
		return nil, err
	}
	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode page %s: %w", ref.ID, err)
	}

	attBody, err := c.s.get(ctx, "/rest/api/content/"+url.PathEscape(ref.ID)+"/child/attachment", nil)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return nil, authErr
		}
		c.s.log.Debug("attachment listing failed", zap.String("page", ref.ID), zap.Error(err))
		return &page, nil
	}
	var atts confluenceListResponse
	if err := json.Unmarshal(attBody, &atts); err == nil {
		for _, a := range atts.Results {
			page.AttachmentNames = append(page.AttachmentNames, a.Title)
		}
	}
	return &page, nil
}
