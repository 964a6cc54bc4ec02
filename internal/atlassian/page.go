package atlassian

import (
	"context"
	"errors"

	"github.com/issuehound/issuehound/internal/types"
)

// PageToken is the explicit cursor for one enumeration stream. Passing it
// back by value makes partial enumeration deterministic and testable; a
// token is dead once its stream completed or failed.
type PageToken struct {
	StartAt int
	Limit   int
	// Total is the service-reported item count, or -1 when unknown.
	Total int
}

// FirstPage starts a stream with the given page size, clamped to [1,100].
func FirstPage(limit int) PageToken {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return PageToken{StartAt: 0, Limit: limit, Total: -1}
}

// advance moves the cursor past n returned items.
func (t PageToken) advance(n int) PageToken {
	t.StartAt += n
	return t
}

// skip moves the cursor past a failed page.
func (t PageToken) skip() PageToken {
	t.StartAt += t.Limit
	return t
}

// exhausted reports whether a page that returned n items ends the stream.
func (t PageToken) exhausted(n int) bool {
	if n < t.Limit {
		return true
	}
	return t.Total >= 0 && t.StartAt+n >= t.Total
}

// Gap records a page that could not be retrieved after retries. The run
// continues past it; the gap is surfaced so nothing is silently omitted.
type Gap struct {
	Collection string `json:"collection"`
	StartAt    int    `json:"start_at"`
	Limit      int    `json:"limit"`
	Err        error  `json:"-"`
	Msg        string `json:"error"`
}

// PageFunc fetches one page for a token and returns the refs plus the next
// token, or nil when the stream is exhausted.
type PageFunc func(ctx context.Context, tok PageToken) ([]types.ItemRef, *PageToken, error)

// maxConsecutiveGaps stops an enumeration whose total is unknown from
// walking forever into a dead service.
const maxConsecutiveGaps = 3

// Enumerate drives a PageFunc to completion. Failed pages become Gaps and
// the stream resumes at the next offset; AuthError aborts immediately.
// Refs are delivered in service order via onRefs, page by page.
func Enumerate(ctx context.Context, collection string, first PageToken, fetch PageFunc, onRefs func([]types.ItemRef)) ([]Gap, error) {
	tok := first
	var gaps []Gap
	consecutive := 0
	for {
		if err := ctx.Err(); err != nil {
			return gaps, err
		}
		refs, next, err := fetch(ctx, tok)
		if err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) {
				return gaps, authErr
			}
			gaps = append(gaps, Gap{
				Collection: collection,
				StartAt:    tok.StartAt,
				Limit:      tok.Limit,
				Err:        err,
				Msg:        err.Error(),
			})
			consecutive++
			if consecutive >= maxConsecutiveGaps && tok.Total < 0 {
				return gaps, nil
			}
			skipped := tok.skip()
			if tok.Total >= 0 && skipped.StartAt >= tok.Total {
				return gaps, nil
			}
			tok = skipped
			continue
		}
		consecutive = 0
		if len(refs) > 0 {
			onRefs(refs)
		}
		if next == nil {
			return gaps, nil
		}
		tok = *next
	}
}
