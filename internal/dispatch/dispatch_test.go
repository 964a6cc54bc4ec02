package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/types"
)

func makeRefs(n int) []types.ItemRef {
	refs := make([]types.ItemRef, n)
	for i := range refs {
		refs[i] = types.ItemRef{ID: fmt.Sprintf("OPS-%d", i), CollectionKey: "OPS", Kind: types.KindIssue}
	}
	return refs
}

func TestRunAggregatesAll(t *testing.T) {
	refs := makeRefs(40)
	res, err := Run(context.Background(), refs, func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
		return []types.Finding{{Ref: ref, Rule: "github_token"}}, nil
	}, 4)
	require.NoError(t, err)
	assert.Len(t, res.Findings, 40)
	assert.Empty(t, res.Failures)

	seen := map[string]bool{}
	for _, f := range res.Findings {
		assert.False(t, seen[f.Ref.ID], "duplicate %s", f.Ref.ID)
		seen[f.Ref.ID] = true
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var active, peak int32
	res, err := Run(context.Background(), makeRefs(50), func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil, nil
	}, 3)
	require.NoError(t, err)
	assert.Empty(t, res.Failures)
	assert.LessOrEqual(t, peak, int32(3))
}

func TestRunRecordsRecoverableFailures(t *testing.T) {
	res, err := Run(context.Background(), makeRefs(10), func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
		if ref.ID == "OPS-3" || ref.ID == "OPS-7" {
			return nil, &atlassian.FetchError{Path: "/rest/api/2/issue/" + ref.ID, Status: 500}
		}
		return []types.Finding{{Ref: ref}}, nil
	}, 4)
	require.NoError(t, err)
	assert.Len(t, res.Findings, 8)
	require.Len(t, res.Failures, 2)
	for _, f := range res.Failures {
		assert.NotEmpty(t, f.Msg)
	}
}

func TestRunAuthErrorCancelsRest(t *testing.T) {
	var calls int32
	res, err := Run(context.Background(), makeRefs(100), func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
		atomic.AddInt32(&calls, 1)
		if ref.ID == "OPS-0" {
			return nil, &atlassian.AuthError{Status: 401}
		}
		time.Sleep(time.Millisecond)
		return []types.Finding{{Ref: ref}}, nil
	}, 2)
	var authErr *atlassian.AuthError
	require.ErrorAs(t, err, &authErr)
	require.NotNil(t, res)
	assert.Less(t, atomic.LoadInt32(&calls), int32(100))
}

func TestRunCancellationReturnsPartials(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var done int32
	var once sync.Once
	res, err := Run(ctx, makeRefs(100), func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
		n := atomic.AddInt32(&done, 1)
		if n >= 10 {
			once.Do(cancel)
		}
		return []types.Finding{{Ref: ref}}, nil
	}, 2)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.GreaterOrEqual(t, len(res.Findings), 10)
	assert.Less(t, len(res.Findings), 100)
}

func TestRunEmptyInput(t *testing.T) {
	res, err := Run(context.Background(), nil, func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
		t.Fatal("pipeline must not run")
		return nil, nil
	}, 4)
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
	assert.Empty(t, res.Failures)
}

func TestRunDefaultConcurrency(t *testing.T) {
	res, err := Run(context.Background(), makeRefs(5), func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error) {
		return nil, errors.New("boom")
	}, 0)
	require.NoError(t, err)
	assert.Len(t, res.Failures, 5)
}
