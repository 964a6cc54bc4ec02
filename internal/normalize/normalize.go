// Package normalize flattens fetched Jira and Confluence payloads into plain
// text blocks, stripping service-specific markup while preserving every
// literal character that could be part of a secret.
package normalize

import (
	"fmt"

	"github.com/issuehound/issuehound/internal/types"
)

// NormalizationError marks an item whose payload could not be flattened.
// It is recoverable: the item is skipped and recorded, the run continues.
type NormalizationError struct {
	Ref types.ItemRef
	Err error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %v", e.Ref.ID, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

func errMalformed(ref types.ItemRef, msg string) error {
	return &NormalizationError{Ref: ref, Err: fmt.Errorf("%s", msg)}
}
