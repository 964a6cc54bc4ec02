// Package engine orchestrates a full reconnaissance run: enumerate
// collections, fan item retrieval out over workers, normalize and scan the
// content, and aggregate findings, failures, and pagination gaps.
package engine
