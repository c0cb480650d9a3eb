// Package catalog provides the cached read paths and the mutation protocol
// for categories and products. Reads are cache-aside against Redis; every
// mutation invalidates the cache shapes that could hold stale data. The
// relational store stays the single source of truth throughout.
package catalog

import "errors"

// Business outcomes surfaced to callers. Match with errors.Is; the wrapped
// message carries the entity and identifier for user-facing rendering.
var (
	// ErrNotFound indicates the requested entity does not exist
	// (or, for soft-deleted products in cart flows, is inactive).
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock indicates the requested quantity exceeds the
	// currently available stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict indicates a unique field (category name or slug) is
	// already taken.
	ErrConflict = errors.New("already exists")

	// ErrEmptyUpdate indicates a partial update carried no fields.
	ErrEmptyUpdate = errors.New("no fields to update")
)
