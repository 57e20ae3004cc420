// Package store defines the document-store contract the engagement
// subsystem is written against: a push-based snapshot subscription, a
// single-record read, and field-level atomic mutations. Two clients may
// mutate the same post concurrently, so every write goes through Mutate
// as one indivisible operation rather than read-modify-write.
package store

import (
	"context"
	"errors"

	"blogme/models"
)

// ErrNotFound is returned when the target post no longer exists.
var ErrNotFound = errors.New("store: post not found")

// Post field names shared by all Store implementations.
const (
	FieldViews        = "views"
	FieldLikes        = "likes"
	FieldLastViewedBy = "last_viewed_by"
	FieldLastViewedAt = "last_viewed_at"
	FieldLikedBy      = "liked_by"
	FieldComments     = "comments"
)

// Mutation is an atomic document patch. All populated operations are
// applied to the record in one indivisible step, which is what keeps
// likes == |liked_by| under concurrent toggles.
type Mutation struct {
	// Inc adds the delta to a numeric field.
	Inc map[string]int64
	// Set overwrites a scalar field.
	Set map[string]any
	// AddToSet inserts the element into an array field unless already present.
	AddToSet map[string]any
	// Push appends the element to an array field, preserving order.
	Push map[string]any
	// Pull removes the exact matching element from an array field.
	Pull map[string]any
}

// Store is the remote document store boundary.
type Store interface {
	// Subscribe streams full-collection snapshots of posts ordered by
	// created_at descending, bounded by limit, until ctx is cancelled.
	// Delivery is serial per subscription. The returned channel is
	// closed on teardown.
	Subscribe(ctx context.Context, limit int64) (<-chan []models.Post, error)

	// GetOne returns the current record or ErrNotFound.
	GetOne(ctx context.Context, id string) (*models.Post, error)

	// Mutate applies the patch atomically and returns the record as it
	// stands after the mutation, which callers use for reconciliation.
	Mutate(ctx context.Context, id string, m Mutation) (*models.Post, error)
}
