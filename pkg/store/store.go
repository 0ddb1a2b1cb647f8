// Package store provides persistent storage for published grid snapshots.
//
// A snapshot is a fully computed layout frozen at publish time, so club
// members can be sent a stable link whose geometry never shifts under
// them even when the feed changes afterwards. Implementations:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for serve mode
//
// # Usage
//
// Publish and retrieve snapshots:
//
//	snap, err := store.NewSnapshot("2026-09-03", "day", layoutData)
//	if err != nil {
//	    return err
//	}
//	if err := st.Publish(ctx, snap); err != nil {
//	    return err
//	}
//
//	snap, err := st.Get(ctx, snap.ID)
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a published layout frozen at a point in time.
type Snapshot struct {
	// ID is the immutable snapshot identifier used in share links.
	ID string `bson:"_id" json:"id"`

	// Date is the grid date (YYYY-MM-DD) the snapshot covers.
	Date string `bson:"date" json:"date"`

	// View is "day" or "week".
	View string `bson:"view" json:"view"`

	// Layout is the serialized layout envelope.
	Layout []byte `bson:"layout" json:"layout"`

	// CreatedAt is the publish time.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NewSnapshot creates a snapshot with a fresh ID.
func NewSnapshot(date, view string, layout []byte) (Snapshot, error) {
	if date == "" {
		return Snapshot{}, errors.New("snapshot without date")
	}
	if len(layout) == 0 {
		return Snapshot{}, errors.New("snapshot without layout")
	}
	return Snapshot{
		ID:        uuid.NewString(),
		Date:      date,
		View:      view,
		Layout:    layout,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Store is the snapshot storage interface.
type Store interface {
	// Publish stores a snapshot. Publishing an existing ID is an error.
	Publish(ctx context.Context, snap Snapshot) error

	// Get retrieves a snapshot by ID. Returns ErrNotFound if missing.
	Get(ctx context.Context, id string) (Snapshot, error)

	// List returns snapshots for a date, newest first. An empty date
	// lists all snapshots.
	List(ctx context.Context, date string) ([]Snapshot, error)

	// Delete removes a snapshot. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
