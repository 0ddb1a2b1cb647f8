package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daygrid/daygrid/pkg/store"
)

func TestPublishAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	snap, err := store.NewSnapshot("2026-09-03", "day", []byte(`{"view":"day"}`))
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if snap.ID == "" {
		t.Fatal("snapshot without ID")
	}

	if err := s.Publish(ctx, snap); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, err := s.Get(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Date != "2026-09-03" || got.View != "day" {
		t.Errorf("Get = %+v", got)
	}

	// Republishing the same ID fails
	if err := s.Publish(ctx, snap); err == nil {
		t.Error("expected error republishing same ID")
	}
}

func TestGetMissing(t *testing.T) {
	s := NewStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestListByDate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for i, date := range []string{"2026-09-03", "2026-09-03", "2026-09-04"} {
		snap, _ := store.NewSnapshot(date, "day", []byte("{}"))
		snap.CreatedAt = time.Date(2026, 9, 1, i, 0, 0, 0, time.UTC)
		if err := s.Publish(ctx, snap); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	got, err := s.List(ctx, "2026-09-03")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d snapshots, want 2", len(got))
	}
	if got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Error("List should be newest first")
	}

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List all returned %d, want 3", len(all))
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	snap, _ := store.NewSnapshot("2026-09-03", "day", []byte("{}"))
	if err := s.Publish(ctx, snap); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, snap.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, snap.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("snapshot should be gone after Delete")
	}

	// Deleting a missing ID is not an error
	if err := s.Delete(ctx, "nope"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestNewSnapshotValidation(t *testing.T) {
	if _, err := store.NewSnapshot("", "day", []byte("{}")); err == nil {
		t.Error("expected error for missing date")
	}
	if _, err := store.NewSnapshot("2026-09-03", "day", nil); err == nil {
		t.Error("expected error for missing layout")
	}
}
