// Package layout computes collision-free placements for calendar events.
//
// The engine partitions a day's events into overlap groups (connected
// components under the pairwise time-overlap relation), assigns each event
// a column slot within its group, and maps slots to rectangular geometry
// for the day grid or flex shares for the week grid.
//
// The whole computation is pure and synchronous: derived structures are
// rebuilt from scratch on every pass and hold no identity between passes.
package layout

import (
	"slices"

	"github.com/daygrid/daygrid/pkg/schedule"
)

// =============================================================================
// Overlap Grouping
// =============================================================================

// GroupOverlapping partitions events into overlap groups: maximal clusters
// connected transitively by pairwise time overlap. Every input event lands
// in exactly one group; groups are internally sorted by start time.
//
// The scan is greedy: events are stable-sorted by start minutes, then each
// event is tested against every member of the open group. Overlap with any
// member joins the group, so a group may contain pairs that do not overlap
// each other directly (A overlaps B, B overlaps C, A and C disjoint). That
// chain still competes for the same visual row cluster and must stay in
// one group; do not tighten this into a pairwise-clique test.
//
// Empty input yields an empty group list, never a single empty group.
func GroupOverlapping(events []schedule.Event) [][]schedule.Event {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]schedule.Event, len(events))
	copy(sorted, events)
	slices.SortStableFunc(sorted, func(a, b schedule.Event) int {
		return a.Interval().Start - b.Interval().Start
	})

	var groups [][]schedule.Event
	current := []schedule.Event{sorted[0]}

	for _, ev := range sorted[1:] {
		if overlapsAny(ev, current) {
			current = append(current, ev)
			continue
		}
		groups = append(groups, current)
		current = []schedule.Event{ev}
	}
	return append(groups, current)
}

// overlapsAny reports whether ev overlaps at least one member of group.
// O(n) per event, O(n²) within a single overlap chain. Same-day event
// counts are tens at most, so the quadratic scan is kept deliberately.
func overlapsAny(ev schedule.Event, group []schedule.Event) bool {
	iv := ev.Interval()
	for _, member := range group {
		if iv.Overlaps(member.Interval()) {
			return true
		}
	}
	return false
}

// =============================================================================
// Column Assignment
// =============================================================================

// Column is an event's horizontal slot within its overlap group.
type Column struct {
	Event        schedule.Event `json:"event"`
	ColumnIndex  int            `json:"column_index"`
	TotalColumns int            `json:"total_columns"`
}

// LayoutGroup assigns column slots to one overlap group. Every member gets
// TotalColumns equal to the group size and ColumnIndex equal to its position
// in the group's start-sorted order. Width is split evenly across the group;
// no attempt is made to pack indirectly non-overlapping members into fewer
// columns.
func LayoutGroup(group []schedule.Event) []Column {
	cols := make([]Column, len(group))
	for i, ev := range group {
		cols[i] = Column{
			Event:        ev,
			ColumnIndex:  i,
			TotalColumns: len(group),
		}
	}
	return cols
}
