// Package gradebook holds the in-memory model of a course grade export and
// the name-reconciliation logic that maps exported students onto per-section
// class rosters.
//
// The package is organized around immutable snapshots:
//
// 1. Table: the parsed grade export, one StudentRecord per row
// 2. Rosters: per-section lists of enrolled student names
// 3. ResolveSection: the two-stage exact/loose matcher between the two
// 4. Aggregate: per-section grouping with submitted/not-submitted split
//
// Both snapshots are loaded once and treated as read-only; every query
// recomputes resolution and aggregation from scratch, so there is no cache
// to invalidate and no shared mutable state.
//
// Basic aggregation example:
//
//	table, err := gradebook.LoadTableFile("grades.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rosters := gradebook.LoadRosters(ctx, []string{"F2", "F5", "F6"}, pathFor, logger)
//	agg := gradebook.Aggregate(table, gradebook.PrefixFilter("1.4"), rosters)
package gradebook
