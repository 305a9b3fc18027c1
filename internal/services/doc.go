// Package services implements the business logic layer between the HTTP
// and CLI surfaces and the gradebook core. Services hold the immutable
// grade-table and roster snapshots for a session and expose the lookup
// and export operations callers interact with.
//
// Services follow these principles:
//
//	1. Interface-driven design for testability (the export sink is an
//	   injected interface, so tests never touch the Sheets API)
//	2. Context propagation on every operation
//	3. Snapshots are read-only after load; every query recomputes
//	   resolution and aggregation from scratch
package services
