// Package store persists exported candidate records. Two backends are
// provided: a CSV file compatible with the original export format, and a
// SQLite database for true append-only writes.
package store

import (
	"context"
	"sort"

	"github.com/talentscout/hiring-assistant/internal/candidate"
)

// Backend names accepted in configuration.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Store appends exported candidate rows to a destination.
type Store interface {
	// Append persists one exported record. The column set is whatever
	// keys the record happens to carry.
	Append(ctx context.Context, row candidate.Record) error
	Close() error
}

// orderedColumns returns the record's keys in canonical field order,
// followed by any unrecognized keys in sorted order.
func orderedColumns(row candidate.Record) []string {
	columns := make([]string, 0, len(row))
	seen := make(map[string]bool, len(row))

	for _, field := range candidate.FieldOrder {
		if row.Has(field) {
			columns = append(columns, field)
			seen[field] = true
		}
	}

	extras := make([]string, 0)
	for key := range row {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)

	return append(columns, extras...)
}
