package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/talentscout/hiring-assistant/internal/candidate"
)

// CSVStore appends rows to a CSV file. A missing file is created with the
// row as its sole content; an existing file is read fully, the row is
// appended and the whole file is rewritten. Mismatched column sets across
// sessions are reconciled by union: the existing header order is kept and
// genuinely new columns are added at the end, with absent values left
// empty. Not safe under concurrent writers.
type CSVStore struct {
	path string
}

// NewCSV returns a store writing to the given file path.
func NewCSV(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Append(_ context.Context, row candidate.Record) error {
	if len(row) == 0 {
		return errors.New("refusing to persist an empty record")
	}

	header, rows, err := s.readExisting()
	if err != nil {
		return err
	}

	header = mergeColumns(header, orderedColumns(row))
	rows = append(rows, row)

	return s.writeAll(header, rows)
}

func (s *CSVStore) Close() error { return nil }

// readExisting loads the current file content as a header plus one record
// per data row. A missing file yields an empty set.
func (s *CSVStore) readExisting() ([]string, []candidate.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("opening %q: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %q: %w", s.path, err)
	}

	if len(all) == 0 {
		return nil, nil, nil
	}

	header := all[0]
	rows := make([]candidate.Record, 0, len(all)-1)
	for _, values := range all[1:] {
		rec := make(candidate.Record, len(header))
		for i, col := range header {
			if i < len(values) {
				rec[col] = values[i]
			}
		}
		rows = append(rows, rec)
	}

	return header, rows, nil
}

func (s *CSVStore) writeAll(header []string, rows []candidate.Record) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", s.path, err)
	}

	writer := csv.NewWriter(f)

	if err := writer.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range rows {
		values := make([]string, len(header))
		for i, col := range header {
			values[i] = rec[col]
		}
		if err := writer.Write(values); err != nil {
			f.Close()
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing %q: %w", s.path, err)
	}

	return f.Close()
}

// mergeColumns keeps the existing header order and appends columns that
// appear only in the incoming row.
func mergeColumns(existing, incoming []string) []string {
	if len(existing) == 0 {
		return incoming
	}

	seen := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, col := range existing {
		seen[col] = true
		merged = append(merged, col)
	}
	for _, col := range incoming {
		if !seen[col] {
			merged = append(merged, col)
		}
	}

	return merged
}
