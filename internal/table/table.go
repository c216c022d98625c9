// Package table handles reading and hashing delimited survey exports.
package table

import (
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Table holds the data portion of an export after the metadata preamble
// has been discarded.
type Table struct {
	FilePath string
	Hash     string
	Rows     [][]string
}

// Load reads a delimited export, computes its SHA-256 hash, and strips the
// fixed preamble of skipRows leading rows and skipCols leading columns.
func Load(path string, delimiter rune, skipRows, skipCols int) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("table.Load: %w", err)
	}
	h := sha256.Sum256(data)

	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = delimiter
	// Qualtrics preamble rows carry different field counts than data rows.
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("table.Load: parse %s: %w", path, err)
	}

	if len(records) < skipRows {
		return nil, fmt.Errorf("table.Load: %s has %d rows, expected at least %d preamble rows", path, len(records), skipRows)
	}
	records = records[skipRows:]

	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		if len(rec) < skipCols {
			return nil, fmt.Errorf("table.Load: %s row %d has %d columns, expected at least %d leading columns", path, i+skipRows+1, len(rec), skipCols)
		}
		row := make([]string, len(rec)-skipCols)
		copy(row, rec[skipCols:])
		rows = append(rows, row)
	}

	return &Table{
		FilePath: path,
		Hash:     fmt.Sprintf("sha256:%x", h),
		Rows:     rows,
	}, nil
}
