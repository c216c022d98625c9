package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hearlab/qscore/internal/instrument"
	"github.com/hearlab/qscore/internal/table"
)

// Reshape melts a trimmed wide export into long rows, one per
// subject-question pair. Blank cells become missing raw values; present
// cells that do not parse as numbers are accumulated as invalid codes and
// treated as missing downstream. Only the instrument's question range is
// kept; accepted trailing extras are discarded.
func Reshape(tbl *table.Table, def *instrument.Definition) ([]Row, []InvalidCode, error) {
	expected := def.ExpectedColumns()

	var rows []Row
	var invalid []InvalidCode

	for i, rec := range tbl.Rows {
		if !matchesWidth(len(rec), expected) {
			return nil, nil, &SchemaError{
				Path: tbl.FilePath,
				Msg:  fmt.Sprintf("row %d has %d data columns, expected one of %v", i+1, len(rec), expected),
			}
		}

		subject := strings.TrimSpace(rec[0])
		qOffset := 1

		var style string
		if def.Layout.HasStyleColumn {
			var err error
			style, err = styleName(rec[1], def)
			if err != nil {
				return nil, nil, &SchemaError{Path: tbl.FilePath, Msg: fmt.Sprintf("row %d: %v", i+1, err)}
			}
			qOffset = 2
		}

		for q := 1; q <= def.QuestionCount; q++ {
			row := Row{Subject: subject, Style: style, Question: q}
			cell := strings.TrimSpace(rec[qOffset+q-1])
			if cell != "" {
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					invalid = append(invalid, InvalidCode{Subject: subject, Question: q, Value: cell})
				} else {
					row.Raw = ptr(v)
				}
			}
			rows = append(rows, row)
		}
	}

	return rows, invalid, nil
}

func matchesWidth(n int, accepted []int) bool {
	for _, a := range accepted {
		if n == a {
			return true
		}
	}
	return false
}

// styleName maps a raw style code through the instrument's style dictionary.
func styleName(cell string, def *instrument.Definition) (string, error) {
	s := strings.TrimSpace(cell)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 1<<20 || float64(int(v)) != v {
		return "", fmt.Errorf("style code %q is not an integer", s)
	}
	code := int(v)
	name, ok := def.Styles[code]
	if !ok {
		return "", fmt.Errorf("unknown style code %d", code)
	}
	return name, nil
}
