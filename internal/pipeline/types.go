// Package pipeline implements the scoring stages: reshape, score, categorize,
// filter, and aggregate. Each stage is a pure function that consumes the
// previous stage's output and returns a new slice.
package pipeline

import "fmt"

// Row is one subject-question observation in long form.
type Row struct {
	Subject  string
	Style    string // empty when the instrument has no style column
	Tier     string // empty unless the instrument defines norms
	Question int
	Raw      *float64
	Reversed bool
	Score    *float64
	Category string
}

// InvalidCode records a present response value outside the scoring domain.
type InvalidCode struct {
	Subject  string
	Question int
	Value    string
}

// Exclusion records a subject-category group dropped for exceeding the
// missing-data tolerance.
type Exclusion struct {
	Subject  string
	Style    string
	Category string
	Missing  int
}

// Aggregate is one mean score for a surviving subject-category group.
type Aggregate struct {
	Subject  string
	Style    string
	Category string
	Mean     float64
}

// SchemaError reports an input table whose shape does not match the
// instrument layout. It aborts the run before any scoring.
type SchemaError struct {
	Path string
	Msg  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch in %s: %s", e.Path, e.Msg)
}

// WNLStatus classifies a score against its normative band.
type WNLStatus string

const (
	WNLWithin        WNLStatus = "within-normal-limits"
	WNLOutside       WNLStatus = "outside"
	WNLNotApplicable WNLStatus = "not-applicable"
)

func (s WNLStatus) Valid() bool {
	switch s {
	case WNLWithin, WNLOutside, WNLNotApplicable:
		return true
	}
	return false
}

// BandResult is one subject-question normative comparison.
type BandResult struct {
	Subject  string
	Tier     string
	Question int
	Score    *float64
	Status   WNLStatus
}

// GroupBand pairs a published tier-question norm with the observed sample.
type GroupBand struct {
	Tier       string
	Question   int
	NormMean   float64
	NormSD     float64
	SampleMean float64
	SampleN    int
}

func ptr(v float64) *float64 { return &v }
