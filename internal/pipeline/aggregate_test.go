package pipeline

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSubscaleMeans(t *testing.T) {
	rows := []Row{
		{Subject: "S01", Category: "EC", Score: ptr(99)},
		{Subject: "S01", Category: "EC", Score: ptr(1)},
		{Subject: "S01", Category: "BN", Score: ptr(50)},
		{Subject: "S02", Category: "EC", Score: ptr(75)},
	}
	got := SubscaleMeans(rows)
	if len(got) != 3 {
		t.Fatalf("expected 3 aggregates, got %v", got)
	}
	// Sorted by subject then category.
	if got[0].Subject != "S01" || got[0].Category != "BN" || !almostEqual(got[0].Mean, 50) {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Category != "EC" || !almostEqual(got[1].Mean, 50) {
		t.Errorf("got[1] = %+v", got[1])
	}
	if got[2].Subject != "S02" || !almostEqual(got[2].Mean, 75) {
		t.Errorf("got[2] = %+v", got[2])
	}
}

func TestSubscaleMeansSkipMissing(t *testing.T) {
	rows := []Row{
		{Subject: "S01", Category: "EC", Score: ptr(99)},
		{Subject: "S01", Category: "EC", Score: nil},
	}
	got := SubscaleMeans(rows)
	if len(got) != 1 || !almostEqual(got[0].Mean, 99) {
		t.Errorf("mean must use only non-missing scores, got %v", got)
	}
}

// The global score is the mean of the subject's surviving subscale means,
// not a mean of raw item scores.
func TestGlobalMeansComposition(t *testing.T) {
	subs := []Aggregate{
		{Subject: "S01", Category: "EC", Mean: 99},
		{Subject: "S01", Category: "BN", Mean: 50},
		{Subject: "S01", Category: "RV", Mean: 50},
		{Subject: "S01", Category: "AV", Mean: 10},
	}
	got := GlobalMeans(subs, []string{"AV"})
	if len(got) != 1 {
		t.Fatalf("expected 1 global aggregate, got %v", got)
	}
	want := (99.0 + 50.0 + 50.0) / 3.0
	if !almostEqual(got[0].Mean, want) {
		t.Errorf("global mean = %v, want %v", got[0].Mean, want)
	}
	if got[0].Category != GlobalLabel {
		t.Errorf("category = %q, want %q", got[0].Category, GlobalLabel)
	}
}

func TestGlobalMeansExcludedSubscaleDropped(t *testing.T) {
	// A subject whose EC subscale was excluded upstream contributes only the
	// remaining subscale means.
	subs := []Aggregate{
		{Subject: "S01", Category: "BN", Mean: 40},
		{Subject: "S01", Category: "RV", Mean: 60},
	}
	got := GlobalMeans(subs, []string{"AV"})
	if len(got) != 1 || !almostEqual(got[0].Mean, 50) {
		t.Errorf("global over surviving subscales = %v, want mean 50", got)
	}
}

func TestGlobalMeansNoSurvivingSubscales(t *testing.T) {
	subs := []Aggregate{{Subject: "S01", Category: "AV", Mean: 10}}
	if got := GlobalMeans(subs, []string{"AV"}); len(got) != 0 {
		t.Errorf("expected no global row, got %v", got)
	}
}

func TestGlobalMeansPerStyle(t *testing.T) {
	subs := []Aggregate{
		{Subject: "S01", Style: "RIC_RT", Category: "BN", Mean: 40},
		{Subject: "S01", Style: "ITE_R", Category: "BN", Mean: 80},
	}
	got := GlobalMeans(subs, nil)
	if len(got) != 2 {
		t.Fatalf("expected a global per style, got %v", got)
	}
	// Sorted by style then subject.
	if got[0].Style != "ITE_R" || !almostEqual(got[0].Mean, 80) {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Style != "RIC_RT" || !almostEqual(got[1].Mean, 40) {
		t.Errorf("got[1] = %+v", got[1])
	}
}
