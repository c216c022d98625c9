package pipeline

import "testing"

func groupRows(subject, category string, scores []*float64) []Row {
	rows := make([]Row, len(scores))
	for i, s := range scores {
		rows[i] = Row{Subject: subject, Category: category, Question: i + 1, Score: s}
	}
	return rows
}

func TestFilterMissingOverTolerance(t *testing.T) {
	// 3 of 6 missing with tolerance 2: the whole group goes.
	rows := groupRows("S01", "EC", []*float64{ptr(50), ptr(50), ptr(50), nil, nil, nil})
	rows = append(rows, groupRows("S01", "BN", []*float64{ptr(50), ptr(50), ptr(50), ptr(50), ptr(50), ptr(50)})...)

	out, exclusions := FilterMissing(rows, 2)
	if len(out) != 6 {
		t.Fatalf("expected only the intact group to survive, got %d rows", len(out))
	}
	for _, r := range out {
		if r.Category != "BN" {
			t.Errorf("excluded group row leaked through: %+v", r)
		}
	}
	if len(exclusions) != 1 {
		t.Fatalf("expected 1 exclusion, got %v", exclusions)
	}
	e := exclusions[0]
	if e.Subject != "S01" || e.Category != "EC" || e.Missing != 3 {
		t.Errorf("exclusion = %+v", e)
	}
}

func TestFilterMissingAtTolerance(t *testing.T) {
	// Exactly at the tolerance the group survives with partial data.
	rows := groupRows("S01", "EC", []*float64{ptr(50), ptr(50), ptr(50), ptr(50), nil, nil})
	out, exclusions := FilterMissing(rows, 2)
	if len(out) != 6 {
		t.Errorf("group at tolerance must survive intact, got %d rows", len(out))
	}
	if len(exclusions) != 0 {
		t.Errorf("unexpected exclusions: %v", exclusions)
	}
}

func TestFilterMissingSplitsByStyle(t *testing.T) {
	rows := []Row{
		{Subject: "S01", Style: "RIC_RT", Category: "EC", Score: nil},
		{Subject: "S01", Style: "ITE_R", Category: "EC", Score: ptr(50)},
	}
	out, exclusions := FilterMissing(rows, 0)
	if len(out) != 1 || out[0].Style != "ITE_R" {
		t.Errorf("style groups must be filtered independently, got %v", out)
	}
	if len(exclusions) != 1 || exclusions[0].Style != "RIC_RT" {
		t.Errorf("exclusions = %v", exclusions)
	}
}
