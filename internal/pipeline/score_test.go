package pipeline

import "testing"

func TestScoreRowsForwardAndReversed(t *testing.T) {
	d := flatDef()
	d.ReversedQuestions = []int{2}

	rows := []Row{
		{Subject: "S01", Question: 1, Raw: ptr(1)},
		{Subject: "S01", Question: 2, Raw: ptr(1)},
		{Subject: "S01", Question: 3, Raw: ptr(4)},
	}
	scored, invalid := ScoreRows(rows, d)
	if len(invalid) != 0 {
		t.Fatalf("unexpected invalid codes: %v", invalid)
	}
	if *scored[0].Score != 99 {
		t.Errorf("forward score for raw 1 = %v, want 99", *scored[0].Score)
	}
	if !scored[1].Reversed || *scored[1].Score != 1 {
		t.Errorf("reversed score for raw 1 = %v (reversed=%v), want 1", *scored[1].Score, scored[1].Reversed)
	}
	if *scored[2].Score != 50 {
		t.Errorf("mid-scale score = %v, want 50", *scored[2].Score)
	}
}

func TestScoreRowsMissingPropagates(t *testing.T) {
	d := flatDef()
	rows := []Row{
		{Subject: "S01", Question: 1},
		{Subject: "S01", Question: 2, Raw: ptr(3)},
	}
	scored, _ := ScoreRows(rows, d)
	if scored[0].Score != nil {
		t.Error("missing raw value must yield a missing score")
	}
	if scored[1].Score == nil {
		t.Error("present raw value must yield a score")
	}
}

func TestScoreRowsInvalidCodeAccumulated(t *testing.T) {
	d := flatDef()
	rows := []Row{
		{Subject: "S01", Question: 1, Raw: ptr(9)},
		{Subject: "S02", Question: 2, Raw: ptr(0)},
		{Subject: "S03", Question: 3, Raw: ptr(2.5)},
		{Subject: "S04", Question: 1, Raw: ptr(4)},
	}
	scored, invalid := ScoreRows(rows, d)
	if len(invalid) != 3 {
		t.Fatalf("expected 3 invalid codes, got %v", invalid)
	}
	if invalid[0].Subject != "S01" || invalid[0].Value != "9" {
		t.Errorf("invalid[0] = %+v", invalid[0])
	}
	for i := 0; i < 3; i++ {
		if scored[i].Score != nil {
			t.Errorf("row %d: out-of-domain value must not be coerced to a score", i)
		}
	}
	if scored[3].Score == nil {
		t.Error("valid row after invalid rows must still be scored")
	}
}

func TestScoreRowsDoesNotMutateInput(t *testing.T) {
	d := flatDef()
	rows := []Row{{Subject: "S01", Question: 1, Raw: ptr(1)}}
	ScoreRows(rows, d)
	if rows[0].Score != nil || rows[0].Reversed {
		t.Error("input rows must stay untouched")
	}
}
