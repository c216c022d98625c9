package pipeline

import (
	"fmt"

	"github.com/hearlab/qscore/internal/instrument"
)

// CategoryMap builds the static question-to-category assignment for an
// instrument. Subscale membership completeness and disjointness are enforced
// at definition load, so the map is total over the scored questions. Flat
// instruments bucket each question by itself.
func CategoryMap(def *instrument.Definition) map[int]string {
	m := make(map[int]string, def.QuestionCount)
	if len(def.Subscales) > 0 {
		for name, qs := range def.Subscales {
			for _, q := range qs {
				m[q] = name
			}
		}
		return m
	}
	for _, q := range def.ScoredQuestions() {
		m[q] = fmt.Sprintf("Q%d", q)
	}
	return m
}

// Categorize stamps each row with its category. Rows for questions outside
// the category map (the tier question of a normative instrument) are dropped.
func Categorize(rows []Row, def *instrument.Definition) []Row {
	m := CategoryMap(def)
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		cat, ok := m[r.Question]
		if !ok {
			continue
		}
		r.Category = cat
		out = append(out, r)
	}
	return out
}
