package pipeline

import (
	"strconv"

	"github.com/hearlab/qscore/internal/instrument"
)

// ScoreRows applies the instrument's response-to-score lookups. Missing raw
// values propagate to missing scores unconditionally. Present values outside
// the lookup domain are accumulated as invalid codes, never coerced; their
// scores stay missing and the run continues.
func ScoreRows(rows []Row, def *instrument.Definition) ([]Row, []InvalidCode) {
	out := make([]Row, len(rows))
	var invalid []InvalidCode

	for i, r := range rows {
		r.Reversed = def.IsReversed(r.Question)
		if r.Raw != nil {
			score, ok := def.ScoreValue(*r.Raw, r.Reversed)
			if ok {
				r.Score = ptr(score)
			} else {
				invalid = append(invalid, InvalidCode{
					Subject:  r.Subject,
					Question: r.Question,
					Value:    strconv.FormatFloat(*r.Raw, 'g', -1, 64),
				})
			}
		}
		out[i] = r
	}

	return out, invalid
}
