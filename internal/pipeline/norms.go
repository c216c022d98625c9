package pipeline

import (
	"fmt"
	"sort"

	"github.com/hearlab/qscore/internal/instrument"
)

// CompareBands tags each scored row against the individual normative band
// for the subject's tier. A score is within-normal-limits when it falls in
// [center-width, center+width]. A question with no published band, or a
// missing score, is tagged not-applicable. A tier name with no configured
// table is a configuration error and is surfaced, not silently tagged.
func CompareBands(rows []Row, norms *instrument.Norms) ([]BandResult, error) {
	out := make([]BandResult, 0, len(rows))
	for _, r := range rows {
		tn, ok := norms.Tiers[r.Tier]
		if !ok {
			return nil, fmt.Errorf("no normative table configured for tier %q (subject %s)", r.Tier, r.Subject)
		}
		res := BandResult{
			Subject:  r.Subject,
			Tier:     r.Tier,
			Question: r.Question,
			Score:    r.Score,
			Status:   WNLNotApplicable,
		}
		band, hasBand := tn.Individual[r.Question]
		if hasBand && r.Score != nil {
			if *r.Score >= band.Center-band.Width && *r.Score <= band.Center+band.Width {
				res.Status = WNLWithin
			} else {
				res.Status = WNLOutside
			}
		}
		out = append(out, res)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].Question < out[j].Question
	})
	return out, nil
}

// GroupBands merges the published per-tier group norms with the observed
// sample mean per tier and question, for the report's reference table.
func GroupBands(rows []Row, norms *instrument.Norms) []GroupBand {
	type tq struct {
		Tier     string
		Question int
	}
	sums := make(map[tq]float64)
	counts := make(map[tq]int)
	for _, r := range rows {
		if r.Score == nil {
			continue
		}
		k := tq{r.Tier, r.Question}
		sums[k] += *r.Score
		counts[k]++
	}

	tiers := make([]string, 0, len(norms.Tiers))
	for name := range norms.Tiers {
		tiers = append(tiers, name)
	}
	sort.Strings(tiers)

	var out []GroupBand
	for _, tier := range tiers {
		tn := norms.Tiers[tier]
		qs := make([]int, 0, len(tn.Group))
		for q := range tn.Group {
			qs = append(qs, q)
		}
		sort.Ints(qs)
		for _, q := range qs {
			band := tn.Group[q]
			k := tq{tier, q}
			gb := GroupBand{
				Tier:     tier,
				Question: q,
				NormMean: band.Center,
				NormSD:   band.Width,
				SampleN:  counts[k],
			}
			if counts[k] > 0 {
				gb.SampleMean = sums[k] / float64(counts[k])
			}
			out = append(out, gb)
		}
	}
	return out
}
