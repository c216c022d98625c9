package pipeline

import "github.com/hearlab/qscore/internal/instrument"

// AssignTiers derives each subject's difficulty tier from the raw value of
// the designated tier question: above the threshold selects the milder tier.
// Tier-question rows are consumed by the assignment and removed from the
// output. Subjects with no tier response cannot be compared against any
// normative band; their rows are dropped and the subjects reported.
// Instruments without norms pass through unchanged.
func AssignTiers(rows []Row, def *instrument.Definition) ([]Row, []string) {
	if def.Norms == nil {
		return rows, nil
	}
	n := def.Norms

	tiers := make(map[string]string)
	for _, r := range rows {
		if r.Question != n.TierQuestion || r.Raw == nil {
			continue
		}
		if *r.Raw > n.TierThreshold {
			tiers[r.Subject] = TierMild
		} else {
			tiers[r.Subject] = TierModSevere
		}
	}

	var out []Row
	var missing []string
	seenMissing := make(map[string]bool)
	for _, r := range rows {
		if r.Question == n.TierQuestion {
			continue
		}
		tier, ok := tiers[r.Subject]
		if !ok {
			if !seenMissing[r.Subject] {
				seenMissing[r.Subject] = true
				missing = append(missing, r.Subject)
			}
			continue
		}
		r.Tier = tier
		out = append(out, r)
	}

	return out, missing
}

// Tier names double as keys into the configured normative tables.
const (
	TierMild      = "mild-moderate"
	TierModSevere = "mod-severe"
)
