package pipeline

import "sort"

// SubscaleMeans computes the arithmetic mean of non-missing scores for each
// surviving subject-category group. Output order is style, subject, category.
func SubscaleMeans(rows []Row) []Aggregate {
	sums := make(map[groupKey]float64)
	counts := make(map[groupKey]int)
	for _, r := range rows {
		if r.Score == nil {
			continue
		}
		k := groupKey{r.Subject, r.Style, r.Category}
		sums[k] += *r.Score
		counts[k]++
	}

	keys := make([]groupKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Style != keys[j].Style {
			return keys[i].Style < keys[j].Style
		}
		if keys[i].Subject != keys[j].Subject {
			return keys[i].Subject < keys[j].Subject
		}
		return keys[i].Category < keys[j].Category
	})

	out := make([]Aggregate, 0, len(keys))
	for _, k := range keys {
		out = append(out, Aggregate{
			Subject:  k.Subject,
			Style:    k.Style,
			Category: k.Category,
			Mean:     sums[k] / float64(counts[k]),
		})
	}
	return out
}

// GlobalLabel is the category stamped on per-subject global aggregates.
const GlobalLabel = "GLOBAL"

// GlobalMeans computes each subject's global score as the mean of that
// subject's surviving subscale means, skipping the excluded subscales.
// A mean of means, not of raw item scores. Subjects whose every contributing
// subscale was excluded produce no global row.
func GlobalMeans(subscales []Aggregate, excluded []string) []Aggregate {
	skip := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		skip[name] = true
	}

	type subjectKey struct {
		Subject string
		Style   string
	}
	sums := make(map[subjectKey]float64)
	counts := make(map[subjectKey]int)
	var order []subjectKey
	seen := make(map[subjectKey]bool)

	for _, a := range subscales {
		if skip[a.Category] {
			continue
		}
		k := subjectKey{a.Subject, a.Style}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
		sums[k] += a.Mean
		counts[k]++
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].Style != order[j].Style {
			return order[i].Style < order[j].Style
		}
		return order[i].Subject < order[j].Subject
	})

	out := make([]Aggregate, 0, len(order))
	for _, k := range order {
		out = append(out, Aggregate{
			Subject:  k.Subject,
			Style:    k.Style,
			Category: GlobalLabel,
			Mean:     sums[k] / float64(counts[k]),
		})
	}
	return out
}
