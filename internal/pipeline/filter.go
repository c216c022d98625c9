package pipeline

// groupKey identifies a subject-category group, split by style when present.
type groupKey struct {
	Subject  string
	Style    string
	Category string
}

// FilterMissing drops every subject-category group whose missing-score count
// exceeds the tolerance. Exclusion is all-or-nothing per group: no partial
// averaging, no imputation. Exclusions are reported in first-appearance order.
func FilterMissing(rows []Row, tolerance int) ([]Row, []Exclusion) {
	missing := make(map[groupKey]int)
	var order []groupKey
	seen := make(map[groupKey]bool)

	for _, r := range rows {
		k := groupKey{r.Subject, r.Style, r.Category}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
		if r.Score == nil {
			missing[k]++
		}
	}

	excluded := make(map[groupKey]bool)
	var exclusions []Exclusion
	for _, k := range order {
		if missing[k] > tolerance {
			excluded[k] = true
			exclusions = append(exclusions, Exclusion{
				Subject:  k.Subject,
				Style:    k.Style,
				Category: k.Category,
				Missing:  missing[k],
			})
		}
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if excluded[groupKey{r.Subject, r.Style, r.Category}] {
			continue
		}
		out = append(out, r)
	}

	return out, exclusions
}
