package instrument

import (
	"fmt"
	"sort"
)

// ValidationError describes a single definition violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Definition for structural validity. All violations are
// accumulated rather than stopping at the first.
func Validate(d *Definition) []ValidationError {
	var errs []ValidationError

	if d.Name == "" {
		errs = append(errs, ValidationError{"name", "required"})
	}
	if d.QuestionCount < 1 {
		errs = append(errs, ValidationError{"question_count", "must be >= 1"})
	}
	if d.Scale.Points < 2 {
		errs = append(errs, ValidationError{"scale.points", "must be >= 2"})
	}
	if n := len(d.Scale.Scores); n > 0 && n != d.Scale.Points {
		errs = append(errs, ValidationError{"scale.scores", fmt.Sprintf("expected %d entries, got %d", d.Scale.Points, n)})
	}
	seen := make(map[float64]bool)
	for i, s := range d.Scale.Scores {
		if seen[s] {
			errs = append(errs, ValidationError{fmt.Sprintf("scale.scores[%d]", i), fmt.Sprintf("duplicate score %v breaks the code-to-score bijection", s)})
		}
		seen[s] = true
	}

	for i, q := range d.ReversedQuestions {
		if q < 1 || q > d.QuestionCount {
			errs = append(errs, ValidationError{fmt.Sprintf("reversed_questions[%d]", i), fmt.Sprintf("question %d out of range 1..%d", q, d.QuestionCount)})
		}
	}

	errs = append(errs, validateSubscales(d)...)

	subscaleNames := make(map[string]bool, len(d.Subscales))
	for name := range d.Subscales {
		subscaleNames[name] = true
	}
	for i, name := range d.ExcludedFromGlobal {
		if !subscaleNames[name] {
			errs = append(errs, ValidationError{fmt.Sprintf("excluded_from_global[%d]", i), fmt.Sprintf("unknown subscale %q", name)})
		}
	}

	if d.MissingTolerance < 0 {
		errs = append(errs, ValidationError{"missing_tolerance", "must be >= 0"})
	}

	if d.Layout.HasStyleColumn && len(d.Styles) == 0 {
		errs = append(errs, ValidationError{"styles", "required when layout.has_style_column is true"})
	}
	if !d.Layout.HasStyleColumn && len(d.Styles) > 0 {
		errs = append(errs, ValidationError{"styles", "layout.has_style_column is false"})
	}
	for code, name := range d.Styles {
		if name == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("styles[%d]", code), "empty style name"})
		}
	}

	if d.Norms != nil {
		errs = append(errs, validateNorms(d)...)
	}

	return errs
}

// validateSubscales checks that subscale membership is a complete, disjoint
// partition of the question range when subscales are declared at all.
func validateSubscales(d *Definition) []ValidationError {
	if len(d.Subscales) == 0 {
		return nil
	}
	var errs []ValidationError

	assigned := make(map[int]string)
	names := make([]string, 0, len(d.Subscales))
	for name := range d.Subscales {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for i, q := range d.Subscales[name] {
			path := fmt.Sprintf("subscales.%s[%d]", name, i)
			if q < 1 || q > d.QuestionCount {
				errs = append(errs, ValidationError{path, fmt.Sprintf("question %d out of range 1..%d", q, d.QuestionCount)})
				continue
			}
			if prev, ok := assigned[q]; ok {
				errs = append(errs, ValidationError{path, fmt.Sprintf("question %d already assigned to %q", q, prev)})
				continue
			}
			assigned[q] = name
		}
	}

	for q := 1; q <= d.QuestionCount; q++ {
		if _, ok := assigned[q]; !ok {
			errs = append(errs, ValidationError{"subscales", fmt.Sprintf("question %d not assigned to any subscale", q)})
		}
	}

	return errs
}

func validateNorms(d *Definition) []ValidationError {
	var errs []ValidationError
	n := d.Norms

	if n.TierQuestion < 1 || n.TierQuestion > d.QuestionCount {
		errs = append(errs, ValidationError{"norms.tier_question", fmt.Sprintf("question %d out of range 1..%d", n.TierQuestion, d.QuestionCount)})
	}
	if len(n.Tiers) == 0 {
		errs = append(errs, ValidationError{"norms.tiers", "at least one tier required"})
	}

	tiers := make([]string, 0, len(n.Tiers))
	for name := range n.Tiers {
		tiers = append(tiers, name)
	}
	sort.Strings(tiers)

	for _, tier := range tiers {
		tn := n.Tiers[tier]
		for q, b := range tn.Individual {
			if q < 1 || q > d.QuestionCount || q == n.TierQuestion {
				errs = append(errs, ValidationError{fmt.Sprintf("norms.tiers.%s.individual", tier), fmt.Sprintf("band for question %d outside the scored range", q)})
			}
			if b.Width < 0 {
				errs = append(errs, ValidationError{fmt.Sprintf("norms.tiers.%s.individual[%d]", tier, q), "negative band width"})
			}
		}
		for q, b := range tn.Group {
			if q < 1 || q > d.QuestionCount || q == n.TierQuestion {
				errs = append(errs, ValidationError{fmt.Sprintf("norms.tiers.%s.group", tier), fmt.Sprintf("band for question %d outside the scored range", q)})
			}
			if b.Width < 0 {
				errs = append(errs, ValidationError{fmt.Sprintf("norms.tiers.%s.group[%d]", tier, q), "negative SD"})
			}
		}
	}

	return errs
}
