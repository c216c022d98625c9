// Package instrument handles loading and validating built-in questionnaire definitions.
package instrument

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Definition describes how one questionnaire's export is laid out and scored.
type Definition struct {
	Name               string           `yaml:"name"`
	Description        string           `yaml:"description"`
	Layout             Layout           `yaml:"layout"`
	QuestionCount      int              `yaml:"question_count"`
	Scale              Scale            `yaml:"scale"`
	ReversedQuestions  []int            `yaml:"reversed_questions"`
	Subscales          map[string][]int `yaml:"subscales"`
	ExcludedFromGlobal []string         `yaml:"excluded_from_global"`
	MissingTolerance   int              `yaml:"missing_tolerance"`
	Styles             map[int]string   `yaml:"styles"`
	Norms              *Norms           `yaml:"norms"`
}

// Layout fixes the export preamble and column arrangement.
type Layout struct {
	SkipRows               int  `yaml:"skip_rows"`
	SkipCols               int  `yaml:"skip_cols"`
	HasStyleColumn         bool `yaml:"has_style_column"`
	ExtraTrailingQuestions int  `yaml:"extra_trailing_questions"`
}

// Scale maps response codes 1..Points onto scaled scores.
// An empty Scores list means identity scoring (the code is the score).
type Scale struct {
	Points int       `yaml:"points"`
	Scores []float64 `yaml:"scores"`
}

// Band is a normative center and half-width on the response scale.
type Band struct {
	Center float64 `yaml:"center"`
	Width  float64 `yaml:"width"`
}

// TierNorms holds the individual bands and group norms published for one tier.
// Group bands store mean as Center and SD as Width.
type TierNorms struct {
	Individual map[int]Band `yaml:"individual"`
	Group      map[int]Band `yaml:"group"`
}

// Norms configures normative-band comparison for instruments that have one.
type Norms struct {
	TierQuestion  int                  `yaml:"tier_question"`
	TierThreshold float64              `yaml:"tier_threshold"`
	Tiers         map[string]TierNorms `yaml:"tiers"`
}

// LoadBuiltin loads and validates a built-in instrument definition by name.
func LoadBuiltin(name string) (*Definition, error) {
	filename := name + ".yaml"
	data, err := builtinFS.ReadFile("builtin/" + filename)
	if err != nil {
		return nil, fmt.Errorf("instrument.LoadBuiltin: unknown instrument %q: %w", name, err)
	}
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("instrument.LoadBuiltin: parse %q: %w", name, err)
	}
	if errs := Validate(&d); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("instrument.LoadBuiltin: invalid definition %q: %s", name, strings.Join(msgs, "; "))
	}
	return &d, nil
}

// List returns the names of all available built-in instruments.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	return names, nil
}

// IsReversed reports whether a question is scored with the inverted lookup.
func (d *Definition) IsReversed(q int) bool {
	for _, r := range d.ReversedQuestions {
		if r == q {
			return true
		}
	}
	return false
}

// ScoreValue maps a raw response value to its scaled score.
// The reverse lookup is the mirror of the forward table across the scale,
// so reversing code c is the same as forward-scoring code Points+1-c.
// Returns false if the value is not a whole code within 1..Points.
func (d *Definition) ScoreValue(raw float64, reversed bool) (float64, bool) {
	if raw < 1 || raw > float64(d.Scale.Points) {
		return 0, false
	}
	code := int(raw)
	if float64(code) != raw {
		return 0, false
	}
	if reversed {
		code = d.Scale.Points + 1 - code
	}
	if len(d.Scale.Scores) == 0 {
		return float64(code), true
	}
	return d.Scale.Scores[code-1], true
}

// ScoredQuestions returns the question indices that receive scores,
// excluding the tier-assignment question when norms are configured.
func (d *Definition) ScoredQuestions() []int {
	var qs []int
	for q := 1; q <= d.QuestionCount; q++ {
		if d.Norms != nil && q == d.Norms.TierQuestion {
			continue
		}
		qs = append(qs, q)
	}
	return qs
}

// ExpectedColumns returns the accepted data column counts:
// subject + optional style + question columns, with and without
// any accepted trailing extras.
func (d *Definition) ExpectedColumns() []int {
	base := 1 + d.QuestionCount
	if d.Layout.HasStyleColumn {
		base++
	}
	counts := []int{base}
	if d.Layout.ExtraTrailingQuestions > 0 {
		counts = append(counts, base+d.Layout.ExtraTrailingQuestions)
	}
	return counts
}
