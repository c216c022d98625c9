// Package render produces the Markdown run report.
package render

import (
	"fmt"
	"strings"

	"github.com/hearlab/qscore/internal/pipeline"
	"github.com/hearlab/qscore/internal/stats"
)

// Report gathers everything the run report presents.
type Report struct {
	InputFile    string
	InputHash    string
	Instrument   string
	InvalidCodes []pipeline.InvalidCode
	MissingTier  []string
	Exclusions   []pipeline.Exclusion
	Subscales    []pipeline.Aggregate
	Globals      []pipeline.Aggregate
	Bands        []pipeline.BandResult
	GroupBands   []pipeline.GroupBand
	OutputFiles  []string
}

// Markdown renders the report.
func Markdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# qscore Run Report\n\n")
	fmt.Fprintf(&b, "**Input:** %s\n", r.InputFile)
	fmt.Fprintf(&b, "**Hash:** %s\n", r.InputHash)
	fmt.Fprintf(&b, "**Instrument:** %s\n\n", r.Instrument)

	renderInvalidCodes(&b, r.InvalidCodes)
	renderMissingTier(&b, r.MissingTier)
	renderExclusions(&b, r.Exclusions)

	if len(r.Subscales) > 0 {
		b.WriteString("## Subscale Score Distributions\n\n")
		renderDistributions(&b, r.Subscales)
	}
	if len(r.Globals) > 0 {
		b.WriteString("## Global Score Distribution\n\n")
		renderDistributions(&b, r.Globals)
	}

	renderBands(&b, r.Bands)
	renderGroupBands(&b, r.GroupBands)

	if len(r.OutputFiles) > 0 {
		b.WriteString("## Output Files\n\n")
		for _, f := range r.OutputFiles {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func renderInvalidCodes(b *strings.Builder, codes []pipeline.InvalidCode) {
	if len(codes) == 0 {
		return
	}
	b.WriteString("## Invalid Response Codes\n\n")
	b.WriteString("| Subject | Question | Value |\n|---|---|---|\n")
	for _, c := range codes {
		fmt.Fprintf(b, "| %s | %d | %s |\n", c.Subject, c.Question, c.Value)
	}
	b.WriteString("\n")
}

func renderMissingTier(b *strings.Builder, subjects []string) {
	if len(subjects) == 0 {
		return
	}
	b.WriteString("## Subjects Without a Difficulty Rating\n\n")
	for _, s := range subjects {
		fmt.Fprintf(b, "- %s\n", s)
	}
	b.WriteString("\n")
}

func renderExclusions(b *strings.Builder, exclusions []pipeline.Exclusion) {
	if len(exclusions) == 0 {
		return
	}
	b.WriteString("## Excluded Groups (Insufficient Data)\n\n")
	b.WriteString("| Subject | Style | Category | Missing |\n|---|---|---|---|\n")
	for _, e := range exclusions {
		style := e.Style
		if style == "" {
			style = "-"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %d |\n", e.Subject, style, e.Category, e.Missing)
	}
	b.WriteString("\n")
}

// renderDistributions prints a five-number summary per category, split by
// style when present. The textual stand-in for the original box plots.
func renderDistributions(b *strings.Builder, aggs []pipeline.Aggregate) {
	type key struct {
		Style    string
		Category string
	}
	groups := make(map[key][]float64)
	var order []key
	seen := make(map[key]bool)
	for _, a := range aggs {
		k := key{a.Style, a.Category}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
		groups[k] = append(groups[k], a.Mean)
	}

	b.WriteString("| Style | Category | N | Min | Q1 | Median | Q3 | Max |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, k := range order {
		s, ok := stats.Summarize(groups[k])
		if !ok {
			continue
		}
		style := k.Style
		if style == "" {
			style = "-"
		}
		fmt.Fprintf(b, "| %s | %s | %d | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			style, k.Category, s.N, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
	b.WriteString("\n")
}

func renderBands(b *strings.Builder, bands []pipeline.BandResult) {
	if len(bands) == 0 {
		return
	}
	counts := make(map[string]map[pipeline.WNLStatus]int)
	var tiers []string
	for _, r := range bands {
		if counts[r.Tier] == nil {
			counts[r.Tier] = make(map[pipeline.WNLStatus]int)
			tiers = append(tiers, r.Tier)
		}
		counts[r.Tier][r.Status]++
	}

	b.WriteString("## Normative Comparison\n\n")
	b.WriteString("| Tier | Within | Outside | Not Applicable |\n|---|---|---|---|\n")
	for _, tier := range tiers {
		c := counts[tier]
		fmt.Fprintf(b, "| %s | %d | %d | %d |\n",
			tier, c[pipeline.WNLWithin], c[pipeline.WNLOutside], c[pipeline.WNLNotApplicable])
	}
	b.WriteString("\n")
}

func renderGroupBands(b *strings.Builder, bands []pipeline.GroupBand) {
	if len(bands) == 0 {
		return
	}
	b.WriteString("## Group Reference Bands\n\n")
	b.WriteString("| Tier | Question | Norm Mean | Norm SD | Sample Mean | Sample N |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, gb := range bands {
		sample := "-"
		if gb.SampleN > 0 {
			sample = fmt.Sprintf("%.2f", gb.SampleMean)
		}
		fmt.Fprintf(b, "| %s | %d | %.2f | %.2f | %s | %d |\n",
			gb.Tier, gb.Question, gb.NormMean, gb.NormSD, sample, gb.SampleN)
	}
	b.WriteString("\n")
}
