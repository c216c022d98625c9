// Package output renders aggregate results as delimited files and derives
// their names from the input file.
package output

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hearlab/qscore/internal/pipeline"
)

// BaseName strips the directory and extension from an input path.
func BaseName(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SubscalePath names the subscale-level output. A non-empty style prefixes
// the name, matching the per-style export convention.
func SubscalePath(outDir, base, style string) string {
	return tagPath(outDir, base, style, "SUBSCALE")
}

// GlobalPath names the global-level output.
func GlobalPath(outDir, base, style string) string {
	return tagPath(outDir, base, style, "GLOBAL")
}

// WNLPath names the normative comparison output.
func WNLPath(outDir, base string) string {
	return filepath.Join(outDir, base+"_WNL.csv")
}

func tagPath(outDir, base, style, tag string) string {
	if style != "" {
		return filepath.Join(outDir, style+"_"+tag+"_"+base+".csv")
	}
	return filepath.Join(outDir, base+"_"+tag+".csv")
}

// SubscaleCSV renders subject-category means.
func SubscaleCSV(aggs []pipeline.Aggregate) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"subject", "subscale", "score"}); err != nil {
		return nil, err
	}
	for _, a := range aggs {
		if err := w.Write([]string{a.Subject, a.Category, ftoa(a.Mean)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// GlobalCSV renders per-subject global means.
func GlobalCSV(aggs []pipeline.Aggregate) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"subject", "score"}); err != nil {
		return nil, err
	}
	for _, a := range aggs {
		if err := w.Write([]string{a.Subject, ftoa(a.Mean)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// WNLCSV renders per-subject per-question normative comparisons.
func WNLCSV(results []pipeline.BandResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"subject", "tier", "question", "score", "status"}); err != nil {
		return nil, err
	}
	for _, r := range results {
		score := ""
		if r.Score != nil {
			score = ftoa(*r.Score)
		}
		rec := []string{r.Subject, r.Tier, strconv.Itoa(r.Question), score, string(r.Status)}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ByStyle splits aggregates into per-style groups with stable style order.
func ByStyle(aggs []pipeline.Aggregate) (map[string][]pipeline.Aggregate, []string) {
	groups := make(map[string][]pipeline.Aggregate)
	for _, a := range aggs {
		groups[a.Style] = append(groups[a.Style], a)
	}
	styles := make([]string, 0, len(groups))
	for s := range groups {
		styles = append(styles, s)
	}
	sort.Strings(styles)
	return groups, styles
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
