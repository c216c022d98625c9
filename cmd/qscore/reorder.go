package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hearlab/qscore/internal/table"
	"github.com/spf13/cobra"
)

// formBtoA maps form-A question positions to the form-B columns that hold
// them: form-A question i is form-B question formBtoA[i-1].
var formBtoA = []int{20, 14, 18, 7, 11, 15, 6, 13, 12, 16, 17, 24, 5, 8, 10, 2, 23, 3, 21, 1, 19, 22, 4, 9}

type reorderFlags struct {
	outDir    string
	delimiter string
}

func newReorderCmd() *cobra.Command {
	f := &reorderFlags{}

	cmd := &cobra.Command{
		Use:   "reorder <export-file>",
		Short: "Rewrite a form-B APHAB export in form-A question order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReorder(args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.outDir, "out-dir", "", "Output directory (default: directory of the input file)")
	flags.StringVar(&f.delimiter, "delimiter", ",", "Input field delimiter")

	return cmd
}

func runReorder(inputPath string, f *reorderFlags) error {
	delim, err := parseDelimiter(f.delimiter)
	if err != nil {
		return exitError(3, "%v", err)
	}

	// Same Qualtrics preamble as the scoring path.
	tbl, err := table.Load(inputPath, delim, 2, 17)
	if err != nil {
		return exitError(3, "failed to load export: %v", err)
	}

	minCols := 1 + len(formBtoA)
	out := make([][]string, 0, len(tbl.Rows)+1)
	header := []string{"subject"}
	for i := range formBtoA {
		header = append(header, strconv.Itoa(i+1))
	}
	out = append(out, header)

	for i, rec := range tbl.Rows {
		if len(rec) < minCols {
			return exitError(3, "row %d has %d data columns, expected at least %d", i+1, len(rec), minCols)
		}
		row := []string{rec[0]}
		for _, src := range formBtoA {
			row = append(row, rec[src])
		}
		out = append(out, row)
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.WriteAll(out); err != nil {
		return fmt.Errorf("failed to render reordered table: %w", err)
	}

	outDir := f.outDir
	if outDir == "" {
		outDir = filepath.Dir(inputPath)
	}
	outPath := filepath.Join(outDir, "reordered-"+filepath.Base(inputPath))
	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	fmt.Println(outPath)
	return nil
}
