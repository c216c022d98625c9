package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hearlab/qscore/internal/instrument"
	"github.com/hearlab/qscore/internal/output"
	"github.com/hearlab/qscore/internal/pipeline"
	"github.com/hearlab/qscore/internal/render"
	"github.com/hearlab/qscore/internal/table"
	"github.com/spf13/cobra"
)

type scoreFlags struct {
	instrumentName string
	outDir         string
	reportPath     string
	delimiter      string
	failOn         string
	verbose        bool
}

func newScoreCmd() *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score <export-file>",
		Short: "Score a questionnaire export and write aggregate tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.instrumentName, "instrument", "", "Instrument name (see 'qscore instruments')")
	flags.StringVar(&f.outDir, "out-dir", "", "Output directory (default: directory of the input file)")
	flags.StringVar(&f.reportPath, "report", "", "Run report file path (default: stdout)")
	flags.StringVar(&f.delimiter, "delimiter", ",", "Input field delimiter")
	flags.StringVar(&f.failOn, "fail-on", "none", "Exit non-zero on diagnostics: none, invalid-codes, or exclusions")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")
	_ = cmd.MarkFlagRequired("instrument")

	return cmd
}

func runScore(inputPath string, f *scoreFlags) error {
	logger := log.New(os.Stderr, "", 0)
	verbose := func(msg string, args ...any) {
		if f.verbose {
			logger.Printf(msg, args...)
		}
	}

	delim, err := parseDelimiter(f.delimiter)
	if err != nil {
		return exitError(3, "%v", err)
	}

	// 1. Load instrument definition
	verbose("Loading instrument: %s", f.instrumentName)
	def, err := instrument.LoadBuiltin(f.instrumentName)
	if err != nil {
		return exitError(4, "failed to load instrument: %v", err)
	}

	// 2. Load export table
	verbose("Loading export: %s", inputPath)
	tbl, err := table.Load(inputPath, delim, def.Layout.SkipRows, def.Layout.SkipCols)
	if err != nil {
		return exitError(3, "failed to load export: %v", err)
	}
	verbose("Loaded %d data rows", len(tbl.Rows))

	// 3. Reshape wide to long
	rows, invalid, err := pipeline.Reshape(tbl, def)
	if err != nil {
		var se *pipeline.SchemaError
		if errors.As(err, &se) {
			return exitError(3, "%v", se)
		}
		return err
	}
	verbose("Reshaped into %d long rows", len(rows))

	// 4. Assign difficulty tiers where the instrument defines norms
	rows, missingTier := pipeline.AssignTiers(rows, def)
	if len(missingTier) > 0 {
		verbose("Dropped %d subjects without a difficulty rating", len(missingTier))
	}

	// 5. Score
	rows, badCodes := pipeline.ScoreRows(rows, def)
	invalid = append(invalid, badCodes...)
	if len(invalid) > 0 {
		verbose("Found %d invalid response codes", len(invalid))
	}

	// 6. Categorize and filter insufficient groups
	rows = pipeline.Categorize(rows, def)
	rows, exclusions := pipeline.FilterMissing(rows, def.MissingTolerance)
	if len(exclusions) > 0 {
		verbose("Excluded %d groups for missing data", len(exclusions))
	}

	// 7. Aggregate and write outputs
	rep := &render.Report{
		InputFile:    filepath.Base(inputPath),
		InputHash:    tbl.Hash,
		Instrument:   def.Name,
		InvalidCodes: invalid,
		MissingTier:  missingTier,
		Exclusions:   exclusions,
	}

	outDir := f.outDir
	if outDir == "" {
		outDir = filepath.Dir(inputPath)
	}
	base := output.BaseName(inputPath)

	if def.Norms != nil {
		if err := aggregateNormative(rows, def, outDir, base, rep, verbose); err != nil {
			return err
		}
	} else {
		if err := aggregateSubscales(rows, def, outDir, base, rep, verbose); err != nil {
			return err
		}
	}

	// 8. Run report
	report := render.Markdown(rep)
	if f.reportPath != "" {
		verbose("Writing report to %s", f.reportPath)
		if err := os.WriteFile(f.reportPath, []byte(report), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		fmt.Print(report)
	}

	// 9. Exit code based on --fail-on
	switch f.failOn {
	case "", "none":
	case "invalid-codes":
		if len(invalid) > 0 {
			return exitError(2, "%d invalid response codes (--fail-on=invalid-codes)", len(invalid))
		}
	case "exclusions":
		if len(exclusions) > 0 || len(missingTier) > 0 {
			return exitError(2, "%d groups excluded (--fail-on=exclusions)", len(exclusions)+len(missingTier))
		}
	default:
		return exitError(3, "unknown --fail-on value: %s", f.failOn)
	}

	return nil
}

// aggregateSubscales writes subscale and global tables, split per style when
// the instrument has a style column.
func aggregateSubscales(rows []pipeline.Row, def *instrument.Definition, outDir, base string, rep *render.Report, verbose func(string, ...any)) error {
	subscales := pipeline.SubscaleMeans(rows)
	globals := pipeline.GlobalMeans(subscales, def.ExcludedFromGlobal)
	rep.Subscales = subscales
	rep.Globals = globals

	if !def.Layout.HasStyleColumn {
		if err := writeCSV(output.SubscalePath(outDir, base, ""), subscales, output.SubscaleCSV, rep, verbose); err != nil {
			return err
		}
		return writeCSV(output.GlobalPath(outDir, base, ""), globals, output.GlobalCSV, rep, verbose)
	}

	subByStyle, styles := output.ByStyle(subscales)
	globByStyle, _ := output.ByStyle(globals)
	for _, style := range styles {
		if err := writeCSV(output.SubscalePath(outDir, base, style), subByStyle[style], output.SubscaleCSV, rep, verbose); err != nil {
			return err
		}
		if err := writeCSV(output.GlobalPath(outDir, base, style), globByStyle[style], output.GlobalCSV, rep, verbose); err != nil {
			return err
		}
	}
	return nil
}

// aggregateNormative writes the normative comparison table.
func aggregateNormative(rows []pipeline.Row, def *instrument.Definition, outDir, base string, rep *render.Report, verbose func(string, ...any)) error {
	bands, err := pipeline.CompareBands(rows, def.Norms)
	if err != nil {
		return exitError(4, "normative comparison failed: %v", err)
	}
	rep.Bands = bands
	rep.GroupBands = pipeline.GroupBands(rows, def.Norms)

	path := output.WNLPath(outDir, base)
	data, err := output.WNLCSV(bands)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	verbose("Writing %s", path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	rep.OutputFiles = append(rep.OutputFiles, path)
	return nil
}

func writeCSV(path string, aggs []pipeline.Aggregate, renderFn func([]pipeline.Aggregate) ([]byte, error), rep *render.Report, verbose func(string, ...any)) error {
	data, err := renderFn(aggs)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	verbose("Writing %s", path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	rep.OutputFiles = append(rep.OutputFiles, path)
	return nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "\\t", "tab":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported delimiter %q", s)
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
