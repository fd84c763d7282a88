// Package main provides the mafmerge command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/mafmerge/internal/merge"
	"github.com/inodb/mafmerge/internal/output"
	"github.com/inodb/mafmerge/internal/sample"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("mafmerge version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "merge":
		return runMerge(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `mafmerge - Merge cBioPortal mutation files with model-sample filtering

Usage:
  mafmerge [options] <command> [arguments]

Commands:
  merge       Merge mutation files found under an input directory
  config      Manage mafmerge configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Merge all data_mutations* files under the current directory to stdout
  mafmerge merge

  # Merge a study tree into a file (also writes merged.cnt gene counts)
  mafmerge merge -i studies/ -o merged.txt

  # Use an explicit metadata file for sample classification
  mafmerge merge -i studies/ -m clinical_sample.tsv -o merged.txt

  # Keep model samples (PDX, cell lines) in the output
  mafmerge merge -i studies/ --include-model -o merged.txt

For more information on a command, use:
  mafmerge <command> --help
`)
}

// initConfig loads persisted defaults from ~/.mafmerge.yaml if present.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigName(".mafmerge")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	_ = viper.ReadInConfig()
}

// stringList collects repeatable string flags.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func runMerge(args []string) int {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)

	var (
		inputDir     string
		outputFile   string
		metadata     stringList
		includeModel bool
		duckdbPath   string
		verbose      bool
	)

	fs.StringVar(&inputDir, "input-dir", ".", "Directory containing mutation files")
	fs.StringVar(&inputDir, "i", ".", "Directory containing mutation files (shorthand)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "o", "", "Output file (shorthand)")
	fs.Var(&metadata, "metadata", "Metadata file for sample filtering (repeatable)")
	fs.Var(&metadata, "m", "Metadata file for sample filtering (shorthand)")
	fs.BoolVar(&includeModel, "include-model", false, "Include model samples (disable filtering)")
	fs.StringVar(&duckdbPath, "duckdb", "", "Also write results to a DuckDB database at this path")
	fs.BoolVar(&verbose, "verbose", false, "Print verbose output")
	fs.BoolVar(&verbose, "v", false, "Print verbose output (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Merge cBioPortal mutation files into one combined table.

Finds files named data_mutations* under the input directory, filters out
model-derived samples (PDX, cell lines, xenografts) using study metadata
and path heuristics, and writes one tab-delimited record per kept row:

  project  gene  sample  variant_type  HGVSp  frameshift_start  frameshift_len

When writing to a file, a gene<TAB>count summary is written next to it
with a .cnt extension.

Usage:
  mafmerge merge [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  mafmerge merge -i studies/ -o merged.txt
  mafmerge merge -i studies/ -m samples.tsv -m extra_clinical.tsv
  mafmerge merge -i studies/ --duckdb merged.duckdb -o merged.txt
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	// Persisted defaults apply where flags were left unset.
	if !includeModel {
		includeModel = viper.GetBool("merge.include_model")
	}
	metadata = append(metadata, viper.GetStringSlice("merge.metadata")...)

	logger := newLogger(verbose)
	defer logger.Sync()

	// Load metadata and collect model sample identifiers.
	modelSamples := make(map[string]struct{})
	if !includeModel {
		loader := sample.NewLoader()
		loader.SetLogger(logger)
		classifications := loader.Load(inputDir, metadata...)
		modelSamples = classifications.ModelSet()

		if len(modelSamples) > 0 {
			logger.Info("loaded model samples from metadata",
				zap.Int("count", len(modelSamples)))
		} else {
			logger.Info("no metadata found, using path-based filtering only")
		}
	}

	merger := merge.NewMerger(modelSamples)
	merger.SetIncludeModel(includeModel)
	merger.SetLogger(logger)

	result, err := merger.Run(inputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	if err := writeResult(result, outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return ExitError
	}

	if duckdbPath != "" {
		if err := writeDuckDB(result, duckdbPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing DuckDB output: %v\n", err)
			return ExitError
		}
	}

	logger.Info("processed mutation records", zap.Int("count", len(result.Records)))
	return ExitSuccess
}

// writeResult writes the merged records to outputFile or stdout. When
// writing to a file, gene counts go to a sibling .cnt file.
func writeResult(result *merge.Result, outputFile string) error {
	var out *os.File
	if outputFile == "" {
		out = os.Stdout
	} else {
		var err error
		out, err = os.Create(outputFile)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	rw := output.NewRecordWriter(out)
	if err := rw.WriteAll(result.Records); err != nil {
		return err
	}
	if err := rw.Flush(); err != nil {
		return err
	}

	if outputFile == "" {
		return nil
	}

	cntFile := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".cnt"
	cnt, err := os.Create(cntFile)
	if err != nil {
		return err
	}
	defer cnt.Close()

	return output.WriteGeneCounts(cnt, result.GeneCounts)
}

func writeDuckDB(result *merge.Result, path string) error {
	w, err := output.NewDuckDBWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.WriteResult(result)
}

// newLogger builds a console logger on stderr so diagnostics stay separate
// from the primary output. Verbose mode enables debug-level messages.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
