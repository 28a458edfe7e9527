package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"spineperf/internal/batch"
	"spineperf/internal/config"
	"spineperf/internal/history"
	"spineperf/internal/render"
)

var (
	batchWorkers int
	batchOut     string
	batchGzip    bool
	batchCards   bool
	batchReports bool
	batchRecord  bool
	batchFormat  string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every skeleton under a directory",
	Long: `Analyze every *.json skeleton under a directory on a worker pool.

A manifest with the overall score, rating and error of each file is written
to the output directory. Use --gzip to compress it.

Examples:
  spineperf batch assets/spine
  spineperf batch assets/spine --workers=8 --out=perf --gzip
  spineperf batch assets/spine --cards --reports --format=html
  spineperf batch assets/spine --record`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Number of parallel workers (default: NumCPU)")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "Output directory for the manifest, cards and reports")
	batchCmd.Flags().BoolVar(&batchGzip, "gzip", false, "Write manifest.json.gz instead of manifest.json")
	batchCmd.Flags().BoolVar(&batchCards, "cards", false, "Write a WebP score card per skeleton")
	batchCmd.Flags().BoolVar(&batchReports, "reports", false, "Write a report per skeleton in the output format")
	batchCmd.Flags().BoolVar(&batchRecord, "record", false, "Record successful scores in the history database")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "Report format for --reports (default from config)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, config.Flags{Format: batchFormat, OutputDir: batchOut, Workers: batchWorkers})
	if err != nil {
		return err
	}
	if batchGzip {
		cfg.Output.Gzip = true
	}
	root := args[0]

	files, err := batch.Discover(root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no skeleton files found under %s", root)
	}
	logger.Info("batch started", "files", len(files), "workers", cfg.Workers)

	bc := batch.Config{
		Root:    root,
		Tuning:  cfg.Scoring,
		Workers: cfg.Workers,
		Logger:  logger,
	}
	if batchCards {
		bc.CardDir = filepath.Join(cfg.Output.Dir, "cards")
	}

	start := time.Now()
	results := batch.Run(cmd.Context(), bc, files)
	elapsed := time.Since(start)

	if batchReports {
		if err := writeReports(cfg, results); err != nil {
			return err
		}
	}

	m := batch.NewManifest(root, results)
	name := batch.ManifestName
	if cfg.Output.Gzip {
		name += ".gz"
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", cfg.Output.Dir, err)
	}
	manifestPath := filepath.Join(cfg.Output.Dir, name)
	if err := batch.WriteManifest(manifestPath, m); err != nil {
		return err
	}

	if batchRecord {
		if err := recordResults(cmd.Context(), cfg, logger, m.RunID, results); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Success {
			fmt.Fprintf(out, "  %-32s %3.0f  %s\n", r.Name, r.Overall, r.Rating)
		} else {
			fmt.Fprintf(out, "  %-32s  --  FAILED: %s\n", r.Name, r.Error)
		}
	}
	fmt.Fprintf(out, "\nDone: %d success, %d failed in %s (mean %.1f)\n",
		m.Summary.Succeeded, m.Summary.Failed, elapsed.Round(time.Millisecond), m.Summary.MeanOverall)
	fmt.Fprintf(out, "Manifest: %s (run %s)\n", manifestPath, m.RunID)
	return nil
}

func writeReports(cfg config.Config, results []batch.Result) error {
	dir := filepath.Join(cfg.Output.Dir, "reports")
	for _, r := range results {
		if r.Report == nil {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(r.Name)+extension(cfg.Output.Format))
		f, err := createOutput(path)
		if err != nil {
			return err
		}
		err = render.Write(f, r.Report, cfg.Output.Format, colorProfile(f))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write report %s: %w", path, err)
		}
	}
	return nil
}

func recordResults(ctx context.Context, cfg config.Config, logger *slog.Logger, runID string, results []batch.Result) error {
	store, err := history.Open(cfg.HistoryDB, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, r := range results {
		if r.Report == nil {
			continue
		}
		if _, err := store.Record(ctx, history.FromReport(runID, r.Name, r.Report)); err != nil {
			return err
		}
	}
	return nil
}
