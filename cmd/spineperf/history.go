package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"spineperf/internal/batch"
	"spineperf/internal/config"
	"spineperf/internal/history"
)

var (
	historyDB        string
	historyAsset     string
	historyManifest  string
	historyLimit     int
	historyJSON      bool
	historyTolerance float64
	historyRecord    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Record and compare scores over time",
	Long: `Keep past scores in a SQLite database and detect regressions.

Examples:
  spineperf history record hero.json
  spineperf history record --manifest=perf/manifest.json.gz
  spineperf history list hero
  spineperf history compare hero.json --tolerance=2 --record`,
}

var historyRecordCmd = &cobra.Command{
	Use:   "record [skeleton.json...]",
	Short: "Analyze skeletons and store their scores",
	RunE:  runHistoryRecord,
}

var historyListCmd = &cobra.Command{
	Use:   "list [asset]",
	Short: "List stored scores, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryList,
}

var historyCompareCmd = &cobra.Command{
	Use:   "compare <skeleton.json>",
	Short: "Compare a skeleton against its last stored score",
	Long: `Analyze a skeleton and compare each score with the newest stored record
of the same asset. Exits with status 2 when any score dropped by more than
--tolerance points.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryCompare,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDB, "db", "", "History database (default from config)")
	historyRecordCmd.Flags().StringVar(&historyAsset, "asset", "", "Asset name (default: file name without extension)")
	historyRecordCmd.Flags().StringVar(&historyManifest, "manifest", "", "Import the successful entries of a batch manifest")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of records (0 for all)")
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "Print records as JSON")
	historyCompareCmd.Flags().StringVar(&historyAsset, "asset", "", "Asset name (default: file name without extension)")
	historyCompareCmd.Flags().Float64Var(&historyTolerance, "tolerance", 1, "Allowed score drop in points")
	historyCompareCmd.Flags().BoolVar(&historyRecord, "record", false, "Store the new score after comparing")
	historyCompareCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the comparison as JSON")

	historyCmd.AddCommand(historyRecordCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyCompareCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(cmd *cobra.Command) (config.Config, *slog.Logger, *history.Store, error) {
	cfg, logger, err := setup(cmd, config.Flags{HistoryDB: historyDB})
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	store, err := history.Open(cfg.HistoryDB, logger)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, store, nil
}

func runHistoryRecord(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && historyManifest == "" {
		return fmt.Errorf("nothing to record: pass skeleton files or --manifest")
	}
	if historyAsset != "" && len(args) > 1 {
		return fmt.Errorf("--asset needs exactly one skeleton file")
	}

	cfg, logger, store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var records []history.Record
	if historyManifest != "" {
		m, err := batch.ReadManifest(historyManifest)
		if err != nil {
			return err
		}
		records = append(records, manifestRecords(m)...)
	}

	runID := uuid.NewString()
	for _, path := range args {
		_, r, err := loadAndAnalyze(path, cfg, logger)
		if err != nil {
			return err
		}
		asset := historyAsset
		if asset == "" {
			asset = assetName(path)
		}
		records = append(records, history.FromReport(runID, asset, r))
	}

	out := cmd.OutOrStdout()
	for _, rec := range records {
		if _, err := store.Record(cmd.Context(), rec); err != nil {
			return err
		}
		fmt.Fprintf(out, "recorded %s: %.0f (%s)\n", rec.Asset, rec.Overall, rec.Rating)
	}
	return nil
}

// manifestRecords converts the successful manifest entries into records
// sharing the manifest's run ID and timestamp.
func manifestRecords(m batch.Manifest) []history.Record {
	var records []history.Record
	for _, e := range m.Entries {
		if e.Error != "" || e.Components == nil {
			continue
		}
		records = append(records, history.Record{
			RunID:      m.RunID,
			Asset:      e.Name,
			RecordedAt: m.CreatedAt,
			Overall:    e.Overall,
			Rating:     e.Rating,
			Components: *e.Components,
		})
	}
	return records
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	_, _, store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	asset := ""
	if len(args) == 1 {
		asset = args[0]
	}
	records, err := store.List(cmd.Context(), asset, historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		return writeJSON(out, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No records.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDED\tASSET\tOVERALL\tRATING\tBONE\tMESH\tCLIP\tBLEND\tCONSTR\tRUN")
	for _, r := range records {
		c := r.Components
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%s\n",
			r.RecordedAt.Local().Format("2006-01-02 15:04"), r.Asset, r.Overall, r.Rating,
			c.Bone, c.Mesh, c.Clipping, c.BlendMode, c.Constraint, shortID(r.RunID))
	}
	return tw.Flush()
}

func runHistoryCompare(cmd *cobra.Command, args []string) error {
	cfg, logger, store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	_, r, err := loadAndAnalyze(args[0], cfg, logger)
	if err != nil {
		return err
	}
	asset := historyAsset
	if asset == "" {
		asset = assetName(args[0])
	}
	current := history.FromReport(uuid.NewString(), asset, r)

	cmp, err := store.Compare(cmd.Context(), current, historyTolerance)
	if err != nil {
		return err
	}
	if historyRecord {
		if _, err := store.Record(cmd.Context(), current); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		if err := writeJSON(out, cmp); err != nil {
			return err
		}
	} else {
		printComparison(out, cmp)
	}

	if cmp.Regressed() {
		return gateFailed("%s: %d score(s) regressed by more than %g", asset, len(cmp.Regressions), historyTolerance)
	}
	return nil
}

func printComparison(w io.Writer, cmp history.Comparison) {
	if cmp.Baseline == nil {
		fmt.Fprintf(w, "%s: no previous record, overall %.0f (%s)\n", cmp.Asset, cmp.Current.Overall, cmp.Current.Rating)
		return
	}
	fmt.Fprintf(w, "%s: overall %.0f -> %.0f (baseline %s)\n", cmp.Asset,
		cmp.Baseline.Overall, cmp.Current.Overall, cmp.Baseline.RecordedAt.Local().Format("2006-01-02 15:04"))
	if !cmp.Regressed() {
		fmt.Fprintf(w, "  no regressions beyond %g points\n", cmp.Tolerance)
		return
	}
	for _, r := range cmp.Regressions {
		fmt.Fprintf(w, "  REGRESSION %-10s %6.1f -> %6.1f  (-%.1f)\n", r.Component, r.Previous, r.Current, r.Drop)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
