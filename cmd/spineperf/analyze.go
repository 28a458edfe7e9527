package main

import (
	"io"

	"github.com/spf13/cobra"

	"spineperf/internal/config"
	"spineperf/internal/render"
)

var (
	analyzeFormat   string
	analyzeOut      string
	analyzeCard     string
	analyzeMinScore float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <skeleton.json>",
	Short: "Analyze one skeleton and print its performance report",
	Long: `Analyze a Spine JSON skeleton and print the performance report.

The overall score is a weighted combination of the bone, mesh, clipping,
blend-mode and constraint scores. With --min-score the command exits with
status 2 when the overall score is below the threshold, for use in CI.

Examples:
  spineperf analyze hero.json
  spineperf analyze hero.json --format=html --out=hero.html
  spineperf analyze hero.json --card=hero.webp
  spineperf analyze hero.json --min-score=70`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "Report format: text, markdown, html, json (default from config)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeCard, "card", "", "Also write a score card image (.webp or .png)")
	analyzeCmd.Flags().Float64Var(&analyzeMinScore, "min-score", 0, "Exit with status 2 when the overall score is below this value")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, config.Flags{Format: analyzeFormat})
	if err != nil {
		return err
	}

	_, r, err := loadAndAnalyze(args[0], cfg, logger)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if analyzeOut != "" {
		f, err := createOutput(analyzeOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := render.Write(w, r, cfg.Output.Format, colorProfile(w)); err != nil {
		return err
	}
	if analyzeOut != "" {
		logger.Info("report written", "path", analyzeOut, "format", cfg.Output.Format)
	}

	if analyzeCard != "" {
		if err := render.WriteCard(analyzeCard, render.Card(r, render.CardOptions{})); err != nil {
			return err
		}
		logger.Info("card written", "path", analyzeCard)
	}

	if analyzeMinScore > 0 && r.Overall < analyzeMinScore {
		return gateFailed("%s: overall score %.0f is below the minimum %g", r.Skeleton, r.Overall, analyzeMinScore)
	}
	return nil
}
