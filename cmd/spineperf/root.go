package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"spineperf/internal/analysis"
	"spineperf/internal/config"
	"spineperf/internal/logging"
	"spineperf/internal/skeleton"
	"spineperf/internal/spinejson"
)

var (
	configFlag    string
	logLevelFlag  string
	logFormatFlag string
	noColorFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "spineperf",
	Short: "Spine skeleton performance analyzer",
	Long: `spineperf scores the runtime cost of Spine skeletons.

It inspects bones, meshes, clipping masks, blend modes and constraints,
rates each area from 0 to 100 and combines them into one overall score
with concrete optimization hints.

The config file is taken from --config or the SPINEPERF_CONFIG environment
variable. Without one, built-in defaults are used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (json, toml or yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: human, json")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
}

// setup loads and resolves the config for a command and builds its logger.
// flags carries the command's own overrides; the persistent log flags are
// merged in here.
func setup(cmd *cobra.Command, flags config.Flags) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(config.Path(configFlag))
	if err != nil {
		return config.Config{}, nil, err
	}

	flags.LogLevel = logLevelFlag
	flags.LogFormat = logFormatFlag
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	logger, err := logging.New(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// colorProfile returns the termenv profile for w, honoring --no-color and
// the NO_COLOR / CLICOLOR_FORCE environment variables.
func colorProfile(w io.Writer) termenv.Profile {
	if noColorFlag {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// loadAndAnalyze is the shared path of analyze and history.
func loadAndAnalyze(path string, cfg config.Config, logger *slog.Logger) (*skeleton.Snapshot, *analysis.AggregateReport, error) {
	s, err := spinejson.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("skeleton loaded", "file", path, "bones", len(s.Bones), "slots", len(s.Slots), "animations", len(s.Animations))

	r, err := analysis.Analyze(s, cfg.Scoring)
	if err != nil {
		if code := analysis.CodeOf(err); code != "" {
			logger.Error("analysis failed", "file", path, "code", code)
		}
		return nil, nil, err
	}
	logger.Info("analyzed", "skeleton", r.Skeleton, "overall", r.Overall, "rating", r.Rating)
	return s, r, nil
}

// assetName derives a history asset name from a skeleton file path.
func assetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// createOutput opens path for writing, creating parent directories.
func createOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.Create(path)
}

// extension returns the file extension for a report format.
func extension(format string) string {
	switch format {
	case "markdown", "md":
		return ".md"
	case "html":
		return ".html"
	case "json":
		return ".json"
	}
	return ".txt"
}
