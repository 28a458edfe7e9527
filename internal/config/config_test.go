package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spineperf/internal/score"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadPartialTOML(t *testing.T) {
	path := write(t, "spineperf.toml", `
workers = 3

[scoring]
ideal_bone_count = 40

[scoring.weights]
mesh = 0.3

[output]
format = "markdown"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 40.0, cfg.Scoring.IdealBoneCount)
	assert.Equal(t, 0.3, cfg.Scoring.Weights.Mesh)
	assert.Equal(t, 0.15, cfg.Scoring.Weights.Bone, "unset weights keep defaults")
	assert.Equal(t, 300.0, cfg.Scoring.IdealVertexCount)
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.Equal(t, "human", cfg.Logging.Format)
}

func TestLoadYAMLAndJSON(t *testing.T) {
	y := write(t, "c.yaml", "scoring:\n  limits:\n    max_depth: 8\nlogging:\n  level: debug\n")
	cfg, err := Load(y)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Scoring.Limits.MaxDepth)
	assert.Equal(t, 500, cfg.Scoring.Limits.TotalVertices)
	assert.Equal(t, "debug", cfg.Logging.Level)

	j := write(t, "c.json", `{"scoring": {"ratings": {"excellent": 90}}, "history_db": "h.db"}`)
	cfg, err = Load(j)
	require.NoError(t, err)
	assert.Equal(t, 90.0, cfg.Scoring.Ratings.Excellent)
	assert.Equal(t, 70.0, cfg.Scoring.Ratings.Good)
	assert.Equal(t, "h.db", cfg.HistoryDB)
}

// Every writable format reads back through the same loader.
func TestSaveLoad(t *testing.T) {
	want := Default()
	want.Workers = 6
	want.Scoring.Weights.Clipping = 0.3
	want.Output.Gzip = true

	for _, ext := range []string{".json", ".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "spineperf"+ext)
			require.NoError(t, Save(path, want))
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "c.ini"), Default())
	assert.ErrorContains(t, err, `unsupported config format ".ini"`)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(write(t, "bad.json", `{"workers": `))
	assert.ErrorContains(t, err, "config: read")
}

func TestResolve(t *testing.T) {
	cfg := Config{Scoring: score.Default(), Workers: 2}
	cfg.Resolve(Flags{Format: "json", LogLevel: "warn"})

	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "human", cfg.Logging.Format)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, filepath.Join(".spineperf", "history.db"), cfg.HistoryDB)

	cfg = Default()
	cfg.Resolve(Flags{Workers: 9, HistoryDB: "x.db", OutputDir: "out"})
	assert.Equal(t, 9, cfg.Workers)
	assert.Equal(t, "x.db", cfg.HistoryDB)
	assert.Equal(t, "out", cfg.Output.Dir)

	cfg = Default()
	cfg.Resolve(Flags{})
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "pdf"
	cfg.Logging.Format = "xml"
	cfg.Scoring.IdealBoneCount = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "output.format")
	assert.ErrorContains(t, err, "logging.format")
	assert.ErrorContains(t, err, "ideal_bone_count")
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "env.toml")
	assert.Equal(t, "flag.toml", Path("flag.toml"))
	assert.Equal(t, "env.toml", Path(""))
}

func TestMarshalFormats(t *testing.T) {
	for _, format := range []string{"json", ".toml", "yaml", "YML"} {
		data, err := Marshal(Default(), format)
		require.NoError(t, err, format)
		assert.Contains(t, string(data), "history_db", format)
	}
	_, err := Marshal(Default(), "xml")
	assert.ErrorContains(t, err, `unsupported config format "xml"`)
}
