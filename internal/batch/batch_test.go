package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spineperf/internal/score"
)

func writeTree(t *testing.T) string {
	t.Helper()
	hero, err := os.ReadFile(filepath.Join("..", "spinejson", "testdata", "hero.json"))
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "npc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hero.json"), hero, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "npc", "guard.json"), hero, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.json"), []byte(`{"bones": [`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hero.atlas"), []byte("atlas"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ManifestName), []byte("{}"), 0o644))
	return root
}

func TestDiscover(t *testing.T) {
	root := writeTree(t)

	files, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "broken.json"),
		filepath.Join(root, "hero.json"),
		filepath.Join(root, "npc", "guard.json"),
	}, files)

	_, err = Discover(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	root := writeTree(t)
	files, err := Discover(root)
	require.NoError(t, err)

	cards := filepath.Join(t.TempDir(), "cards")
	results := Run(context.Background(), Config{
		Root:    root,
		Tuning:  score.Default(),
		Workers: 2,
		CardDir: cards,
	}, files)
	require.Len(t, results, 3)

	broken := results[0]
	assert.Equal(t, "broken", broken.Name)
	assert.False(t, broken.Success)
	assert.Contains(t, broken.Error, "spinejson: parse")
	assert.Nil(t, broken.Report)

	hero, guard := results[1], results[2]
	assert.Equal(t, "hero", hero.Name)
	assert.Equal(t, "npc/guard", guard.Name)
	for _, r := range []Result{hero, guard} {
		assert.True(t, r.Success, r.Error)
		require.NotNil(t, r.Report)
		assert.Equal(t, r.Report.Overall, r.Overall)
		assert.NotEmpty(t, r.Rating)
		assert.FileExists(t, r.Card)
	}
	assert.Equal(t, filepath.Join(cards, "npc", "guard.webp"), guard.Card)
	assert.Equal(t, hero.Overall, guard.Overall)
}

func TestRunCanceled(t *testing.T) {
	root := writeTree(t)
	files, err := Discover(root)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, Config{Root: root, Tuning: score.Default()}, files)
	require.Len(t, results, 3)
	// A canceled context can still race the first send; whatever was not
	// processed must carry the context error.
	for _, r := range results {
		if !r.Success && r.Name != "broken" {
			assert.Equal(t, context.Canceled.Error(), r.Error)
		}
	}
}

func TestNewManifest(t *testing.T) {
	results := []Result{
		{Name: "a", Success: true, Overall: 90, Rating: "Excellent"},
		{Name: "b", Error: "boom"},
		{Name: "c", Success: true, Overall: 60, Rating: "Moderate"},
	}
	m := NewManifest("assets", results)

	_, err := uuid.Parse(m.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "assets", m.Root)
	assert.Equal(t, Summary{Total: 3, Succeeded: 2, Failed: 1, MeanOverall: 75, MinOverall: 60, Worst: "c"}, m.Summary)
	require.Len(t, m.Entries, 3)
	assert.NotNil(t, m.Entries[0].Components)
	assert.Nil(t, m.Entries[1].Components)
	assert.Equal(t, "boom", m.Entries[1].Error)

	assert.NotEqual(t, m.RunID, NewManifest("assets", results).RunID)
}

func TestManifestRoundTrip(t *testing.T) {
	m := NewManifest("assets", []Result{{Name: "a", File: "assets/a.json", Success: true, Overall: 88.5, Rating: "Excellent"}})
	dir := t.TempDir()

	for _, name := range []string{ManifestName, ManifestName + ".gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteManifest(path, m))

			got, err := ReadManifest(path)
			require.NoError(t, err)
			assert.Equal(t, m.RunID, got.RunID)
			assert.True(t, m.CreatedAt.Equal(got.CreatedAt))
			assert.Equal(t, m.Entries, got.Entries)
		})
	}

	plain, err := os.ReadFile(filepath.Join(dir, ManifestName))
	require.NoError(t, err)
	packed, err := os.ReadFile(filepath.Join(dir, ManifestName+".gz"))
	require.NoError(t, err)
	assert.Equal(t, byte('{'), plain[0])
	assert.Equal(t, []byte{0x1f, 0x8b}, packed[:2])
}

func TestReadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadManifest(filepath.Join(dir, "nope.json"))
	assert.ErrorContains(t, err, "batch: read")

	bad := filepath.Join(dir, "bad.json.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o644))
	_, err = ReadManifest(bad)
	assert.ErrorContains(t, err, "batch: decompress")
}
