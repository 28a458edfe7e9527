package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"spineperf/internal/score"
)

// ManifestName is the default manifest file name.
const ManifestName = "manifest.json"

// Manifest records one batch run.
type Manifest struct {
	RunID     string          `json:"run_id"`
	CreatedAt time.Time       `json:"created_at"`
	Root      string          `json:"root"`
	Summary   Summary         `json:"summary"`
	Entries   []ManifestEntry `json:"entries"`
}

// Summary aggregates the successful entries.
type Summary struct {
	Total       int     `json:"total"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	MeanOverall float64 `json:"mean_overall"`
	MinOverall  float64 `json:"min_overall"`
	Worst       string  `json:"worst,omitempty"`
}

// ManifestEntry represents one asset in the manifest.
type ManifestEntry struct {
	Name       string                 `json:"name"`
	File       string                 `json:"file"`
	Overall    float64                `json:"overall,omitempty"`
	Rating     string                 `json:"rating,omitempty"`
	Components *score.ComponentScores `json:"components,omitempty"`
	Card       string                 `json:"card,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// NewManifest builds a manifest with a fresh run ID.
func NewManifest(root string, results []Result) Manifest {
	m := Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Root:      root,
		Entries:   make([]ManifestEntry, len(results)),
	}
	sum := 0.0
	for i, r := range results {
		e := ManifestEntry{Name: r.Name, File: r.File, Card: r.Card, Error: r.Error}
		m.Summary.Total++
		if r.Success {
			c := r.Components
			e.Overall = r.Overall
			e.Rating = r.Rating
			e.Components = &c
			if m.Summary.Succeeded == 0 || r.Overall < m.Summary.MinOverall {
				m.Summary.MinOverall = r.Overall
				m.Summary.Worst = r.Name
			}
			m.Summary.Succeeded++
			sum += r.Overall
		} else {
			m.Summary.Failed++
		}
		m.Entries[i] = e
	}
	if m.Summary.Succeeded > 0 {
		m.Summary.MeanOverall = sum / float64(m.Summary.Succeeded)
	}
	return m
}

// WriteManifest writes m as indented JSON, gzip-compressed when path ends
// in .gz.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}

	if strings.HasSuffix(path, ".gz") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Name = ManifestName
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("batch: compress manifest: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("batch: compress manifest: %w", err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("batch: read %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return Manifest{}, fmt.Errorf("batch: decompress %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("batch: parse %s: %w", path, err)
	}
	return m, nil
}
