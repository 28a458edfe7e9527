package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"spineperf/internal/analysis"
	"spineperf/internal/logging"
	"spineperf/internal/render"
	"spineperf/internal/score"
	"spineperf/internal/spinejson"
)

// Config holds all shared settings for a batch run.
type Config struct {
	Root     string // directory the files were discovered in
	Tuning   score.Tuning
	Workers  int
	CardDir  string // when set, a WebP score card is written per asset
	Logger   *slog.Logger
	Progress time.Duration // progress log interval, default 2s
}

// Result holds the outcome of analyzing one skeleton file.
type Result struct {
	Name       string                    `json:"name"`
	File       string                    `json:"file"`
	Success    bool                      `json:"success"`
	Error      string                    `json:"error,omitempty"`
	Overall    float64                   `json:"overall"`
	Rating     string                    `json:"rating,omitempty"`
	Components score.ComponentScores     `json:"components"`
	Card       string                    `json:"card,omitempty"`
	Report     *analysis.AggregateReport `json:"-"`
}

// Discover returns every *.json file under root except manifests, sorted.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.EqualFold(filepath.Ext(name), ".json") && name != ManifestName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run analyzes all files using a worker pool. Results keep the order of
// files. Files not started before ctx is done are reported as failed.
func Run(ctx context.Context, cfg Config, files []string) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Progress <= 0 {
		cfg.Progress = 2 * time.Second
	}

	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Progress)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					cfg.Logger.Info("progress", "done", p, "total", total, "files_per_sec", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	sent := 0
send:
	for ; sent < total; sent++ {
		select {
		case <-ctx.Done():
			break send
		case fileChan <- sent:
		}
	}
	close(fileChan)

	wg.Wait()
	close(done)

	for i := sent; i < total; i++ {
		results[i] = Result{Name: assetName(cfg.Root, files[i]), File: files[i], Error: ctx.Err().Error()}
	}

	cfg.Logger.Debug("batch finished", "files", total, "took", time.Since(start))
	return results
}

func processFile(cfg Config, path string) Result {
	res := Result{Name: assetName(cfg.Root, path), File: path}
	log := cfg.Logger.With("file", path)

	s, err := spinejson.Load(path)
	if err != nil {
		res.Error = err.Error()
		log.Warn("load failed", "error", err)
		return res
	}

	r, err := analysis.Analyze(s, cfg.Tuning)
	if err != nil {
		res.Error = err.Error()
		log.Warn("analysis failed", "error", err, "code", analysis.CodeOf(err))
		return res
	}
	res.Report = r
	res.Overall = r.Overall
	res.Rating = r.Rating
	res.Components = r.Components

	if cfg.CardDir != "" {
		card := filepath.Join(cfg.CardDir, filepath.FromSlash(res.Name)+".webp")
		if err := os.MkdirAll(filepath.Dir(card), 0o755); err != nil {
			res.Error = err.Error()
			return res
		}
		if err := render.WriteCard(card, render.Card(r, render.CardOptions{})); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Card = card
	}

	res.Success = true
	log.Debug("analyzed", "overall", r.Overall, "rating", r.Rating)
	return res
}

// assetName is the slash-separated path of file relative to root, without
// its extension.
func assetName(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil || root == "" || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
}
