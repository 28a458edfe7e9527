package history

import (
	"context"
	"errors"
	"sort"
)

// Regression is one score that dropped by more than the tolerance.
type Regression struct {
	Component string  `json:"component"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Drop      float64 `json:"drop"`
}

// Comparison is the outcome of comparing a fresh record with the stored
// baseline.
type Comparison struct {
	Asset       string       `json:"asset"`
	Baseline    *Record      `json:"baseline,omitempty"`
	Current     Record       `json:"current"`
	Tolerance   float64      `json:"tolerance"`
	Regressions []Regression `json:"regressions"`
}

// Regressed reports whether any score dropped beyond the tolerance.
func (c Comparison) Regressed() bool {
	return len(c.Regressions) > 0
}

// Diff lists the scores of current that are more than tolerance below
// baseline, largest drop first.
func Diff(baseline, current Record, tolerance float64) []Regression {
	b, c := baseline.Components, current.Components
	pairs := []struct {
		name       string
		prev, curr float64
	}{
		{"overall", baseline.Overall, current.Overall},
		{"bone", b.Bone, c.Bone},
		{"mesh", b.Mesh, c.Mesh},
		{"clipping", b.Clipping, c.Clipping},
		{"blendMode", b.BlendMode, c.BlendMode},
		{"constraint", b.Constraint, c.Constraint},
	}

	regressions := []Regression{}
	for _, p := range pairs {
		if drop := p.prev - p.curr; drop > tolerance {
			regressions = append(regressions, Regression{Component: p.name, Previous: p.prev, Current: p.curr, Drop: drop})
		}
	}
	sort.SliceStable(regressions, func(i, j int) bool {
		return regressions[i].Drop > regressions[j].Drop
	})
	return regressions
}

// Compare checks current against the newest stored record of the same
// asset. Without a baseline there is nothing to regress from.
func (s *Store) Compare(ctx context.Context, current Record, tolerance float64) (Comparison, error) {
	cmp := Comparison{Asset: current.Asset, Current: current, Tolerance: tolerance, Regressions: []Regression{}}

	baseline, err := s.Latest(ctx, current.Asset)
	if errors.Is(err, ErrNoHistory) {
		return cmp, nil
	}
	if err != nil {
		return Comparison{}, err
	}

	cmp.Baseline = &baseline
	cmp.Regressions = Diff(baseline, current, tolerance)
	if cmp.Regressed() {
		s.logger.Warn("score regression", "asset", current.Asset, "components", len(cmp.Regressions))
	}
	return cmp, nil
}
