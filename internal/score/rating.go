package score

// Rating is the five-tier presentation bucket of a score.
type Rating int

const (
	Excellent Rating = iota
	Good
	Moderate
	Poor
	VeryPoor
)

// Ratings lists the tiers from best to worst.
var Ratings = []Rating{Excellent, Good, Moderate, Poor, VeryPoor}

func (r Rating) String() string {
	switch r {
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Moderate:
		return "Moderate"
	case Poor:
		return "Poor"
	}
	return "Very Poor"
}

// Color is the meter color of the tier as a hex RGB string.
func (r Rating) Color() string {
	switch r {
	case Excellent:
		return "#4caf50"
	case Good:
		return "#8bc34a"
	case Moderate:
		return "#ffb300"
	case Poor:
		return "#f57c00"
	}
	return "#e53935"
}

// Interpretation is the legend text of the tier.
func (r Rating) Interpretation() string {
	switch r {
	case Excellent:
		return "Excellent performance, suitable for all platforms"
	case Good:
		return "Good performance, may have issues on very low-end devices"
	case Moderate:
		return "Moderate performance, optimizations recommended for mobile"
	case Poor:
		return "Poor performance, significant optimizations required"
	}
	return "Very poor performance, major restructuring needed"
}

// Rate buckets a score with the tuning's thresholds.
func (t Tuning) Rate(score float64) Rating {
	switch {
	case score >= t.Ratings.Excellent:
		return Excellent
	case score >= t.Ratings.Good:
		return Good
	case score >= t.Ratings.Moderate:
		return Moderate
	case score >= t.Ratings.Poor:
		return Poor
	}
	return VeryPoor
}

// Floor returns the lower bound of a tier, or 0 for VeryPoor.
func (t Tuning) Floor(r Rating) float64 {
	switch r {
	case Excellent:
		return t.Ratings.Excellent
	case Good:
		return t.Ratings.Good
	case Moderate:
		return t.Ratings.Moderate
	case Poor:
		return t.Ratings.Poor
	}
	return 0
}
