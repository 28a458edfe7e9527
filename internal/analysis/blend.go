package analysis

import (
	"spineperf/internal/report"
	"spineperf/internal/score"
	"spineperf/internal/skeleton"
)

// BlendCount is the number of slots using one blend mode.
type BlendCount struct {
	Mode  string `json:"mode"`
	Count int    `json:"count"`
}

// BlendSlot is a slot drawn with a non-normal blend mode.
type BlendSlot struct {
	Slot string `json:"slot"`
	Bone string `json:"bone"`
	Mode string `json:"mode"`
}

// BlendModeMetrics summarizes slot blend modes.
type BlendModeMetrics struct {
	Counts         []BlendCount `json:"counts"`
	NonNormalCount int          `json:"nonNormalCount"`
	AdditiveCount  int          `json:"additiveCount"`
	MultiplyCount  int          `json:"multiplyCount"`
	NonNormalSlots []BlendSlot  `json:"nonNormalSlots"`
	Score          float64      `json:"score"`
}

// AnalyzeBlendModes tallies the setup blend mode of every slot.
func AnalyzeBlendModes(s *skeleton.Snapshot, t score.Tuning) (Result[BlendModeMetrics], error) {
	var m BlendModeMetrics
	counts := make([]int, len(skeleton.BlendModes))

	for _, slot := range s.Slots {
		switch slot.Blend {
		case skeleton.BlendNormal, skeleton.BlendAdditive, skeleton.BlendMultiply, skeleton.BlendScreen:
		default:
			return Result[BlendModeMetrics]{}, wrap("blend", newError(UnknownVariant, "slot %q has unknown blend mode %d", slot.Name, int(slot.Blend)))
		}
		counts[slot.Blend]++

		if slot.Blend == skeleton.BlendNormal {
			continue
		}
		bone, err := boneName(s, slot.Bone, "slot "+slot.Name)
		if err != nil {
			return Result[BlendModeMetrics]{}, wrap("blend", err)
		}
		m.NonNormalCount++
		switch slot.Blend {
		case skeleton.BlendAdditive:
			m.AdditiveCount++
		case skeleton.BlendMultiply:
			m.MultiplyCount++
		}
		m.NonNormalSlots = append(m.NonNormalSlots, BlendSlot{Slot: slot.Name, Bone: bone, Mode: slot.Blend.String()})
	}

	for _, mode := range skeleton.BlendModes {
		m.Counts = append(m.Counts, BlendCount{Mode: mode.String(), Count: counts[mode]})
	}

	m.Score = t.BlendModeScore(m.NonNormalCount, m.AdditiveCount)
	return Result[BlendModeMetrics]{Report: blendSection(m, t), Metrics: m}, nil
}

func blendSection(m BlendModeMetrics, t score.Tuning) report.Section {
	meter := report.NewMeter("Blend Mode Score", m.Score, t)
	sec := report.Section{Heading: "Blend Mode Analysis", Meter: &meter}

	freq := report.Table{Caption: "Blend Mode Usage", Columns: []string{"Blend Mode", "Slots"}}
	for _, c := range m.Counts {
		sev := report.SeverityNone
		if c.Mode != skeleton.BlendNormal.String() && c.Count > 0 {
			sev = report.SeverityMedium
		}
		freq.AddRow(sev, c.Mode, itoa(c.Count))
	}
	sec.Tables = append(sec.Tables, freq)

	sec.Tables = append(sec.Tables, statsTable("Summary",
		"Non-normal blend modes", itoa(m.NonNormalCount),
		"Additive", itoa(m.AdditiveCount),
		"Multiply", itoa(m.MultiplyCount),
	))

	if len(m.NonNormalSlots) == 0 {
		sec.Note("All slots use the Normal blend mode.")
		return sec
	}

	tbl := report.Table{Caption: "Non-Normal Slots", Columns: []string{"Slot", "Bone", "Blend Mode"}}
	for _, bs := range m.NonNormalSlots {
		sev := report.SeverityMedium
		if bs.Mode == skeleton.BlendAdditive.String() {
			sev = report.SeverityHigh
		}
		tbl.AddRow(sev, bs.Slot, bs.Bone, bs.Mode)
	}
	sec.Tables = append(sec.Tables, tbl)
	sec.Note("Every change of blend mode breaks batching and adds a draw call.")
	return sec
}
