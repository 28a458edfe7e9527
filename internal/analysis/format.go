package analysis

import (
	"strconv"
	"strings"

	"spineperf/internal/report"
	"spineperf/internal/skeleton"
)

func itoa(n int) string { return strconv.Itoa(n) }

func f1(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// statsTable renders label/value pairs as a two-column table.
func statsTable(caption string, pairs ...string) report.Table {
	t := report.Table{Caption: caption, Columns: []string{"Metric", "Value"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		t.AddRow(report.SeverityNone, pairs[i], pairs[i+1])
	}
	return t
}

func boneName(s *skeleton.Snapshot, i int, owner string) (string, error) {
	if i < 0 || i >= len(s.Bones) {
		return "", newError(BoneIndexOutOfRange, "%s references bone index %d, skeleton has %d bones", owner, i, len(s.Bones))
	}
	return s.Bones[i].Name, nil
}

func boneNames(s *skeleton.Snapshot, idx []int, owner string) (string, error) {
	names := make([]string, 0, len(idx))
	for _, i := range idx {
		n, err := boneName(s, i, owner)
		if err != nil {
			return "", err
		}
		names = append(names, n)
	}
	return strings.Join(names, ", "), nil
}
