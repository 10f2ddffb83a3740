package skincare

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Trend is the direction of change between the two latest observations.
type Trend string

const (
	Improved      Trend = "Improved"
	Worsened      Trend = "Worsened"
	StayedTheSame Trend = "Stayed the Same"
	NotEnoughData Trend = "Not Enough Data"
)

const (
	// DefaultNormalLabel is the classifier output meaning healthy skin.
	DefaultNormalLabel = "no issues"
	// ConfidenceTolerance is the absolute confidence difference below which
	// two observations count as unchanged.
	ConfidenceTolerance = 0.05
)

// Observation is one classifier result from the journal.
type Observation struct {
	Timestamp  time.Time `json:"timestamp"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
}

// TrendComparator compares the two most recent observations. NormalLabel
// defaults to DefaultNormalLabel and is matched case-insensitively.
type TrendComparator struct {
	NormalLabel string
}

// CompareTrend runs the default TrendComparator.
func CompareTrend(observations []Observation) Trend {
	return TrendComparator{}.Compare(observations)
}

// Compare returns NotEnoughData for fewer than two observations. A move to
// or from the normal label decides on its own; otherwise a lower confidence
// for the (abnormal) classification counts as an improvement.
func (tc TrendComparator) Compare(observations []Observation) Trend {
	if len(observations) < 2 {
		return NotEnoughData
	}

	sorted := make([]Observation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	previous := sorted[len(sorted)-2]
	latest := sorted[len(sorted)-1]

	prevNormal := tc.isNormal(previous.Label)
	latestNormal := tc.isNormal(latest.Label)
	if !prevNormal && latestNormal {
		return Improved
	}
	if prevNormal && !latestNormal {
		return Worsened
	}

	if math.Abs(latest.Confidence-previous.Confidence) < ConfidenceTolerance {
		return StayedTheSame
	}
	if latest.Confidence < previous.Confidence {
		return Improved
	}
	return Worsened
}

func (tc TrendComparator) isNormal(label string) bool {
	normal := tc.NormalLabel
	if strings.TrimSpace(normal) == "" {
		normal = DefaultNormalLabel
	}
	return NormalizeName(label) == NormalizeName(normal)
}
