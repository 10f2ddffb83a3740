package skincare

import (
	"strconv"
	"strings"
)

const (
	predictionPrefix    = "Prediction: "
	confidenceSeparator = " - Confidence: "
)

// FormatPrediction renders a classifier result the way journal entries
// describe it, e.g. "Prediction: Acne - Confidence: 0.82".
func FormatPrediction(label string, confidence float64) string {
	return predictionPrefix + label + confidenceSeparator + strconv.FormatFloat(confidence, 'f', 2, 64)
}

// ParsePredictionDescription is the inverse of FormatPrediction. The label
// is always returned (the whole description when the format is not
// recognised); hasConfidence reports whether a confidence could be read.
func ParsePredictionDescription(desc string) (label string, confidence float64, hasConfidence bool) {
	head, tail, found := strings.Cut(desc, confidenceSeparator)
	label = strings.TrimSpace(strings.TrimPrefix(head, predictionPrefix))
	if !found {
		return label, 0, false
	}

	value := strings.TrimSpace(tail)
	if pct := strings.TrimSuffix(value, "%"); pct != value {
		f, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return label, 0, false
		}
		return label, f / 100, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return label, 0, false
	}
	return label, f, true
}
