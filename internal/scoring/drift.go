package scoring

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// Growth thresholds, as fractions of the baseline value.
const (
	ExpectedGrowth   = 0.10
	HighGrowth       = 0.25
	SuspiciousGrowth = 0.30
)

// Grade level change thresholds.
const (
	ExpectedGradeChange   = 1.0
	HighGradeChange       = 1.5
	SuspiciousGradeChange = 2.0
)

// DriftReport grades how far current moved away from a baseline.
type DriftReport struct {
	// StyleDrift is the mean relative change of the style metrics.
	StyleDrift float64

	// VocabularyShift is the mean relative change of the vocabulary metrics.
	VocabularyShift float64

	GradeLevelChange float64
	Level            domain.DriftLevel
	Flags            []string
}

// Drift compares current against baseline. Metrics whose baseline value is
// zero are skipped.
func Drift(baseline, current domain.MetricsSnapshot) DriftReport {
	bv, cv := baseline.Vocabulary, current.Vocabulary
	vocab := map[string][2]float64{
		"vocabulary diversity":      {bv.Diversity, cv.Diversity},
		"vocabulary complexity":     {bv.Complexity, cv.Complexity},
		"vocabulary sophistication": {bv.Sophistication, cv.Sophistication},
		"average word length":       {bv.AverageWordLength, cv.AverageWordLength},
	}
	bs, cs := baseline.Style, current.Style
	style := map[string][2]float64{
		"sentence length":  {bs.AverageSentenceLength, cs.AverageSentenceLength},
		"paragraph length": {bs.AverageParagraphLength, cs.AverageParagraphLength},
		"transition use":   {bs.TransitionWordFrequency, cs.TransitionWordFrequency},
		"sentence variety": {bs.SentenceLengthVariance, cs.SentenceLengthVariance},
	}

	report := DriftReport{
		GradeLevelChange: current.Readability.GradeLevel - baseline.Readability.GradeLevel,
		Level:            domain.DriftNone,
	}

	var growths []float64
	report.VocabularyShift, growths = relativeChanges(vocab, &report.Flags)
	var styleGrowths []float64
	report.StyleDrift, styleGrowths = relativeChanges(style, &report.Flags)
	growths = append(growths, styleGrowths...)

	grade := report.GradeLevelChange
	switch {
	case grade > SuspiciousGradeChange:
		report.Flags = append(report.Flags, fmt.Sprintf("grade level rose %.1f, above %.1f", grade, SuspiciousGradeChange))
	case grade > HighGradeChange:
		report.Flags = append(report.Flags, fmt.Sprintf("grade level rose %.1f, above %.1f", grade, HighGradeChange))
	}

	report.Level = level(grade, growths)
	sort.Strings(report.Flags)
	return report
}

// relativeChanges returns the mean relative change over metrics with a
// non-zero baseline, plus the individual changes. Growth beyond the high
// threshold is flagged.
func relativeChanges(metrics map[string][2]float64, flags *[]string) (float64, []float64) {
	var (
		sum     float64
		changes []float64
	)
	for name, pair := range metrics {
		base, cur := pair[0], pair[1]
		if base == 0 {
			continue
		}
		change := (cur - base) / base
		changes = append(changes, change)
		sum += change
		if change > HighGrowth {
			*flags = append(*flags, fmt.Sprintf("%s grew %.0f%%", name, change*100))
		}
	}
	if len(changes) == 0 {
		return 0, nil
	}
	return sum / float64(len(changes)), changes
}

func level(grade float64, growths []float64) domain.DriftLevel {
	peak := 0.0
	for _, g := range growths {
		peak = max(peak, g)
	}
	switch {
	case grade > SuspiciousGradeChange || peak > SuspiciousGrowth:
		return domain.DriftSuspicious
	case grade > HighGradeChange || peak > HighGrowth:
		return domain.DriftHigh
	case grade > ExpectedGradeChange || peak > ExpectedGrowth:
		return domain.DriftModerate
	default:
		return domain.DriftNone
	}
}
