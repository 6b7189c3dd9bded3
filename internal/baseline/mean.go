package baseline

import (
	"math"
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// mean returns the field-wise arithmetic mean of the sample metrics.
// Integer counts are rounded to the nearest whole number.
func mean(samples []domain.BaselineSample, at time.Time) domain.MetricsSnapshot {
	out := domain.MetricsSnapshot{
		Timestamp: at,
		Style:     domain.StyleMetrics{PunctuationFrequency: map[string]float64{}},
	}
	n := float64(len(samples))
	if n == 0 {
		return out
	}

	var (
		v     domain.VocabularyMetrics
		s     domain.StyleMetrics
		r     domain.ReadabilityMetrics
		conf  float64
		ints  [5]float64
		punct = map[string]float64{}
	)
	for _, sample := range samples {
		m := sample.Metrics
		ints[0] += float64(m.Vocabulary.UniqueWords)
		ints[1] += float64(m.Vocabulary.TotalWords)
		ints[2] += float64(m.Vocabulary.AcademicWords)
		ints[3] += float64(m.Style.SentenceCount)
		ints[4] += float64(m.Style.ParagraphCount)

		v.AverageWordLength += m.Vocabulary.AverageWordLength
		v.Complexity += m.Vocabulary.Complexity
		v.Diversity += m.Vocabulary.Diversity
		v.Sophistication += m.Vocabulary.Sophistication

		s.AverageSentenceLength += m.Style.AverageSentenceLength
		s.AverageParagraphLength += m.Style.AverageParagraphLength
		s.SentenceLengthVariance += m.Style.SentenceLengthVariance
		s.TransitionWordFrequency += m.Style.TransitionWordFrequency
		for mark, f := range m.Style.PunctuationFrequency {
			punct[mark] += f
		}

		r.GradeLevel += m.Readability.GradeLevel
		r.ReadingEase += m.Readability.ReadingEase
		r.ColemanLiau += m.Readability.ColemanLiau
		conf += m.Confidence
	}

	out.Vocabulary = domain.VocabularyMetrics{
		UniqueWords:       int(math.Round(ints[0] / n)),
		TotalWords:        int(math.Round(ints[1] / n)),
		AcademicWords:     int(math.Round(ints[2] / n)),
		AverageWordLength: v.AverageWordLength / n,
		Complexity:        v.Complexity / n,
		Diversity:         v.Diversity / n,
		Sophistication:    v.Sophistication / n,
	}
	out.Style = domain.StyleMetrics{
		SentenceCount:           int(math.Round(ints[3] / n)),
		ParagraphCount:          int(math.Round(ints[4] / n)),
		AverageSentenceLength:   s.AverageSentenceLength / n,
		AverageParagraphLength:  s.AverageParagraphLength / n,
		SentenceLengthVariance:  s.SentenceLengthVariance / n,
		TransitionWordFrequency: s.TransitionWordFrequency / n,
		PunctuationFrequency:    make(map[string]float64, len(punct)),
	}
	for mark, total := range punct {
		out.Style.PunctuationFrequency[mark] = total / n
	}
	out.Readability = domain.ReadabilityMetrics{
		GradeLevel:  r.GradeLevel / n,
		ReadingEase: r.ReadingEase / n,
		ColemanLiau: r.ColemanLiau / n,
	}
	out.Confidence = conf / n
	return out
}
