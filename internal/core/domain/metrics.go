package domain

import "time"

// PunctuationMarks lists the marks counted by style analysis.
var PunctuationMarks = []string{".", ",", ";", ":", "!", "?", "-", "'", "\"", "(", ")"}

// VocabularyMetrics describes word choice.
// Invariant: UniqueWords <= TotalWords and Diversity is UniqueWords/TotalWords
// (0 when TotalWords is 0).
type VocabularyMetrics struct {
	UniqueWords       int
	TotalWords        int
	AcademicWords     int
	AverageWordLength float64
	Complexity        float64
	Diversity         float64
	Sophistication    float64
}

// StyleMetrics describes sentence and paragraph structure.
type StyleMetrics struct {
	SentenceCount           int
	ParagraphCount          int
	AverageSentenceLength   float64
	AverageParagraphLength  float64
	SentenceLengthVariance  float64
	TransitionWordFrequency float64

	// PunctuationFrequency maps each mark to its count per 100 words.
	PunctuationFrequency map[string]float64
}

// Clone returns a deep copy.
func (s StyleMetrics) Clone() StyleMetrics {
	out := s
	if s.PunctuationFrequency != nil {
		out.PunctuationFrequency = make(map[string]float64, len(s.PunctuationFrequency))
		for k, v := range s.PunctuationFrequency {
			out.PunctuationFrequency[k] = v
		}
	}
	return out
}

// ReadabilityMetrics holds the classic readability formulas.
type ReadabilityMetrics struct {
	// GradeLevel is the Flesch-Kincaid grade level.
	GradeLevel float64

	// ReadingEase is the Flesch reading ease score.
	ReadingEase float64

	// ColemanLiau is the Coleman-Liau index.
	ColemanLiau float64
}

// MetricsSnapshot is the full measurement of one text at one point in time.
type MetricsSnapshot struct {
	Vocabulary  VocabularyMetrics
	Style       StyleMetrics
	Readability ReadabilityMetrics

	// Confidence reflects how much text the snapshot was computed from, in [0, 1].
	Confidence float64

	Timestamp time.Time
}

// Clone returns a deep copy.
func (m MetricsSnapshot) Clone() MetricsSnapshot {
	out := m
	out.Style = m.Style.Clone()
	return out
}
