package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Measure the vocabulary, style and readability of a text",
	Long: `Analyze a document file or an inline text and print its metrics.

Files may be plain text, Markdown, HTML, DOCX, PDF or email; the format is
detected from the content when the extension is not enough.

Examples:
  penmark analyze essay.docx
  penmark analyze --text "The cat sat on the mat."`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("text", "t", "", "Analyze this text instead of a file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	text, err := cmd.Flags().GetString("text")
	if err != nil {
		return fmt.Errorf("getting text flag: %w", err)
	}
	if (text == "") == (len(args) == 0) {
		return errors.New("provide either a file or --text")
	}

	if text != "" {
		m, err := analysisService.AnalyzeText(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		printMetrics(cmd, m)
		return nil
	}

	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}
	analysis, err := analysisService.AnalyzeDocument(cmd.Context(), &doc)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	d := analysis.Document
	cmd.Printf("Document: %s\n", doc.Name)
	cmd.Printf("  Format: %s (confidence %.2f)\n", d.Format, d.Confidence)
	cmd.Printf("  Language: %s\n", d.Metadata.Language)
	if d.Metadata.Title != "" {
		cmd.Printf("  Title: %s\n", d.Metadata.Title)
	}
	q := d.Metadata.Quality
	cmd.Printf("  Quality: readability %.2f, formatting %.2f, consistency %.2f\n",
		q.Readability, q.Formatting, q.Consistency)
	for _, w := range d.Warnings {
		cmd.Printf("  Warning: %s\n", w)
	}
	cmd.Println()
	printMetrics(cmd, &analysis.Metrics)
	return nil
}

func printMetrics(cmd *cobra.Command, m *domain.MetricsSnapshot) {
	v, s, r := m.Vocabulary, m.Style, m.Readability

	cmd.Println("[Vocabulary]")
	cmd.Printf("  Words: %d (%d unique, %d academic)\n", v.TotalWords, v.UniqueWords, v.AcademicWords)
	cmd.Printf("  Diversity: %.3f\n", v.Diversity)
	cmd.Printf("  Average word length: %.2f\n", v.AverageWordLength)
	cmd.Printf("  Complexity: %.3f\n", v.Complexity)
	cmd.Printf("  Sophistication: %.3f\n", v.Sophistication)
	cmd.Println()

	cmd.Println("[Style]")
	cmd.Printf("  Sentences: %d\n", s.SentenceCount)
	cmd.Printf("  Paragraphs: %d\n", s.ParagraphCount)
	cmd.Printf("  Average sentence length: %.1f words (variance %.1f)\n", s.AverageSentenceLength, s.SentenceLengthVariance)
	cmd.Printf("  Transition words: %.2f per 100 words\n", s.TransitionWordFrequency)
	if punct := formatPunctuation(s.PunctuationFrequency); punct != "" {
		cmd.Printf("  Punctuation per 100 words: %s\n", punct)
	}
	cmd.Println()

	cmd.Println("[Readability]")
	cmd.Printf("  Grade level: %.1f\n", r.GradeLevel)
	cmd.Printf("  Reading ease: %.1f\n", r.ReadingEase)
	cmd.Printf("  Coleman-Liau: %.1f\n", r.ColemanLiau)
	cmd.Println()

	cmd.Printf("Confidence: %.2f\n", m.Confidence)
}

// formatPunctuation lists the non-zero marks in a stable order.
func formatPunctuation(freq map[string]float64) string {
	marks := make([]string, 0, len(freq))
	for mark, f := range freq {
		if f > 0 {
			marks = append(marks, mark)
		}
	}
	sort.Strings(marks)

	parts := make([]string, len(marks))
	for i, mark := range marks {
		parts[i] = fmt.Sprintf("%s %.1f", mark, freq[mark])
	}
	return strings.Join(parts, ", ")
}
