package normalisers

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	blankLine = regexp.MustCompile(`\n\s*\n`)
	dotRun    = regexp.MustCompile(`\.{3,}`)

	quoteReplacer = strings.NewReplacer(
		"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u201b", "'", "\u2032", "'",
		"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u201f", `"`, "\u2033", `"`,
		"\u00ab", `"`, "\u00bb", `"`,
	)

	// Em, en, horizontal bar, figure dash, hyphen, non-breaking hyphen, minus.
	dashReplacer = strings.NewReplacer(
		"\u2014", "-", "\u2013", "-", "\u2015", "-", "\u2012", "-",
		"\u2010", "-", "\u2011", "-", "\u2212", "-",
	)
)

// Clean applies the cleaning pipeline to extracted text. Paragraphs are
// kept apart by a single blank line; inside a paragraph every step runs
// in order: collapse whitespace, straighten quotes, replace dashes,
// canonicalise ellipses, strip control characters, trim.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var paragraphs []string
	for _, p := range blankLine.Split(text, -1) {
		if p = cleanParagraph(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func cleanParagraph(p string) string {
	p = collapseWhitespace(p)
	p = quoteReplacer.Replace(p)
	p = dashReplacer.Replace(p)
	p = strings.ReplaceAll(p, "\u2026", "...")
	p = dotRun.ReplaceAllString(p, "...")
	p = stripControls(p)
	// Removing a control character can leave two spaces side by side.
	p = collapseWhitespace(p)
	return strings.TrimSpace(p)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripControls drops C0 and C1 control characters, the byte order mark
// and zero-width formatting characters.
func stripControls(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case r == '\ufeff', r == '\u200b', r == '\u200c', r == '\u200d', r == '\u2060':
			return -1
		}
		return r
	}, s)
}
