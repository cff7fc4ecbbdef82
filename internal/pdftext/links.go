package pdftext

import (
	"regexp"
	"strings"

	"github.com/fadilmartias/resume-profiler/internal/model"
	"mvdan.cc/xurls/v2"
)

var (
	// Absolute web URLs; xurls drops trailing punctuation and unbalanced
	// closing brackets.
	fullURLPattern = mustMatchScheme(`https?://`)

	// Bare mentions without a scheme; matches get an https://www. prefix.
	partialURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`),
		regexp.MustCompile(`(?i)github\.com/[\w-]+`),
		regexp.MustCompile(`(?i)linkedin\.com/[\w/-]+`),
	}
)

func mustMatchScheme(scheme string) *regexp.Regexp {
	re, err := xurls.StrictMatchingScheme(scheme)
	if err != nil {
		panic(err)
	}
	return re
}

// Classify returns the category a URL belongs to by keyword, or "" when no
// keyword matches. Matching is case-insensitive.
func Classify(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "linkedin"):
		return model.LinkLinkedIn
	case strings.Contains(lower, "github"):
		return model.LinkGitHub
	case strings.Contains(lower, "portfolio"), strings.Contains(lower, "website"):
		return model.LinkPortfolio
	}
	return ""
}

func isWebURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isContactURI(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:")
}

// ScanText finds URLs mentioned in text, absolute URLs first, then bare
// profile mentions. Results are deduplicated in first-seen order.
func ScanText(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	for _, u := range fullURLPattern.FindAllString(text, -1) {
		add(u)
	}
	for _, re := range partialURLPatterns {
		for _, m := range re.FindAllString(text, -1) {
			add("https://www." + strings.TrimRight(m, "/"))
		}
	}
	return out
}

// BuildLinkMap classifies annotation URLs first, then fills still-empty
// categories from URLs found in the text. Within each source the first URL
// for a category wins, and the first unclassified web URL becomes the
// portfolio.
func BuildLinkMap(annotations, textURLs []string) model.LinkMap {
	var links model.LinkMap
	offer := func(urls []string) {
		for _, u := range urls {
			u = strings.TrimSpace(u)
			if u == "" || isContactURI(u) {
				continue
			}
			if c := Classify(u); c != "" {
				links.Offer(c, u)
				continue
			}
			if isWebURL(u) {
				links.Offer(model.LinkPortfolio, u)
			}
		}
	}
	offer(annotations)
	offer(textURLs)
	return links
}

// FormatLinkBlock renders the trailer appended to extracted text.
func FormatLinkBlock(links model.LinkMap) string {
	entries := links.Entries()
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n[Extracted URLs]\n")
	for _, e := range entries {
		b.WriteString(e.Category)
		b.WriteString(": ")
		b.WriteString(e.URL)
		b.WriteString("\n")
	}
	return b.String()
}
