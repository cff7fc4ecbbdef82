package model

import "strings"

// Link categories.
const (
	LinkLinkedIn  = "linkedin"
	LinkGitHub    = "github"
	LinkPortfolio = "portfolio"
)

// LinkCategories lists the categories in reporting order.
var LinkCategories = []string{LinkLinkedIn, LinkGitHub, LinkPortfolio}

// LinkMap holds at most one URL per category. The first URL offered for a
// category wins.
type LinkMap struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

type LinkEntry struct {
	Category string
	URL      string
}

func (m LinkMap) Get(category string) string {
	switch category {
	case LinkLinkedIn:
		return m.LinkedIn
	case LinkGitHub:
		return m.GitHub
	case LinkPortfolio:
		return m.Portfolio
	}
	return ""
}

// Offer stores url under category unless the category is already filled.
func (m *LinkMap) Offer(category, url string) bool {
	url = strings.TrimSpace(url)
	if url == "" || m.Get(category) != "" {
		return false
	}
	switch category {
	case LinkLinkedIn:
		m.LinkedIn = url
	case LinkGitHub:
		m.GitHub = url
	case LinkPortfolio:
		m.Portfolio = url
	default:
		return false
	}
	return true
}

// Entries returns the filled categories in reporting order.
func (m LinkMap) Entries() []LinkEntry {
	var out []LinkEntry
	for _, c := range LinkCategories {
		if u := m.Get(c); u != "" {
			out = append(out, LinkEntry{Category: c, URL: u})
		}
	}
	return out
}

func (m LinkMap) Empty() bool {
	return len(m.Entries()) == 0
}

// BackfillLinks copies link URLs into profile fields that are missing or
// blank. Values already present are never replaced. It returns the fields
// it filled.
func (p *ExtractedProfile) BackfillLinks(links LinkMap) []string {
	var filled []string
	for _, c := range LinkCategories {
		u := links.Get(c)
		if u == "" {
			continue
		}
		current := p.Scalar(c)
		if current != nil && strings.TrimSpace(*current) != "" {
			continue
		}
		_ = p.SetScalar(c, &u)
		p.MarkPresent(c)
		filled = append(filled, c)
	}
	return filled
}
