package tavily

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var (
	reSpaces   = regexp.MustCompile(`[ \t]+`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

// boilerplate lines commonly found in scraped legal portals and news sites
var noisePatterns = []string{
	"Cookie", "Privacy Policy", "Terms of Service", "Subscribe",
	"Advertisement", "Related Articles", "Sign up", "All rights reserved",
}

// CleanContent normalizes a search result snippet. Tavily usually returns
// plain text but some providers pass raw page fragments through, so markup
// is stripped before whitespace normalization.
func CleanContent(text string) string {
	if text == "" {
		return ""
	}

	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		if plain, err := htmlToText(text); err == nil && plain != "" {
			text = plain
		}
	}

	// remove control chars except newline
	text = strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)

	text = reSpaces.ReplaceAllString(text, " ")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	text = removeNoise(text)

	return strings.TrimSpace(text)
}

// htmlToText keeps headings, paragraphs and list items from a page fragment.
func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	var out []string
	doc.Find("h1,h2,h3,h4,p,li").Each(func(i int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "li":
			out = append(out, "- "+strings.TrimSpace(s.Text()))
		default:
			out = append(out, strings.TrimSpace(s.Text()))
		}
	})
	if len(out) == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.Join(out, "\n\n"), nil
}

func removeNoise(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, l := range lines {
		skip := false
		for _, p := range noisePatterns {
			if strings.Contains(l, p) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
