package design

import (
	"regexp"
	"strings"
)

var uiKeywords = []string{
	"dashboard", "landing", "homepage", "profile", "login", "signup", "checkout",
	"cart", "menu", "navigation", "header", "footer", "sidebar", "modal", "form",
}

var styleKeywords = []string{
	"modern", "minimal", "clean", "professional", "colorful", "dark", "light",
	"elegant", "simple", "complex", "bold",
}

var colorKeywords = []string{
	"blue", "red", "green", "yellow", "purple", "orange", "black", "white", "gray", "pink",
}

var featurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`needs?\s+(\w+)`),
	regexp.MustCompile(`should\s+have\s+(\w+)`),
	regexp.MustCompile(`must\s+include\s+(\w+)`),
	regexp.MustCompile(`requires?\s+(\w+)`),
}

type Requirements struct {
	Keywords []string `json:"keywords"`
	Features []string `json:"features"`
	Styles   []string `json:"styles"`
	Colors   []string `json:"colors"`
}

func (r Requirements) Empty() bool {
	return len(r.Keywords) == 0 && len(r.Features) == 0 && len(r.Styles) == 0 && len(r.Colors) == 0
}

// ExtractRequirements uses plain substring checks, so "form" also fires on "platform".
func ExtractRequirements(description string) Requirements {
	text := strings.ToLower(description)

	req := Requirements{
		Keywords: containedIn(text, uiKeywords),
		Features: []string{},
		Styles:   containedIn(text, styleKeywords),
		Colors:   containedIn(text, colorKeywords),
	}

	seen := map[string]bool{}
	for _, re := range featurePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if f := m[1]; !seen[f] {
				seen[f] = true
				req.Features = append(req.Features, f)
			}
		}
	}
	return req
}

func containedIn(text string, words []string) []string {
	out := []string{}
	for _, w := range words {
		if strings.Contains(text, w) {
			out = append(out, w)
		}
	}
	return out
}
