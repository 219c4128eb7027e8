package design

import (
	"context"
	"regexp"
)

var figmaFileKey = regexp.MustCompile(`figma\.com/(?:file|design|proto)/([a-zA-Z0-9]+)`)

// FigmaPreviewResolver turns a Figma link into a single image standing in for a submission without
// uploaded images.
type FigmaPreviewResolver interface {
	Resolve(ctx context.Context, figmaURL string) (Image, error)
}

func FigmaFileKey(rawURL string) (string, bool) {
	m := figmaFileKey.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}
