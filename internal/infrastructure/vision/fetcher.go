package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freelance-match/internal/domain/design"
)

const userAgent = "FreelanceMatch/0.1"

type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}, maxBytes: maxBytes}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(strings.ToLower(ref), "data:") {
		return f.decodeDataURI(ref)
	}
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return nil, fmt.Errorf("%w: unsupported image reference %q", design.ErrImageFetch, ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", design.ErrImageFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", design.ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", design.ErrImageFetch, ref, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isImageType(ct) {
		return nil, fmt.Errorf("%w: %s has content type %q", design.ErrImageFetch, ref, ct)
	}

	b, err := readAllLimit(resp.Body, f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", design.ErrImageFetch, ref, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: %s returned an empty body", design.ErrImageFetch, ref)
	}
	return b, nil
}

// decodeDataURI accepts inline base64 images: data:image/<type>;base64,<payload>.
func (f *HTTPFetcher) decodeDataURI(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(ref[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data uri", design.ErrImageFetch)
	}
	params := strings.Split(header, ";")
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(params[0])), "image/") {
		return nil, fmt.Errorf("%w: data uri has media type %q", design.ErrImageFetch, params[0])
	}
	if !strings.EqualFold(strings.TrimSpace(params[len(params)-1]), "base64") {
		return nil, fmt.Errorf("%w: data uri is not base64 encoded", design.ErrImageFetch)
	}

	payload = strings.TrimSpace(payload)
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > f.maxBytes+2 {
		return nil, fmt.Errorf("%w: data uri larger than %d bytes", design.ErrImageFetch, f.maxBytes)
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: data uri: %v", design.ErrImageFetch, err)
	}
	if int64(len(b)) > f.maxBytes {
		return nil, fmt.Errorf("%w: data uri larger than %d bytes", design.ErrImageFetch, f.maxBytes)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: data uri is empty", design.ErrImageFetch)
	}
	return b, nil
}

func isImageType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "application/octet-stream")
}

func readAllLimit(r io.Reader, max int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: max + 1}
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("response larger than %d bytes", max)
	}
	return b, nil
}

var _ design.ImageFetcher = (*HTTPFetcher)(nil)
