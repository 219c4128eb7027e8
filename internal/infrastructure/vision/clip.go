package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"freelance-match/internal/domain/design"
	"freelance-match/internal/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const (
	maxCachedTexts  = 1024
	maxCachedImages = 256
)

// ClipClient talks to a CLIP embedding sidecar:
//
//	POST /embed/text  {"texts": [...]}  -> {"embeddings": [[...], ...]}
//	POST /embed/image {"image": base64} -> {"embedding": [...]}
type ClipClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	mu     sync.Mutex
	texts  map[string][]float32
	images map[string][]float32
}

type embedTextRequest struct {
	Texts []string `json:"texts"`
}

type embedTextResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

type embedImageRequest struct {
	Image string `json:"image"`
}

type embedImageResponse struct {
	Embedding []float32 `json:"embedding"`
}

func NewClipClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*ClipClient, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("clip endpoint is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClipClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		texts:   map[string][]float32{},
		images:  map[string][]float32{},
	}, nil
}

// Similarity maps the cosine between image and caption embeddings onto [0,100].
func (c *ClipClient) Similarity(ctx context.Context, img design.Image, text string) (float64, error) {
	iv, err := c.imageEmbedding(ctx, img)
	if err != nil {
		return 0, err
	}
	tv, err := c.textEmbedding(ctx, text)
	if err != nil {
		return 0, err
	}
	cos, err := cosine(iv, tv)
	if err != nil {
		return 0, err
	}
	score := (cos + 1) / 2 * 100
	return math.Max(0, math.Min(100, score)), nil
}

func (c *ClipClient) textEmbedding(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	v, ok := c.texts[text]
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	var out embedTextResponse
	if err := c.post(ctx, "/embed/text", embedTextRequest{Texts: []string{text}}, &out); err != nil {
		return nil, err
	}
	if len(out.Embeddings) != 1 || len(out.Embeddings[0]) == 0 {
		return nil, errors.New("clip: empty text embedding")
	}

	c.mu.Lock()
	if len(c.texts) >= maxCachedTexts {
		c.texts = map[string][]float32{}
	}
	c.texts[text] = out.Embeddings[0]
	c.mu.Unlock()
	return out.Embeddings[0], nil
}

func (c *ClipClient) imageEmbedding(ctx context.Context, img design.Image) ([]float32, error) {
	if len(img.Data) == 0 {
		return nil, errors.New("clip: empty image")
	}
	sum := blake2b.Sum256(img.Data)
	key := hex.EncodeToString(sum[:])

	c.mu.Lock()
	v, ok := c.images[key]
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	var out embedImageResponse
	req := embedImageRequest{Image: base64.StdEncoding.EncodeToString(img.Data)}
	if err := c.post(ctx, "/embed/image", req, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding) == 0 {
		return nil, errors.New("clip: empty image embedding")
	}

	c.mu.Lock()
	if len(c.images) >= maxCachedImages {
		c.images = map[string][]float32{}
	}
	c.images[key] = out.Embedding
	c.mu.Unlock()
	return out.Embedding, nil
}

func (c *ClipClient) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("clip %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := logger.Truncate(string(rb), 300)
		c.logger.Warn("clip request failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", bodyStr),
		)
		return fmt.Errorf("clip %s: status=%d body=%s", path, resp.StatusCode, bodyStr)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("clip: embedding dimensions differ (%d vs %d)", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

var _ design.ImageTextScorer = (*ClipClient)(nil)
