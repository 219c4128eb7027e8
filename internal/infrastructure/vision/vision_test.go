package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"freelance-match/internal/domain/design"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngBytes)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		case "/big.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher(t *testing.T) {
	srv := imageServer(t)
	f := NewHTTPFetcher(time.Second, 32)

	b, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(b) != string(pngBytes) {
		t.Fatalf("unexpected body")
	}

	for _, ref := range []string{srv.URL + "/missing.png", srv.URL + "/page.html", srv.URL + "/big.png", "ftp://x/y.png"} {
		if _, err := f.Fetch(context.Background(), ref); !errors.Is(err, design.ErrImageFetch) {
			t.Fatalf("%s: expected ErrImageFetch, got %v", ref, err)
		}
	}
}

func TestHTTPFetcher_DataURI(t *testing.T) {
	f := NewHTTPFetcher(time.Second, 32)
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)

	b, err := f.Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(b) != string(pngBytes) {
		t.Fatalf("unexpected decoded bytes %q", b)
	}

	rejected := []string{
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 64))),
		"data:text/plain;base64," + base64.StdEncoding.EncodeToString(pngBytes),
		"data:image/svg+xml,<svg></svg>",
		"data:image/png;base64,not*base64",
		"data:image/png;base64,",
		"data:image/png;base64",
	}
	for _, ref := range rejected {
		if _, err := f.Fetch(context.Background(), ref); !errors.Is(err, design.ErrImageFetch) {
			t.Fatalf("%.40s: expected ErrImageFetch, got %v", ref, err)
		}
	}
}

func clipServer(t *testing.T, textCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embed/image":
			var req embedImageRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if _, err := base64.StdEncoding.DecodeString(req.Image); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(embedImageResponse{Embedding: []float32{1, 0}})
		case "/embed/text":
			textCalls.Add(1)
			var req embedTextRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			vec := []float32{0, 1}
			if strings.Contains(req.Texts[0], "dashboard") {
				vec = []float32{1, 0}
			}
			_ = json.NewEncoder(w).Encode(embedTextResponse{Embeddings: [][]float32{vec}})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClipClient_Similarity(t *testing.T) {
	var textCalls atomic.Int32
	srv := clipServer(t, &textCalls)
	c, err := NewClipClient(srv.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	img := design.Image{Ref: "a.png", Data: pngBytes}

	got, err := c.Similarity(context.Background(), img, "a dashboard")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if math.Abs(got-100) > 1e-9 {
		t.Fatalf("expected 100 for identical embeddings, got %v", got)
	}

	got, err = c.Similarity(context.Background(), img, "a login form")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if math.Abs(got-50) > 1e-9 {
		t.Fatalf("expected 50 for orthogonal embeddings, got %v", got)
	}

	if _, err := c.Similarity(context.Background(), img, "a dashboard"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if textCalls.Load() != 2 {
		t.Fatalf("expected cached text embeddings, got %d calls", textCalls.Load())
	}
}

func TestClipClient_Errors(t *testing.T) {
	if _, err := NewClipClient("", time.Second, nil); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClipClient(srv.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := c.Similarity(context.Background(), design.Image{Data: pngBytes}, "x"); err == nil {
		t.Fatalf("expected error from failing sidecar")
	}
	if _, err := c.Similarity(context.Background(), design.Image{}, "x"); err == nil {
		t.Fatalf("expected error for empty image")
	}
}

func TestFigmaResolver_OGImage(t *testing.T) {
	images := imageServer(t)
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/file/AbC123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><meta property="og:image" content="` + images.URL + `/ok.png"></head></html>`))
	}))
	t.Cleanup(page.Close)

	r := NewFigmaResolver(NewHTTPFetcher(time.Second, 1<<20), FigmaOptions{PageBase: page.URL}, nil)
	img, err := r.Resolve(context.Background(), "https://www.figma.com/file/AbC123/Shop?node-id=0")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if img.Ref != images.URL+"/ok.png" || string(img.Data) != string(pngBytes) {
		t.Fatalf("unexpected image %+v", img.Ref)
	}
}

func TestFigmaResolver_NoPreview(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Figma</title></head></html>`))
	}))
	t.Cleanup(page.Close)

	r := NewFigmaResolver(NewHTTPFetcher(time.Second, 1<<20), FigmaOptions{PageBase: page.URL}, nil)
	if _, err := r.Resolve(context.Background(), "https://figma.com/file/xyz"); !errors.Is(err, ErrNoPreview) {
		t.Fatalf("expected ErrNoPreview, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), "https://example.com/not-figma"); err == nil {
		t.Fatalf("expected error for non-figma url")
	}
}
