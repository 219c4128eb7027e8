package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freelance-match/internal/domain/design"

	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const figmaBase = "https://www.figma.com"

var ErrNoPreview = errors.New("figma preview not found")

type FigmaOptions struct {
	PageBase      string
	ChromeEnabled bool
	ChromeTimeout time.Duration
}

// FigmaResolver finds a preview image for a Figma file: the page's og:image first, then a headless
// screenshot when Chrome is enabled.
type FigmaResolver struct {
	fetcher design.ImageFetcher
	opts    FigmaOptions
	logger  *zap.Logger
}

func NewFigmaResolver(fetcher design.ImageFetcher, opts FigmaOptions, logger *zap.Logger) *FigmaResolver {
	if opts.PageBase == "" {
		opts.PageBase = figmaBase
	}
	opts.PageBase = strings.TrimRight(opts.PageBase, "/")
	if opts.ChromeTimeout <= 0 {
		opts.ChromeTimeout = 25 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FigmaResolver{fetcher: fetcher, opts: opts, logger: logger}
}

func (r *FigmaResolver) Resolve(ctx context.Context, figmaURL string) (design.Image, error) {
	key, ok := design.FigmaFileKey(figmaURL)
	if !ok {
		return design.Image{}, fmt.Errorf("not a figma file url: %q", figmaURL)
	}
	page := r.opts.PageBase + "/file/" + key

	imageURL, err := r.ogImage(ctx, page)
	if err == nil {
		data, ferr := r.fetcher.Fetch(ctx, imageURL)
		if ferr == nil {
			return design.Image{Ref: imageURL, Data: data}, nil
		}
		err = ferr
	}
	r.logger.Debug("figma og:image unavailable", zap.String("file_key", key), zap.Error(err))

	if !r.opts.ChromeEnabled {
		return design.Image{}, err
	}
	data, serr := r.screenshot(ctx, page)
	if serr != nil {
		return design.Image{}, fmt.Errorf("figma screenshot: %w", serr)
	}
	return design.Image{Ref: page, Data: data}, nil
}

func (r *FigmaResolver) ogImage(ctx context.Context, page string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	c := colly.NewCollector(colly.UserAgent(userAgent))
	c.SetRequestTimeout(10 * time.Second)

	var found string
	c.OnHTML(`meta[property="og:image"], meta[name="twitter:image"]`, func(e *colly.HTMLElement) {
		if found != "" {
			return
		}
		if v := strings.TrimSpace(e.Attr("content")); v != "" {
			found = e.Request.AbsoluteURL(v)
		}
	})

	var reqErr error
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(page); err != nil {
		return "", err
	}
	c.Wait()
	if reqErr != nil {
		return "", reqErr
	}
	if found == "" {
		return "", ErrNoPreview
	}
	return found, nil
}

func (r *FigmaResolver) screenshot(ctx context.Context, page string) ([]byte, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1440, 900),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, r.opts.ChromeTimeout)
	defer reqCancel()

	var buf []byte
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(page),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, ErrNoPreview
	}
	return buf, nil
}

var _ design.FigmaPreviewResolver = (*FigmaResolver)(nil)
