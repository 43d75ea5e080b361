package pdf

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/redis/go-redis/v9"

	"foodgram-pages/internal/config"
	"foodgram-pages/internal/domain"
	"foodgram-pages/internal/infra/logging"
)

// RenderFunc prints an HTML document to PDF.
type RenderFunc func(ctx context.Context, html string) ([]byte, error)

// Service exports pages to PDF through headless Chrome and caches the result in Redis.
type Service struct {
	Config *config.Config
	Redis  *redis.Client

	render RenderFunc
}

// NewService creates a Service. rdb may be nil, which disables caching.
func NewService(cfg config.Config, rdb *redis.Client) *Service {
	svc := &Service{Config: &cfg, Redis: rdb}
	svc.render = svc.renderWithChrome
	return svc
}

// Enabled reports whether PDF export is switched on.
func (svc *Service) Enabled() bool {
	return svc.Config.PDF.Enabled
}

// Export returns the PDF for a page's HTML, serving a cached copy when possible.
func (svc *Service) Export(ctx context.Context, slug string, html []byte) ([]byte, error) {
	if !svc.Enabled() {
		return nil, domain.ErrPDFDisabled
	}

	key := svc.CacheKey(html)
	if cached := svc.getCached(ctx, key); cached != nil {
		logging.Info("PDF cache hit", "slug", slug, "key", key)
		return cached, nil
	}

	timeout := time.Duration(svc.Config.PDF.TimeoutSecs) * time.Second
	renderCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	buf, err := svc.render(renderCtx, string(html))
	if err != nil {
		return nil, err
	}
	if len(buf) > svc.Config.PDF.MaxPDFBytes {
		return nil, domain.ErrPDFTooLarge
	}

	svc.setCached(ctx, key, buf)
	logging.Info("PDF generated", "slug", slug, "bytes", len(buf))
	return buf, nil
}

// CacheKey covers the document and every print setting that changes the output.
func (svc *Service) CacheKey(html []byte) string {
	paper := svc.Config.PDF.Paper
	h := sha256.New()
	h.Write(html)
	h.Write([]byte(strconv.FormatFloat(paper.Width, 'f', 2, 64)))
	h.Write([]byte(strconv.FormatFloat(paper.Height, 'f', 2, 64)))
	h.Write([]byte(strconv.FormatFloat(svc.Config.PDF.Margin, 'f', 2, 64)))
	return "pdfcache:" + hex.EncodeToString(h.Sum(nil))
}

func (svc *Service) cacheEnabled() bool {
	return svc.Redis != nil && svc.Config.Cache.PDFCacheEnabled
}

func (svc *Service) getCached(ctx context.Context, key string) []byte {
	if !svc.cacheEnabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	cached, err := svc.Redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		logging.Warn("Redis read failed", "error", err)
		return nil
	}
	return cached
}

func (svc *Service) setCached(ctx context.Context, key string, data []byte) {
	if !svc.cacheEnabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	ttl := svc.Config.Cache.PDFCacheTTL
	if ttl <= 0 {
		ttl = 1 * time.Minute
	}
	if err := svc.Redis.Set(ctx, key, data, ttl).Err(); err != nil {
		logging.Warn("Redis write failed", "error", err)
	}
}

// renderWithChrome starts a throwaway Chrome instance for one document.
func (svc *Service) renderWithChrome(ctx context.Context, html string) ([]byte, error) {
	cfg := svc.Config.PDF

	tmpDir, err := os.MkdirTemp("", "chromedata-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp profile dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(tmpDir),
		// Force software rendering and avoid Vulkan/ANGLE issues in minimal container environments.
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-gpu-compositing", true),
		chromedp.Flag("disable-features", "Vulkan,UseSkiaRenderer"),
		chromedp.Flag("use-gl", "swiftshader"),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	if cfg.ChromeNoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	chromeCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	return printDocument(chromeCtx, html, cfg.Paper, cfg.Margin)
}

// printDocument loads html into the tab behind ctx and prints it.
func printDocument(ctx context.Context, html string, paper config.PaperSize, margin float64) ([]byte, error) {
	var buf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frame, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frame.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paper.Width).
				WithPaperHeight(paper.Height).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
