package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout  = 30 * time.Second
	defaultStartupTimeout = 20 * time.Second
	defaultMarginMM       = 10.0
	defaultScale          = 1.0

	// A4 dimensions in millimeters
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// StartupTimeout bounds how long to wait for Chrome to launch
	StartupTimeout time.Duration
	// ChromePath overrides the Chrome/Chromium binary location (optional)
	ChromePath string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// MarginMM is the default page margin in millimeters
	MarginMM float64
	// Scale for rendering (default: 1.0)
	Scale float64
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpRenderer renders HTML to PDF using Chrome DevTools Protocol.
//
// A single Chrome process is shared by all renders. It is launched lazily
// on the first call to Render; concurrent first callers block until the one
// launch attempt finishes. Each render runs in its own tab so a timed-out
// or failed render never affects other in-flight renders. If the Chrome
// process itself dies, the next render restarts it.
type ChromedpRenderer struct {
	config *ChromedpConfig
	logger *zap.Logger

	// launch starts a Chrome process; overridable in tests
	launch func() (*browserHandle, error)

	mu      sync.Mutex
	browser *browserHandle
	closed  bool
}

// browserHandle owns one running Chrome process
type browserHandle struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

func (h *browserHandle) close() {
	h.cancel()
	h.allocCancel()
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer.
// The browser process is not started until the first render.
func NewChromedpRenderer(config *ChromedpConfig) *ChromedpRenderer {
	if config == nil {
		config = &ChromedpConfig{}
	}

	// Set defaults
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	if config.StartupTimeout == 0 {
		config.StartupTimeout = defaultStartupTimeout
	}
	if config.MarginMM == 0 {
		config.MarginMM = defaultMarginMM
	}
	if config.Scale == 0 {
		config.Scale = defaultScale
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{
		config: config,
		logger: logger,
	}
	r.launch = r.launchChrome
	return r
}

// acquireBrowser returns the shared browser context, launching Chrome if
// needed. Concurrent callers serialize on the mutex, so at most one launch
// attempt runs at a time.
func (r *ChromedpRenderer) acquireBrowser() (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, NewRenderError(ErrCodeBackendUnavailable, "renderer is closed", nil)
	}
	if r.browser != nil && r.browser.ctx.Err() == nil {
		return r.browser.ctx, nil
	}

	r.teardownLocked()
	handle, err := r.launch()
	if err != nil {
		return nil, err
	}
	r.browser = handle

	r.logger.Info("chrome backend started",
		zap.Duration("startup_timeout", r.config.StartupTimeout))
	return handle.ctx, nil
}

// launchChrome starts a fresh Chrome process and verifies it is usable.
func (r *ChromedpRenderer) launchChrome() (*browserHandle, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		// Font rendering
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	if r.config.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)

	// Run an empty task so launch failures surface here rather than
	// mid-render, bounded by the startup timeout.
	startCtx, cancel := context.WithTimeout(browserCtx, r.config.StartupTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, NewRenderError(ErrCodeBackendUnavailable, "failed to start chrome", err)
	}

	return &browserHandle{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
	}, nil
}

// teardownLocked releases the current browser instance. Callers hold r.mu.
func (r *ChromedpRenderer) teardownLocked() {
	if r.browser != nil {
		r.browser.close()
		r.browser = nil
	}
}

// restart discards a dead browser so the next acquisition relaunches it.
func (r *ChromedpRenderer) restart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.teardownLocked()
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}

	browserCtx, err := r.acquireBrowser()
	if err != nil {
		return nil, err
	}

	result, err := r.renderOnce(ctx, browserCtx, req, timeout)
	if err == nil {
		return result, nil
	}

	// A dead browser context means the Chrome process itself went away
	// rather than this one render failing. Restart it and retry once.
	var rerr *RenderError
	if errors.As(err, &rerr) && rerr.Code == ErrCodeRenderFailed && browserCtx.Err() != nil {
		r.logger.Warn("chrome backend lost, restarting", zap.Error(err))
		r.restart()
		browserCtx, err = r.acquireBrowser()
		if err != nil {
			return nil, err
		}
		return r.renderOnce(ctx, browserCtx, req, timeout)
	}

	return nil, err
}

// renderOnce performs a single render attempt in a fresh tab.
func (r *ChromedpRenderer) renderOnce(ctx context.Context, browserCtx context.Context, req *RenderRequest, timeout time.Duration) (*RenderResult, error) {
	startTime := time.Now()

	// A new tab in the shared browser. Cancelling it closes only this tab.
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()

	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	// The tab descends from the shared browser, not the caller, so caller
	// cancellation has to be propagated by hand.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	printParams := r.buildPrintParams(req)

	var pdfData []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, req.HTML).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Chrome stamps document.title into the PDF metadata.
			if req.Title == "" {
				return nil
			}
			return chromedp.Evaluate(fmt.Sprintf("document.title = %q", req.Title), nil).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(printParams.paperWidth).
				WithPaperHeight(printParams.paperHeight).
				WithMarginTop(printParams.margin).
				WithMarginRight(printParams.margin).
				WithMarginBottom(printParams.margin).
				WithMarginLeft(printParams.margin).
				WithScale(printParams.scale).
				WithLandscape(printParams.landscape).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if ctx.Err() == context.Canceled {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}

		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed: "+err.Error(), err)
	}

	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	pageCount := estimatePageCount(pdfData)
	renderDuration := time.Since(startTime)

	r.logger.Info("PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pageCount),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        pdfData,
		PageCount:      pageCount,
		RenderDuration: renderDuration,
	}, nil
}

// printParams holds the parameters for PDF printing
type printParams struct {
	paperWidth  float64
	paperHeight float64
	margin      float64
	scale       float64
	landscape   bool
}

// buildPrintParams constructs the print parameters from the render request.
// Chrome expects all dimensions in inches.
func (r *ChromedpRenderer) buildPrintParams(req *RenderRequest) *printParams {
	marginMM := req.MarginMM
	if marginMM == 0 {
		marginMM = r.config.MarginMM
	}

	return &printParams{
		paperWidth:  mmToInches(a4WidthMM),
		paperHeight: mmToInches(a4HeightMM),
		margin:      mmToInches(marginMM),
		scale:       r.config.Scale,
		landscape:   req.Landscape,
	}
}

// Close shuts down the browser process and releases all resources.
// It is safe to call multiple times.
func (r *ChromedpRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.teardownLocked()

	r.logger.Info("chrome backend stopped")
	return nil
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// Ensure ChromedpRenderer implements PDFRenderer
var _ PDFRenderer = (*ChromedpRenderer)(nil)
