package pagination

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// HeightSource 是外部的版面测量能力：返回渲染后内容区域的像素高度。
type HeightSource interface {
	MeasureHeight(ctx context.Context, targetURL, selector string) (float64, error)
}

// BrowserMeasurer 使用 go-rod 在无头浏览器中打开页面并读取内容高度。
type BrowserMeasurer struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewBrowserMeasurer 返回 BrowserMeasurer，timeout<=0 时默认 60 秒。
func NewBrowserMeasurer(logger *slog.Logger, timeout time.Duration) *BrowserMeasurer {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &BrowserMeasurer{logger: logger, timeout: timeout}
}

// MeasureHeight 读取 selector 对应元素的 scrollHeight；selector 为空时使用 body。
func (m *BrowserMeasurer) MeasureHeight(ctx context.Context, targetURL, selector string) (_ float64, err error) {
	if strings.TrimSpace(selector) == "" {
		selector = "body"
	}

	launch := launcher.New().
		Headless(true).
		NoSandbox(true)
	defer launch.Cleanup()

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return 0, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(browserURL).Context(ctx).Timeout(m.timeout)
	if err := browser.Connect(); err != nil {
		return 0, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	m.logger.Info("measuring rendered content height", slog.String("url", targetURL), slog.String("selector", selector))

	page, err := browser.Page(proto.TargetCreateTarget{URL: targetURL})
	if err != nil {
		return 0, fmt.Errorf("open page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	if err := page.WaitLoad(); err != nil {
		return 0, fmt.Errorf("wait load: %w", err)
	}

	element, err := page.Timeout(30 * time.Second).Element(selector)
	if err != nil {
		return 0, fmt.Errorf("find %q: %w", selector, err)
	}

	result, err := element.Eval(`() => this.scrollHeight`)
	if err != nil {
		return 0, fmt.Errorf("read scrollHeight: %w", err)
	}
	return result.Value.Num(), nil
}

// MeasurePages 测量高度并换算页数。
func MeasurePages(ctx context.Context, src HeightSource, targetURL, selector string, pageHeightPx float64) (pages int, heightPx float64, err error) {
	heightPx, err = src.MeasureHeight(ctx, targetURL, selector)
	if err != nil {
		return 0, 0, err
	}
	return EstimatePages(heightPx, pageHeightPx), heightPx, nil
}
