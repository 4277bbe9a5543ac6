package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	DefaultRenderTimeout = 45 * time.Second
	DefaultSettleDelay   = 5 * time.Second
	DefaultScrollDelay   = 3 * time.Second
	DefaultScrollY       = 1000
)

// BrowserOptions はヘッドレス Chrome の起動・描画設定です。
type BrowserOptions struct {
	Headless    bool
	ExecPath    string // 空の場合は chromedp が PATH から探索する
	UserAgent   string
	Width       int
	Height      int
	Timeout     time.Duration // 1回の Render 全体のタイムアウト
	SettleDelay time.Duration // ナビゲーション後に JS の描画を待つ時間
	ScrollY     int           // 遅延読み込みを発火させるスクロール量 (0 でスクロールしない)
	ScrollDelay time.Duration
}

// DefaultBrowserOptions は推奨されるデフォルト設定を返します。
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Headless:    true,
		UserAgent:   UserAgent,
		Width:       1920,
		Height:      1080,
		Timeout:     DefaultRenderTimeout,
		SettleDelay: DefaultSettleDelay,
		ScrollY:     DefaultScrollY,
		ScrollDelay: DefaultScrollDelay,
	}
}

// Browser は chromedp による単一タブのブラウザセッションです。
// 実行中はパイプラインが排他的に所有し、終了時に必ず Close します。
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        BrowserOptions
	logger      *zap.Logger
	closeOnce   sync.Once
}

// NewBrowser はブラウザを起動し、最初のタブを開きます。
func NewBrowser(opts BrowserOptions, logger *zap.Logger) (*Browser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRenderTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.Width > 0 && opts.Height > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.Width, opts.Height))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// 引数なしの Run でブラウザプロセスを起動する
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("ブラウザの起動に失敗しました: %w", err)
	}
	logger.Debug("ブラウザを起動しました", zap.Bool("headless", opts.Headless))

	return &Browser{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
		logger:      logger,
	}, nil
}

// Render は URL に遷移し、描画完了を待ってから HTML とタイトルを取得します。
func (b *Browser) Render(ctx context.Context, url string) (*Page, error) {
	runCtx, cancel := context.WithTimeout(b.ctx, b.opts.Timeout)
	defer cancel()
	// 呼び出し側のキャンセルをタブ操作に伝播させる
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		title    string
		html     string
		scrolled bool
	)
	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.Sleep(b.opts.SettleDelay),
	}
	if b.opts.ScrollY > 0 {
		actions = append(actions,
			chromedp.Evaluate(fmt.Sprintf("window.scrollTo(0, %d); true", b.opts.ScrollY), &scrolled),
			chromedp.Sleep(b.opts.ScrollDelay),
		)
	}
	actions = append(actions,
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return nil, fmt.Errorf("ページの描画に失敗しました (URL: %s): %w", url, err)
	}
	b.logger.Debug("ページを描画しました", zap.String("url", url), zap.String("title", title), zap.Int("html_bytes", len(html)))

	return &Page{URL: url, Title: title, HTML: html}, nil
}

// Close はタブとブラウザプロセスを終了します。複数回呼び出しても安全です。
func (b *Browser) Close() error {
	b.closeOnce.Do(func() {
		b.cancel()
		b.allocCancel()
		b.logger.Debug("ブラウザを終了しました")
	})
	return nil
}
