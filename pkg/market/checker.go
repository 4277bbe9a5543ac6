package market

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kda153882-hash/makuake-research/pkg/render"
	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// DefaultCheckTimeout は、1回の検索ページ描画に許す時間です。
const DefaultCheckTimeout = 30 * time.Second

// Checker は Renderer を使って検索ページを開き、結果を分類します。
// 失敗はすべて CheckFailed に変換され、リトライは行いません。
type Checker struct {
	renderer render.Renderer
	timeout  time.Duration
	pacer    *Pacer
	logger   *zap.Logger
}

// CheckerOption は Checker の設定を変更する関数です。
type CheckerOption func(*Checker)

// WithTimeout は1回の確認のタイムアウトを設定します。
func WithTimeout(d time.Duration) CheckerOption {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPacer はリクエスト間隔を制御する Pacer を設定します。
func WithPacer(p *Pacer) CheckerOption {
	return func(c *Checker) {
		c.pacer = p
	}
}

// WithLogger はロガーを設定します。
func WithLogger(l *zap.Logger) CheckerOption {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChecker は Checker を初期化します。
func NewChecker(renderer render.Renderer, opts ...CheckerOption) (*Checker, error) {
	if renderer == nil {
		return nil, fmt.Errorf("market.NewChecker: Renderer cannot be nil")
	}
	c := &Checker{
		renderer: renderer,
		timeout:  DefaultCheckTimeout,
		pacer:    NewPacer(DefaultDelay),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Check は1つのマーケットプレイスでキーワードを検索し、判定結果を返します。
// SearchURL は結果の状態にかかわらず常に設定されます。
func (c *Checker) Check(ctx context.Context, m Marketplace, keyword string) types.MarketCheckResult {
	result := types.MarketCheckResult{
		Marketplace: m.Name,
		SearchURL:   m.SearchURL(keyword),
	}

	if err := c.pacer.Wait(ctx); err != nil {
		result.State = types.CheckFailed
		result.Err = err
		return result
	}

	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	page, err := c.renderer.Render(checkCtx, result.SearchURL)
	if err != nil {
		result.State = types.CheckFailed
		result.Err = fmt.Errorf("%s の確認に失敗しました: %w", m.Name, err)
		c.logger.Warn("マーケットプレイスの確認に失敗しました",
			zap.String("marketplace", m.ID),
			zap.String("url", result.SearchURL),
			zap.Error(err))
		return result
	}

	result.State = Classify(m, page.Title, page.BodyText())
	c.logger.Info("マーケットプレイスを確認しました",
		zap.String("marketplace", m.ID),
		zap.String("keyword", keyword),
		zap.Stringer("state", result.State))
	return result
}

// CheckAll は markets を順番に確認します。
func (c *Checker) CheckAll(ctx context.Context, keyword string, markets ...Marketplace) []types.MarketCheckResult {
	results := make([]types.MarketCheckResult, 0, len(markets))
	for _, m := range markets {
		results = append(results, c.Check(ctx, m, keyword))
	}
	return results
}
