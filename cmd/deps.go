package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kda153882-hash/makuake-research/internal/config"
	"github.com/kda153882-hash/makuake-research/internal/pipeline"
	"github.com/kda153882-hash/makuake-research/pkg/extract"
	"github.com/kda153882-hash/makuake-research/pkg/feed"
	"github.com/kda153882-hash/makuake-research/pkg/ledger"
	"github.com/kda153882-hash/makuake-research/pkg/market"
	"github.com/kda153882-hash/makuake-research/pkg/render"
	"github.com/kda153882-hash/makuake-research/pkg/retry"
	"github.com/kda153882-hash/makuake-research/pkg/translate"
)

// 依存関係の組み立て (DIコンテナの役割)

// addFetchFlags は、フィード取得とマーケットプレイス確認に関するフラグを追加します。
func addFetchFlags(c *cobra.Command) {
	f := c.Flags()
	f.String(config.KeyFeedURL, "", "フィードのURL (既定: Makuake の検索ページ)")
	f.String(config.KeySource, "", "フィードの種類 (page|rss)")
	f.String(config.KeyRenderer, "", "ページ描画方式 (browser|http)")
	f.Bool(config.KeyHeadless, true, "ブラウザをヘッドレスで起動する")
	f.Int64(config.KeyMinFunding, 0, "台帳に載せる最低応援購入総額 (円)")
	f.Duration(config.KeyDelay, 0, "マーケットプレイスへのリクエスト間隔")
	f.Duration(config.KeyCheckTimeout, 0, "マーケットプレイス確認1回あたりのタイムアウト")
}

// addStoreFlags は、台帳に関するフラグを追加します。
func addStoreFlags(c *cobra.Command) {
	f := c.Flags()
	f.String(config.KeyStore, "", "台帳の種類 (sheets|sqlite)")
	f.String(config.KeySheetID, "", "Google スプレッドシートID")
	f.String(config.KeySheetName, "", "書き込み先のシート名")
	f.String(config.KeySQLitePath, "", "SQLite 台帳のファイルパス")
}

// loadConfig はフラグと環境変数から設定を読み込み、検証します。
// withStore が false の場合、台帳関連の設定は検証しません。
func loadConfig(c *cobra.Command, withStore bool) (config.Config, error) {
	v := config.New()
	if err := config.BindFlags(v, c.Flags()); err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", pipeline.ErrSetup, err)
	}
	cfg := config.Load(v)

	validate := cfg.ValidateFetch
	if withStore {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return cfg, fmt.Errorf("%w: %w", pipeline.ErrSetup, err)
	}

	feedURL, err := ensureScheme(cfg.FeedURL)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", pipeline.ErrSetup, err)
	}
	cfg.FeedURL = feedURL
	return cfg, nil
}

// newFetcher は、HTTP取得用の共有フェッチャーを生成します。
func newFetcher() render.Fetcher {
	return render.NewHTTPFetcher(httpTimeout(), uint64(Flags.MaxRetries))
}

// newRenderer は設定に応じたレンダラーを生成します。呼び出し側で必ず Close してください。
func newRenderer(cfg config.Config, fetcher render.Fetcher) (render.Renderer, error) {
	switch cfg.Renderer {
	case config.RendererHTTP:
		s, err := render.NewStatic(fetcher)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pipeline.ErrSetup, err)
		}
		return s, nil
	default:
		opts := render.DefaultBrowserOptions()
		opts.Headless = cfg.Headless
		b, err := render.NewBrowser(opts, appLogger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pipeline.ErrSetup, err)
		}
		return b, nil
	}
}

// newSource は設定に応じたフィードソースを生成します。
func newSource(cfg config.Config, renderer render.Renderer, fetcher render.Fetcher) (feed.Source, error) {
	var (
		src feed.Source
		err error
	)
	switch cfg.Source {
	case config.SourceRSS:
		src, err = feed.NewRSSSource(fetcher, cfg.FeedURL)
	default:
		src, err = feed.NewPageSource(renderer, cfg.FeedURL, appLogger)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrSetup, err)
	}
	return src, nil
}

// newChecker はペース制御付きの MarketChecker を生成します。
func newChecker(cfg config.Config, renderer render.Renderer) (*market.Checker, error) {
	return market.NewChecker(renderer,
		market.WithTimeout(cfg.CheckTimeout),
		market.WithPacer(market.NewPacer(cfg.Delay)),
		market.WithLogger(appLogger),
	)
}

// newStore は設定に応じた台帳を生成します。呼び出し側で必ず Close してください。
func newStore(ctx context.Context, cfg config.Config) (ledger.Store, error) {
	var (
		store ledger.Store
		err   error
	)
	switch cfg.Store {
	case config.StoreSQLite:
		store, err = ledger.OpenSQLite(ctx, cfg.SQLitePath, appLogger)
	default:
		store, err = ledger.NewSheets(ctx, ledger.SheetsConfig{
			Credentials:   cfg.SheetsCredentials,
			SpreadsheetID: cfg.SheetID,
			SheetName:     cfg.SheetName,
			Retry:         retry.Config{MaxRetries: uint64(Flags.MaxRetries), InitialInterval: retry.InitialBackoffInterval, MaxInterval: retry.MaxBackoffInterval},
		}, appLogger)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrSetup, err)
	}
	return store, nil
}

// newTranslator は Gemini の Translator を生成します。
// APIキーがない場合や初期化に失敗した場合は翻訳を行いません。
func newTranslator(ctx context.Context, cfg config.Config) translate.Translator {
	if cfg.GeminiAPIKey == "" {
		appLogger.Info("GEMINI_API_KEY が未設定のため翻訳を行いません")
		return translate.Nop{}
	}
	g, err := translate.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		appLogger.Warn("翻訳クライアントの初期化に失敗しました。翻訳を行いません", zap.Error(err))
		return translate.Nop{}
	}
	return g
}

// extractConfig は RecordExtractor の設定を組み立てます。
func extractConfig(cfg config.Config) extract.Config {
	ec := extract.DefaultConfig()
	ec.MinFunding = cfg.MinFunding
	return ec
}
