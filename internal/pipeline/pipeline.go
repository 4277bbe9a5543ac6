package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kda153882-hash/makuake-research/pkg/dedup"
	"github.com/kda153882-hash/makuake-research/pkg/extract"
	"github.com/kda153882-hash/makuake-research/pkg/feed"
	"github.com/kda153882-hash/makuake-research/pkg/keyword"
	"github.com/kda153882-hash/makuake-research/pkg/ledger"
	"github.com/kda153882-hash/makuake-research/pkg/market"
	"github.com/kda153882-hash/makuake-research/pkg/notify"
	"github.com/kda153882-hash/makuake-research/pkg/sourcing"
	"github.com/kda153882-hash/makuake-research/pkg/translate"
	"github.com/kda153882-hash/makuake-research/pkg/types"
)

var (
	// ErrSetup は依存関係や設定の不備で実行を開始できないことを表します。
	ErrSetup = errors.New("初期化に失敗しました")
	// ErrFeed はフィードを取得できなかったことを表します。
	ErrFeed = errors.New("フィードの取得に失敗しました")
	// ErrPersist は台帳の読み書きに失敗したことを表します。
	ErrPersist = errors.New("台帳の読み書きに失敗しました")
)

// MarketChecker は、マーケットプレイス1件の存在確認を行う機能のインターフェースを定義します。
// *market.Checker はこのインターフェースを満たします。
type MarketChecker interface {
	Check(ctx context.Context, m market.Marketplace, keyword string) types.MarketCheckResult
}

// Options は Pipeline の依存関係と動作設定です。
type Options struct {
	Source     feed.Source
	Extract    extract.Config
	Checker    MarketChecker
	Markets    []market.Marketplace // nil の場合は market.Builtins()
	Translator translate.Translator // nil の場合は翻訳しない
	Sourcing   sourcing.Builder
	Store      ledger.Store
	Notifier   notify.Sender // nil の場合は通知しない
	Logger     *zap.Logger
	Now        func() time.Time
	DryRun     bool
}

// Report は1回の実行結果の集計です。
type Report struct {
	Items    int // フィードから収集したアイテム数
	Stats    extract.Stats
	Seen     int // 実行開始時の既出URL数
	Fresh    int // 重複排除後のレコード数
	Rows     []ledger.Row
	Appended int
	DryRun   bool
}

// Pipeline は、フィードの取得から台帳への追記までを逐次実行します。
type Pipeline struct {
	opts   Options
	digest *notify.DigestRenderer
	logger *zap.Logger
}

// New は依存関係を検証して Pipeline を生成します。
func New(opts Options) (*Pipeline, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("%w: フィードソースが指定されていません", ErrSetup)
	}
	if opts.Checker == nil {
		return nil, fmt.Errorf("%w: MarketChecker が指定されていません", ErrSetup)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: 台帳が指定されていません", ErrSetup)
	}
	if _, err := extract.NewExtractor(opts.Extract); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	if opts.Markets == nil {
		opts.Markets = market.Builtins()
	}
	if opts.Sourcing.KeywordTemplate == "" {
		opts.Sourcing = sourcing.NewBuilder()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Pipeline{
		opts:   opts,
		digest: notify.NewDigestRenderer(),
		logger: opts.Logger,
	}, nil
}

// Collect はフィードを取得し、しきい値を満たすレコードを抽出します。
// 台帳や外部サービスには触れません。
func Collect(ctx context.Context, src feed.Source, cfg extract.Config) ([]types.ProjectRecord, extract.Stats, error) {
	ex, err := extract.NewExtractor(cfg)
	if err != nil {
		return nil, extract.Stats{}, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	items, err := src.Items(ctx)
	if err != nil {
		return nil, extract.Stats{}, fmt.Errorf("%w: %w", ErrFeed, err)
	}
	records, stats := ex.ExtractAll(items)
	return records, stats, nil
}

// Run はパイプラインを1回実行します。
// 確認や翻訳の失敗は行の内容に反映して続行し、台帳の読み書きやフィード取得の失敗はエラーとして返します。
// ctx がキャンセルされた場合は台帳に書き込まずに終了します。
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{DryRun: p.opts.DryRun}

	seen, err := p.opts.Store.SeenURLs(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	idx := dedup.NewIndex(seen)
	report.Seen = idx.Len()
	p.logger.Info("既出URLを読み込みました", zap.Int("count", report.Seen))

	records, stats, err := Collect(ctx, p.opts.Source, p.opts.Extract)
	if err != nil {
		return report, err
	}
	report.Items = stats.Total
	report.Stats = stats
	for reason, n := range stats.Skipped {
		p.logger.Debug("スキップしたアイテム", zap.Stringer("reason", reason), zap.Int("count", n))
	}

	fresh := dedup.Filter(records, idx)
	report.Fresh = len(fresh)
	p.logger.Info("プロジェクトを抽出しました",
		zap.Int("items", stats.Total),
		zap.Int("accepted", stats.Accepted),
		zap.Int("new", len(fresh)))
	if len(fresh) == 0 {
		p.logger.Info("新しいプロジェクトはありません")
		return report, nil
	}

	now := p.opts.Now()
	rows := make([]ledger.Row, 0, len(fresh))
	for i, rec := range fresh {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		row := p.enrich(ctx, now, rec)
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rows = append(rows, row)
		p.logger.Info("プロジェクトを調査しました",
			zap.Int("n", i+1),
			zap.Int("total", len(fresh)),
			zap.String("title", rec.Title),
			zap.String("funding", row.Funding))
	}
	report.Rows = rows

	if p.opts.DryRun {
		p.logger.Info("ドライランのため台帳には書き込みません", zap.Int("rows", len(rows)))
		return report, nil
	}

	if err := p.opts.Store.Append(ctx, rows); err != nil {
		return report, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	for _, row := range rows {
		idx.Add(row.URL)
	}
	report.Appended = len(rows)
	p.logger.Info("台帳に追記しました", zap.Int("rows", report.Appended), zap.Int("seen", idx.Len()))

	p.notify(now, rows)
	return report, nil
}

// enrich はレコード1件にマーケットプレイス判定と仕入れリンクを付加します。
func (p *Pipeline) enrich(ctx context.Context, now time.Time, rec types.ProjectRecord) ledger.Row {
	kw := keyword.Extract(rec.Title)

	checks := make([]types.MarketCheckResult, 0, len(p.opts.Markets))
	for _, m := range p.opts.Markets {
		checks = append(checks, p.opts.Checker.Check(ctx, m, kw))
	}

	translated := translate.OrOriginal(ctx, p.opts.Translator, kw, p.logger)
	links := p.opts.Sourcing.Build(translated, rec.ImageURL)

	return ledger.BuildRow(now, rec, checks, links, kw, translated)
}

// notify は追記した行の一覧を送信します。失敗しても実行結果には影響しません。
func (p *Pipeline) notify(now time.Time, rows []ledger.Row) {
	if p.opts.Notifier == nil {
		return
	}
	msg, err := p.digest.Render(now, rows)
	if err != nil {
		p.logger.Warn("通知メールの生成に失敗しました", zap.Error(err))
		return
	}
	if err := p.opts.Notifier.Send(msg); err != nil {
		p.logger.Warn("通知メールの送信に失敗しました", zap.Error(err))
	}
}
