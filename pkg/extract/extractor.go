package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kda153882-hash/makuake-research/pkg/currency"
	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// ----------------------------------------------------------------------
// 定数定義 (レコード抽出関連)
// ----------------------------------------------------------------------
const (
	// DefaultMinFunding は、台帳に載せる最低応援購入総額 (円)
	DefaultMinFunding = 1_000_000
	// DefaultMinTextLength は、アンカーテキストとして判読可能とみなす最小文字数
	DefaultMinTextLength = 5
	// DefaultProjectPathMarker は、プロジェクト詳細ページURLが必ず含むパス
	DefaultProjectPathMarker = "/project/"

	// separator は「キャッチコピー | 商品名」の区切り文字 (全角 ｜ は正規化で半角になる)
	separator = "|"
)

// DefaultExcludeMarkers は、検索・一覧ページURLを除外するための部分文字列です。
var DefaultExcludeMarkers = []string{"search"}

// Config は RecordExtractor の設定値です。
type Config struct {
	MinFunding        int64
	MinTextLength     int
	ProjectPathMarker string
	ExcludeMarkers    []string
}

// DefaultConfig は推奨されるデフォルト設定を返します。
func DefaultConfig() Config {
	return Config{
		MinFunding:        DefaultMinFunding,
		MinTextLength:     DefaultMinTextLength,
		ProjectPathMarker: DefaultProjectPathMarker,
		ExcludeMarkers:    DefaultExcludeMarkers,
	}
}

// Result は、フィードアイテム1件の抽出結果です。
// Record が nil の場合、Skip にその理由が入ります。
type Result struct {
	Record *types.ProjectRecord
	Skip   types.SkipReason
}

// Stats は1パス分の抽出結果の集計です。
type Stats struct {
	Total    int
	Accepted int
	Skipped  map[types.SkipReason]int
}

// Extractor は、1回の描画パスにおけるフィードアイテムを ProjectRecord に変換します。
// パス内の既出URLを保持するため、パスごとに NewExtractor で生成してください。
type Extractor struct {
	cfg  Config
	seen map[string]struct{}
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.MinFunding <= 0 {
		return nil, fmt.Errorf("extract.NewExtractor: MinFunding は正の値である必要があります: %d", cfg.MinFunding)
	}
	if cfg.ProjectPathMarker == "" {
		cfg.ProjectPathMarker = DefaultProjectPathMarker
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = DefaultMinTextLength
	}
	return &Extractor{
		cfg:  cfg,
		seen: make(map[string]struct{}),
	}, nil
}

// Extract は、フィードアイテム1件を検査し、条件を満たせば ProjectRecord を返します。
func (e *Extractor) Extract(item types.FeedItem) Result {
	url := strings.TrimSpace(item.URL)
	if url == "" {
		return skip(types.EmptyURL)
	}
	if !e.isProjectURL(url) {
		return skip(types.NotProjectURL)
	}
	if _, ok := e.seen[url]; ok {
		return skip(types.DuplicateInPass)
	}
	if utf8.RuneCountInString(strings.TrimSpace(item.Text)) < e.cfg.MinTextLength {
		return skip(types.TextTooShort)
	}

	// アンカー自身に金額がなければ、親要素のテキストで再試行する
	m, usedAncestor := currency.ParseWithFallback(item.Text, item.ParentText)
	if !m.Found() {
		return skip(types.NoFunding)
	}
	if m.Amount < e.cfg.MinFunding {
		return skip(types.BelowThreshold)
	}

	title := ExtractTitle(item.Text, m)
	if usedAncestor {
		title = titleForAncestorMatch(item.Text, item.ParentText, m)
	}

	e.seen[url] = struct{}{}
	return Result{
		Record: &types.ProjectRecord{
			URL:           url,
			Title:         title,
			FundingAmount: m.Amount,
			ImageURL:      NormalizeImageURL(item.ImageSrc),
		},
	}
}

// ExtractAll はフィードアイテムを順に処理し、採用されたレコードと集計を返します。
func (e *Extractor) ExtractAll(items []types.FeedItem) ([]types.ProjectRecord, Stats) {
	stats := Stats{
		Total:   len(items),
		Skipped: make(map[types.SkipReason]int),
	}
	var records []types.ProjectRecord
	for _, item := range items {
		res := e.Extract(item)
		if res.Record == nil {
			stats.Skipped[res.Skip]++
			continue
		}
		stats.Accepted++
		records = append(records, *res.Record)
	}
	return records, stats
}

// isProjectURL はプロジェクト詳細ページのURLかどうかを判定します。
func (e *Extractor) isProjectURL(url string) bool {
	if !strings.Contains(url, e.cfg.ProjectPathMarker) {
		return false
	}
	for _, marker := range e.cfg.ExcludeMarkers {
		if marker != "" && strings.Contains(url, marker) {
			return false
		}
	}
	return true
}

// NormalizeImageURL は、リサイズ用のクエリ文字列を取り除いた画像URLを返します。
func NormalizeImageURL(src string) string {
	src = strings.TrimSpace(src)
	if i := strings.Index(src, "?"); i >= 0 {
		src = src[:i]
	}
	return src
}

func skip(reason types.SkipReason) Result {
	return Result{Skip: reason}
}
