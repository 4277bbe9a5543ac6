package types

// FeedItem は、描画済みフィードページ上のアンカー要素1つ分の生データです。
// ParentText は直上の親要素の textContent で、金額がアンカー外にある場合の再試行に使います。
type FeedItem struct {
	URL        string
	Text       string
	ParentText string
	ImageSrc   string // ネストされた img の src (存在しない場合は空)
}

// ProjectRecord は、フィードから抽出されたプロジェクト1件です。
// FundingAmount は円単位で、しきい値以上の場合にのみ生成されます。
type ProjectRecord struct {
	URL           string
	Title         string
	FundingAmount int64
	ImageURL      string // 空文字は画像なし
}

// HasImage は代表画像が見つかったかどうかを返します。
func (r ProjectRecord) HasImage() bool {
	return r.ImageURL != ""
}

// MarketState は、マーケットプレイス検索結果の判定状態です。
type MarketState int

const (
	Exists MarketState = iota
	NoResult
	BotBlocked
	CheckFailed
)

func (s MarketState) String() string {
	switch s {
	case Exists:
		return "Exists"
	case NoResult:
		return "NoResult"
	case BotBlocked:
		return "BotBlocked"
	case CheckFailed:
		return "CheckFailed"
	default:
		return "Unknown"
	}
}

// Label は台帳に書き込む表示用ラベルです。
func (s MarketState) Label() string {
	switch s {
	case Exists:
		return "⚠️ 既存品あり"
	case NoResult:
		return "🌊 ブルーオーシャン (該当なし)"
	case BotBlocked:
		return "🤖 ボット検知"
	case CheckFailed:
		return "❌ 確認失敗"
	default:
		return "?"
	}
}

// MarketCheckResult は、1つのマーケットプレイスに対する存在確認の結果です。
// SearchURL は失敗時も必ず設定され、人手での再確認に使えます。
type MarketCheckResult struct {
	Marketplace string
	State       MarketState
	SearchURL   string
	Err         error
}

// UncheckedLabel は確認していないマーケットプレイスの表示です。
const UncheckedLabel = "-"

// Checked は確認が行われたかどうかを返します。ゼロ値は未確認です。
func (r MarketCheckResult) Checked() bool {
	return r.SearchURL != ""
}

// Label は表示用ラベルを返します。未確認の場合は UncheckedLabel です。
func (r MarketCheckResult) Label() string {
	if !r.Checked() {
		return UncheckedLabel
	}
	return r.State.Label()
}

// SkipReason は、フィードアイテムが ProjectRecord にならなかった理由です。
type SkipReason int

const (
	NotSkipped SkipReason = iota
	EmptyURL
	NotProjectURL
	DuplicateInPass
	TextTooShort
	NoFunding
	BelowThreshold
)

func (r SkipReason) String() string {
	switch r {
	case NotSkipped:
		return "not_skipped"
	case EmptyURL:
		return "empty_url"
	case NotProjectURL:
		return "not_project_url"
	case DuplicateInPass:
		return "duplicate_in_pass"
	case TextTooShort:
		return "text_too_short"
	case NoFunding:
		return "no_funding"
	case BelowThreshold:
		return "below_threshold"
	default:
		return "unknown"
	}
}
