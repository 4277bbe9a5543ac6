package extract

import (
	"strings"
	"unicode/utf8"

	textUtils "github.com/shouni/go-utils/text"

	"github.com/kda153882-hash/makuake-research/pkg/currency"
)

// ----------------------------------------------------------------------
// 定数定義 (タイトル抽出関連)
// ----------------------------------------------------------------------
const (
	// MinTitleLineLength は、行をタイトルとして採用するための最小文字数 (これを超える必要がある)
	MinTitleLineLength = 10
	// TitlePrefixLength は、最終フォールバック時に先頭から切り出す文字数
	TitlePrefixLength = 40
	// UnknownTitle は、テキストが空の場合に返すタイトル
	UnknownTitle = "タイトル不明"
)

// titleStrategy はテキストからタイトル候補を導出する純粋関数です。
// fallback が true の戦略は、判読可能な候補が見つからなかった場合の推測です。
type titleStrategy struct {
	name     string
	fallback bool
	fn       func(text string, m currency.Match) (string, bool)
}

// titleStrategies は優先順位順に並んだタイトル抽出戦略です。
var titleStrategies = []titleStrategy{
	{name: "sigil_prefix", fn: titleBeforeSigil},
	{name: "first_legible_line", fn: titleFromFirstLegibleLine},
	{name: "raw_prefix", fallback: true, fn: titleFromRawPrefix},
}

// ExtractTitle は、金額を含むテキストから人が読めるタイトルを導出します。
// 戦略を順に試し、最初に成功したものを返します。空文字を返すことはありません。
func ExtractTitle(text string, m currency.Match) string {
	normalized := currency.Normalize(text)
	for _, s := range titleStrategies {
		if title, ok := s.fn(normalized, m); ok {
			return title
		}
	}
	return UnknownTitle
}

// legibleTitle は推測系の戦略を使わずにタイトルを導出します。
func legibleTitle(text string, m currency.Match) (string, bool) {
	normalized := currency.Normalize(text)
	for _, s := range titleStrategies {
		if s.fallback {
			continue
		}
		if title, ok := s.fn(normalized, m); ok {
			return title, true
		}
	}
	return "", false
}

// titleForAncestorMatch は、金額が親要素のテキストから見つかった場合のタイトルです。
// アンカー自身のテキストを優先し、親要素のテキストは金額より前の部分だけを使います。
func titleForAncestorMatch(anchorText, parentText string, m currency.Match) string {
	if title, ok := legibleTitle(anchorText, currency.Match{}); ok {
		return title
	}
	if title, ok := legibleTitle(parentText, m); ok {
		return title
	}
	if title, ok := titleBeforeAmount(currency.Normalize(parentText), m); ok {
		return title
	}
	return ExtractTitle(anchorText, currency.Match{})
}

// titleBeforeAmount は、マッチした金額の直前までを取り出し、区切り文字があれば先頭側を採用します。
// m.Index は Normalize 後のテキストに対する位置です。
func titleBeforeAmount(text string, m currency.Match) (string, bool) {
	if !m.Found() || m.Index <= 0 || m.Index > len(text) {
		return "", false
	}
	head := text[:m.Index]
	if sep := strings.Index(head, separator); sep >= 0 {
		head = head[:sep]
	}
	title := textUtils.NormalizeText(head)
	if title == "" {
		return "", false
	}
	return title, true
}

// titleBeforeSigil は ¥ の直前までを取り出し、区切り文字があれば先頭側を採用します。
// 「キャッチコピー | 商品名」のような表記では、キャッチコピー側がタイトルになります。
func titleBeforeSigil(text string, m currency.Match) (string, bool) {
	idx := strings.Index(text, currency.Sigil)
	if m.Marker == currency.MarkerSigil && m.Index >= 0 && m.Index <= len(text) {
		idx = m.Index
	}
	if idx < 0 {
		return "", false
	}

	head := text[:idx]
	if sep := strings.Index(head, separator); sep >= 0 {
		head = head[:sep]
	}
	title := textUtils.NormalizeText(head)
	if title == "" {
		return "", false
	}
	return title, true
}

// titleFromFirstLegibleLine は、通貨表記を含まない十分な長さの最初の行を採用します。
func titleFromFirstLegibleLine(text string, _ currency.Match) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || containsCurrency(line) {
			continue
		}
		if utf8.RuneCountInString(line) > MinTitleLineLength {
			return textUtils.NormalizeText(line), true
		}
	}
	return "", false
}

// titleFromRawPrefix は空白を正規化したテキストの先頭を切り出します。
func titleFromRawPrefix(text string, _ currency.Match) (string, bool) {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed == "" {
		return "", false
	}
	return truncateRunes(collapsed, TitlePrefixLength), true
}

func containsCurrency(s string) bool {
	return strings.Contains(s, currency.Suffix) || strings.Contains(s, currency.Sigil)
}

// truncateRunes は、マルチバイト文字を壊さないように先頭 n 文字を返します。
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
