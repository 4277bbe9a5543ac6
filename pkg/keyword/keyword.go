/*
Package keyword は、ノイズの多いプロジェクトタイトルから外部検索向けの短いキーワードを導出します。
*/
package keyword

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kda153882-hash/makuake-research/pkg/currency"
)

const (
	// MaxTerms は結合するキーワードの最大数
	MaxTerms = 3
	// FallbackLength は候補が残らなかった場合にタイトル先頭から切り出す文字数
	FallbackLength = 20

	separator = "|"
)

var bracketPattern = regexp.MustCompile(`【([^【】]*)】`)

// strategy はタイトルからキーワード候補を集める純粋関数です。
// onlyIfEmpty が true の戦略は、それまでに候補が1つもない場合にのみ適用されます。
type strategy struct {
	name        string
	onlyIfEmpty bool
	fn          func(title string) []string
}

var strategies = []strategy{
	{name: "brackets", fn: bracketSegments},
	{name: "trailing_segment", fn: trailingSegment},
	{name: "leading_tokens", onlyIfEmpty: true, fn: leadingTokens},
}

// Candidates は、優先順位順・重複除去済みのキーワード候補を返します (最大 MaxTerms 件)。
func Candidates(title string) []string {
	normalized := currency.Normalize(title)

	var collected []string
	for _, s := range strategies {
		if s.onlyIfEmpty && len(collected) > 0 {
			continue
		}
		collected = append(collected, s.fn(normalized)...)
	}

	seen := make(map[string]struct{}, len(collected))
	var out []string
	for _, c := range collected {
		c = strings.TrimSpace(c)
		if utf8.RuneCountInString(c) <= 1 {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == MaxTerms {
			break
		}
	}
	return out
}

// Extract はタイトルを検索用のクエリ文字列に変換します。
func Extract(title string) string {
	if terms := Candidates(title); len(terms) > 0 {
		return strings.Join(terms, " ")
	}
	trimmed := strings.TrimSpace(title)
	if utf8.RuneCountInString(trimmed) <= FallbackLength {
		return trimmed
	}
	return strings.TrimSpace(string([]rune(trimmed)[:FallbackLength]))
}

// bracketSegments は【】で囲まれたカテゴリ・機能タグをすべて集めます。
func bracketSegments(title string) []string {
	var out []string
	for _, m := range bracketPattern.FindAllStringSubmatch(title, -1) {
		out = append(out, m[1])
	}
	return out
}

// trailingSegment は区切り文字の後ろ側 (通常は具体的な商品名) を返します。
func trailingSegment(title string) []string {
	idx := strings.LastIndex(title, separator)
	if idx < 0 {
		return nil
	}
	tail := bracketPattern.ReplaceAllString(title[idx+len(separator):], " ")
	tail = strings.Join(strings.Fields(tail), " ")
	if tail == "" {
		return nil
	}
	return []string{tail}
}

// leadingTokens は空白区切りの先頭2トークンを返します。
func leadingTokens(title string) []string {
	fields := strings.Fields(title)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return fields
}
