/*
Package market は、キーワード検索結果のページからマーケットプレイス上の既存品の有無を判定します。
判定は検索結果ページのタイトルと本文テキストに対する文字列照合のみで行います。
*/
package market

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// Marketplace は検索URLの組み立て方と「該当なし」の文言を持つ検索先です。
type Marketplace struct {
	ID                string
	Name              string
	SearchURLTemplate string // %s にキーワードが入る
	NoResultPhrases   []string
}

var (
	Amazon = Marketplace{
		ID:                "amazon",
		Name:              "Amazon",
		SearchURLTemplate: "https://www.amazon.co.jp/s?k=%s",
		NoResultPhrases:   []string{"に一致する商品はありませんでした"},
	}

	Rakuten = Marketplace{
		ID:                "rakuten",
		Name:              "楽天",
		SearchURLTemplate: "https://search.rakuten.co.jp/search/mall/%s/",
		NoResultPhrases:   []string{"に一致する商品は見つかりませんでした", "検索結果がありません"},
	}
)

// BotMarkers はページタイトルに含まれるとボット検知とみなす文字列です (大文字小文字は区別しない)。
var BotMarkers = []string{"captcha", "robot check", "ロボット"}

// Builtins は確認順に並んだ組み込みの検索先を返します。
func Builtins() []Marketplace {
	return []Marketplace{Amazon, Rakuten}
}

// ByID は ID から組み込みの検索先を探します。
func ByID(id string) (Marketplace, error) {
	for _, m := range Builtins() {
		if strings.EqualFold(m.ID, strings.TrimSpace(id)) {
			return m, nil
		}
	}
	return Marketplace{}, fmt.Errorf("未知のマーケットプレイスです: %s", id)
}

// SearchURL はキーワードを埋め込んだ検索URLを返します。
// %s がクエリ文字列内にあれば QueryEscape、パス内にあれば PathEscape を使います。
func (m Marketplace) SearchURL(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	q := strings.Index(m.SearchURLTemplate, "?")
	p := strings.Index(m.SearchURLTemplate, "%s")
	if q >= 0 && q < p {
		return fmt.Sprintf(m.SearchURLTemplate, url.QueryEscape(keyword))
	}
	return fmt.Sprintf(m.SearchURLTemplate, url.PathEscape(keyword))
}

// Classify は検索結果ページを判定します。
// ボット検知が最優先で、次に「該当なし」文言、どちらでもなければ既存品ありとします。
func Classify(m Marketplace, title, content string) types.MarketState {
	lowerTitle := strings.ToLower(title)
	for _, marker := range BotMarkers {
		if strings.Contains(lowerTitle, marker) {
			return types.BotBlocked
		}
	}
	for _, phrase := range m.NoResultPhrases {
		if phrase != "" && strings.Contains(content, phrase) {
			return types.NoResult
		}
	}
	return types.Exists
}
