/*
Package ledger は、抽出・付加情報を含むプロジェクト行を永続的な台帳に追記し、
次回実行時の重複排除に使う既出URLを読み出します。

列の並び (A〜I): 日付, 画像, タイトル(リンク), 応援購入総額, URL,
Amazon判定, 楽天判定, 仕入れリンク, 翻訳キーワード。
*/
package ledger

import (
	"strings"
	"time"

	"github.com/kda153882-hash/makuake-research/pkg/currency"
	"github.com/kda153882-hash/makuake-research/pkg/market"
	"github.com/kda153882-hash/makuake-research/pkg/sourcing"
	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// DateLayout は日付列の書式です。
const DateLayout = "2006-01-02"

// URLColumn は既出URLの読み出しに使う列 (E列) です。
const URLColumn = "E"

// Header は台帳の見出し行です。
var Header = []string{"日付", "画像", "タイトル", "応援購入総額", "URL", "Amazon", "楽天", "仕入れ", "翻訳キーワード"}

// Row は台帳の1行分です。
type Row struct {
	Date          time.Time
	URL           string
	Title         string
	ImageURL      string
	FundingAmount int64
	Funding       string // 表示用の金額
	Amazon        types.MarketCheckResult
	Rakuten       types.MarketCheckResult
	Sourcing      sourcing.Links
	OriginHint    string
}

// BuildRow は、レコードと付加情報から台帳の行を組み立てます。
// translated が元のキーワードと同じ場合、翻訳キーワード列は空になります。
func BuildRow(now time.Time, rec types.ProjectRecord, checks []types.MarketCheckResult, links sourcing.Links, keyword, translated string) Row {
	row := Row{
		Date:          now,
		URL:           rec.URL,
		Title:         rec.Title,
		ImageURL:      rec.ImageURL,
		FundingAmount: rec.FundingAmount,
		Funding:       currency.Format(rec.FundingAmount),
		Sourcing:      links,
	}
	for _, c := range checks {
		switch c.Marketplace {
		case market.Amazon.Name:
			row.Amazon = c
		case market.Rakuten.Name:
			row.Rakuten = c
		}
	}
	if t := strings.TrimSpace(translated); t != "" && t != strings.TrimSpace(keyword) {
		row.OriginHint = t
	}
	return row
}

// DateString は日付列の値を返します。
func (r Row) DateString() string {
	return r.Date.Format(DateLayout)
}

// Cells は数式を含まないプレーンテキストの列値です。
func (r Row) Cells() []string {
	return []string{
		r.DateString(),
		r.ImageURL,
		r.Title,
		r.Funding,
		r.URL,
		marketCell(r.Amazon),
		marketCell(r.Rakuten),
		r.Sourcing.String(),
		r.OriginHint,
	}
}

// SheetValues は USER_ENTERED で書き込むための列値です。
// 画像とタイトルはスプレッドシートの数式になります。
func (r Row) SheetValues() []interface{} {
	cells := r.Cells()
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	values[1] = imageFormula(r.ImageURL)
	values[2] = hyperlinkFormula(r.URL, r.Title)
	return values
}

func marketCell(c types.MarketCheckResult) string {
	if !c.Checked() {
		return ""
	}
	return c.State.Label() + "\n" + c.SearchURL
}

func imageFormula(u string) string {
	if u == "" {
		return ""
	}
	return `=IMAGE("` + escapeFormula(u) + `")`
}

func hyperlinkFormula(u, label string) string {
	if u == "" {
		return label
	}
	return `=HYPERLINK("` + escapeFormula(u) + `","` + escapeFormula(label) + `")`
}

// escapeFormula は数式の文字列リテラル内の二重引用符をエスケープします。
func escapeFormula(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
