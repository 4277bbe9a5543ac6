/*
Package render は、URLを描画済みHTMLとして取得する外部協調者を抽象化します。
ブラウザセッションは並行ナビゲーションに対して安全ではないため、呼び出しは逐次に行ってください。
*/
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// UserAgent は、サイトからのブロックを避けるためのデスクトップ User-Agent です。
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Page は描画済みページのスナップショットです。
type Page struct {
	URL   string
	Title string
	HTML  string
}

// Renderer は、URLを描画して Page を返す機能のインターフェースを定義します。
type Renderer interface {
	Render(ctx context.Context, url string) (*Page, error)
	Close() error
}

// Document は Page の HTML を goquery.Document として解析します。
func (p *Page) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました (URL: %s): %w", p.URL, err)
	}
	return doc, nil
}

// BodyText は script/style を除いた body のテキストを返します。
// 解析に失敗した場合は生の HTML を返します。
func (p *Page) BodyText() string {
	doc, err := p.Document()
	if err != nil {
		return p.HTML
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	body.Find("script, style, noscript").Remove()
	return body.Text()
}

// titleFromHTML は HTML の <title> を取り出します。
func titleFromHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
