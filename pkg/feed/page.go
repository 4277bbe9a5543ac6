package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kda153882-hash/makuake-research/pkg/render"
	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// PageSource は描画済みの検索ページからアンカー要素を収集します。
type PageSource struct {
	renderer render.Renderer
	pageURL  *url.URL
	logger   *zap.Logger
}

// NewPageSource は、新しい PageSource を生成します。
func NewPageSource(renderer render.Renderer, pageURL string, logger *zap.Logger) (*PageSource, error) {
	if renderer == nil {
		return nil, fmt.Errorf("feed.NewPageSource: Renderer cannot be nil")
	}
	if pageURL == "" {
		pageURL = DefaultDiscoverURL
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("フィードURLの解析に失敗しました (URL: %s): %w", pageURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("フィードURLにホストがありません (URL: %s)", pageURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageSource{renderer: renderer, pageURL: u, logger: logger}, nil
}

// Items はページを描画し、すべての a[href] を FeedItem に変換します。
func (s *PageSource) Items(ctx context.Context) ([]types.FeedItem, error) {
	page, err := s.renderer.Render(ctx, s.pageURL.String())
	if err != nil {
		return nil, fmt.Errorf("フィードページの描画に失敗しました: %w", err)
	}
	doc, err := page.Document()
	if err != nil {
		return nil, err
	}

	items := ItemsFromDocument(doc, s.pageURL)
	s.logger.Info("フィードからリンクを収集しました", zap.String("url", s.pageURL.String()), zap.Int("anchors", len(items)))
	return items, nil
}

// ItemsFromDocument は、ドキュメント内のアンカーを base 基準の絶対URLで列挙します。
// 解決できない href は読み飛ばします。
func ItemsFromDocument(doc *goquery.Document, base *url.URL) []types.FeedItem {
	items := []types.FeedItem{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := resolve(base, href)
		if abs == "" {
			return
		}

		item := types.FeedItem{
			URL:  abs,
			Text: a.Text(),
		}
		if parent := a.Parent(); parent.Length() > 0 {
			item.ParentText = parent.Text()
		}
		if img := a.Find("img").First(); img.Length() > 0 {
			src := img.AttrOr("src", "")
			if src == "" {
				src = img.AttrOr("data-src", "")
			}
			item.ImageSrc = resolve(base, src)
		}
		items = append(items, item)
	})
	return items
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
