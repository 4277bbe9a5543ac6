package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/kda153882-hash/makuake-research/pkg/render"
	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// RSSSource は RSS/Atom フィードのアイテムを FeedItem に適合させます。
type RSSSource struct {
	client  render.Fetcher // インターフェースに依存
	feedURL string
}

// NewRSSSource は新しい RSSSource を初期化し、依存関係を注入します。
// *httpkit.Client は Fetcher インターフェースを満たしているため、そのまま代入可能です。
func NewRSSSource(client render.Fetcher, feedURL string) (*RSSSource, error) {
	if client == nil {
		return nil, fmt.Errorf("feed.NewRSSSource: Fetcher cannot be nil")
	}
	if feedURL == "" {
		return nil, fmt.Errorf("feed.NewRSSSource: feedURL cannot be empty")
	}
	return &RSSSource{client: client, feedURL: feedURL}, nil
}

// FetchAndParse は指定されたURLからフィードを取得し、パースします。
func (s *RSSSource) FetchAndParse(ctx context.Context) (*gofeed.Feed, error) {
	body, err := s.client.FetchBytes(ctx, s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得失敗 (URL: %s): %w", s.feedURL, err)
	}

	fp := gofeed.NewParser()
	feed, parseErr := fp.Parse(bytes.NewReader(body))
	if parseErr != nil {
		return nil, fmt.Errorf("RSSフィードのパース失敗 (URL: %s): %w", s.feedURL, parseErr)
	}
	return feed, nil
}

// Items はフィードを取得し、リンクを持つアイテムだけを返します。
func (s *RSSSource) Items(ctx context.Context) ([]types.FeedItem, error) {
	feed, err := s.FetchAndParse(ctx)
	if err != nil {
		return nil, err
	}
	return ItemsFromFeed(feed), nil
}

// ItemsFromFeed は gofeed.Feed のアイテムを FeedItem に変換します。
// タイトルと説明文を本文とし、content を親テキストとして扱います。
func ItemsFromFeed(feed *gofeed.Feed) []types.FeedItem {
	if feed == nil || len(feed.Items) == 0 {
		return []types.FeedItem{}
	}

	items := make([]types.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil || strings.TrimSpace(it.Link) == "" {
			continue
		}
		text := strings.TrimSpace(it.Title)
		if desc := htmlText(it.Description); desc != "" {
			text += "\n" + desc
		}
		items = append(items, types.FeedItem{
			URL:        strings.TrimSpace(it.Link),
			Text:       text,
			ParentText: htmlText(it.Content),
			ImageSrc:   itemImage(it),
		})
	}
	return items
}

func itemImage(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

// htmlText は説明文などに含まれるHTMLタグを取り除きます。
func htmlText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
