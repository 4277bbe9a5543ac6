package render

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// Fetcher は、HTMLドキュメントの生バイト配列を取得する機能のインターフェースを定義します。
// *httpkit.Client はこのインターフェースを満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Static は JavaScript を実行せずに HTTP GET の結果をそのまま Page として返します。
// サーバーサイドで描画されるページや RSS 取得、テストでの利用を想定しています。
type Static struct {
	fetcher Fetcher
}

// NewHTTPFetcher は、リトライ付きの httpkit クライアントを生成します。
func NewHTTPFetcher(timeout time.Duration, maxRetries uint64) *httpkit.Client {
	return httpkit.New(timeout, httpkit.WithMaxRetries(maxRetries))
}

// NewStatic は、新しい Static レンダラーを生成します。
func NewStatic(fetcher Fetcher) (*Static, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("render.NewStatic: Fetcher cannot be nil")
	}
	return &Static{fetcher: fetcher}, nil
}

// Render は URL のHTMLを取得し、<title> を解析して返します。
func (s *Static) Render(ctx context.Context, url string) (*Page, error) {
	body, err := s.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("ページの取得に失敗しました (URL: %s): %w", url, err)
	}
	html := string(body)
	return &Page{URL: url, Title: titleFromHTML(html), HTML: html}, nil
}

// Close は何もしません。
func (s *Static) Close() error {
	return nil
}
