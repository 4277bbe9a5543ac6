package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFetcher はテスト用の Fetcher インターフェースの実装です。
type MockFetcher struct {
	htmlContent string
	fetchError  error
	calledURL   string
}

func (m *MockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calledURL = url
	if m.fetchError != nil {
		return nil, m.fetchError
	}
	return []byte(m.htmlContent), nil
}

func TestNewStatic(t *testing.T) {
	t.Run("error_with_nil_fetcher", func(t *testing.T) {
		s, err := NewStatic(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "Fetcher cannot be nil")
	})
}

func TestStaticRender(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fetcher := &MockFetcher{htmlContent: `<html><head><title> Amazon.co.jp : 防水 </title></head><body><p>結果</p></body></html>`}
		s, err := NewStatic(fetcher)
		require.NoError(t, err)

		page, err := s.Render(context.Background(), "https://www.amazon.co.jp/s?k=x")
		require.NoError(t, err)
		assert.Equal(t, "https://www.amazon.co.jp/s?k=x", fetcher.calledURL)
		assert.Equal(t, "Amazon.co.jp : 防水", page.Title)
		assert.Contains(t, page.HTML, "<p>結果</p>")
		assert.NoError(t, s.Close())
	})

	t.Run("fetch_error", func(t *testing.T) {
		s, err := NewStatic(&MockFetcher{fetchError: errors.New("network timeout")})
		require.NoError(t, err)

		page, err := s.Render(context.Background(), "https://example.com")
		assert.Nil(t, page)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "network timeout")
	})
}

func TestPageBodyText(t *testing.T) {
	page := &Page{
		URL: "https://example.com",
		HTML: `<html><head><title>t</title><style>.a{}</style></head>
<body><script>var x = "に一致する商品はありませんでした";</script><div>検索結果 12 件</div></body></html>`,
	}

	text := page.BodyText()
	assert.Contains(t, text, "検索結果 12 件")
	assert.False(t, strings.Contains(text, "に一致する商品はありませんでした"), "script の中身は本文に含めない")
}
