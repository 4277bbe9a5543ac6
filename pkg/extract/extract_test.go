package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kda153882-hash/makuake-research/pkg/currency"
	"github.com/kda153882-hash/makuake-research/pkg/extract"
	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// ======================================================================
// タイトル抽出
// ======================================================================

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "sigil_prefix",
			text:     "【防水】アウトドア収納バッグ ¥2,000,000",
			expected: "【防水】アウトドア収納バッグ",
		},
		{
			name:     "sigil_prefix_keeps_leading_segment",
			text:     "最強の収納術 | BrandX バッグ ¥1,500,000",
			expected: "最強の収納術",
		},
		{
			name:     "full_width_sigil_and_separator",
			text:     "最強の収納術｜BrandX￥1,500,000",
			expected: "最強の収納術",
		},
		{
			name:     "first_legible_line",
			text:     "12日\nアウトドア収納バッグの新定番モデル\n2,000,000円",
			expected: "アウトドア収納バッグの新定番モデル",
		},
		{
			name:     "line_with_currency_is_rejected",
			text:     "応援購入総額 2,000,000円 達成しました\nサポーター 120人",
			expected: "応援購入総額 2,000,000円 達成しました サポーター 120人",
		},
		{
			name:     "raw_prefix_fallback",
			text:     "短い\n2,000,000円",
			expected: "短い 2,000,000円",
		},
		{
			name:     "raw_prefix_is_truncated",
			text:     "あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろ円",
			expected: "あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらり",
		},
		{
			name:     "sigil_at_start_falls_through",
			text:     "¥2,000,000\nアウトドア収納バッグの新定番モデル",
			expected: "アウトドア収納バッグの新定番モデル",
		},
		{
			name:     "empty_text",
			text:     "   ",
			expected: extract.UnknownTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := extract.ExtractTitle(tt.text, currency.Parse(tt.text))
			assert.Equal(t, tt.expected, title)
			assert.NotEmpty(t, title)
		})
	}
}

// ======================================================================
// レコード抽出
// ======================================================================

func TestNewExtractor(t *testing.T) {
	t.Run("success_with_default_config", func(t *testing.T) {
		e, err := extract.NewExtractor(extract.DefaultConfig())
		assert.NoError(t, err)
		assert.NotNil(t, e)
	})

	t.Run("error_with_non_positive_threshold", func(t *testing.T) {
		e, err := extract.NewExtractor(extract.Config{MinFunding: 0})
		assert.Error(t, err)
		assert.Nil(t, e)
		assert.Contains(t, err.Error(), "MinFunding")
	})
}

func TestExtract(t *testing.T) {
	const projectURL = "https://www.makuake.com/project/bag/"

	tests := []struct {
		name         string
		item         types.FeedItem
		expectedSkip types.SkipReason
		expected     *types.ProjectRecord
	}{
		{
			name:         "empty_url",
			item:         types.FeedItem{Text: "2,000,000円"},
			expectedSkip: types.EmptyURL,
		},
		{
			name:         "search_url_is_not_project",
			item:         types.FeedItem{URL: "https://www.makuake.com/discover/project/search/?q=bag", Text: "2,000,000円"},
			expectedSkip: types.NotProjectURL,
		},
		{
			name:         "listing_url_is_not_project",
			item:         types.FeedItem{URL: "https://www.makuake.com/discover/", Text: "2,000,000円"},
			expectedSkip: types.NotProjectURL,
		},
		{
			name:         "text_too_short",
			item:         types.FeedItem{URL: projectURL, Text: "詳細"},
			expectedSkip: types.TextTooShort,
		},
		{
			name:         "no_funding",
			item:         types.FeedItem{URL: projectURL, Text: "アウトドア収納バッグの新定番モデル"},
			expectedSkip: types.NoFunding,
		},
		{
			name:         "below_threshold",
			item:         types.FeedItem{URL: projectURL, Text: "アウトドア収納バッグ 500,000円"},
			expectedSkip: types.BelowThreshold,
		},
		{
			name: "accepted_with_image",
			item: types.FeedItem{
				URL:      projectURL,
				Text:     "【防水】アウトドア収納バッグ ¥2,000,000",
				ImageSrc: "https://cdn.makuake.com/img/bag.jpg?width=640&height=360",
			},
			expected: &types.ProjectRecord{
				URL:           projectURL,
				Title:         "【防水】アウトドア収納バッグ",
				FundingAmount: 2000000,
				ImageURL:      "https://cdn.makuake.com/img/bag.jpg",
			},
		},
		{
			name: "accepted_from_parent_text",
			item: types.FeedItem{
				URL:        projectURL,
				Text:       "アウトドア収納バッグの新定番モデル",
				ParentText: "アウトドア収納バッグの新定番モデル\n3,000,000円\n残り12日",
			},
			expected: &types.ProjectRecord{
				URL:           projectURL,
				Title:         "アウトドア収納バッグの新定番モデル",
				FundingAmount: 3000000,
			},
		},
		{
			name: "accepted_from_single_line_parent_text",
			item: types.FeedItem{
				URL:        projectURL,
				Text:       "超軽量アウトドアチェアの新定番モデル",
				ParentText: "超軽量アウトドアチェアの新定番モデル 2,000,000円 応援購入総額 残り12日",
			},
			expected: &types.ProjectRecord{
				URL:           projectURL,
				Title:         "超軽量アウトドアチェアの新定番モデル",
				FundingAmount: 2000000,
			},
		},
		{
			name: "parent_text_is_cut_before_amount",
			item: types.FeedItem{
				URL:        projectURL,
				Text:       "詳細を見る",
				ParentText: "折りたたみ電動自転車 | E-Bike 2,000,000円 残り12日",
			},
			expected: &types.ProjectRecord{
				URL:           projectURL,
				Title:         "折りたたみ電動自転車",
				FundingAmount: 2000000,
			},
		},
		{
			name: "threshold_is_inclusive",
			item: types.FeedItem{URL: projectURL, Text: "ちょうど百万円の企画 1,000,000円"},
			expected: &types.ProjectRecord{
				URL:           projectURL,
				Title:         "ちょうど百万円の企画 1,000,000円",
				FundingAmount: 1000000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := extract.NewExtractor(extract.DefaultConfig())
			require.NoError(t, err)

			res := e.Extract(tt.item)
			if tt.expected == nil {
				assert.Nil(t, res.Record)
				assert.Equal(t, tt.expectedSkip, res.Skip)
				return
			}
			require.NotNil(t, res.Record, "skip reason: %s", res.Skip)
			assert.Equal(t, *tt.expected, *res.Record)
			assert.Equal(t, types.NotSkipped, res.Skip)
		})
	}
}

func TestExtractDuplicateInPass(t *testing.T) {
	e, err := extract.NewExtractor(extract.DefaultConfig())
	require.NoError(t, err)

	item := types.FeedItem{URL: "https://www.makuake.com/project/bag/", Text: "アウトドア収納バッグ ¥2,000,000"}
	first := e.Extract(item)
	second := e.Extract(item)

	assert.NotNil(t, first.Record)
	assert.Nil(t, second.Record)
	assert.Equal(t, types.DuplicateInPass, second.Skip)
}

func TestExtractRejectedURLIsNotMarkedSeen(t *testing.T) {
	e, err := extract.NewExtractor(extract.DefaultConfig())
	require.NoError(t, err)

	// 画像だけのアンカーが先に現れ、同じURLのテキスト付きアンカーが後に来るケース
	url := "https://www.makuake.com/project/bag/"
	first := e.Extract(types.FeedItem{URL: url, Text: ""})
	second := e.Extract(types.FeedItem{URL: url, Text: "アウトドア収納バッグ ¥2,000,000"})

	assert.Equal(t, types.TextTooShort, first.Skip)
	assert.NotNil(t, second.Record)
}

func TestExtractAll(t *testing.T) {
	e, err := extract.NewExtractor(extract.DefaultConfig())
	require.NoError(t, err)

	items := []types.FeedItem{
		{URL: "https://www.makuake.com/project/big/", Text: "大型プロジェクトの新製品 2,000,000円"},
		{URL: "https://www.makuake.com/project/small/", Text: "小型プロジェクトの新製品 500,000円"},
	}

	records, stats := e.ExtractAll(items)

	require.Len(t, records, 1)
	assert.Equal(t, "https://www.makuake.com/project/big/", records[0].URL)
	assert.Equal(t, int64(2000000), records[0].FundingAmount)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 1, stats.Skipped[types.BelowThreshold])
}

func TestNormalizeImageURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png", extract.NormalizeImageURL(" https://cdn.example.com/a.png?w=300 "))
	assert.Equal(t, "https://cdn.example.com/a.png", extract.NormalizeImageURL("https://cdn.example.com/a.png"))
	assert.Equal(t, "", extract.NormalizeImageURL(""))
}
