package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected []string
	}{
		{
			name:     "brackets_and_trailing_segment",
			title:    "【防水】アウトドア収納バッグ | BrandX",
			expected: []string{"防水", "BrandX"},
		},
		{
			name:     "full_width_separator",
			title:    "【軽量】毎日使える｜FoldPack Pro",
			expected: []string{"軽量", "FoldPack Pro"},
		},
		{
			name:     "bounded_to_three_terms",
			title:    "【防水】【軽量】【大容量】【抗菌】収納バッグ",
			expected: []string{"防水", "軽量", "大容量"},
		},
		{
			name:     "duplicates_and_single_runes_dropped",
			title:    "【防水】【防水】【A】バッグ | 防水",
			expected: []string{"防水"},
		},
		{
			name:     "brackets_removed_from_trailing_segment",
			title:    "毎日が変わる | 【新作】FoldPack",
			expected: []string{"新作", "FoldPack"},
		},
		{
			name:     "leading_tokens_when_nothing_else",
			title:    "Smart Ring Gen2 for sleep",
			expected: []string{"Smart", "Ring"},
		},
		{
			name:     "single_token_title",
			title:    "アウトドア収納バッグ",
			expected: []string{"アウトドア収納バッグ"},
		},
		{
			name:     "empty_title",
			title:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Candidates(tt.title))
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("joined_with_single_space", func(t *testing.T) {
		kw := Extract("【防水】アウトドア収納バッグ | BrandX")
		assert.Equal(t, "防水 BrandX", kw)
		assert.Contains(t, kw, "防水")
		assert.Contains(t, kw, "BrandX")
	})

	t.Run("fallback_prefix", func(t *testing.T) {
		// 1文字トークンしかない場合はタイトル先頭20文字
		assert.Equal(t, "あ い う え お か き く け こ", Extract("あ い う え お か き く け こ さ し す"))
	})

	t.Run("fallback_short_title", func(t *testing.T) {
		assert.Equal(t, "A", Extract(" A "))
	})
}
