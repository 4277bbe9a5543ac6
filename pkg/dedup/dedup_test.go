package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kda153882-hash/makuake-research/pkg/types"
)

func TestNewIndex(t *testing.T) {
	idx := NewIndex([]string{"https://a/project/1/", " https://a/project/2/ ", "", "  ", "https://a/project/1/"})

	assert.Equal(t, 2, idx.Len())
	assert.True(t, idx.Contains("https://a/project/2/"))
	assert.False(t, idx.Contains("https://a/project/3/"))
}

func TestFilter(t *testing.T) {
	records := []types.ProjectRecord{
		{URL: "https://a/project/1/", Title: "one"},
		{URL: "https://a/project/2/", Title: "two"},
		{URL: "https://a/project/3/", Title: "three"},
	}

	t.Run("removes_known_urls", func(t *testing.T) {
		idx := NewIndex([]string{"https://a/project/2/"})
		fresh := Filter(records, idx)

		require.Len(t, fresh, 2)
		assert.Equal(t, "one", fresh[0].Title)
		assert.Equal(t, "three", fresh[1].Title)
	})

	t.Run("does_not_grow_index", func(t *testing.T) {
		idx := NewIndex(nil)
		_ = Filter(records, idx)
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("nil_index_passes_everything", func(t *testing.T) {
		assert.Len(t, Filter(records, nil), 3)
	})

	t.Run("idempotent_after_persist", func(t *testing.T) {
		idx := NewIndex(nil)
		first := Filter(records, idx)
		require.Len(t, first, 3)

		// 永続化が成功した後にのみ Index を拡張する
		for _, r := range first {
			idx.Add(r.URL)
		}
		assert.Empty(t, Filter(records, idx))
	})
}
