/*
Package dedup は、台帳に記録済みのプロジェクトURLとの照合を提供します。
*/
package dedup

import (
	"strings"

	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// Index は既出URLの追記専用集合です。縮小することはありません。
// 実行開始時に台帳から復元され、書き込み成功後にのみ拡張されます。
type Index struct {
	urls map[string]struct{}
}

// NewIndex は既存のURL一覧から Index を生成します。空白のみの値は無視されます。
func NewIndex(urls []string) *Index {
	idx := &Index{urls: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		idx.Add(u)
	}
	return idx
}

// Contains はURLが既出かどうかを返します。
func (i *Index) Contains(url string) bool {
	_, ok := i.urls[strings.TrimSpace(url)]
	return ok
}

// Add はURLを既出として登録します。
func (i *Index) Add(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	i.urls[url] = struct{}{}
}

// Len は登録済みURLの件数を返します。
func (i *Index) Len() int {
	return len(i.urls)
}

// Filter は Index に存在しないURLのレコードだけを返します。
// Index 自体は変更しません (書き込みが確定した時点で呼び出し側が Add します)。
func Filter(records []types.ProjectRecord, idx *Index) []types.ProjectRecord {
	if idx == nil {
		return records
	}
	var fresh []types.ProjectRecord
	for _, r := range records {
		if idx.Contains(r.URL) {
			continue
		}
		fresh = append(fresh, r)
	}
	return fresh
}
