package feed

import (
	"context"

	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// DefaultDiscoverURL は Makuake のプロジェクト検索ページです。
const DefaultDiscoverURL = "https://www.makuake.com/discover/projects/search/"

// Source は、フィード上のアンカー要素のリストを提供できる任意の型を表します。
// このインターフェースが抽象化の境界線となります。
type Source interface {
	Items(ctx context.Context) ([]types.FeedItem, error)
}
