package ledger

import (
	"context"
	"strings"
)

// Store は、台帳への追記と既出URLの読み出しを行う永続化層のインターフェースです。
type Store interface {
	// SeenURLs は台帳に記録済みのURLを返します。
	SeenURLs(ctx context.Context) ([]string, error)
	// Append は rows をまとめて追記します。全件成功した場合のみ nil を返します。
	Append(ctx context.Context, rows []Row) error
	Close() error
}

// isURL は見出しや空セルを除外するために使います。
func isURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
