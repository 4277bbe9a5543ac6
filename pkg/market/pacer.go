package market

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay は、マーケットプレイスへのリクエスト間隔のデフォルト値です。
const DefaultDelay = 3 * time.Second

// Pacer は、連続するリクエストの間に固定の待機時間を挿入します。
// 最初の Wait は待機せずに戻ります。
type Pacer struct {
	delay time.Duration

	mu      sync.Mutex
	started bool
}

// NewPacer は Pacer を初期化します。delay が 0 以下の場合は待機しません。
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait は次のリクエストが許可されるまでブロックします。
// 待機中に ctx がキャンセルされた場合は ctx.Err() を返します。
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.delay <= 0 {
		p.started = true
		return nil
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		// 待機時間が経過し、リクエストが許可された
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
