package fdc

import (
	"context"
	"sync"
	"time"
)

// Throttle 對外請求的最小間隔節流器
// 所有組成資料庫請求共用一個節流器（全域單一節流，非逐端點），
// 互斥鎖在整個時間判斷期間持有，避免兩個併發呼叫者同時讀到
// 過期的「已經過時間」而以低於最小間隔的頻率發出請求
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	// 可替換的時鐘，測試時注入零延遲實作
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewThrottle 創建新的節流器
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait 阻塞呼叫者直到距離上一次請求已滿最小間隔，然後記錄本次請求時間
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.last.IsZero() {
		if wait := t.interval - now.Sub(t.last); wait > 0 {
			if err := t.sleep(ctx, wait); err != nil {
				return err
			}
			now = t.now()
		}
	}

	t.last = now
	return nil
}

// sleepContext 可被 context 取消的延遲
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
