package compile

import (
	"context"
	"sync"
)

// Pool 固定大小的工作池。用緩衝 channel 當號誌限制併發度，
// 結果一律由呼叫端按原始索引收集，輸出順序與完成順序無關。
type Pool struct {
	slots chan struct{}
}

// NewPool 創建工作池
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// ForEach 併發執行 n 個任務，每個任務先取得一個槽位。
// fn 以索引呼叫，寫回預先配置的結果切片即可保序。
func (p *Pool) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case p.slots <- struct{}{}:
				defer func() { <-p.slots }()
				fn(ctx, i)
			case <-ctx.Done():
			}
		}(i)
	}
	wg.Wait()
	return ctx.Err()
}
