package worker

import "sync"

// queue は上限なしの FIFO ジョブキュー
// 送信側は Pool が、受信側は全ワーカーが mu を介して共有する
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Job
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push はジョブを末尾に追加し、待機中のワーカーを一つだけ起こす
func (q *queue) push(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrPoolClosed
	}
	q.items = append(q.items, job)
	q.cond.Signal()
	return nil
}

// pop は先頭のジョブを取り出す。空なら到着かクローズまでブロックする
// クローズ済みかつ空の場合のみ ok=false を返す
func (q *queue) pop() (job Job, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}

	job = q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return job, true
}

// close は以降の push を拒否し、待機中の全ワーカーを起こす
// 残っているジョブは引き続き pop で取り出せる
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
