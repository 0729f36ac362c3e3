package worker

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"threadpool/internal/events"
	"threadpool/internal/logger"
	"threadpool/internal/metrics"
)

// PoolConfig はワーカープールの設定
type PoolConfig struct {
	ID             string           // プール識別子（空ならUUIDを採番）
	NumWorkers     int              // ワーカー数（1以上）
	RespawnOnPanic bool             // panicで停止したワーカーを同じIDで再起動する
	Logger         *logger.Logger   // nilなら logger.Default
	Metrics        *metrics.Metrics // nilなら新規作成
	Events         *events.Bus      // nilならイベントを発行しない
}

// Pool は固定数のワーカーと共有キューを管理する
type Pool struct {
	id      string
	queue   *queue
	workers []*worker
	respawn bool

	log     *logger.Logger
	metrics *metrics.Metrics
	events  *events.Bus

	// producer は送信側のハンドル。Close で nil になる
	mu       sync.RWMutex
	producer *queue

	live atomic.Int32
}

// NewPool は size 個のワーカーを持つプールを作成する
// size が 0 以下の場合は設定ミスとして panic する
func NewPool(size int) *Pool {
	p, err := NewPoolWithConfig(PoolConfig{NumWorkers: size})
	if err != nil {
		panic(err)
	}
	return p
}

// NewPoolWithConfig は設定を指定してプールを作成し、全ワーカーを起動する
func NewPoolWithConfig(config PoolConfig) (*Pool, error) {
	if config.NumWorkers <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, config.NumWorkers)
	}

	id := config.ID
	if id == "" {
		id = uuid.NewString()
	}
	log := config.Logger
	if log == nil {
		log = logger.Default
	}
	m := config.Metrics
	if m == nil {
		m = metrics.New()
	}

	q := newQueue()
	p := &Pool{
		id:       id,
		queue:    q,
		producer: q,
		respawn:  config.RespawnOnPanic,
		log:      log.Named("pool-" + shortID(id)),
		metrics:  m,
		events:   config.Events,
	}

	p.workers = make([]*worker, 0, config.NumWorkers)
	for i := 0; i < config.NumWorkers; i++ {
		p.workers = append(p.workers, spawnWorker(i, p))
	}

	p.log.Info("started with %d workers", config.NumWorkers)
	return p, nil
}

// Submit はジョブをキューに投入し、待機中のワーカーを一つ起こす
// キューは上限なしなので投入でブロックすることはない
// Close 開始後は ErrPoolClosed を返す
func (p *Pool) Submit(job Job) error {
	if isNilJob(job) {
		return ErrNilJob
	}

	p.mu.RLock()
	q := p.producer
	p.mu.RUnlock()

	if q == nil {
		p.metrics.RecordReject()
		return ErrPoolClosed
	}
	if err := q.push(job); err != nil {
		p.metrics.RecordReject()
		return err
	}

	p.metrics.RecordSubmit()
	return nil
}

// Execute は関数をジョブとして投入する
func (p *Pool) Execute(fn func()) error {
	if fn == nil {
		return ErrNilJob
	}
	return p.Submit(JobFunc(fn))
}

// Close は送信側をクローズし、全ワーカーの終了をID順に待つ
//
// キューに残ったジョブは全て実行されてからワーカーが終了する。タイムアウトは無く、
// 戻らないジョブがあると Close も戻らない。ジョブの中から呼ぶとデッドロックする。
// 2回目以降の呼び出しは何もせず nil を返す。
// 戻り値は各ワーカーで発生した *PanicError を errors.Join でまとめたもの。
func (p *Pool) Close() error {
	p.mu.Lock()
	q := p.producer
	p.producer = nil
	p.mu.Unlock()

	if q == nil {
		return nil
	}

	q.close()
	p.log.Info("closing; waiting for %d workers to drain", len(p.workers))

	var faults []error
	for _, w := range p.workers {
		p.log.Debug("shutting down worker %d", w.id)
		<-w.done
		faults = append(faults, w.faults...)
	}

	p.publish(events.NewPoolClosedEvent(p.id, len(faults)))

	if len(faults) > 0 {
		p.log.Warn("closed with %d job fault(s)", len(faults))
	} else {
		p.log.Info("closed")
	}
	return errors.Join(faults...)
}

// ID はプール識別子を返す
func (p *Pool) ID() string {
	return p.id
}

// NumWorkers は作成時のワーカー数を返す
func (p *Pool) NumWorkers() int {
	return len(p.workers)
}

// LiveWorkers は稼働中のワーカーゴルーチン数を返す
func (p *Pool) LiveWorkers() int {
	return int(p.live.Load())
}

// QueueSize は未取得のジョブ数を返す
func (p *Pool) QueueSize() int {
	return p.queue.len()
}

// Closed は Close が呼ばれたかを返す
func (p *Pool) Closed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.producer == nil
}

// Metrics はプールのメトリクスを返す
func (p *Pool) Metrics() *metrics.Metrics {
	return p.metrics
}

func (p *Pool) publish(event events.Event) {
	if p.events != nil {
		p.events.Publish(event)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
