package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const defaultLatencySamples = 1000

// Config はメトリクスの設定
type Config struct {
	MaxLatencySamples int // P99計算用に保持するサンプル数
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{MaxLatencySamples: defaultLatencySamples}
}

// Metrics はワーカープールのジョブ実行メトリクスを収集する
type Metrics struct {
	submitted      atomic.Uint64
	rejected       atomic.Uint64
	completed      atomic.Uint64
	panicked       atomic.Uint64
	respawns       atomic.Uint64
	totalLatencyNs atomic.Uint64
	liveWorkers    atomic.Int64

	mu                sync.RWMutex
	startTime         time.Time
	latencies         []time.Duration
	maxLatencySamples int
}

// New は新しいメトリクスを作成する
func New() *Metrics {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig は設定を指定してメトリクスを作成する
func NewWithConfig(config Config) *Metrics {
	samples := config.MaxLatencySamples
	if samples <= 0 {
		samples = defaultLatencySamples
	}
	return &Metrics{
		startTime:         time.Now(),
		latencies:         make([]time.Duration, 0, samples),
		maxLatencySamples: samples,
	}
}

// RecordSubmit はキューに投入されたジョブを記録する
func (m *Metrics) RecordSubmit() {
	m.submitted.Add(1)
}

// RecordReject はクローズ後に拒否されたジョブを記録する
func (m *Metrics) RecordReject() {
	m.rejected.Add(1)
}

// RecordCompletion は正常終了したジョブを記録する
func (m *Metrics) RecordCompletion(latency time.Duration) {
	m.completed.Add(1)
	m.observe(latency)
}

// RecordPanic はpanicで終了したジョブを記録する
func (m *Metrics) RecordPanic(latency time.Duration) {
	m.panicked.Add(1)
	m.observe(latency)
}

// RecordRespawn はワーカーの再起動を記録する
func (m *Metrics) RecordRespawn() {
	m.respawns.Add(1)
}

// WorkerStarted は稼働中ワーカー数を増やす
func (m *Metrics) WorkerStarted() {
	m.liveWorkers.Add(1)
}

// WorkerStopped は稼働中ワーカー数を減らす
func (m *Metrics) WorkerStopped() {
	m.liveWorkers.Add(-1)
}

func (m *Metrics) observe(latency time.Duration) {
	m.totalLatencyNs.Add(uint64(latency.Nanoseconds()))

	m.mu.Lock()
	if len(m.latencies) < m.maxLatencySamples {
		m.latencies = append(m.latencies, latency)
	}
	m.mu.Unlock()
}

// Submitted は投入されたジョブ数を返す
func (m *Metrics) Submitted() uint64 {
	return m.submitted.Load()
}

// Rejected は拒否されたジョブ数を返す
func (m *Metrics) Rejected() uint64 {
	return m.rejected.Load()
}

// Completed は正常終了したジョブ数を返す
func (m *Metrics) Completed() uint64 {
	return m.completed.Load()
}

// Panicked はpanicしたジョブ数を返す
func (m *Metrics) Panicked() uint64 {
	return m.panicked.Load()
}

// Respawns はワーカーの再起動回数を返す
func (m *Metrics) Respawns() uint64 {
	return m.respawns.Load()
}

// LiveWorkers は稼働中のワーカー数を返す
func (m *Metrics) LiveWorkers() int64 {
	return m.liveWorkers.Load()
}

// Executed は実行済み（正常終了＋panic）のジョブ数を返す
func (m *Metrics) Executed() uint64 {
	return m.completed.Load() + m.panicked.Load()
}

// Pending は投入済みで未実行のジョブ数を返す
func (m *Metrics) Pending() uint64 {
	submitted := m.submitted.Load()
	executed := m.Executed()
	if executed > submitted {
		return 0
	}
	return submitted - executed
}

// Throughput は開始からの平均ジョブ実行数/秒を返す
func (m *Metrics) Throughput() float64 {
	elapsed := time.Since(m.startTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(m.Executed()) / elapsed
}

// AverageLatency は平均実行時間を返す
func (m *Metrics) AverageLatency() time.Duration {
	total := m.Executed()
	if total == 0 {
		return 0
	}
	return time.Duration(m.totalLatencyNs.Load() / total)
}

// P99Latency はP99実行時間を返す（サンプルベース）
func (m *Metrics) P99Latency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	idx := int(float64(len(sorted)) * 0.99)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Snapshot はメトリクスのスナップショット
type Snapshot struct {
	Submitted      uint64
	Rejected       uint64
	Completed      uint64
	Panicked       uint64
	Respawns       uint64
	Pending        uint64
	LiveWorkers    int64
	Throughput     float64
	AverageLatency time.Duration
	P99Latency     time.Duration
	Elapsed        time.Duration
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Submitted:      m.Submitted(),
		Rejected:       m.Rejected(),
		Completed:      m.Completed(),
		Panicked:       m.Panicked(),
		Respawns:       m.Respawns(),
		Pending:        m.Pending(),
		LiveWorkers:    m.LiveWorkers(),
		Throughput:     m.Throughput(),
		AverageLatency: m.AverageLatency(),
		P99Latency:     m.P99Latency(),
		Elapsed:        time.Since(m.startTime),
	}
}
