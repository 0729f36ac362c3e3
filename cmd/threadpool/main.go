// Package main runs a worker pool against a synthetic workload.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"threadpool/internal/config"
	"threadpool/internal/events"
	"threadpool/internal/logger"
	"threadpool/internal/metrics"
	"threadpool/internal/worker"
)

var (
	version = "dev"
)

// options はコマンドラインで上書きできる値
type options struct {
	configFile  string
	workers     int
	jobs        int
	jobDuration time.Duration
	panicEvery  int
	logLevel    string
	metricsAddr string
	respawn     bool
}

func main() {
	var (
		opts        options
		showVersion bool
	)
	flag.StringVar(&opts.configFile, "config", "", "設定ファイルパス (YAML/JSON)")
	flag.IntVar(&opts.workers, "workers", 0, "ワーカー数 (設定ファイルより優先)")
	flag.IntVar(&opts.jobs, "jobs", 1000, "投入するジョブ数")
	flag.DurationVar(&opts.jobDuration, "job-duration", time.Millisecond, "1ジョブあたりの処理時間")
	flag.IntVar(&opts.panicEvery, "panic-every", 0, "N件ごとにpanicするジョブを混ぜる (0で無効)")
	flag.StringVar(&opts.logLevel, "log-level", "", "ログレベル (debug, info, warn, error)")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "Prometheus /metrics の待ち受けアドレス (例: :9090)")
	flag.BoolVar(&opts.respawn, "respawn", false, "panicで停止したワーカーを再起動する")
	flag.BoolVar(&showVersion, "version", false, "バージョンを表示")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `threadpool - fixed-size worker pool runner

Usage:
  threadpool [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # 4ワーカーで1000ジョブ
  threadpool --workers 4 --jobs 1000

  # 設定ファイルから実行し、メトリクスを公開
  threadpool --config pool.yaml --metrics-addr :9090

  # 100件に1件panicさせ、ワーカーを再起動
  threadpool --panic-every 100 --respawn
`)
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("threadpool version %s\n", version)
		return
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		logger.Error("設定エラー: %v", err)
		os.Exit(1)
	}

	if err := run(cfg, opts); err != nil {
		logger.Error("実行エラー: %v", err)
		os.Exit(1)
	}
}

// buildConfig は設定ファイルとフラグから設定を組み立てる
func buildConfig(opts options) (*config.FileConfig, error) {
	cfg := config.Default()

	if opts.configFile != "" {
		fileConfig, err := config.LoadFile(opts.configFile)
		if err != nil {
			return nil, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		cfg = fileConfig
	}

	// フラグでオーバーライド
	if opts.workers != 0 {
		cfg.Pool.Workers = opts.workers
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if opts.respawn {
		cfg.Pool.RespawnOnPanic = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定検証エラー: %w", err)
	}
	return cfg, nil
}

// run はプールを作成し、ジョブを投入して結果を表示する
func run(cfg *config.FileConfig, opts options) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger.Default.SetLevel(level)
	log := logger.Default.Named("threadpool")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			log.Warn("シグナル %v を受信、投入を中止してプールを閉じます", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	m := metrics.NewWithConfig(cfg.ToMetricsConfig())
	bus := events.NewBus()
	defer bus.Close()

	sub := bus.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logEvents(log.Named("events"), sub)
	}()

	pool, err := worker.NewPoolWithConfig(cfg.ToPoolConfig(logger.Default, m, bus))
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		stop, err := serveMetrics(cfg.Metrics.Addr, cfg.Namespace(), pool.ID(), m, log)
		if err != nil {
			_ = pool.Close()
			return err
		}
		defer stop()
	}

	fmt.Println("threadpool - fixed-size worker pool runner")
	fmt.Println("==========================================")
	fmt.Printf("Pool: %s\n", pool.ID())
	fmt.Printf("Workers: %d, Jobs: %d, Job duration: %v\n", pool.NumWorkers(), opts.jobs, opts.jobDuration)
	fmt.Printf("Respawn on panic: %v\n", cfg.Pool.RespawnOnPanic)
	fmt.Println("==========================================")

	submitted := submitJobs(ctx, pool, opts)

	start := time.Now()
	closeErr := pool.Close()
	drain := time.Since(start)

	bus.Close()
	wg.Wait()

	fmt.Println(report(m.Snapshot(), submitted, drain))

	if closeErr != nil {
		var pe *worker.PanicError
		if errors.As(closeErr, &pe) && opts.panicEvery > 0 {
			// 意図的に混ぜた panic は失敗扱いにしない
			log.Warn("ジョブ障害: %v", strings.ReplaceAll(closeErr.Error(), "\n", "; "))
			return nil
		}
		return closeErr
	}
	return nil
}

// submitJobs は合成ジョブを投入し、投入できた件数を返す
func submitJobs(ctx context.Context, pool *worker.Pool, opts options) int {
	submitted := 0
	for i := 0; i < opts.jobs; i++ {
		select {
		case <-ctx.Done():
			return submitted
		default:
		}

		job := sleepJob(opts.jobDuration)
		if opts.panicEvery > 0 && (i+1)%opts.panicEvery == 0 {
			job = panicJob(i)
		}

		if err := pool.Submit(job); err != nil {
			return submitted
		}
		submitted++
	}
	return submitted
}

func sleepJob(d time.Duration) worker.JobFunc {
	return func() {
		if d > 0 {
			time.Sleep(d)
		}
	}
}

func panicJob(n int) worker.JobFunc {
	return func() {
		panic(fmt.Sprintf("synthetic failure in job %d", n))
	}
}

// logEvents はイベントをデバッグログに流す
func logEvents(log *logger.Logger, ch <-chan events.Event) {
	for ev := range ch {
		if ev.Data.Error != "" {
			log.Debug("%s worker=%d error=%s", ev.Type, ev.WorkerID, ev.Data.Error)
			continue
		}
		log.Debug("%s worker=%d", ev.Type, ev.WorkerID)
	}
}

// serveMetrics は /metrics を公開し、停止関数を返す
func serveMetrics(addr, namespace, poolID string, m *metrics.Metrics, log *logger.Logger) (func(), error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector(namespace, m, prometheus.Labels{"pool": poolID})); err != nil {
		return nil, fmt.Errorf("failed to register collector: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// report は実行結果のレポートを作成する
func report(s metrics.Snapshot, submitted int, drain time.Duration) string {
	var b strings.Builder
	fmt.Fprintln(&b, "")
	fmt.Fprintln(&b, "Result")
	fmt.Fprintln(&b, "------------------------------------------")
	fmt.Fprintf(&b, "Submitted:   %d (accepted %d, rejected %d)\n", submitted, s.Submitted, s.Rejected)
	fmt.Fprintf(&b, "Completed:   %d\n", s.Completed)
	fmt.Fprintf(&b, "Panicked:    %d (respawns %d)\n", s.Panicked, s.Respawns)
	fmt.Fprintf(&b, "Throughput:  %.2f jobs/s\n", s.Throughput)
	fmt.Fprintf(&b, "Latency:     avg %v, p99 %v\n", s.AverageLatency, s.P99Latency)
	fmt.Fprintf(&b, "Drain time:  %v\n", drain)
	fmt.Fprintf(&b, "Elapsed:     %v", s.Elapsed)
	return b.String()
}
