package worker

import (
	"fmt"
	"runtime/debug"
	"time"

	"threadpool/internal/events"
	"threadpool/internal/logger"
)

// worker は一つのワーカーゴルーチンの記録
// done はゴルーチン終了時にクローズされ、Close はこれを待って join する
type worker struct {
	id   int
	pool *Pool
	log  *logger.Logger
	done chan struct{}

	// faults と restarts はワーカーゴルーチンだけが書き込み、done のクローズ後に読まれる
	faults   []error
	restarts int
}

// spawnWorker はワーカーを作成し、ゴルーチンを起動する
// 稼働数は起動前に加算するので、NewPool から戻った時点で全ワーカーが数えられている
func spawnWorker(id int, p *Pool) *worker {
	w := &worker{
		id:   id,
		pool: p,
		log:  p.log.Named(fmt.Sprintf("worker-%d", id)),
		done: make(chan struct{}),
	}

	p.live.Add(1)
	p.metrics.WorkerStarted()

	go w.run()

	w.log.Debug("created")
	return w
}

// run はワーカーゴルーチン本体
func (w *worker) run() {
	p := w.pool
	defer close(w.done)
	defer func() {
		p.live.Add(-1)
		p.metrics.WorkerStopped()
		p.publish(events.NewWorkerStoppedEvent(p.id, w.id))
	}()

	p.publish(events.NewWorkerStartedEvent(p.id, w.id))

	for {
		err := w.loop()
		if err == nil {
			w.log.Debug("queue closed; shutting down")
			return
		}

		w.faults = append(w.faults, err)
		w.log.Error("%v", err)
		p.publish(events.NewWorkerFaultedEvent(p.id, w.id, err))

		if !p.respawn {
			w.log.Warn("stopped after fault; pool now runs with reduced concurrency")
			return
		}

		w.restarts++
		p.metrics.RecordRespawn()
		p.publish(events.NewWorkerRespawnedEvent(p.id, w.id, w.restarts))
		w.log.Info("respawned (restart %d)", w.restarts)
	}
}

// loop はキューがクローズされるまでジョブを一つずつ実行する
// ジョブが panic した場合は *PanicError を返す
func (w *worker) loop() error {
	for {
		job, ok := w.pool.queue.pop()
		if !ok {
			return nil
		}

		w.log.Debug("got a job; executing")
		if err := w.execute(job); err != nil {
			return err
		}
	}
}

// execute はキューのロック外でジョブを同期実行する
func (w *worker) execute(job Job) (err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			w.pool.metrics.RecordPanic(time.Since(start))
			err = &PanicError{
				WorkerID: w.id,
				Value:    r,
				Stack:    debug.Stack(),
			}
			return
		}
		w.pool.metrics.RecordCompletion(time.Since(start))
	}()

	job.Run()
	return nil
}
