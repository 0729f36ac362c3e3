package worker

import (
	"errors"
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := newQueue()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		if err := q.push(JobFunc(func() { got = append(got, i) })); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	if q.len() != 5 {
		t.Errorf("expected 5 items, got %d", q.len())
	}

	for range_i := 0; range_i < 5; range_i++ {
		job, ok := q.pop()
		if !ok {
			t.Fatal("expected a job")
		}
		job.Run()
	}

	for i, v := range got {
		if v != i {
			t.Errorf("expected %d at position %d, got %d", i, i, v)
		}
	}
}

func TestQueueCloseDrainsRemaining(t *testing.T) {
	q := newQueue()
	_ = q.push(JobFunc(func() {}))
	q.close()

	if err := q.push(JobFunc(func() {})); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}

	if _, ok := q.pop(); !ok {
		t.Error("expected buffered job after close")
	}
	if _, ok := q.pop(); ok {
		t.Error("expected closed signal once drained")
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := newQueue()
	got := make(chan bool, 1)

	go func() {
		_, ok := q.pop()
		got <- ok
	}()

	select {
	case <-got:
		t.Fatal("pop returned before any push")
	case <-time.After(20 * time.Millisecond):
	}

	_ = q.push(JobFunc(func() {}))

	select {
	case ok := <-got:
		if !ok {
			t.Error("expected a job")
		}
	case <-time.After(time.Second):
		t.Error("timeout waiting for pop")
	}
}

func TestQueueCloseWakesWaiters(t *testing.T) {
	q := newQueue()
	const waiters = 3
	got := make(chan bool, waiters)

	for range_i := 0; range_i < waiters; range_i++ {
		go func() {
			_, ok := q.pop()
			got <- ok
		}()
	}

	time.Sleep(10 * time.Millisecond)
	q.close()

	for range_i := 0; range_i < waiters; range_i++ {
		select {
		case ok := <-got:
			if ok {
				t.Error("expected closed signal")
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for waiter to wake")
		}
	}
}
