package ecs

import "sync"

type poolJob struct {
	fn   func()
	done *sync.WaitGroup
}

// workerPool is a fixed set of goroutines executing scheduler batch jobs.
// The tick goroutine submits a batch and blocks on the join; this is the only
// point in the core where two systems execute simultaneously.
type workerPool struct {
	size   int
	jobs   chan poolJob
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func newWorkerPool(size int) *workerPool {
	if size <= 0 {
		return nil
	}
	p := &workerPool{
		size:   size,
		jobs:   make(chan poolJob),
		closed: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job.fn()
			job.done.Done()
		case <-p.closed:
			return
		}
	}
}

// run submits the batch and blocks until every job completes. Jobs must not
// write overlapping state; the scheduler guarantees that through read/write
// set batching.
func (p *workerPool) run(fns []func()) {
	var done sync.WaitGroup
	done.Add(len(fns))
	for _, fn := range fns {
		select {
		case p.jobs <- poolJob{fn: fn, done: &done}:
		case <-p.closed:
			fn()
			done.Done()
		}
	}
	done.Wait()
}

func (p *workerPool) Close() {
	p.once.Do(func() {
		close(p.closed)
		p.wg.Wait()
	})
}
