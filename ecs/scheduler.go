package ecs

import (
	"sync"
	"time"

	"github.com/TheBitDrifter/mask"
)

// System is one unit of simulation logic. Update runs once per scheduled
// tick; structural changes must go through the world's Defer APIs, never
// direct mutation, because sibling systems in the same batch run
// concurrently.
type System interface {
	Update(w *World, dt float64)
}

// SystemCreator is implemented by systems that want a callback when the
// scheduler registers them.
type SystemCreator interface {
	OnCreate(w *World)
}

// SystemDestroyer is implemented by systems that want a callback when the
// scheduler removes them.
type SystemDestroyer interface {
	OnDestroy(w *World)
}

type rateKind uint8

const (
	rateEveryTick rateKind = iota
	rateInterval
	rateManual
)

// Rate declares how often a system runs.
type Rate struct {
	kind     rateKind
	interval time.Duration
}

// EveryTick schedules the system on every tick.
func EveryTick() Rate {
	return Rate{kind: rateEveryTick}
}

// Every schedules the system at a fixed wall-clock interval. It runs on the
// first tick after the interval elapses.
func Every(interval time.Duration) Rate {
	return Rate{kind: rateInterval, interval: interval}
}

// ManualOnly schedules the system only when RunManual is called for it.
func ManualOnly() Rate {
	return Rate{kind: rateManual}
}

// SystemInfo declares a system's identity and scheduling contract: the
// component types it reads and writes, named shared resources it touches
// (spatial index, event buses, anything outside column storage), and its
// rate. These sets drive batch construction; an undeclared access is a data
// race waiting to happen.
type SystemInfo struct {
	Name           string
	Reads          []ComponentID
	Writes         []ComponentID
	ResourceReads  []string
	ResourceWrites []string
	Rate           Rate
}

type systemState struct {
	info          SystemInfo
	sys           System
	enabled       bool
	lastRun       time.Time
	manualPending bool
	readMask      mask.Mask
	writeMask     mask.Mask
	resReads      map[string]struct{}
	resWrites     map[string]struct{}

	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Enabled        bool
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// Scheduler buckets registered systems into conflict-free batches each tick
// and executes independent batches concurrently on a worker pool. Two systems
// may share a batch only when neither one's write set overlaps the other's
// read or write set. Batches run in registration-dependency order,
// sequentially between batches; the tick goroutine joins on each batch before
// starting the next.
type Scheduler struct {
	logger Logger
	pool   *workerPool

	mu      sync.Mutex
	systems []*systemState
	byName  map[string]*systemState
}

func newScheduler(logger Logger, workers int) *Scheduler {
	return &Scheduler{
		logger: logger,
		pool:   newWorkerPool(workers),
		byName: make(map[string]*systemState),
	}
}

func (s *Scheduler) create(w *World, ps pendingSystem) {
	s.mu.Lock()
	if _, exists := s.byName[ps.info.Name]; exists {
		s.mu.Unlock()
		s.logger.Warn("system already registered", "system", ps.info.Name)
		return
	}
	st := &systemState{
		info:        ps.info,
		sys:         ps.sys,
		enabled:     true,
		minDuration: time.Duration(1<<63 - 1),
	}
	for _, id := range ps.info.Reads {
		st.readMask.Mark(uint32(id))
	}
	for _, id := range ps.info.Writes {
		st.writeMask.Mark(uint32(id))
	}
	st.resReads = toSet(ps.info.ResourceReads)
	st.resWrites = toSet(ps.info.ResourceWrites)
	s.systems = append(s.systems, st)
	s.byName[ps.info.Name] = st
	s.mu.Unlock()

	if c, ok := ps.sys.(SystemCreator); ok {
		s.runCallback(ps.info.Name, "OnCreate", func() { c.OnCreate(w) })
	}
}

func (s *Scheduler) destroy(w *World, name string) {
	s.mu.Lock()
	st, ok := s.byName[name]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.byName, name)
	for i, existing := range s.systems {
		if existing == st {
			s.systems = append(s.systems[:i], s.systems[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if d, ok := st.sys.(SystemDestroyer); ok {
		s.runCallback(name, "OnDestroy", func() { d.OnDestroy(w) })
	}
}

func (s *Scheduler) runCallback(name, kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("system lifecycle callback panicked",
				"system", name, "callback", kind, "panic", r)
		}
	}()
	fn()
}

func (s *Scheduler) setEnabled(name string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.byName[name]; ok {
		st.enabled = enabled
	}
}

// RunManual marks the named manual-rate system to run on the next tick.
// Safe from any goroutine. Returns false if no such system is registered.
func (s *Scheduler) RunManual(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byName[name]
	if !ok {
		return false
	}
	st.manualPending = true
	return true
}

func (st *systemState) due(now time.Time) bool {
	switch st.info.Rate.kind {
	case rateEveryTick:
		return true
	case rateInterval:
		return now.Sub(st.lastRun) >= st.info.Rate.interval
	case rateManual:
		return st.manualPending
	}
	return false
}

func toSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func setsOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func conflicts(a, b *systemState) bool {
	if a.writeMask.ContainsAny(b.readMask) ||
		a.writeMask.ContainsAny(b.writeMask) ||
		b.writeMask.ContainsAny(a.readMask) {
		return true
	}
	return setsOverlap(a.resWrites, b.resReads) ||
		setsOverlap(a.resWrites, b.resWrites) ||
		setsOverlap(b.resWrites, a.resReads)
}

// buildBatches places each due system into the first batch after the last
// batch holding a conflicting system. Earlier-registered writers therefore
// always complete before later readers of the same components start.
func buildBatches(due []*systemState) [][]*systemState {
	var batches [][]*systemState
	for _, st := range due {
		last := -1
		for i, batch := range batches {
			for _, member := range batch {
				if conflicts(member, st) {
					last = i
					break
				}
			}
		}
		if last+1 < len(batches) {
			batches[last+1] = append(batches[last+1], st)
		} else {
			batches = append(batches, []*systemState{st})
		}
	}
	return batches
}

// runTick executes all due systems, batch by batch. Called by World.Tick.
func (s *Scheduler) runTick(w *World, dt float64) {
	now := time.Now()

	s.mu.Lock()
	due := make([]*systemState, 0, len(s.systems))
	for _, st := range s.systems {
		if st.enabled && st.due(now) {
			st.manualPending = false
			st.lastRun = now
			due = append(due, st)
		}
	}
	s.mu.Unlock()

	for _, batch := range buildBatches(due) {
		if len(batch) == 1 || s.pool == nil {
			for _, st := range batch {
				s.runSystem(w, st, dt)
			}
			continue
		}
		jobs := make([]func(), len(batch))
		for i, st := range batch {
			jobs[i] = func() { s.runSystem(w, st, dt) }
		}
		s.pool.run(jobs)
	}
}

// runSystem executes one system with panic recovery at the scheduler
// boundary: a panicking system is logged with its name and neither stops its
// siblings nor subsequent ticks.
func (s *Scheduler) runSystem(w *World, st *systemState, dt float64) {
	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("system panicked", "system", st.info.Name, "panic", r)
			}
		}()
		st.sys.Update(w, dt)
	}()
	duration := time.Since(start)

	s.mu.Lock()
	st.executionCount++
	st.lastDuration = duration
	st.totalDuration += duration
	if duration < st.minDuration {
		st.minDuration = duration
	}
	if duration > st.maxDuration {
		st.maxDuration = duration
	}
	s.mu.Unlock()
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}
	var totalExecs int64
	for i, st := range s.systems {
		avg := time.Duration(0)
		if st.executionCount > 0 {
			avg = st.totalDuration / time.Duration(st.executionCount)
		}
		stats.Systems[i] = SystemStats{
			Name:           st.info.Name,
			Enabled:        st.enabled,
			ExecutionCount: st.executionCount,
			MinDuration:    st.minDuration,
			MaxDuration:    st.maxDuration,
			AvgDuration:    avg,
			LastDuration:   st.lastDuration,
			TotalDuration:  st.totalDuration,
		}
		totalExecs += st.executionCount
	}
	stats.TotalExecutions = totalExecs
	return stats
}

// Close releases the worker pool.
func (s *Scheduler) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
