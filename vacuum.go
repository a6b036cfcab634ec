package fulltext

import (
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-uuid"
	"go.uber.org/zap"
)

// Future is the handle returned by an asynchronous operation (Vacuum,
// the auto-vacuum Discard triggers): a channel closed once to broadcast
// that the operation has completed.
type Future struct {
	done chan struct{}
}

// Done returns a channel that is closed once the operation completes.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the operation completes.
func (f *Future) Wait() { <-f.done }

func newFuture() (*Future, func()) {
	ch := make(chan struct{})
	return &Future{done: ch}, func() { close(ch) }
}

func resolvedFuture() *Future {
	f, resolve := newFuture()
	resolve()
	return f
}

// pendingVacuum is the single enqueued-but-not-yet-running vacuum: at
// most one pass runs at a time, and at most one more waits behind it.
type pendingVacuum struct {
	future     *Future
	resolve    func()
	conditions *VacuumConditions
	cfg        VacuumConfig
}

// vacuumScheduler is the vacuum scheduler (C5).
type vacuumScheduler[ID comparable] struct {
	idx *Index[ID]

	mu         sync.Mutex
	current    *Future
	enqueued   *pendingVacuum
	autoVacuum bool
	autoCfg    *AutoVacuumConfig
}

func newVacuumScheduler[ID comparable](idx *Index[ID], autoVacuum bool, autoCfg *AutoVacuumConfig) *vacuumScheduler[ID] {
	return &vacuumScheduler[ID]{idx: idx, autoVacuum: autoVacuum, autoCfg: autoCfg}
}

func (s *vacuumScheduler[ID]) setAutoVacuum(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoVacuum = on
}

func (s *vacuumScheduler[ID]) autoVacuumEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoVacuum
}

func (s *vacuumScheduler[ID]) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// narrowConditions combines two pending condition sets into the stricter
// (AND) of the two; either side being unconditional (nil) makes the
// result unconditional.
func narrowConditions(a, b *VacuumConditions) *VacuumConditions {
	if a == nil || b == nil {
		return nil
	}
	out := &VacuumConditions{MinDirtCount: a.MinDirtCount, MinDirtFactor: a.MinDirtFactor}
	if b.MinDirtCount > out.MinDirtCount {
		out.MinDirtCount = b.MinDirtCount
	}
	if b.MinDirtFactor > out.MinDirtFactor {
		out.MinDirtFactor = b.MinDirtFactor
	}
	return out
}

func (idx *Index[ID]) conditionsMet(cond *VacuumConditions) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if cond == nil {
		return true
	}
	return idx.dirtCount >= cond.MinDirtCount && idx.dirtFactorLocked() >= cond.MinDirtFactor
}

// Vacuum schedules a vacuum pass, honoring the single-in-flight/single-
// enqueued discipline above. A nil conditions runs unconditionally.
func (idx *Index[ID]) Vacuum(cfg VacuumConfig, conditions *VacuumConditions) *Future {
	return idx.scheduler.vacuum(cfg, conditions)
}

func (s *vacuumScheduler[ID]) vacuum(cfg VacuumConfig, cond *VacuumConditions) *Future {
	s.mu.Lock()
	if s.current != nil {
		if s.enqueued != nil {
			s.enqueued.conditions = narrowConditions(s.enqueued.conditions, cond)
			f := s.enqueued.future
			s.mu.Unlock()
			return f
		}
		f, resolve := newFuture()
		s.enqueued = &pendingVacuum{future: f, resolve: resolve, conditions: cond, cfg: cfg}
		s.mu.Unlock()
		return f
	}
	s.mu.Unlock()

	if cond != nil && !s.idx.conditionsMet(cond) {
		return resolvedFuture()
	}

	f, resolve := newFuture()
	s.mu.Lock()
	s.current = f
	s.mu.Unlock()
	go s.run(cfg, cond, f, resolve)
	return f
}

// maybeAutoVacuum schedules a vacuum pass using the configured
// auto-vacuum thresholds, or returns a no-op future if auto-vacuum is
// disabled.
func (s *vacuumScheduler[ID]) maybeAutoVacuum() *Future {
	if !s.autoVacuumEnabled() {
		return resolvedFuture()
	}
	cfg := VacuumConfig{BatchSize: s.autoCfg.BatchSize, BatchWait_ms: s.autoCfg.BatchWait_ms}
	cond := &VacuumConditions{MinDirtCount: s.autoCfg.MinDirtCount, MinDirtFactor: s.autoCfg.MinDirtFactor}
	return s.vacuum(cfg, cond)
}

func (s *vacuumScheduler[ID]) run(cfg VacuumConfig, cond *VacuumConditions, f *Future, resolve func()) {
	runID, _ := uuid.GenerateUUID()
	s.idx.logger.Log(LevelDebug, "vacuum pass starting", zap.String("run_id", runID))

	s.idx.vacuumPass(cfg, cond)

	// Trailing mandatory yield: the current->enqueued transition below
	// must only be observable to other goroutines after this point.
	runtime.Gosched()

	s.mu.Lock()
	next := s.enqueued
	s.enqueued = nil
	if next != nil {
		s.current = next.future
	} else {
		s.current = nil
	}
	s.mu.Unlock()

	s.idx.logger.Log(LevelDebug, "vacuum pass finished", zap.String("run_id", runID))
	resolve()

	if next != nil {
		go s.run(next.cfg, next.conditions, next.future, next.resolve)
	}
}

// vacuumPass is the vacuum body: if conditions are met, it walks every
// (term, field, doc) posting and drops references to short ids that are
// no longer live, batching cooperatively.
func (idx *Index[ID]) vacuumPass(cfg VacuumConfig, cond *VacuumConditions) {
	idx.mu.Lock()
	initialDirt := idx.dirtCount
	idx.mu.Unlock()

	if !idx.conditionsMet(cond) {
		return
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	wait := time.Duration(cfg.BatchWait_ms) * time.Millisecond

	idx.mu.Lock()
	terms := idx.postings.terms()
	idx.mu.Unlock()

	visited := 0
	for _, term := range terms {
		idx.mu.Lock()
		byField, ok := idx.postings.get(term)
		if ok {
			vacuumTerm(idx.registry, byField)
			if len(byField) == 0 {
				idx.postings.tree.Delete(term)
			}
		}
		idx.mu.Unlock()

		visited++
		if visited%batchSize == 0 {
			time.Sleep(wait)
		}
	}

	idx.mu.Lock()
	idx.dirtCount -= initialDirt
	if idx.dirtCount < 0 {
		idx.dirtCount = 0
	}
	idx.mu.Unlock()
}

// vacuumTerm drops every docmap entry referencing a non-live short id
// from byField, pruning empty field submaps eagerly. Called with idx.mu
// held.
func vacuumTerm[ID comparable](registry *docRegistry[ID], byField fieldPostings) {
	for field, byDoc := range byField {
		for short := range byDoc {
			if !registry.isLive(short) {
				delete(byDoc, short)
			}
		}
		if len(byDoc) == 0 {
			delete(byField, field)
		}
	}
}
