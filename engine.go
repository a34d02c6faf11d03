package schedsim

import (
	"fmt"
	"sort"

	"github.com/markphelps/optional"
)

const (
	// hard cap on simulated ticks, the watchdog against runaway inputs
	MAX_ITERATIONS = 10000

	VERBOSE_ENGINE = false
)

// ------------------------------------------------------------------------------------------------
// SIMULATION ENGINE
// ------------------------------------------------------------------------------------------------

// Engine drives one discipline over one cloned workload, tick by tick.
// It is the sole mutator of proc state and owns its queues for the whole
// run; per tick it performs exactly one of {context-switch debit, execute
// one tick, stay idle}.
type Engine struct {
	cfg    Config
	policy *Policy

	procs  []*Proc // sorted by (arrival, pid)
	readyQ *Queue
	mlfq   *MultiQueue
	ioQ    *IOQueue

	currentTime  Ttick
	running      *Proc
	timeInSlice  int
	sliceQuantum optional.Int
	csRemaining  int
	arrivalIdx   int
	cpuBusyTicks int
	completed    int

	raw         []TimelineEntry
	transitions []Transition
}

func newEngine(procs []*Proc, d Discipline, cfg Config) *Engine {
	sorted := append([]*Proc(nil), procs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return tieBreak(sorted[i], sorted[j])
	})
	e := &Engine{
		cfg:         cfg,
		policy:      newPolicy(d, cfg),
		procs:       sorted,
		readyQ:      newQueue(),
		ioQ:         newIOQueue(),
		raw:         make([]TimelineEntry, 0),
		transitions: make([]Transition, 0),
	}
	if e.policy.multilevel {
		e.mlfq = newMultiQueue(cfg.Q1TimeQuantum, cfg.Q2TimeQuantum)
	}
	return e
}

func (e *Engine) emit(t Ttick, p *Proc, from, to ProcState) {
	e.transitions = append(e.transitions, Transition{Time: t, Pid: p.pid, From: from, To: to})
}

func (e *Engine) appendProcessTick(p *Proc) {
	entry := TimelineEntry{Tick: e.currentTime, Kind: PROCESS, Pid: optional.NewInt(int(p.pid))}
	if e.policy.multilevel {
		entry.Level = optional.NewInt(p.queueLevel)
	}
	e.raw = append(e.raw, entry)
}

func (e *Engine) appendTick(kind EntryKind) {
	e.raw = append(e.raw, TimelineEntry{Tick: e.currentTime, Kind: kind})
}

func (e *Engine) readyLen() int {
	if e.policy.multilevel {
		return e.mlfq.qlen()
	}
	return e.readyQ.qlen()
}

// admitReady places a proc into the ready structure and starts its stint.
func (e *Engine) admitReady(p *Proc, level int) {
	if e.policy.multilevel {
		e.mlfq.enqueue(p, level)
	} else {
		e.readyQ.enq(p)
	}
	p.enterReady(e.currentTime)
}

// run simulates until every proc terminated or the iteration cap hit.
func (e *Engine) run() error {
	for e.completed < len(e.procs) {
		if int(e.currentTime) >= e.cfg.MaxTicks {
			return &IterationCapError{Discipline: e.policy.discipline, Cap: e.cfg.MaxTicks}
		}
		e.admitArrivals()
		e.completeIO()
		if e.completed == len(e.procs) {
			break
		}
		if e.csRemaining > 0 {
			e.csRemaining -= 1
			e.appendTick(CONTEXT_SWITCH)
			e.currentTime += 1
			continue
		}
		e.checkPreemption()
		if e.policy.multilevel {
			e.mlfq.applyAgingPromotion(e.currentTime, e.cfg.AgingInterval)
		}
		e.dispatch()
		e.executeOrIdle()
		e.currentTime += 1
	}
	return nil
}

// admitArrivals moves every proc whose arrival time has come into the
// ready structure, in (arrival, pid) order. A proc whose first burst is
// I/O goes straight to the device.
func (e *Engine) admitArrivals() {
	for e.arrivalIdx < len(e.procs) && e.procs[e.arrivalIdx].arrivalTime <= e.currentTime {
		p := e.procs[e.arrivalIdx]
		e.arrivalIdx += 1
		if VERBOSE_ENGINE {
			fmt.Printf("t=%d admit %v\n", e.currentTime, p)
		}
		if len(p.bursts) > 0 && p.currentBurst().kind == IO {
			e.ioQ.add(p, p.remaining, e.currentTime)
			e.emit(e.currentTime, p, NEW, WAITING)
			continue
		}
		e.admitReady(p, 0)
		e.emit(e.currentTime, p, NEW, READY)
	}
}

// completeIO ages the device queue and readies the finished batch. On
// MLFQ the returning proc is promoted one level, floored at 0.
func (e *Engine) completeIO() {
	for _, p := range e.ioQ.tick(e.currentTime) {
		if !p.advanceBurst() {
			p.completionTime = e.currentTime
			p.state = TERMINATED
			e.completed += 1
			e.emit(e.currentTime, p, WAITING, TERMINATED)
			continue
		}
		level := p.queueLevel - 1
		e.admitReady(p, level)
		e.emit(e.currentTime, p, WAITING, READY)
	}
}

// checkPreemption displaces the running proc when its quantum is used
// up, when the discipline's predicate fires, or (MLFQ) when a higher
// level became runnable. Quantum expiry demotes; the other causes do not.
func (e *Engine) checkPreemption() {
	if e.running == nil {
		return
	}
	preempt := false
	usedFullQuantum := false
	if q, err := e.sliceQuantum.Get(); err == nil && e.timeInSlice >= q {
		preempt = true
		usedFullQuantum = true
	}
	if !preempt && e.policy.preempts != nil && e.policy.preempts(e) {
		preempt = true
	}
	if !preempt && e.policy.multilevel && e.mlfq.hasReadyAbove(e.running.queueLevel) {
		preempt = true
	}
	if !preempt {
		return
	}

	p := e.running
	if VERBOSE_ENGINE {
		fmt.Printf("t=%d preempt %v (full quantum %v)\n", e.currentTime, p, usedFullQuantum)
	}
	if e.policy.multilevel {
		if usedFullQuantum {
			p.queueLevel += 1
		}
		e.admitReady(p, p.queueLevel)
	} else {
		e.admitReady(p, 0)
	}
	e.emit(e.currentTime, p, RUNNING, READY)
	e.running = nil
	e.timeInSlice = 0
	e.sliceQuantum = optional.Int{}
	if e.cfg.ContextSwitchTime > 0 && e.completed < len(e.procs) {
		e.csRemaining = e.cfg.ContextSwitchTime
	}
}

// dispatch picks the next proc when the CPU is free and no switch debit
// is pending. The first pick of a proc fixes its response time.
func (e *Engine) dispatch() {
	if e.running != nil || e.csRemaining > 0 || e.readyLen() == 0 {
		return
	}
	var p *Proc
	if e.policy.multilevel {
		var quantum optional.Int
		p, _, quantum = e.mlfq.getNext()
		e.sliceQuantum = quantum
	} else {
		if e.policy.prepare != nil {
			e.policy.prepare(e)
		}
		p = e.readyQ.deq()
		e.sliceQuantum = e.policy.quantum
	}
	p.state = RUNNING
	e.running = p
	e.timeInSlice = 0
	if p.firstRunTick < 0 {
		p.firstRunTick = e.currentTime
	}
	if VERBOSE_ENGINE {
		fmt.Printf("t=%d dispatch %v quantum %v\n", e.currentTime, p, e.sliceQuantum.OrElse(-1))
	}
	e.emit(e.currentTime, p, READY, RUNNING)
}

// executeOrIdle burns the tick: a process tick when something runs, a
// context-switch tick when a preemption just charged one, an idle tick
// otherwise. A burst that hits zero is handled right here, at the end of
// the tick it finished in.
func (e *Engine) executeOrIdle() {
	if e.running == nil {
		if e.csRemaining > 0 {
			e.csRemaining -= 1
			e.appendTick(CONTEXT_SWITCH)
		} else {
			e.appendTick(IDLE)
		}
		return
	}

	p := e.running
	e.appendProcessTick(p)
	e.cpuBusyTicks += 1
	finished := p.executeTick()
	e.timeInSlice += 1
	if !finished {
		return
	}

	endOfTick := e.currentTime + 1
	if !p.advanceBurst() {
		p.completionTime = endOfTick
		p.state = TERMINATED
		e.completed += 1
		e.emit(endOfTick, p, RUNNING, TERMINATED)
	} else {
		e.ioQ.add(p, p.remaining, endOfTick)
		e.emit(endOfTick, p, RUNNING, WAITING)
	}
	e.running = nil
	e.timeInSlice = 0
	e.sliceQuantum = optional.Int{}
	if e.cfg.ContextSwitchTime > 0 && e.completed < len(e.procs) {
		e.csRemaining = e.cfg.ContextSwitchTime
	}
}
