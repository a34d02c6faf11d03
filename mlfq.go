package schedsim

import (
	"fmt"

	"github.com/markphelps/optional"
)

const N_MLFQ_LEVELS = 3

// ------------------------------------------------------------------------------------------------
// MULTILEVEL FEEDBACK QUEUE
// ------------------------------------------------------------------------------------------------

// MultiQueue is a fixed stack of ready queues. Level 0 is the highest
// priority. Every level but the last has a finite quantum; the last one
// has none, which is how "infinite" is spelled here.
type MultiQueue struct {
	levels []*Queue
	quanta []optional.Int
}

func newMultiQueue(q0, q1 int) *MultiQueue {
	mq := &MultiQueue{
		levels: make([]*Queue, N_MLFQ_LEVELS),
		quanta: []optional.Int{optional.NewInt(q0), optional.NewInt(q1), {}},
	}
	for i := range mq.levels {
		mq.levels[i] = newQueue()
	}
	return mq
}

func (mq *MultiQueue) String() string {
	str := ""
	for i, q := range mq.levels {
		str += fmt.Sprintf("L%d%v ", i, q)
	}
	return str
}

func (mq *MultiQueue) enqueue(p *Proc, level int) {
	if level < 0 {
		level = 0
	}
	if level >= len(mq.levels) {
		level = len(mq.levels) - 1
	}
	p.queueLevel = level
	mq.levels[level].enq(p)
}

// getNext scans from level 0 down and dequeues the head of the first
// non-empty level, returning it with the level and its quantum.
func (mq *MultiQueue) getNext() (*Proc, int, optional.Int) {
	for lvl, q := range mq.levels {
		if q.qlen() > 0 {
			return q.deq(), lvl, mq.quanta[lvl]
		}
	}
	return nil, -1, optional.Int{}
}

func (mq *MultiQueue) peek() (*Proc, int, optional.Int) {
	for lvl, q := range mq.levels {
		if p := q.peek(); p != nil {
			return p, lvl, mq.quanta[lvl]
		}
	}
	return nil, -1, optional.Int{}
}

// demote re-enqueues a proc one level down, clamped at the bottom.
func (mq *MultiQueue) demote(p *Proc) {
	mq.enqueue(p, p.queueLevel+1)
}

// requeue puts a proc back at the tail of its current level.
func (mq *MultiQueue) requeue(p *Proc) {
	mq.enqueue(p, p.queueLevel)
}

// hasReadyAbove reports whether any level strictly above the given one
// holds a runnable proc.
func (mq *MultiQueue) hasReadyAbove(level int) bool {
	for lvl := 0; lvl < level && lvl < len(mq.levels); lvl++ {
		if mq.levels[lvl].qlen() > 0 {
			return true
		}
	}
	return false
}

func (mq *MultiQueue) qlen() int {
	n := 0
	for _, q := range mq.levels {
		n += q.qlen()
	}
	return n
}

func (mq *MultiQueue) snapshot() [][]*Proc {
	snap := make([][]*Proc, len(mq.levels))
	for i, q := range mq.levels {
		snap[i] = q.snapshot()
	}
	return snap
}

// applyAgingPromotion lifts procs that have waited at a level >= 1 for at
// least one full interval, one level per elapsed interval, and restarts
// their wait. Level 0 procs have nowhere to go.
func (mq *MultiQueue) applyAgingPromotion(now Ttick, interval int) {
	if interval <= 0 {
		return
	}
	type move struct {
		p      *Proc
		target int
	}
	moves := make([]move, 0)
	for lvl := 1; lvl < len(mq.levels); lvl++ {
		for _, p := range mq.levels[lvl].snapshot() {
			if p.lastReadyTime < 0 {
				continue
			}
			k := int(now-p.lastReadyTime) / interval
			if k <= 0 {
				continue
			}
			target := lvl - k
			if target < 0 {
				target = 0
			}
			moves = append(moves, move{p: p, target: target})
		}
	}
	for _, m := range moves {
		mq.levels[m.p.queueLevel].remove(m.p.pid)
		m.p.lastReadyTime = now
		mq.enqueue(m.p, m.target)
	}
}
