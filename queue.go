package schedsim

import (
	"sort"
	"strings"
)

// ------------------------------------------------------------------------------------------------
// READY QUEUE
// ------------------------------------------------------------------------------------------------

// Queue holds the runnable procs. Every reordering is stable and shares
// the same tie-break chain: policy key first, then arrival time, then
// pid. That chain is what keeps runs reproducible.
type Queue struct {
	q []*Proc
}

func newQueue() *Queue {
	return &Queue{q: make([]*Proc, 0)}
}

func (q *Queue) String() string {
	parts := make([]string, 0, len(q.q))
	for _, p := range q.q {
		parts = append(parts, p.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (q *Queue) enq(p *Proc) {
	p.state = READY
	q.q = append(q.q, p)
}

func (q *Queue) deq() *Proc {
	if len(q.q) == 0 {
		return nil
	}
	p := q.q[0]
	q.q = q.q[1:]
	return p
}

func (q *Queue) peek() *Proc {
	if len(q.q) == 0 {
		return nil
	}
	return q.q[0]
}

// remove takes out the first entry with the given pid, or returns nil.
func (q *Queue) remove(pid Tpid) *Proc {
	for i, p := range q.q {
		if p.pid == pid {
			q.q = append(q.q[:i], q.q[i+1:]...)
			return p
		}
	}
	return nil
}

func (q *Queue) qlen() int {
	return len(q.q)
}

func (q *Queue) snapshot() []*Proc {
	return append([]*Proc(nil), q.q...)
}

// tieBreak orders by arrival time then pid, the shared tail of every
// sort chain.
func tieBreak(a, b *Proc) bool {
	if a.arrivalTime != b.arrivalTime {
		return a.arrivalTime < b.arrivalTime
	}
	return a.pid < b.pid
}

func (q *Queue) sortByArrival() {
	sort.SliceStable(q.q, func(i, j int) bool {
		return tieBreak(q.q[i], q.q[j])
	})
}

func (q *Queue) sortByBurstRemaining() {
	sort.SliceStable(q.q, func(i, j int) bool {
		a, b := q.q[i], q.q[j]
		if a.remaining != b.remaining {
			return a.remaining < b.remaining
		}
		return tieBreak(a, b)
	})
}

func (q *Queue) sortByPriority() {
	sort.SliceStable(q.q, func(i, j int) bool {
		a, b := q.q[i], q.q[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return tieBreak(a, b)
	})
}

// responseRatio is (waited + remaining) / remaining at time t. remaining
// is >= 1 here: a proc whose burst hit 0 has already advanced off it.
func responseRatio(p *Proc, t Ttick) float64 {
	rem := float64(p.remaining)
	return (float64(t-p.arrivalTime) + rem) / rem
}

func (q *Queue) sortByResponseRatio(t Ttick) {
	sort.SliceStable(q.q, func(i, j int) bool {
		a, b := q.q[i], q.q[j]
		ra, rb := responseRatio(a, t), responseRatio(b, t)
		if ra != rb {
			return ra > rb
		}
		return tieBreak(a, b)
	})
}

// applyAging lowers the effective priority of every waiting proc by one
// boost per full interval spent in the ready queue, floored at 0. It is
// recomputed from the stint base each pass, so repeated calls within the
// same stint do not compound.
func (q *Queue) applyAging(t Ttick, interval int, boost int) {
	if interval <= 0 {
		return
	}
	for _, p := range q.q {
		if p.lastReadyTime < 0 {
			continue
		}
		k := int(t-p.lastReadyTime) / interval
		if k <= 0 {
			continue
		}
		aged := p.agingBase - k*boost
		if aged < 0 {
			aged = 0
		}
		if aged < p.priority {
			p.priority = aged
		}
	}
}
