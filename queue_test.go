package schedsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyProc(pid Tpid, arrival Ttick, remaining, priority int) *Proc {
	p := newProc(ProcessSpec{Pid: pid, ArrivalTime: arrival, CpuBurst: remaining, Priority: priority})
	p.enterReady(arrival)
	return p
}

func pids(procs []*Proc) []Tpid {
	out := make([]Tpid, len(procs))
	for i, p := range procs {
		out[i] = p.pid
	}
	return out
}

func TestQueueFIFO(t *testing.T) {
	q := newQueue()
	assert.Nil(t, q.deq())

	q.enq(readyProc(1, 0, 5, 0))
	q.enq(readyProc(2, 0, 5, 0))
	q.enq(readyProc(3, 0, 5, 0))
	assert.Equal(t, 3, q.qlen())
	assert.Equal(t, Tpid(1), q.peek().pid)
	assert.Equal(t, Tpid(1), q.deq().pid)

	removed := q.remove(3)
	require.NotNil(t, removed)
	assert.Equal(t, Tpid(3), removed.pid)
	assert.Nil(t, q.remove(99))
	assert.Equal(t, []Tpid{2}, pids(q.snapshot()))
}

func TestSortByBurstRemainingTieBreak(t *testing.T) {
	q := newQueue()
	q.enq(readyProc(3, 1, 4, 0))
	q.enq(readyProc(1, 0, 4, 0)) // same remaining, earlier arrival
	q.enq(readyProc(2, 1, 2, 0))
	q.sortByBurstRemaining()
	assert.Equal(t, []Tpid{2, 1, 3}, pids(q.snapshot()))
}

func TestSortByPriorityPidTieBreak(t *testing.T) {
	q := newQueue()
	q.enq(readyProc(4, 0, 5, 1))
	q.enq(readyProc(2, 0, 5, 1))
	q.enq(readyProc(3, 0, 5, 0))
	q.sortByPriority()
	assert.Equal(t, []Tpid{3, 2, 4}, pids(q.snapshot()))
}

func TestSortByResponseRatio(t *testing.T) {
	q := newQueue()
	// at t=10: P1 waited 10 on a 5 burst -> 3.0; P2 waited 8 on 2 -> 5.0
	q.enq(readyProc(1, 0, 5, 0))
	q.enq(readyProc(2, 2, 2, 0))
	q.sortByResponseRatio(10)
	assert.Equal(t, []Tpid{2, 1}, pids(q.snapshot()))
}

func TestApplyAgingStepwise(t *testing.T) {
	q := newQueue()
	p := readyProc(1, 0, 5, 5)
	q.enq(p)

	q.applyAging(1, 2, 1)
	assert.Equal(t, 5, p.priority)
	q.applyAging(4, 2, 1)
	assert.Equal(t, 3, p.priority)
	// repeated passes at the same tick do not compound
	q.applyAging(4, 2, 1)
	assert.Equal(t, 3, p.priority)
	// floored at zero
	q.applyAging(100, 2, 1)
	assert.Equal(t, 0, p.priority)
	// disabled interval is a no-op
	p2 := readyProc(2, 0, 5, 5)
	q.enq(p2)
	q.applyAging(50, 0, 1)
	assert.Equal(t, 5, p2.priority)
}

func TestAgingSurvivesRequeue(t *testing.T) {
	q := newQueue()
	p := readyProc(1, 0, 5, 6)
	q.enq(p)
	q.applyAging(8, 4, 1) // k=2 -> priority 4
	assert.Equal(t, 4, p.priority)

	// leaving ready and coming back starts a new stint from the aged value
	q.deq()
	p.enterReady(10)
	q.enq(p)
	q.applyAging(11, 4, 1)
	assert.Equal(t, 4, p.priority)
	q.applyAging(14, 4, 1)
	assert.Equal(t, 3, p.priority)
}
