package schedsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func burstKinds(bursts []Burst) []BurstType {
	kinds := make([]BurstType, len(bursts))
	for i, b := range bursts {
		kinds[i] = b.kind
	}
	return kinds
}

func TestExpandPlainCpu(t *testing.T) {
	spec := ProcessSpec{Pid: 1, CpuBurst: 5}
	assert.Equal(t, []Burst{{CPU, 5}}, spec.expand())
}

func TestExpandWithIO(t *testing.T) {
	spec := ProcessSpec{Pid: 1, CpuBurst: 5, IoEnabled: true,
		IoBursts: []IOBurstSpec{{AfterCpu: 2, Duration: 3}}}
	assert.Equal(t, []Burst{{CPU, 2}, {IO, 3}, {CPU, 3}}, spec.expand())
}

func TestExpandSortsSplitPoints(t *testing.T) {
	spec := ProcessSpec{Pid: 1, CpuBurst: 10, IoEnabled: true,
		IoBursts: []IOBurstSpec{{AfterCpu: 7, Duration: 1}, {AfterCpu: 3, Duration: 2}}}
	assert.Equal(t, []Burst{{CPU, 3}, {IO, 2}, {CPU, 4}, {IO, 1}, {CPU, 3}}, spec.expand())
}

func TestExpandBoundarySplits(t *testing.T) {
	leading := ProcessSpec{Pid: 1, CpuBurst: 4, IoEnabled: true,
		IoBursts: []IOBurstSpec{{AfterCpu: 0, Duration: 2}}}
	assert.Equal(t, []BurstType{IO, CPU}, burstKinds(leading.expand()))

	trailing := ProcessSpec{Pid: 1, CpuBurst: 4, IoEnabled: true,
		IoBursts: []IOBurstSpec{{AfterCpu: 4, Duration: 2}}}
	assert.Equal(t, []BurstType{CPU, IO}, burstKinds(trailing.expand()))
}

func TestExpandIgnoresDisabledIO(t *testing.T) {
	spec := ProcessSpec{Pid: 1, CpuBurst: 5,
		IoBursts: []IOBurstSpec{{AfterCpu: 2, Duration: 3}}}
	assert.Equal(t, []Burst{{CPU, 5}}, spec.expand())
}

func TestProcBurstWalk(t *testing.T) {
	p := newProc(ProcessSpec{Pid: 1, CpuBurst: 3, IoEnabled: true,
		IoBursts: []IOBurstSpec{{AfterCpu: 2, Duration: 1}}})
	assert.Equal(t, 3, p.totalCpuTime)
	assert.Equal(t, 2, p.remaining)

	assert.False(t, p.executeTick())
	assert.True(t, p.executeTick())
	assert.True(t, p.advanceBurst())
	assert.Equal(t, IO, p.currentBurst().kind)
	assert.Equal(t, 1, p.remaining)
	assert.True(t, p.executeTick())
	assert.True(t, p.advanceBurst())
	assert.True(t, p.executeTick())
	assert.False(t, p.advanceBurst())
	assert.True(t, p.isComplete())
}

func TestProcCloneIsDeep(t *testing.T) {
	p := newProc(ProcessSpec{Pid: 1, CpuBurst: 4, Priority: 2})
	c := p.clone()
	p.executeTick()
	p.priority = 0
	assert.Equal(t, 4, c.remaining)
	assert.Equal(t, 2, c.priority)
	c.bursts[0].duration = 99
	assert.Equal(t, 4, p.bursts[0].duration)
}

func TestSnapshotSentinels(t *testing.T) {
	p := newProc(ProcessSpec{Pid: 7, ArrivalTime: 2, CpuBurst: 4, Priority: 1})
	snap := p.snapshot()
	assert.Equal(t, Ttick(-1), snap.CompletionTime)
	assert.Equal(t, -1, snap.Turnaround)
	assert.Equal(t, -1, snap.Response)

	p.firstRunTick = 5
	p.completionTime = 9
	snap = p.snapshot()
	assert.Equal(t, 7, snap.Turnaround)
	assert.Equal(t, 3, snap.Waiting)
	assert.Equal(t, 3, snap.Response)
}
