package schedsim

import (
	"fmt"
)

// ------------------------------------------------------------------------------------------------
// PROCESS CONTROL BLOCK
// ------------------------------------------------------------------------------------------------

// Proc is one process control block. The static fields are fixed at
// construction; everything else is mutated only by the engine during a
// run. Once completionTime is set the block is frozen.
type Proc struct {
	pid              Tpid
	arrivalTime      Ttick
	originalPriority int
	bursts           []Burst
	totalCpuTime     int

	state          ProcState
	burstIdx       int
	remaining      int // time left in the current burst
	priority       int // effective priority, lowered by aging, never above originalPriority
	agingBase      int // priority carried into the current ready stint
	lastReadyTime  Ttick
	firstRunTick   Ttick
	completionTime Ttick
	queueLevel     int
}

func newProc(spec ProcessSpec) *Proc {
	bursts := spec.expand()
	totalCpu := 0
	for _, b := range bursts {
		if b.kind == CPU {
			totalCpu += b.duration
		}
	}
	p := &Proc{
		pid:              spec.Pid,
		arrivalTime:      spec.ArrivalTime,
		originalPriority: spec.Priority,
		bursts:           bursts,
		totalCpuTime:     totalCpu,
		state:            NEW,
		burstIdx:         0,
		priority:         spec.Priority,
		agingBase:        spec.Priority,
		lastReadyTime:    -1,
		firstRunTick:     -1,
		completionTime:   -1,
		queueLevel:       0,
	}
	if len(bursts) > 0 {
		p.remaining = bursts[0].duration
	}
	return p
}

func (p *Proc) String() string {
	return fmt.Sprintf("P%d{%v, burst %d/%d, rem %d, pri %d}",
		p.pid, p.state, p.burstIdx, len(p.bursts), p.remaining, p.priority)
}

func (p *Proc) currentBurst() Burst {
	return p.bursts[p.burstIdx]
}

// executeTick burns one tick of the current burst and reports whether the
// burst just finished.
func (p *Proc) executeTick() bool {
	if p.remaining > 0 {
		p.remaining -= 1
	}
	return p.remaining == 0
}

// advanceBurst moves to the next burst. It returns false when there are
// no bursts left, ie the process is complete.
func (p *Proc) advanceBurst() bool {
	p.burstIdx += 1
	if p.burstIdx >= len(p.bursts) {
		return false
	}
	p.remaining = p.bursts[p.burstIdx].duration
	return true
}

func (p *Proc) isComplete() bool {
	return p.burstIdx >= len(p.bursts)
}

// enterReady marks the start of a ready stint. The aging base is the
// priority the process carries in, so aging within the stint lowers it
// from there and a later stint can never raise it back up.
func (p *Proc) enterReady(now Ttick) {
	p.state = READY
	p.lastReadyTime = now
	p.agingBase = p.priority
}

func (p *Proc) clone() *Proc {
	c := *p
	c.bursts = append([]Burst(nil), p.bursts...)
	return &c
}

// ------------------------------------------------------------------------------------------------
// SNAPSHOTS
// ------------------------------------------------------------------------------------------------

// ProcSnapshot is the read-only view of a PCB handed back to callers
// after a run.
type ProcSnapshot struct {
	Pid               Tpid      `json:"pid"`
	ArrivalTime       Ttick     `json:"arrivalTime"`
	Priority          int       `json:"priority"`
	FinalPriority     int       `json:"finalPriority"`
	TotalCpuBurstTime int       `json:"totalCpuBurstTime"`
	State             ProcState `json:"state"`
	CompletionTime    Ttick     `json:"completionTime"`
	Turnaround        int       `json:"turnaround"`
	Waiting           int       `json:"waiting"`
	Response          int       `json:"response"`
}

func (p *Proc) snapshot() ProcSnapshot {
	s := ProcSnapshot{
		Pid:               p.pid,
		ArrivalTime:       p.arrivalTime,
		Priority:          p.originalPriority,
		FinalPriority:     p.priority,
		TotalCpuBurstTime: p.totalCpuTime,
		State:             p.state,
		CompletionTime:    p.completionTime,
		Turnaround:        -1,
		Waiting:           -1,
		Response:          -1,
	}
	if p.completionTime >= 0 {
		s.Turnaround = int(p.completionTime - p.arrivalTime)
		s.Waiting = s.Turnaround - p.totalCpuTime
	}
	if p.firstRunTick >= 0 {
		s.Response = int(p.firstRunTick - p.arrivalTime)
	}
	return s
}
