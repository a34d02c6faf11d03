package schedsim

import (
	"fmt"

	"github.com/markphelps/optional"
)

// ------------------------------------------------------------------------------------------------
// RAW TIMELINE
// ------------------------------------------------------------------------------------------------

// TimelineEntry is one tick of CPU occupancy. pid and level are absent
// for IDLE and CONTEXT_SWITCH ticks; level is only present for MLFQ runs.
type TimelineEntry struct {
	Tick  Ttick        `json:"tick"`
	Kind  EntryKind    `json:"type"`
	Pid   optional.Int `json:"pid"`
	Level optional.Int `json:"level"`
}

func (e TimelineEntry) String() string {
	if e.Kind != PROCESS {
		return fmt.Sprintf("%d:%v", e.Tick, e.Kind)
	}
	return fmt.Sprintf("%d:P%d", e.Tick, e.Pid.OrElse(-1))
}

// TimelineBlock is a run of adjacent entries sharing (type, pid, level),
// as a half-open interval [startTime, endTime).
type TimelineBlock struct {
	Kind      EntryKind    `json:"type"`
	Pid       optional.Int `json:"pid"`
	Level     optional.Int `json:"level"`
	StartTime Ttick        `json:"startTime"`
	EndTime   Ttick        `json:"endTime"`
	Duration  int          `json:"duration"`
}

func (b TimelineBlock) String() string {
	if b.Kind != PROCESS {
		return fmt.Sprintf("%v[%d..%d)", b.Kind, b.StartTime, b.EndTime)
	}
	return fmt.Sprintf("P%d[%d..%d)", b.Pid.OrElse(-1), b.StartTime, b.EndTime)
}

func optIntEq(a, b optional.Int) bool {
	if a.Present() != b.Present() {
		return false
	}
	return a.OrElse(0) == b.OrElse(0)
}

// consolidate coalesces adjacent raw entries that share (type, pid,
// level) into blocks. A change in any of the three always cuts.
func consolidate(raw []TimelineEntry) []TimelineBlock {
	blocks := make([]TimelineBlock, 0)
	for _, e := range raw {
		if n := len(blocks); n > 0 {
			last := &blocks[n-1]
			if last.Kind == e.Kind && optIntEq(last.Pid, e.Pid) && optIntEq(last.Level, e.Level) && last.EndTime == e.Tick {
				last.EndTime = e.Tick + 1
				last.Duration += 1
				continue
			}
		}
		blocks = append(blocks, TimelineBlock{
			Kind:      e.Kind,
			Pid:       e.Pid,
			Level:     e.Level,
			StartTime: e.Tick,
			EndTime:   e.Tick + 1,
			Duration:  1,
		})
	}
	return blocks
}

// ------------------------------------------------------------------------------------------------
// STATE TRANSITIONS
// ------------------------------------------------------------------------------------------------

// Transition records one edge of the process state machine, ordered by
// (time, insertion).
type Transition struct {
	Time Ttick     `json:"time"`
	Pid  Tpid      `json:"pid"`
	From ProcState `json:"from"`
	To   ProcState `json:"to"`
}

func (tr Transition) String() string {
	return fmt.Sprintf("%d: P%d %v->%v", tr.Time, tr.Pid, tr.From, tr.To)
}
