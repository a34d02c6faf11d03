package schedsim

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ------------------------------------------------------------------------------------------------
// METRICS
// ------------------------------------------------------------------------------------------------

// ProcessMetrics is one terminated proc's timing summary.
type ProcessMetrics struct {
	Pid            Tpid  `json:"pid"`
	ArrivalTime    Ttick `json:"arrivalTime"`
	CompletionTime Ttick `json:"completionTime"`
	Turnaround     int   `json:"turnaround"`
	Waiting        int   `json:"waiting"`
	Response       int   `json:"response"`
}

// Metrics aggregates a finished run. Averages are over terminated procs
// only; the tick counters cover the whole timeline.
type Metrics struct {
	AvgTurnaround   float64          `json:"avgTurnaround"`
	AvgWaiting      float64          `json:"avgWaiting"`
	AvgResponse     float64          `json:"avgResponse"`
	CpuUtilization  float64          `json:"cpuUtilization"`
	Throughput      float64          `json:"throughput"`
	TotalTime       Ttick            `json:"totalTime"`
	ContextSwitches int              `json:"contextSwitches"`
	IdleTime        int              `json:"idleTime"`
	MaxWaiting      int              `json:"maxWaiting"`
	MaxResponse     int              `json:"maxResponse"`
	PerProcess      []ProcessMetrics `json:"perProcess"`
}

// deriveMetrics runs the post-processing pass over a finished engine.
// Procs are visited in (arrival, pid) order and timeline entries in tick
// order, so the output is identical across runs.
func deriveMetrics(e *Engine) Metrics {
	perProc := make([]ProcessMetrics, 0, len(e.procs))
	turnarounds := make([]float64, 0, len(e.procs))
	waitings := make([]float64, 0, len(e.procs))
	responses := make([]float64, 0, len(e.procs))

	for _, p := range e.procs {
		if p.state != TERMINATED {
			continue
		}
		snap := p.snapshot()
		perProc = append(perProc, ProcessMetrics{
			Pid:            p.pid,
			ArrivalTime:    p.arrivalTime,
			CompletionTime: p.completionTime,
			Turnaround:     snap.Turnaround,
			Waiting:        snap.Waiting,
			Response:       snap.Response,
		})
		turnarounds = append(turnarounds, float64(snap.Turnaround))
		waitings = append(waitings, float64(snap.Waiting))
		responses = append(responses, float64(snap.Response))
	}

	contextSwitches := 0
	for _, entry := range e.raw {
		if entry.Kind == CONTEXT_SWITCH {
			contextSwitches += 1
		}
	}

	m := Metrics{
		TotalTime:       e.currentTime,
		ContextSwitches: contextSwitches,
		IdleTime:        int(e.currentTime) - e.cpuBusyTicks - contextSwitches,
		PerProcess:      perProc,
	}
	if len(perProc) > 0 {
		m.AvgTurnaround = stat.Mean(turnarounds, nil)
		m.AvgWaiting = stat.Mean(waitings, nil)
		m.AvgResponse = stat.Mean(responses, nil)
		m.MaxWaiting = int(floats.Max(waitings))
		m.MaxResponse = int(floats.Max(responses))
	}
	if e.currentTime > 0 {
		m.CpuUtilization = float64(e.cpuBusyTicks) / float64(e.currentTime) * 100
		m.Throughput = float64(len(perProc)) / float64(e.currentTime)
	}
	return m
}
