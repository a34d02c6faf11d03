package schedsim

import (
	"fmt"
	"strings"
)

// ------------------------------------------------------------------------------------------------
// ERRORS
// ------------------------------------------------------------------------------------------------

// InvalidWorkloadError carries every validation failure at once, so the
// editor can show the full list.
type InvalidWorkloadError struct {
	Messages []string
}

func (e *InvalidWorkloadError) Error() string {
	return "invalid workload: " + strings.Join(e.Messages, "; ")
}

type UnknownDisciplineError struct {
	Name string
}

func (e *UnknownDisciplineError) Error() string {
	return fmt.Sprintf("unknown discipline %q", e.Name)
}

// IterationCapError means the engine hit its hard tick limit without
// every proc terminating. The run is aborted, no partial result.
type IterationCapError struct {
	Discipline Discipline
	Cap        int
}

func (e *IterationCapError) Error() string {
	return fmt.Sprintf("%v: iteration cap of %d ticks exceeded", e.Discipline, e.Cap)
}

// ------------------------------------------------------------------------------------------------
// RESULT
// ------------------------------------------------------------------------------------------------

// Result is the complete output of one run: the per-tick timeline, its
// block consolidation, the chronological transitions, the final PCB
// snapshots and the derived metrics.
type Result struct {
	Discipline  Discipline      `json:"discipline"`
	RawTimeline []TimelineEntry `json:"rawTimeline"`
	Timeline    []TimelineBlock `json:"timeline"`
	Transitions []Transition    `json:"transitions"`
	Processes   []ProcSnapshot  `json:"processes"`
	Metrics     Metrics         `json:"metrics"`
}

// ------------------------------------------------------------------------------------------------
// ORCHESTRATOR
// ------------------------------------------------------------------------------------------------

// RunOnce validates the workload, clones it, simulates one discipline to
// completion and post-processes the outcome. The input is never mutated.
func RunOnce(workload []ProcessSpec, d Discipline, cfg Config) (*Result, error) {
	if msgs := ValidateWorkload(workload); len(msgs) > 0 {
		return nil, &InvalidWorkloadError{Messages: msgs}
	}
	if d < FCFS || d > MLFQ {
		return nil, &UnknownDisciplineError{Name: fmt.Sprintf("#%d", int(d))}
	}
	cfg = cfg.normalized()

	procs := make([]*Proc, 0, len(workload))
	for _, spec := range cloneWorkload(workload) {
		procs = append(procs, newProc(spec))
	}

	e := newEngine(procs, d, cfg)
	if err := e.run(); err != nil {
		return nil, err
	}

	snapshots := make([]ProcSnapshot, 0, len(e.procs))
	for _, p := range e.procs {
		snapshots = append(snapshots, p.snapshot())
	}
	return &Result{
		Discipline:  d,
		RawTimeline: e.raw,
		Timeline:    consolidate(e.raw),
		Transitions: e.transitions,
		Processes:   snapshots,
		Metrics:     deriveMetrics(e),
	}, nil
}

// CompareMany runs every discipline on its own clone of the workload.
// Runs share no state; a failure in any run fails the comparison.
func CompareMany(workload []ProcessSpec, disciplines []Discipline, cfg Config) (map[Discipline]*Result, error) {
	if len(disciplines) == 0 {
		return nil, &InvalidWorkloadError{Messages: []string{"no disciplines selected"}}
	}
	results := make(map[Discipline]*Result, len(disciplines))
	for _, d := range disciplines {
		res, err := RunOnce(workload, d, cfg)
		if err != nil {
			return nil, err
		}
		results[d] = res
	}
	return results, nil
}
