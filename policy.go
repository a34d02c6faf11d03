package schedsim

import (
	"github.com/markphelps/optional"
)

// ------------------------------------------------------------------------------------------------
// ALGORITHM POLICIES
// ------------------------------------------------------------------------------------------------

// Policy is one discipline as data: how to order the ready queue before
// a pick, whether the running proc may be displaced right now, and the
// quantum, if any. The engine is written once against this record.
type Policy struct {
	discipline Discipline
	multilevel bool
	quantum    optional.Int
	// prepare reorders (and ages) the ready queue ahead of a selection.
	prepare func(e *Engine)
	// preempts is the discipline's own preemption predicate; quantum
	// expiry is checked generically by the engine.
	preempts func(e *Engine) bool
}

func newPolicy(d Discipline, cfg Config) *Policy {
	switch d {
	case FCFS:
		return &Policy{
			discipline: FCFS,
			prepare:    func(e *Engine) { e.readyQ.sortByArrival() },
		}
	case SJF:
		return &Policy{
			discipline: SJF,
			prepare:    func(e *Engine) { e.readyQ.sortByBurstRemaining() },
		}
	case SRTF:
		return &Policy{
			discipline: SRTF,
			prepare:    func(e *Engine) { e.readyQ.sortByBurstRemaining() },
			preempts: func(e *Engine) bool {
				for _, p := range e.readyQ.q {
					if p.remaining < e.running.remaining {
						return true
					}
				}
				return false
			},
		}
	case PRIORITY_NP:
		return &Policy{
			discipline: PRIORITY_NP,
			prepare: func(e *Engine) {
				e.readyQ.applyAging(e.currentTime, cfg.AgingInterval, cfg.AgingBoost)
				e.readyQ.sortByPriority()
			},
		}
	case PRIORITY_P:
		return &Policy{
			discipline: PRIORITY_P,
			prepare: func(e *Engine) {
				e.readyQ.applyAging(e.currentTime, cfg.AgingInterval, cfg.AgingBoost)
				e.readyQ.sortByPriority()
			},
			preempts: func(e *Engine) bool {
				e.readyQ.applyAging(e.currentTime, cfg.AgingInterval, cfg.AgingBoost)
				for _, p := range e.readyQ.q {
					if p.priority < e.running.priority {
						return true
					}
				}
				return false
			},
		}
	case ROUND_ROBIN:
		return &Policy{
			discipline: ROUND_ROBIN,
			quantum:    optional.NewInt(cfg.TimeQuantum),
		}
	case HRRN:
		return &Policy{
			discipline: HRRN,
			prepare:    func(e *Engine) { e.readyQ.sortByResponseRatio(e.currentTime) },
		}
	case MLFQ:
		return &Policy{
			discipline: MLFQ,
			multilevel: true,
		}
	}
	return nil
}
