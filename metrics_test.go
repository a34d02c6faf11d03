package schedsim

import (
	"encoding/json"
	"testing"

	"github.com/markphelps/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func procTick(tick Ttick, pid int) TimelineEntry {
	return TimelineEntry{Tick: tick, Kind: PROCESS, Pid: optional.NewInt(pid)}
}

func TestConsolidateMergesRuns(t *testing.T) {
	raw := []TimelineEntry{
		procTick(0, 1),
		procTick(1, 1),
		procTick(2, 2),
		{Tick: 3, Kind: CONTEXT_SWITCH},
		{Tick: 4, Kind: CONTEXT_SWITCH},
		{Tick: 5, Kind: IDLE},
		procTick(6, 1),
	}
	blocks := consolidate(raw)
	require.Len(t, blocks, 5)

	assert.Equal(t, span{1, 0, 2}, span{blocks[0].Pid.OrElse(-1), int(blocks[0].StartTime), int(blocks[0].EndTime)})
	assert.Equal(t, 2, blocks[0].Duration)
	assert.Equal(t, span{2, 2, 3}, span{blocks[1].Pid.OrElse(-1), int(blocks[1].StartTime), int(blocks[1].EndTime)})
	assert.Equal(t, CONTEXT_SWITCH, blocks[2].Kind)
	assert.Equal(t, 2, blocks[2].Duration)
	assert.Equal(t, IDLE, blocks[3].Kind)
	assert.Equal(t, PROCESS, blocks[4].Kind)
}

func TestConsolidateCutsOnLevelChange(t *testing.T) {
	raw := []TimelineEntry{
		{Tick: 0, Kind: PROCESS, Pid: optional.NewInt(1), Level: optional.NewInt(0)},
		{Tick: 1, Kind: PROCESS, Pid: optional.NewInt(1), Level: optional.NewInt(1)},
	}
	blocks := consolidate(raw)
	require.Len(t, blocks, 2)
	assert.Equal(t, 0, blocks[0].Level.OrElse(-1))
	assert.Equal(t, 1, blocks[1].Level.OrElse(-1))
}

func TestMetricsOnFCFSScenario(t *testing.T) {
	workload := []ProcessSpec{
		{Pid: 1, ArrivalTime: 0, CpuBurst: 5},
		{Pid: 2, ArrivalTime: 1, CpuBurst: 3},
		{Pid: 3, ArrivalTime: 2, CpuBurst: 1},
	}
	res, err := RunOnce(workload, FCFS, noSwitchConfig())
	require.NoError(t, err)

	m := res.Metrics
	assert.Equal(t, Ttick(9), m.TotalTime)
	assert.Equal(t, 0, m.ContextSwitches)
	assert.Equal(t, 0, m.IdleTime)
	assert.InDelta(t, 100.0, m.CpuUtilization, 1e-9)
	assert.InDelta(t, 3.0/9.0, m.Throughput, 1e-9)
	assert.Equal(t, 6, m.MaxWaiting)
	assert.Equal(t, 6, m.MaxResponse)
	require.Len(t, m.PerProcess, 3)
	assert.Equal(t, Tpid(1), m.PerProcess[0].Pid)
	assert.Equal(t, 0, m.PerProcess[0].Waiting)
}

// The export contract: field names are fixed, enum values are their
// user-facing strings, absent pid/level encode as null.
func TestResultJSONFieldNames(t *testing.T) {
	workload := []ProcessSpec{{Pid: 1, ArrivalTime: 1, CpuBurst: 2}}
	res, err := RunOnce(workload, FCFS, noSwitchConfig())
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"rawTimeline", "timeline", "transitions", "processes", "metrics"} {
		assert.Contains(t, decoded, key)
	}

	metrics := decoded["metrics"].(map[string]any)
	for _, key := range []string{"avgTurnaround", "avgWaiting", "avgResponse", "cpuUtilization",
		"throughput", "totalTime", "contextSwitches", "idleTime", "maxWaiting", "maxResponse", "perProcess"} {
		assert.Contains(t, metrics, key)
	}

	entries := decoded["rawTimeline"].([]any)
	first := entries[0].(map[string]any)
	assert.Equal(t, "IDLE", first["type"])
	assert.Nil(t, first["pid"])

	transitions := decoded["transitions"].([]any)
	tr := transitions[0].(map[string]any)
	assert.Equal(t, "NEW", tr["from"])
	assert.Equal(t, "READY", tr["to"])
}
