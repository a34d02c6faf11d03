package schedsim

import (
	"fmt"
	"sort"
)

// ------------------------------------------------------------------------------------------------
// PRESET WORKLOADS
// ------------------------------------------------------------------------------------------------

// the canonical workloads behind the visualizer's preset picker
var presetWorkloads = map[string][]ProcessSpec{
	// one long job arriving first drags everything behind it
	"convoy": {
		{Pid: 1, ArrivalTime: 0, CpuBurst: 12, Priority: 2},
		{Pid: 2, ArrivalTime: 1, CpuBurst: 2, Priority: 1},
		{Pid: 3, ArrivalTime: 2, CpuBurst: 2, Priority: 1},
		{Pid: 4, ArrivalTime: 3, CpuBurst: 2, Priority: 3},
	},
	// simultaneous arrivals with distinct lengths, the SJF showcase
	"short-jobs": {
		{Pid: 1, ArrivalTime: 0, CpuBurst: 6, Priority: 2},
		{Pid: 2, ArrivalTime: 0, CpuBurst: 8, Priority: 2},
		{Pid: 3, ArrivalTime: 0, CpuBurst: 7, Priority: 2},
		{Pid: 4, ArrivalTime: 0, CpuBurst: 3, Priority: 2},
	},
	// staggered shrinking jobs that keep displacing the running one
	"preemption-demo": {
		{Pid: 1, ArrivalTime: 0, CpuBurst: 8, Priority: 3},
		{Pid: 2, ArrivalTime: 1, CpuBurst: 4, Priority: 2},
		{Pid: 3, ArrivalTime: 2, CpuBurst: 2, Priority: 1},
		{Pid: 4, ArrivalTime: 3, CpuBurst: 1, Priority: 0},
	},
	// CPU/IO alternation with overlap between the device and the CPU
	"io-mix": {
		{Pid: 1, ArrivalTime: 0, CpuBurst: 6, Priority: 1, IoEnabled: true,
			IoBursts: []IOBurstSpec{{AfterCpu: 2, Duration: 3}}},
		{Pid: 2, ArrivalTime: 1, CpuBurst: 5, Priority: 2, IoEnabled: true,
			IoBursts: []IOBurstSpec{{AfterCpu: 1, Duration: 2}, {AfterCpu: 4, Duration: 2}}},
		{Pid: 3, ArrivalTime: 2, CpuBurst: 4, Priority: 0},
	},
	// a low-priority proc starves under strict priority without aging
	"starvation": {
		{Pid: 1, ArrivalTime: 0, CpuBurst: 10, Priority: 3},
		{Pid: 2, ArrivalTime: 1, CpuBurst: 8, Priority: 2},
		{Pid: 3, ArrivalTime: 2, CpuBurst: 3, Priority: 9},
	},
	// one CPU hog demoting through the levels past a short job
	"mlfq-demotion": {
		{Pid: 1, ArrivalTime: 0, CpuBurst: 20, Priority: 0},
		{Pid: 2, ArrivalTime: 0, CpuBurst: 3, Priority: 0},
	},
}

// Presets lists the preset names in stable order.
func Presets() []string {
	names := make([]string, 0, len(presetWorkloads))
	for name := range presetWorkloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of the named workload, so callers can edit
// it without touching the catalog.
func Preset(name string) ([]ProcessSpec, error) {
	workload, ok := presetWorkloads[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return cloneWorkload(workload), nil
}
