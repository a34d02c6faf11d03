package schedsim

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ------------------------------------------------------------------------------------------------
// WORKLOAD INPUT
// ------------------------------------------------------------------------------------------------

// IOBurstSpec places one I/O burst after afterCpu ticks of CPU time.
type IOBurstSpec struct {
	AfterCpu int `json:"afterCpu" yaml:"afterCpu"`
	Duration int `json:"duration" yaml:"duration"`
}

// ProcessSpec is the external description of one process, as the workload
// editor and the presets produce it.
type ProcessSpec struct {
	Pid         Tpid          `json:"pid" yaml:"pid"`
	ArrivalTime Ttick         `json:"arrivalTime" yaml:"arrivalTime"`
	CpuBurst    int           `json:"cpuBurst" yaml:"cpuBurst"`
	Priority    int           `json:"priority" yaml:"priority"`
	IoEnabled   bool          `json:"ioEnabled" yaml:"ioEnabled"`
	IoBursts    []IOBurstSpec `json:"ioBursts,omitempty" yaml:"ioBursts,omitempty"`
}

func (ps ProcessSpec) String() string {
	return fmt.Sprintf("P%d{arr: %d, cpu: %d, pri: %d, io: %v}",
		ps.Pid, ps.ArrivalTime, ps.CpuBurst, ps.Priority, ps.IoBursts)
}

// expand walks the io bursts in ascending afterCpu order and splits the
// total CPU time at each split point. Zero-length CPU segments (afterCpu
// at 0 or at cpuBurst) are dropped, so a sequence may begin or end with
// an I/O burst.
func (ps ProcessSpec) expand() []Burst {
	ios := make([]IOBurstSpec, 0, len(ps.IoBursts))
	if ps.IoEnabled {
		ios = append(ios, ps.IoBursts...)
	}
	sort.SliceStable(ios, func(i, j int) bool {
		return ios[i].AfterCpu < ios[j].AfterCpu
	})

	bursts := make([]Burst, 0, 2*len(ios)+1)
	consumed := 0
	for _, io := range ios {
		if seg := io.AfterCpu - consumed; seg > 0 {
			bursts = append(bursts, Burst{kind: CPU, duration: seg})
		}
		bursts = append(bursts, Burst{kind: IO, duration: io.Duration})
		consumed = io.AfterCpu
	}
	if resid := ps.CpuBurst - consumed; resid > 0 {
		bursts = append(bursts, Burst{kind: CPU, duration: resid})
	}
	return bursts
}

// ValidateWorkload checks the contractual field constraints and returns
// every violation as a human-readable message. An empty slice means the
// workload is valid.
func ValidateWorkload(workload []ProcessSpec) []string {
	msgs := make([]string, 0)
	if len(workload) == 0 {
		return append(msgs, "workload is empty")
	}

	seenPids := make(map[Tpid]bool)
	for _, ps := range workload {
		label := fmt.Sprintf("process %d", ps.Pid)
		if ps.Pid < 1 {
			msgs = append(msgs, fmt.Sprintf("%s: pid must be >= 1", label))
		}
		if seenPids[ps.Pid] {
			msgs = append(msgs, fmt.Sprintf("%s: duplicate pid", label))
		}
		seenPids[ps.Pid] = true
		if ps.ArrivalTime < 0 {
			msgs = append(msgs, fmt.Sprintf("%s: arrivalTime must be >= 0", label))
		}
		if ps.CpuBurst < 1 {
			msgs = append(msgs, fmt.Sprintf("%s: cpuBurst must be >= 1", label))
		}
		if ps.Priority < 0 {
			msgs = append(msgs, fmt.Sprintf("%s: priority must be >= 0", label))
		}
		if !ps.IoEnabled {
			continue
		}
		seenSplits := make(map[int]bool)
		for _, io := range ps.IoBursts {
			if io.Duration < 1 {
				msgs = append(msgs, fmt.Sprintf("%s: io duration must be >= 1", label))
			}
			if io.AfterCpu < 0 || io.AfterCpu > ps.CpuBurst {
				msgs = append(msgs, fmt.Sprintf("%s: afterCpu %d out of range [0, %d]", label, io.AfterCpu, ps.CpuBurst))
			}
			if seenSplits[io.AfterCpu] {
				msgs = append(msgs, fmt.Sprintf("%s: duplicate afterCpu %d", label, io.AfterCpu))
			}
			seenSplits[io.AfterCpu] = true
		}
	}
	return msgs
}

// ------------------------------------------------------------------------------------------------
// CONFIGURATION
// ------------------------------------------------------------------------------------------------

type Config struct {
	ContextSwitchTime int `json:"contextSwitchTime" yaml:"contextSwitchTime"`
	TimeQuantum       int `json:"timeQuantum" yaml:"timeQuantum"`
	AgingInterval     int `json:"agingInterval" yaml:"agingInterval"`
	AgingBoost        int `json:"agingBoost" yaml:"agingBoost"`
	Q1TimeQuantum     int `json:"q1TimeQuantum" yaml:"q1TimeQuantum"`
	Q2TimeQuantum     int `json:"q2TimeQuantum" yaml:"q2TimeQuantum"`
	MaxTicks          int `json:"maxTicks" yaml:"maxTicks"`
}

func DefaultConfig() Config {
	return Config{
		ContextSwitchTime: 1,
		TimeQuantum:       4,
		AgingInterval:     0,
		AgingBoost:        1,
		Q1TimeQuantum:     4,
		Q2TimeQuantum:     8,
		MaxTicks:          MAX_ITERATIONS,
	}
}

// normalized fills in the fields whose zero value is not a legal setting.
// A zero contextSwitchTime or agingInterval is meaningful and left alone.
func (c Config) normalized() Config {
	if c.TimeQuantum < 1 {
		c.TimeQuantum = DefaultConfig().TimeQuantum
	}
	if c.AgingBoost < 1 {
		c.AgingBoost = DefaultConfig().AgingBoost
	}
	if c.Q1TimeQuantum < 1 {
		c.Q1TimeQuantum = DefaultConfig().Q1TimeQuantum
	}
	if c.Q2TimeQuantum < 1 {
		c.Q2TimeQuantum = DefaultConfig().Q2TimeQuantum
	}
	if c.MaxTicks < 1 {
		c.MaxTicks = MAX_ITERATIONS
	}
	if c.ContextSwitchTime < 0 {
		c.ContextSwitchTime = 0
	}
	if c.AgingInterval < 0 {
		c.AgingInterval = 0
	}
	return c
}

// ------------------------------------------------------------------------------------------------
// WORKLOAD FILES
// ------------------------------------------------------------------------------------------------

// WorkloadFile is the on-disk shape: a process list plus an optional
// embedded config block. YAML and JSON both decode through the yaml
// parser.
type WorkloadFile struct {
	Processes []ProcessSpec `json:"processes" yaml:"processes"`
	Config    *Config       `json:"config,omitempty" yaml:"config,omitempty"`
}

func LoadWorkloadFile(path string) (*WorkloadFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload file: %w", err)
	}
	var wf WorkloadFile
	if err := yaml.Unmarshal(raw, &wf); err != nil {
		return nil, fmt.Errorf("parsing workload file %s: %w", path, err)
	}
	return &wf, nil
}

func cloneWorkload(workload []ProcessSpec) []ProcessSpec {
	cloned := make([]ProcessSpec, len(workload))
	for i, ps := range workload {
		cloned[i] = ps
		cloned[i].IoBursts = append([]IOBurstSpec(nil), ps.IoBursts...)
	}
	return cloned
}
