package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"schedsim"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "schedsim",
		Short:         "Deterministic CPU scheduling simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newCompareCmd(), newPresetsCmd(), newGenCmd(), newServeCmd())
	return root
}

// configFlags wires the simulation options onto a command and merges
// them over a workload file's embedded config.
type configFlags struct {
	contextSwitch int
	quantum       int
	agingInterval int
	agingBoost    int
	q1Quantum     int
	q2Quantum     int
	maxTicks      int
}

func (cf *configFlags) register(cmd *cobra.Command) {
	defaults := schedsim.DefaultConfig()
	cmd.Flags().IntVar(&cf.contextSwitch, "context-switch", defaults.ContextSwitchTime, "context switch cost in ticks")
	cmd.Flags().IntVar(&cf.quantum, "quantum", defaults.TimeQuantum, "round robin time quantum")
	cmd.Flags().IntVar(&cf.agingInterval, "aging-interval", defaults.AgingInterval, "ticks in ready per aging step, 0 disables")
	cmd.Flags().IntVar(&cf.agingBoost, "aging-boost", defaults.AgingBoost, "priority decrease per aging step")
	cmd.Flags().IntVar(&cf.q1Quantum, "q1-quantum", defaults.Q1TimeQuantum, "MLFQ level 0 quantum")
	cmd.Flags().IntVar(&cf.q2Quantum, "q2-quantum", defaults.Q2TimeQuantum, "MLFQ level 1 quantum")
	cmd.Flags().IntVar(&cf.maxTicks, "max-ticks", defaults.MaxTicks, "hard iteration cap")
}

func (cf *configFlags) merge(cmd *cobra.Command, base *schedsim.Config) schedsim.Config {
	cfg := schedsim.DefaultConfig()
	if base != nil {
		cfg = *base
	}
	if cmd.Flags().Changed("context-switch") || base == nil {
		cfg.ContextSwitchTime = cf.contextSwitch
	}
	if cmd.Flags().Changed("quantum") || base == nil {
		cfg.TimeQuantum = cf.quantum
	}
	if cmd.Flags().Changed("aging-interval") || base == nil {
		cfg.AgingInterval = cf.agingInterval
	}
	if cmd.Flags().Changed("aging-boost") || base == nil {
		cfg.AgingBoost = cf.agingBoost
	}
	if cmd.Flags().Changed("q1-quantum") || base == nil {
		cfg.Q1TimeQuantum = cf.q1Quantum
	}
	if cmd.Flags().Changed("q2-quantum") || base == nil {
		cfg.Q2TimeQuantum = cf.q2Quantum
	}
	if cmd.Flags().Changed("max-ticks") || base == nil {
		cfg.MaxTicks = cf.maxTicks
	}
	return cfg
}

// loadWorkload resolves --workload / --preset into a process list plus
// any config block the file carried.
func loadWorkload(workloadPath, presetName string) ([]schedsim.ProcessSpec, *schedsim.Config, error) {
	switch {
	case workloadPath != "" && presetName != "":
		return nil, nil, fmt.Errorf("--workload and --preset are mutually exclusive")
	case workloadPath != "":
		wf, err := schedsim.LoadWorkloadFile(workloadPath)
		if err != nil {
			return nil, nil, err
		}
		return wf.Processes, wf.Config, nil
	case presetName != "":
		workload, err := schedsim.Preset(presetName)
		return workload, nil, err
	}
	return nil, nil, fmt.Errorf("one of --workload or --preset is required")
}

func newRunCmd() *cobra.Command {
	var workloadPath, presetName, algorithm string
	var asJSON bool
	cf := &configFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one discipline over a workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			workload, fileCfg, err := loadWorkload(workloadPath, presetName)
			if err != nil {
				return err
			}
			discipline, err := schedsim.ParseDiscipline(algorithm)
			if err != nil {
				return err
			}
			res, err := schedsim.RunOnce(workload, discipline, cf.merge(cmd, fileCfg))
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
			}
			schedsim.WriteTitle(cmd.OutOrStdout(), discipline.String())
			schedsim.WriteGantt(cmd.OutOrStdout(), res)
			schedsim.WriteSchedule(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&workloadPath, "workload", "w", "", "workload file (yaml or json)")
	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "preset workload name")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "FCFS", "scheduling discipline")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw result as JSON")
	cf.register(cmd)
	return cmd
}

func newCompareCmd() *cobra.Command {
	var workloadPath, presetName, algorithms string
	var asJSON bool
	cf := &configFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run several disciplines over the same workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			workload, fileCfg, err := loadWorkload(workloadPath, presetName)
			if err != nil {
				return err
			}
			var disciplines []schedsim.Discipline
			if algorithms == "all" {
				disciplines = schedsim.AllDisciplines()
			} else {
				for _, name := range strings.Split(algorithms, ",") {
					d, err := schedsim.ParseDiscipline(name)
					if err != nil {
						return err
					}
					disciplines = append(disciplines, d)
				}
			}
			results, err := schedsim.CompareMany(workload, disciplines, cf.merge(cmd, fileCfg))
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(results)
			}
			schedsim.WriteTitle(cmd.OutOrStdout(), "comparison")
			schedsim.WriteComparison(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().StringVarP(&workloadPath, "workload", "w", "", "workload file (yaml or json)")
	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "preset workload name")
	cmd.Flags().StringVarP(&algorithms, "algorithms", "a", "all", "comma separated disciplines, or all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw results as JSON")
	cf.register(cmd)
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [name]",
		Short: "List preset workloads, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range schedsim.Presets() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			workload, err := schedsim.Preset(args[0])
			if err != nil {
				return err
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(schedsim.WorkloadFile{Processes: workload})
		},
	}
}

func newGenCmd() *cobra.Command {
	var seed int64
	var nProcs int
	var outPath string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random workload, deterministic per seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			workload := schedsim.GenWorkload(seed, nProcs)
			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return yaml.NewEncoder(out).Encode(schedsim.WorkloadFile{Processes: workload})
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "generator seed")
	cmd.Flags().IntVarP(&nProcs, "procs", "n", 5, "number of processes")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := schedsim.BuildLogger()
			logger.Info("listening", "addr", addr)
			return http.ListenAndServe(addr, schedsim.NewServer(logger))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
