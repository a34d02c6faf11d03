package schedsim

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// ------------------------------------------------------------------------------------------------
// TEXT REPORTS
// ------------------------------------------------------------------------------------------------

// WriteTitle prints a banner line for a report section.
func WriteTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

// WriteGantt renders the consolidated timeline as a one-line chart with
// the block boundaries underneath.
func WriteGantt(w io.Writer, res *Result) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	_, _ = fmt.Fprint(w, "|")
	for _, b := range res.Timeline {
		label := "idle"
		switch b.Kind {
		case PROCESS:
			label = fmt.Sprintf("P%d", b.Pid.OrElse(-1))
		case CONTEXT_SWITCH:
			label = "cs"
		}
		padding := strings.Repeat(" ", (8-len(label))/2)
		_, _ = fmt.Fprint(w, padding, label, padding, "|")
	}
	_, _ = fmt.Fprintln(w)
	for i, b := range res.Timeline {
		_, _ = fmt.Fprint(w, b.StartTime, "\t")
		if i == len(res.Timeline)-1 {
			_, _ = fmt.Fprint(w, b.EndTime)
		}
	}
	_, _ = fmt.Fprintf(w, "\n\n")
}

// WriteSchedule renders the per-process table with the aggregate footer.
func WriteSchedule(w io.Writer, res *Result) {
	_, _ = fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Arrival", "Burst", "Completion", "Wait", "Turnaround", "Response"})
	for _, pm := range res.Metrics.PerProcess {
		table.Append([]string{
			fmt.Sprint(pm.Pid),
			fmt.Sprint(pm.ArrivalTime),
			fmt.Sprint(totalBurstOf(res, pm.Pid)),
			fmt.Sprint(pm.CompletionTime),
			fmt.Sprint(pm.Waiting),
			fmt.Sprint(pm.Turnaround),
			fmt.Sprint(pm.Response),
		})
	}
	table.SetFooter([]string{"", "", "", "",
		fmt.Sprintf("Average\n%.2f", res.Metrics.AvgWaiting),
		fmt.Sprintf("Average\n%.2f", res.Metrics.AvgTurnaround),
		fmt.Sprintf("Average\n%.2f", res.Metrics.AvgResponse)})
	table.Render()
	_, _ = fmt.Fprintf(w, "cpu utilization %.1f%%, throughput %.3f/t, %d context switch ticks, %d idle ticks\n\n",
		res.Metrics.CpuUtilization, res.Metrics.Throughput, res.Metrics.ContextSwitches, res.Metrics.IdleTime)
}

func totalBurstOf(res *Result, pid Tpid) int {
	for _, p := range res.Processes {
		if p.Pid == pid {
			return p.TotalCpuBurstTime
		}
	}
	return 0
}

// WriteComparison tabulates the aggregate metrics of several runs over
// the same workload, one row per discipline in table order.
func WriteComparison(w io.Writer, results map[Discipline]*Result) {
	disciplines := make([]Discipline, 0, len(results))
	for d := range results {
		disciplines = append(disciplines, d)
	}
	sort.Slice(disciplines, func(i, j int) bool { return disciplines[i] < disciplines[j] })

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Algorithm", "Avg Turnaround", "Avg Wait", "Avg Response", "Util %", "Throughput", "Ctx Switches", "Total"})
	for _, d := range disciplines {
		m := results[d].Metrics
		table.Append([]string{
			d.String(),
			fmt.Sprintf("%.2f", m.AvgTurnaround),
			fmt.Sprintf("%.2f", m.AvgWaiting),
			fmt.Sprintf("%.2f", m.AvgResponse),
			fmt.Sprintf("%.1f", m.CpuUtilization),
			fmt.Sprintf("%.3f", m.Throughput),
			fmt.Sprint(m.ContextSwitches),
			fmt.Sprint(m.TotalTime),
		})
	}
	table.Render()
}
