package cli

import (
	"fmt"
	"io"
	"strings"

	"primeburn/internal/api"
)

// PrintStatus fetches the generator's status and latest samples and writes
// a one-shot plain-text report, for scripts and quick checks where the
// interactive top view is overkill.
func PrintStatus(w io.Writer, addr string) error {
	client := api.NewClient(addr)

	report, err := client.PerfReport()
	if err != nil {
		return err
	}

	st := report.Status

	fmt.Fprintf(w, "\nPRIMEBURN STATUS @ %s\n", addr)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 70))

	if st.Running {
		mode := st.Mode
		if st.Mode == "bursty" {
			mode = fmt.Sprintf("%s (%d%% utilization)", st.Mode, st.Utilization)
		}
		fmt.Fprintf(w, "State          : running\n")
		fmt.Fprintf(w, "Mode           : %s\n", mode)
		fmt.Fprintf(w, "Generation     : %d\n", st.Generation)
		fmt.Fprintf(w, "Run ID         : %s\n", st.RunID)
		fmt.Fprintf(w, "Workers        : %d of %d cores\n", st.Workers, st.Cores)
	} else {
		fmt.Fprintf(w, "State          : stopped\n")
		fmt.Fprintf(w, "Generation     : %d\n", st.Generation)
		fmt.Fprintf(w, "Cores          : %d\n", st.Cores)
	}

	fmt.Fprintf(w, "\nTHROUGHPUT\n")
	fmt.Fprintf(w, "All-mode       : %d ops/sec\n", report.Throughput.OpsPerSecond)
	fmt.Fprintf(w, "Burst-scoped   : %d ops/sec\n", report.BurstThroughput.OpsPerSecond)

	if report.UnitDurations.Count > 0 {
		fmt.Fprintf(w, "\nUNIT DURATIONS (ms)\n")
		fmt.Fprintf(w, "   P50 : %.2f\n", report.UnitDurations.P50Ms)
		fmt.Fprintf(w, "   P90 : %.2f\n", report.UnitDurations.P90Ms)
		fmt.Fprintf(w, "   P99 : %.2f\n", report.UnitDurations.P99Ms)
		fmt.Fprintf(w, "   Max : %.2f\n", report.UnitDurations.MaxMs)
	}
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 70))

	return nil
}
