package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/pktflow/scenario"
	"github.com/sarchlab/pktflow/sim/timing"
)

func printReport(
	w io.Writer,
	sim *scenario.Simulation,
	tracers *linkTracers,
) error {
	now := sim.Engine.CurrentTime()
	duration := sim.Scenario.Duration.VTime()

	fmt.Fprintf(w, "Scenario %s, simulated %s\n\n", sim.Scenario.Name, now)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Link\tProduced\tRefused\tQueue Drops\tGate Passed\t"+
		"Delivered\tThroughput\tUtilization\tAvg Latency\tPer Sink")

	for _, st := range sim.Stats() {
		busy := tracers.busy[st.Link]
		busy.TerminateAllTasks(now)

		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\t%.1f%%\t%s\t%s\n",
			st.Link,
			st.Produced,
			st.Refused,
			st.QueueDrops,
			st.GatePassed,
			st.Delivered,
			formatThroughput(float64(st.Bits), duration),
			ratio(busy.BusyTime(), duration)*100,
			tracers.delay[st.Link].AverageTime(),
			joinInts(st.PerSink),
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if tracers.drops.Total() == 0 {
		return nil
	}

	fmt.Fprintf(w, "\nDrops: %d\n", tracers.drops.Total())

	for _, reason := range tracers.drops.Names() {
		fmt.Fprintf(w, "  %s: %d\n", reason, tracers.drops.Count(reason))
	}

	return nil
}

func formatThroughput(bits float64, duration timing.VTime) string {
	if duration <= 0 {
		return "-"
	}

	bps := bits / (float64(duration) / float64(timing.Second))

	switch {
	case bps >= 1e9:
		return fmt.Sprintf("%.2fGbps", bps/1e9)
	case bps >= 1e6:
		return fmt.Sprintf("%.2fMbps", bps/1e6)
	case bps >= 1e3:
		return fmt.Sprintf("%.2fkbps", bps/1e3)
	default:
		return fmt.Sprintf("%.0fbps", bps)
	}
}

func ratio(part, whole timing.VTime) float64 {
	if whole <= 0 {
		return 0
	}

	return float64(part) / float64(whole)
}

func joinInts(values []int) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = fmt.Sprint(v)
	}

	return strings.Join(s, "/")
}
