package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pktflow/datarecording"
	"github.com/sarchlab/pktflow/sim/timing"
	"github.com/sarchlab/pktflow/tracing"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [recording]",
	Short: "Summarize a recorded trace.",
	Long: "`inspect [file]` prints the execution info of a run recorded with " +
		"`run --record`, followed by per-location task and drop counts.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := inspectRecording(cmd.Context(), cmd.OutOrStdout(), args[0])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

type locationSummary struct {
	transmissions int
	receptions    int
	aborted       int
	busy          timing.VTime
	drops         int
}

func inspectRecording(ctx context.Context, w io.Writer, file string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	recording, err := datarecording.OpenReader(file)
	if err != nil {
		return err
	}
	defer recording.Close()

	info, err := recording.ExecInfo(ctx)
	if err != nil {
		return err
	}

	properties := make([]string, 0, len(info))
	for p := range info {
		properties = append(properties, p)
	}

	sort.Strings(properties)

	for _, p := range properties {
		fmt.Fprintf(w, "%s: %s\n", p, info[p])
	}

	summaries, err := summarizeTrace(ctx, tracing.NewTraceReader(recording))
	if err != nil {
		return err
	}

	locations := make([]string, 0, len(summaries))
	for l := range summaries {
		locations = append(locations, l)
	}

	sort.Strings(locations)

	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Location\tTransmissions\tReceptions\tAborted\tBusy\tDrops")

	for _, l := range locations {
		s := summaries[l]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%d\n",
			l, s.transmissions, s.receptions, s.aborted, s.busy, s.drops)
	}

	return tw.Flush()
}

func summarizeTrace(
	ctx context.Context,
	reader *tracing.TraceReader,
) (map[string]*locationSummary, error) {
	summaries := make(map[string]*locationSummary)
	at := func(location string) *locationSummary {
		s, ok := summaries[location]
		if !ok {
			s = &locationSummary{}
			summaries[location] = s
		}

		return s
	}

	tasks, err := reader.Tasks(ctx, "")
	if err != nil {
		return nil, err
	}

	for _, t := range tasks {
		s := at(t.Location)

		switch t.Kind {
		case tracing.KindTransmission:
			s.transmissions++
			s.busy += timing.VTime(t.EndTime - t.StartTime)
		case tracing.KindReception:
			s.receptions++
		}

		if t.Aborted {
			s.aborted++
		}
	}

	drops, err := reader.Milestones(ctx, tracing.MilestoneKindDrop)
	if err != nil {
		return nil, err
	}

	for _, m := range drops {
		at(m.Location).drops++
	}

	return summaries, nil
}
