package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/pktflow/datarecording"
	"github.com/sarchlab/pktflow/monitoring"
	"github.com/sarchlab/pktflow/scenario"
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/id"
	"github.com/sarchlab/pktflow/sim/timing"
	"github.com/sarchlab/pktflow/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario and print the link statistics.",
	Long: "`run --config [file]` builds the scenario, runs it for its " +
		"duration, and prints what every link produced and delivered.",
	Run: func(cmd *cobra.Command, _ []string) {
		opts := readRunOptions(cmd)

		err := runScenario(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.StringP("config", "c", "scenario.yaml", "The scenario file")
	flags.String("until", "",
		"Run until this time instead of the scenario duration, e.g. 2ms")
	flags.Bool("record", false,
		"Record the trace and the execution info into a SQLite database")
	flags.String("db", "",
		"The name of the database, without the .sqlite3 extension; "+
			"a unique name is used if empty")
	flags.Bool("monitor", false,
		"Serve the monitoring API while the scenario runs")
	flags.Int("port", 0,
		"The port of the monitoring server; a free port is used if 0")
	flags.Bool("open-browser", false,
		"Open the monitoring server in a browser")
	flags.Bool("unique-ids", false,
		"Use globally unique packet and signal IDs instead of counting up")
	flags.BoolP("verbose", "v", false,
		"Log every event and every transmission to stderr")
}

type runOptions struct {
	config      string
	until       string
	record      bool
	dbName      string
	monitor     bool
	port        int
	openBrowser bool
	uniqueIDs   bool
	verbose     bool
}

func readRunOptions(cmd *cobra.Command) runOptions {
	flags := cmd.Flags()

	var opts runOptions
	opts.config, _ = flags.GetString("config")
	opts.until, _ = flags.GetString("until")
	opts.record, _ = flags.GetBool("record")
	opts.dbName, _ = flags.GetString("db")
	opts.monitor, _ = flags.GetBool("monitor")
	opts.port, _ = flags.GetInt("port")
	opts.openBrowser, _ = flags.GetBool("open-browser")
	opts.uniqueIDs, _ = flags.GetBool("unique-ids")
	opts.verbose, _ = flags.GetBool("verbose")

	return opts
}

func runScenario(opts runOptions, stdout, stderr io.Writer) error {
	s, err := scenario.Load(opts.config)
	if err != nil {
		return err
	}

	if opts.until != "" {
		until, err := timing.ParseVTime(opts.until)
		if err != nil {
			return fmt.Errorf("--until: %w", err)
		}

		if until <= 0 {
			return fmt.Errorf("--until: %s is not a positive time", until)
		}

		s.Duration = scenario.Duration(until)
	}

	if opts.uniqueIDs {
		id.UseUniqueIDs()
	}

	sim, err := scenario.Build(s)
	if err != nil {
		return err
	}

	stats := attachStatTracers(sim)

	if opts.verbose {
		attachLoggers(sim, log.New(stderr, "", 0))
	}

	var finishers []func()

	if opts.record {
		finishers = append(finishers,
			startRecording(sim, opts.dbName, stderr))
	}

	if opts.monitor {
		finishers = append(finishers, startMonitoring(sim, opts, stderr))
	}

	err = sim.Run()

	for _, finish := range finishers {
		finish()
	}

	if err != nil {
		return err
	}

	return printReport(stdout, sim, stats)
}

// linkTracers collect the statistics that the components do not count
// themselves.
type linkTracers struct {
	busy  map[string]*tracing.BusyTimeTracer
	delay map[string]*tracing.AverageTimeTracer
	drops *tracing.MilestoneCountTracer
}

func attachStatTracers(sim *scenario.Simulation) *linkTracers {
	t := &linkTracers{
		busy:  make(map[string]*tracing.BusyTimeTracer),
		delay: make(map[string]*tracing.AverageTimeTracer),
		drops: tracing.NewMilestoneCountTracer(tracing.MilestoneKindDrop),
	}

	for _, l := range sim.Links {
		busy := tracing.NewBusyTimeTracer(
			tracing.KindFilter(tracing.KindTransmission))
		tracing.CollectTrace(l.Transmitter, busy)
		t.busy[l.Name] = busy

		delay := tracing.NewAverageTimeTracer(
			tracing.KindFilter(tracing.KindReception))
		tracing.CollectTrace(l.Receiver, delay)
		t.delay[l.Name] = delay
	}

	for _, c := range sim.Components() {
		tracing.CollectTrace(c, t.drops)
	}

	return t
}

func attachLoggers(sim *scenario.Simulation, logger *log.Logger) {
	sim.Engine.AcceptHook(timing.NewEventLogger(logger))

	tracer := tracing.NewLogTracer(logger)
	for _, c := range sim.Components() {
		tracing.CollectTrace(c, tracer)
	}
}

func startRecording(
	sim *scenario.Simulation,
	dbName string,
	stderr io.Writer,
) func() {
	recorder := datarecording.New(dbName)

	execRecorder := datarecording.NewExecRecorder(recorder)
	execRecorder.Start()
	execRecorder.Add("Scenario", sim.Scenario.Name)
	execRecorder.Add("Duration", sim.Scenario.Duration.VTime().String())

	tracer := tracing.NewDBTracer(sim.Engine, recorder)
	for _, c := range sim.Components() {
		tracing.CollectTrace(c, tracer)
	}

	return func() {
		tracer.Terminate()
		execRecorder.End()

		if err := recorder.Close(); err != nil {
			fmt.Fprintf(stderr, "Closing the recording: %v\n", err)
		}
	}
}

func startMonitoring(
	sim *scenario.Simulation,
	opts runOptions,
	stderr io.Writer,
) func() {
	m := monitoring.NewMonitor().WithPortNumber(opts.port)
	m.RegisterEngine(sim.Engine)

	for _, c := range sim.Components() {
		m.RegisterComponent(c)
	}

	duration := sim.Scenario.Duration.VTime()
	bar := m.CreateProgressBar(sim.Scenario.Name, uint64(duration))
	sim.Engine.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
		if ctx.Pos == timing.HookPosAfterEvent {
			bar.SetFinished(uint64(min(sim.Engine.CurrentTime(), duration)))
		}
	}))

	port := m.StartServer()
	if opts.openBrowser {
		url := fmt.Sprintf("http://localhost:%d", port)
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(stderr, "Opening the browser: %v\n", err)
		}
	}

	return func() {
		m.CompleteProgressBar(bar)
	}
}
