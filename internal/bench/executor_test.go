package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wt-hali/experiment-core/pkg/models"
)

func testConfig() models.RunConfig {
	return models.RunConfig{
		Name:             "exp2.2_buffer10_wlmixed",
		CompressionLevel: 0.5,
		BufferSize:       0.01,
		DatasetType:      models.DatasetClustered,
		DatasetSize:      500_000,
		WorkloadType:     models.WorkloadMixed,
		NumOperations:    models.DefaultNumOperations,
	}
}

func TestArgsMapping(t *testing.T) {
	args := Args(testConfig())

	want := []string{
		"--compression=0.5",
		"--buffer=0.01",
		"--dataset=clustered",
		"--size=500000",
		"--workload=mixed",
		"--operations=100000",
	}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(args))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d: expected %s, got %s", i, want[i], args[i])
		}
	}
}

// fakeInvoker simulates subprocess outcomes without spawning processes.
type fakeInvoker struct {
	inv     Invocation
	calls   int
	gotPath string
	gotArgs []string
}

func (f *fakeInvoker) Invoke(_ context.Context, path string, args []string) Invocation {
	f.calls++
	f.gotPath = path
	f.gotArgs = args
	return f.inv
}

func TestRunSuccessParsesMetrics(t *testing.T) {
	fake := &fakeInvoker{inv: Invocation{
		Stdout:   "Mean Lookup: 54.7 ns\nInsert Throughput: 14700000 ops/sec\n",
		WallTime: 2 * time.Second,
	}}
	e := &Executor{Invoker: fake, SimulatorPath: "./simulator", Timeout: time.Minute}

	outcome := e.Run(context.Background(), testConfig())

	if outcome.Status != models.RunStatusSuccess {
		t.Fatalf("expected success, got %s (%s)", outcome.Status, outcome.Error)
	}
	if outcome.Metrics == nil || *outcome.Metrics.LookupNS != 54.7 {
		t.Fatalf("expected parsed metrics, got %+v", outcome.Metrics)
	}
	if outcome.ElapsedSeconds != 2 {
		t.Fatalf("expected elapsed 2s, got %f", outcome.ElapsedSeconds)
	}
	if fake.calls != 1 {
		t.Fatalf("expected exactly one invocation, got %d", fake.calls)
	}
	if fake.gotPath != "./simulator" {
		t.Fatalf("expected simulator path, got %s", fake.gotPath)
	}
}

func TestRunNonZeroExitIsFailed(t *testing.T) {
	fake := &fakeInvoker{inv: Invocation{
		ExitCode: 2,
		Stderr:   "segfault in expert router",
	}}
	e := &Executor{Invoker: fake, SimulatorPath: "./simulator", Timeout: time.Minute}

	outcome := e.Run(context.Background(), testConfig())

	if outcome.Status != models.RunStatusFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
	if outcome.Error != "segfault in expert router" {
		t.Fatalf("expected stderr preserved, got %q", outcome.Error)
	}
	if outcome.Metrics != nil {
		t.Fatalf("expected no metrics on failure")
	}
}

func TestRunTimeoutDropsMetrics(t *testing.T) {
	fake := &fakeInvoker{inv: Invocation{
		TimedOut: true,
		Stdout:   "Mean Lookup: 54.7 ns\n", // partial output must be discarded
	}}
	e := &Executor{Invoker: fake, SimulatorPath: "./simulator", Timeout: time.Minute}

	outcome := e.Run(context.Background(), testConfig())

	if outcome.Status != models.RunStatusTimeout {
		t.Fatalf("expected timeout, got %s", outcome.Status)
	}
	if outcome.Metrics != nil {
		t.Fatalf("expected partial metrics to be dropped on timeout")
	}
}

func TestRunLaunchFaultIsException(t *testing.T) {
	fake := &fakeInvoker{inv: Invocation{
		LaunchErr: errors.New("fork/exec ./simulator: no such file or directory"),
	}}
	e := &Executor{Invoker: fake, SimulatorPath: "./simulator", Timeout: time.Minute}

	outcome := e.Run(context.Background(), testConfig())

	if outcome.Status != models.RunStatusException {
		t.Fatalf("expected exception, got %s", outcome.Status)
	}
	if outcome.Error == "" {
		t.Fatalf("expected fault description in outcome")
	}
}

func TestRunDryRunSpawnsNothing(t *testing.T) {
	fake := &fakeInvoker{}
	e := &Executor{Invoker: fake, SimulatorPath: "./simulator", Timeout: time.Minute, DryRun: true}

	outcome := e.Run(context.Background(), testConfig())

	if outcome.Status != models.RunStatusDryRun {
		t.Fatalf("expected dry_run, got %s", outcome.Status)
	}
	if fake.calls != 0 {
		t.Fatalf("dry run must not invoke the subprocess, got %d calls", fake.calls)
	}
	if len(outcome.Args) != 6 {
		t.Fatalf("expected would-be argument vector recorded, got %v", outcome.Args)
	}
}

func TestSubprocessTimeoutTerminatesChild(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	inv := SubprocessInvoker{}.Invoke(ctx, "sleep", []string{"30"})
	elapsed := time.Since(start)

	if !inv.TimedOut {
		t.Fatalf("expected timed-out invocation, got %+v", inv)
	}
	// The child is killed at the deadline; Invoke must return promptly
	// rather than waiting out the sleep.
	if elapsed > 5*time.Second {
		t.Fatalf("expected prompt return after deadline, took %v", elapsed)
	}
}

func TestSubprocessNonZeroExit(t *testing.T) {
	inv := SubprocessInvoker{}.Invoke(context.Background(), "sh", []string{"-c", "echo oops >&2; exit 3"})

	if inv.TimedOut || inv.LaunchErr != nil {
		t.Fatalf("expected plain nonzero exit, got %+v", inv)
	}
	if inv.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", inv.ExitCode)
	}
	if inv.Stderr != "oops\n" {
		t.Fatalf("expected stderr captured, got %q", inv.Stderr)
	}
}

func TestSubprocessLaunchFault(t *testing.T) {
	e := NewExecutor("/nonexistent/simulator-binary", time.Minute)

	outcome := e.Run(context.Background(), testConfig())

	if outcome.Status != models.RunStatusException {
		t.Fatalf("expected exception for missing binary, got %s", outcome.Status)
	}
}
