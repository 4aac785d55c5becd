package interpreter

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, source string, delay time.Duration) *Runner {
	t.Helper()
	r := NewRunner(mustEngine(t, source), nil)
	r.SetDelay(delay)
	return r
}

// outputRecorder collects output bytes reported by a run loop
type outputRecorder struct {
	mu  sync.Mutex
	out strings.Builder
}

func (o *outputRecorder) record(status Status) {
	if status.Kind != StatusOutput {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.out.WriteByte(status.Value)
}

func (o *outputRecorder) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.out.String()
}

func waitStop(t *testing.T, stops <-chan RunResult) RunResult {
	t.Helper()
	select {
	case result := <-stops:
		return result
	case <-time.After(5 * time.Second):
		t.Fatal("run loop did not stop")
		return RunResult{}
	}
}

func steps(r *Runner) int {
	var n int
	r.Inspect(func(e *Engine) { n = e.Steps() })
	return n
}

func TestRunner_Defaults(t *testing.T) {
	r := NewRunner(mustEngine(t, "+"), nil)
	assert.Equal(t, DefaultDelay, r.Delay())
	assert.False(t, r.Running())

	r.SetDelay(-time.Second)
	assert.Equal(t, time.Duration(0), r.Delay())
}

func TestRunner_RunSyncHelloWorld(t *testing.T) {
	source, err := os.ReadFile("testdata/hello.b")
	require.NoError(t, err)

	r := newTestRunner(t, string(source), 0)
	recorder := &outputRecorder{}
	r.OnStep(recorder.record)

	result, err := r.RunSync(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, StopHalted, result.Reason)
	assert.Equal(t, 906, result.StepsExecuted)
	assert.Equal(t, StatusHalted, result.Status.Kind)
	assert.Equal(t, "Hello World!\n", recorder.String())
}

func TestRunner_RunSyncMaxSteps(t *testing.T) {
	r := newTestRunner(t, "+[]", 0)

	result, err := r.RunSync(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, StopMaxSteps, result.Reason)
	assert.Equal(t, 10, result.StepsExecuted)

	r.Inspect(func(e *Engine) {
		assert.Equal(t, StatePaused, e.State())
		assert.Equal(t, 10, e.Steps())
	})
}

func TestRunner_RunSyncCancelled(t *testing.T) {
	r := newTestRunner(t, "+[]", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.RunSync(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, StopCancelled, result.Reason)
	assert.Equal(t, 0, result.StepsExecuted)
	r.Inspect(func(e *Engine) { assert.Equal(t, StatePaused, e.State()) })
}

func TestRunner_RunSyncInput(t *testing.T) {
	r := newTestRunner(t, ",.", 0)
	recorder := &outputRecorder{}
	r.OnStep(recorder.record)

	result, err := r.RunSync(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, StopAwaitingInput, result.Reason)

	require.NoError(t, r.Resume("Z"))
	assert.False(t, r.Running())

	result, err = r.RunSync(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, StopHalted, result.Reason)
	assert.Equal(t, "Z", recorder.String())
}

func TestRunner_RunSyncOnHaltedEngine(t *testing.T) {
	r := newTestRunner(t, "", 0)

	result, err := r.RunSync(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, StopHalted, result.Reason)
	assert.Equal(t, 0, result.StepsExecuted)

	_, err = r.RunSync(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRunner_Breakpoints(t *testing.T) {
	r := newTestRunner(t, "+ ++.", 0)

	assert.ErrorIs(t, r.AddBreakpoint(1), ErrInvalidBreakpoint)
	assert.ErrorIs(t, r.AddBreakpoint(42), ErrInvalidBreakpoint)
	require.NoError(t, r.AddBreakpoint(4))
	assert.Equal(t, []int{4}, r.Breakpoints())

	result, err := r.RunSync(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, StopBreakpoint, result.Reason)
	assert.Equal(t, 4, result.Breakpoint)
	assert.Equal(t, 3, result.StepsExecuted)
	r.Inspect(func(e *Engine) {
		assert.Equal(t, 4, e.Cursor())
		assert.Equal(t, StatePaused, e.State())
	})

	// continuing from a breakpoint steps over it
	result, err = r.RunSync(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, StopHalted, result.Reason)
	assert.Equal(t, 1, result.StepsExecuted)
}

func TestRunner_ToggleBreakpoint(t *testing.T) {
	r := newTestRunner(t, "+-+", 0)

	set, err := r.ToggleBreakpoint(1)
	require.NoError(t, err)
	assert.True(t, set)

	set, err = r.ToggleBreakpoint(1)
	require.NoError(t, err)
	assert.False(t, set)
	assert.Empty(t, r.Breakpoints())

	require.NoError(t, r.AddBreakpoint(2))
	require.NoError(t, r.AddBreakpoint(0))
	assert.Equal(t, []int{0, 2}, r.Breakpoints())
	assert.True(t, r.RemoveBreakpoint(0))
	assert.False(t, r.RemoveBreakpoint(0))

	r.ClearBreakpoints()
	assert.Empty(t, r.Breakpoints())
}

func TestRunner_StartRunsToHalt(t *testing.T) {
	r := newTestRunner(t, "+++.", time.Millisecond)
	recorder := &outputRecorder{}
	stops := make(chan RunResult, 4)
	r.OnStep(recorder.record)
	r.OnStop(func(result RunResult) { stops <- result })

	require.NoError(t, r.Start())
	assert.ErrorIs(t, r.Start(), ErrInvalidState)

	result := waitStop(t, stops)
	assert.Equal(t, StopHalted, result.Reason)
	assert.Equal(t, 4, result.StepsExecuted)
	assert.Equal(t, "\x03", recorder.String())
	assert.False(t, r.Running())

	r.Wait()
	assert.ErrorIs(t, r.Start(), ErrInvalidState)
}

func TestRunner_PauseKeepsState(t *testing.T) {
	r := newTestRunner(t, "+[>+<]", time.Millisecond)
	stops := make(chan RunResult, 4)
	r.OnStop(func(result RunResult) { stops <- result })

	require.NoError(t, r.Start())
	require.Eventually(t, func() bool { return steps(r) > 10 }, 5*time.Second, time.Millisecond)

	r.Pause()
	assert.False(t, r.Running())

	var before Snapshot
	r.Inspect(func(e *Engine) { before = e.Snapshot() })
	assert.Equal(t, StatePaused, before.State)

	time.Sleep(20 * time.Millisecond)
	r.Inspect(func(e *Engine) { assert.Equal(t, before, e.Snapshot()) })

	// manual stepping continues from where the loop left off
	_, err := r.Step()
	require.NoError(t, err)
	assert.Equal(t, before.Steps+1, steps(r))

	assert.Empty(t, stops)
}

func TestRunner_StopResets(t *testing.T) {
	r := newTestRunner(t, "+[>+<]", time.Millisecond)

	require.NoError(t, r.Start())
	require.Eventually(t, func() bool { return steps(r) > 10 }, 5*time.Second, time.Millisecond)

	r.Stop()
	assert.False(t, r.Running())

	r.Inspect(func(e *Engine) {
		assert.Equal(t, StateIdle, e.State())
		assert.Equal(t, 0, e.Cursor())
		assert.Equal(t, 0, e.Pointer())
		value, err := e.Get(0)
		require.NoError(t, err)
		assert.Equal(t, uint8(0), value)
	})
}

func TestRunner_StepWhileRunning(t *testing.T) {
	r := newTestRunner(t, "+[]", time.Millisecond)

	require.NoError(t, r.Start())
	_, err := r.Step()
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = r.RunSync(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidState)

	r.Pause()
	_, err = r.Step()
	assert.NoError(t, err)
}

func TestRunner_ManualStepFromIdle(t *testing.T) {
	r := newTestRunner(t, "+,", 0)

	status, err := r.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusContinue, status.Kind)
	r.Inspect(func(e *Engine) { assert.Equal(t, StatePaused, e.State()) })

	status, err = r.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingInput, status.Kind)

	_, err = r.Step()
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.ErrorIs(t, r.Resume("too long"), ErrInput)
	require.NoError(t, r.Resume("a"))
	assert.False(t, r.Running())
	r.Inspect(func(e *Engine) { assert.Equal(t, StatePaused, e.State()) })
}

func TestRunner_SetDelayWhileRunning(t *testing.T) {
	r := newTestRunner(t, "+[]", 10*time.Millisecond)

	require.NoError(t, r.Start())
	r.SetDelay(time.Millisecond)

	assert.True(t, r.Running())
	assert.Equal(t, time.Millisecond, r.Delay())
	r.Inspect(func(e *Engine) { assert.Equal(t, StateRunning, e.State()) })

	require.Eventually(t, func() bool { return steps(r) > 10 }, 5*time.Second, time.Millisecond)
	r.Pause()
}

func TestRunner_ResumeRestartsLoop(t *testing.T) {
	r := newTestRunner(t, ",.", time.Millisecond)
	recorder := &outputRecorder{}
	stops := make(chan RunResult, 4)
	r.OnStep(recorder.record)
	r.OnStop(func(result RunResult) { stops <- result })

	require.NoError(t, r.Start())

	result := waitStop(t, stops)
	assert.Equal(t, StopAwaitingInput, result.Reason)
	assert.False(t, r.Running())

	require.NoError(t, r.Resume("!"))

	result = waitStop(t, stops)
	assert.Equal(t, StopHalted, result.Reason)
	assert.Equal(t, "!", recorder.String())
}

func TestRunner_ResumeFromOnStep(t *testing.T) {
	r := newTestRunner(t, ",.,.", 0)
	recorder := &outputRecorder{}
	stops := make(chan RunResult, 4)
	inputs := []string{"a", "b"}
	r.OnStep(func(status Status) {
		recorder.record(status)
		if status.Kind == StatusAwaitingInput {
			input := inputs[0]
			inputs = inputs[1:]
			assert.NoError(t, r.Resume(input))
		}
	})
	r.OnStop(func(result RunResult) { stops <- result })

	require.NoError(t, r.Start())

	result := waitStop(t, stops)
	assert.Equal(t, StopHalted, result.Reason)
	assert.Equal(t, "ab", recorder.String())
	assert.Empty(t, inputs)
	assert.False(t, r.Running())
	r.Inspect(func(e *Engine) { assert.Equal(t, StateHalted, e.State()) })

	// the auto-run mode was consumed, a manual input request stays manual
	r.Stop()
	r.OnStep(nil)
	status, err := r.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingInput, status.Kind)
	require.NoError(t, r.Resume("c"))
	assert.False(t, r.Running())
	r.Inspect(func(e *Engine) { assert.Equal(t, StatePaused, e.State()) })
	assert.Empty(t, stops)
}

func TestRunner_Fault(t *testing.T) {
	r := newTestRunner(t, "+.", time.Millisecond)
	stops := make(chan RunResult, 4)
	r.OnStop(func(result RunResult) { stops <- result })
	r.Inspect(breakTape)

	require.NoError(t, r.Start())
	result := waitStop(t, stops)
	assert.Equal(t, StopFault, result.Reason)
	assert.Equal(t, StatusFault, result.Status.Kind)
	assert.ErrorIs(t, result.Status.Err, ErrMemoryFault)
	assert.Equal(t, 0, result.StepsExecuted)
	assert.False(t, r.Running())

	assert.ErrorIs(t, r.Start(), ErrInvalidState)
	status, err := r.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusFault, status.Kind)

	r.Stop()
	r.Inspect(func(e *Engine) {
		assert.Equal(t, StateIdle, e.State())
		assert.NoError(t, e.Fault())
	})
}

func TestRunner_RunSyncFault(t *testing.T) {
	r := newTestRunner(t, "+", 0)
	r.Inspect(breakTape)

	result, err := r.RunSync(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, StopFault, result.Reason)
	assert.Equal(t, "fault(memory fault: cell 1 is outside the tape range [0, 0])", result.Status.String())
}

func TestRunner_SetDelayKeepsPausedEngine(t *testing.T) {
	r := newTestRunner(t, "+[]", time.Hour)
	stops := make(chan RunResult, 4)
	r.OnStop(func(result RunResult) { stops <- result })

	require.NoError(t, r.Start())
	// the engine is paused behind the loop's back while it waits for a tick
	r.Inspect(func(e *Engine) { require.NoError(t, e.Pause()) })

	r.SetDelay(time.Millisecond)
	assert.False(t, r.Running())
	assert.Equal(t, time.Millisecond, r.Delay())
	r.Inspect(func(e *Engine) {
		assert.Equal(t, StatePaused, e.State())
		assert.Equal(t, 0, e.Steps())
	})
	assert.Empty(t, stops)
}

func TestRunner_LoopStopsOnPausedEngine(t *testing.T) {
	r := newTestRunner(t, "+[]", time.Millisecond)
	stops := make(chan RunResult, 4)
	r.OnStop(func(result RunResult) { stops <- result })

	require.NoError(t, r.Start())
	require.Eventually(t, func() bool { return steps(r) > 3 }, 5*time.Second, time.Millisecond)
	r.Inspect(func(e *Engine) { require.NoError(t, e.Pause()) })

	result := waitStop(t, stops)
	assert.Equal(t, StopPaused, result.Reason)
	assert.False(t, r.Running())

	require.NoError(t, r.Start())
	r.Pause()
}

func TestRunner_AsyncBreakpoint(t *testing.T) {
	r := newTestRunner(t, "+++", time.Millisecond)
	stops := make(chan RunResult, 4)
	r.OnStop(func(result RunResult) { stops <- result })
	require.NoError(t, r.AddBreakpoint(2))

	require.NoError(t, r.Start())
	result := waitStop(t, stops)
	assert.Equal(t, StopBreakpoint, result.Reason)
	assert.Equal(t, 2, result.Breakpoint)

	require.NoError(t, r.Start())
	result = waitStop(t, stops)
	assert.Equal(t, StopHalted, result.Reason)
}

func TestStopReasonString(t *testing.T) {
	assert.Equal(t, "max_steps", StopMaxSteps.String())
	assert.Equal(t, "breakpoint", StopBreakpoint.String())
	assert.Equal(t, "unknown(99)", StopReason(99).String())
}
