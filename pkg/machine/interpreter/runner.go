// Package interpreter executes tape machine programs one instruction at a
// time.
//
// # Runner - Host Loop
//
// The Runner owns the scheduling loop that calls Engine.Step on a fixed
// cadence. It implements the host control semantics:
//
//   - Start: begin (or continue) auto-stepping
//   - Pause: stop the loop without touching tape, pointer or cursor
//   - Stop: Pause followed by an engine reset
//   - SetDelay: change the cadence; a running loop is stopped and restarted
//
// Stopping is cooperative: an in-flight step always completes before the loop
// exits. Every engine access goes through a single mutex, so the loop
// goroutine and a UI goroutine never observe a half-executed step.
package interpreter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DefaultDelay is the default delay between two auto-run steps
const DefaultDelay = 30 * time.Millisecond

// StopReason indicates why a run loop stopped
type StopReason int

const (
	// StopNone indicates execution has not stopped
	StopNone StopReason = iota
	// StopPaused indicates the loop was paused by the host
	StopPaused
	// StopHalted indicates the program finished
	StopHalted
	// StopFault indicates a memory fault
	StopFault
	// StopAwaitingInput indicates the program requested input
	StopAwaitingInput
	// StopBreakpoint indicates execution reached a breakpoint
	StopBreakpoint
	// StopMaxSteps indicates the step limit was reached
	StopMaxSteps
	// StopCancelled indicates the context of a synchronous run was cancelled
	StopCancelled
)

// String returns the string representation of a StopReason
func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopPaused:
		return "paused"
	case StopHalted:
		return "halted"
	case StopFault:
		return "fault"
	case StopAwaitingInput:
		return "awaiting_input"
	case StopBreakpoint:
		return "breakpoint"
	case StopMaxSteps:
		return "max_steps"
	case StopCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", r)
	}
}

// RunResult contains the result of a run loop
type RunResult struct {
	// Reason indicates why the loop stopped
	Reason StopReason
	// StepsExecuted is the number of instructions dispatched by this loop
	StepsExecuted int
	// Status is the status returned by the last step, if any
	Status Status
	// Breakpoint is the position of the breakpoint that stopped the loop
	Breakpoint int
}

// Runner drives an Engine from a timed loop
type Runner struct {
	// mu serializes every engine access
	mu          sync.Mutex
	engine      *Engine
	breakpoints map[int]bool
	// resumeRunning is set when the auto-run loop stopped on an input
	// request. Guarded by mu so it changes together with the engine state.
	resumeRunning bool

	// loopMu guards the loop bookkeeping below. It is never acquired while
	// holding mu.
	loopMu sync.Mutex
	delay  time.Duration
	cancel context.CancelFunc
	done   chan struct{}
	// generation counts started auto-run loops
	generation int
	onStep     func(Status)
	onStop func(RunResult)

	logger *slog.Logger
}

// NewRunner creates a runner for the given engine. A nil logger discards logs.
func NewRunner(engine *Engine, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		engine:      engine,
		breakpoints: make(map[int]bool),
		delay:       DefaultDelay,
		logger:      logger,
	}
}

// OnStep sets a callback invoked after every step of a run loop. It is
// called outside the engine lock from the loop goroutine.
func (r *Runner) OnStep(callback func(Status)) {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	r.onStep = callback
}

// OnStop sets a callback invoked when a run loop stops on its own (halt,
// fault, input request, breakpoint, step limit or an engine paused from
// another goroutine). It is not called for Pause, Stop or SetDelay. The loop
// is already detached when OnStep reports its last step, so both callbacks
// may start a new run.
func (r *Runner) OnStop(callback func(RunResult)) {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	r.onStop = callback
}

// Inspect runs fn with exclusive access to the engine. fn must not call
// runner methods.
func (r *Runner) Inspect(fn func(e *Engine)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.engine)
}

// Delay returns the delay between two auto-run steps
func (r *Runner) Delay() time.Duration {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	return r.delay
}

// SetDelay changes the delay between two auto-run steps. A running loop is
// stopped after its in-flight step and restarted with the new delay.
func (r *Runner) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}

	r.loopMu.Lock()
	r.delay = delay
	r.loopMu.Unlock()

	if r.stopLoop() {
		r.loopMu.Lock()
		if r.cancel == nil {
			// a concurrent Pause may have switched the engine to manual mode
			r.mu.Lock()
			running := r.engine.State() == StateRunning
			r.mu.Unlock()
			if running {
				r.startLoopLocked()
			}
		}
		r.loopMu.Unlock()
	}

	r.logger.Debug("delay changed", "delay", delay)
}

// Running returns true while an auto-run loop is active
func (r *Runner) Running() bool {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	return r.cancel != nil
}

// Start begins auto-stepping from the current engine state
func (r *Runner) Start() error {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if r.cancel != nil {
		return makeError(ErrInvalidState, "run loop already active")
	}

	r.mu.Lock()
	err := r.engine.Continue()
	if err == nil {
		r.resumeRunning = false
	}
	r.mu.Unlock()
	if err != nil {
		return err
	}

	r.startLoopLocked()
	r.logger.Info("run loop started", "delay", r.delay)
	return nil
}

// Pause stops the auto-run loop after its in-flight step and switches the
// engine to manual stepping. Tape, pointer and cursor are untouched.
func (r *Runner) Pause() {
	r.stopLoop()

	r.mu.Lock()
	r.resumeRunning = false
	// an engine awaiting input or terminated has nothing to pause
	_ = r.engine.Pause()
	r.mu.Unlock()

	r.logger.Debug("run loop paused")
}

// Stop pauses and resets the engine
func (r *Runner) Stop() {
	r.stopLoop()

	r.mu.Lock()
	r.resumeRunning = false
	r.engine.Reset()
	r.mu.Unlock()

	r.logger.Info("run stopped")
}

// Step executes one instruction manually. It is not allowed while the run
// loop is active or while input is pending. Stepping an idle engine enters
// manual (paused) mode.
func (r *Runner) Step() (Status, error) {
	if r.Running() {
		return Status{}, makeError(ErrInvalidState, "cannot single step while running, pause first")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.engine.State() {
	case StateIdle:
		_ = r.engine.Pause()
	case StateAwaitingInput:
		return Status{}, makeError(ErrInvalidState, "cannot single step while awaiting input, resume first")
	}
	status := r.engine.Step()
	return status, nil
}

// Resume supplies the pending input. If the input was requested by the
// auto-run loop the loop is restarted, otherwise the engine stays in manual
// mode.
func (r *Runner) Resume(input string) error {
	r.mu.Lock()
	running := r.resumeRunning
	next := StatePaused
	if running {
		next = StateRunning
	}
	err := r.engine.Resume(input, next)
	if err == nil {
		r.resumeRunning = false
	}
	r.mu.Unlock()
	if err != nil {
		return err
	}

	if running {
		r.loopMu.Lock()
		if r.cancel == nil {
			r.startLoopLocked()
		}
		r.loopMu.Unlock()
	}
	return nil
}

// Wait blocks until the active run loop, if any, stops
func (r *Runner) Wait() {
	r.loopMu.Lock()
	done := r.done
	r.loopMu.Unlock()

	if done != nil {
		<-done
	}
}

// RunSync runs the loop on the calling goroutine until it stops, ctx is
// cancelled or maxSteps instructions were dispatched (0 = unlimited)
func (r *Runner) RunSync(ctx context.Context, maxSteps int) (RunResult, error) {
	r.loopMu.Lock()
	if r.cancel != nil {
		r.loopMu.Unlock()
		return RunResult{}, makeError(ErrInvalidState, "run loop already active")
	}
	delay := r.delay
	r.loopMu.Unlock()

	r.mu.Lock()
	err := r.engine.Continue()
	r.mu.Unlock()
	if err != nil {
		return RunResult{}, err
	}

	// Resume after an input request keeps the engine in manual mode; the
	// next RunSync call switches it back to running
	result := r.loop(ctx, delay, maxSteps, nil)
	if result.Reason == StopCancelled {
		r.mu.Lock()
		_ = r.engine.Pause()
		r.mu.Unlock()
	}
	r.logger.Debug("run loop stopped", "reason", result.Reason, "steps", result.StepsExecuted)
	return result, nil
}

// --- Breakpoint Management ---

// AddBreakpoint marks a program position. Auto-run loops stop before
// executing the instruction at a marked position.
func (r *Runner) AddBreakpoint(position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engine.Program().At(position); !ok {
		return makeError(ErrInvalidBreakpoint, "position %d is not an instruction", position)
	}
	r.breakpoints[position] = true
	return nil
}

// RemoveBreakpoint removes a breakpoint, returning false if there was none
func (r *Runner) RemoveBreakpoint(position int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.breakpoints[position] {
		return false
	}
	delete(r.breakpoints, position)
	return true
}

// ToggleBreakpoint adds or removes a breakpoint and returns whether it is now set
func (r *Runner) ToggleBreakpoint(position int) (bool, error) {
	if r.RemoveBreakpoint(position) {
		return false, nil
	}
	if err := r.AddBreakpoint(position); err != nil {
		return false, err
	}
	return true, nil
}

// Breakpoints returns all breakpoint positions sorted
func (r *Runner) Breakpoints() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	positions := make([]int, 0, len(r.breakpoints))
	for position := range r.breakpoints {
		positions = append(positions, position)
	}
	sort.Ints(positions)
	return positions
}

// ClearBreakpoints removes all breakpoints
func (r *Runner) ClearBreakpoints() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakpoints = make(map[int]bool)
}

// --- Helper functions ---

// startLoopLocked launches the loop goroutine. loopMu must be held.
func (r *Runner) startLoopLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.generation++
	generation := r.generation
	delay := r.delay

	// detach forgets this loop so Start, Resume and Running see no active
	// loop. Called once the loop has decided to stop on its own.
	detach := func() {
		r.loopMu.Lock()
		defer r.loopMu.Unlock()
		if r.done == done {
			r.cancel = nil
			r.done = nil
		}
	}

	go func() {
		defer close(done)
		defer cancel()

		result := r.loop(ctx, delay, 0, detach)
		if result.Reason == StopCancelled {
			return
		}

		detach()
		r.loopMu.Lock()
		onStop := r.onStop
		// a loop started from OnStep (input supplied right away) reports
		// the outcome instead of this one
		if r.generation != generation {
			onStop = nil
		}
		r.loopMu.Unlock()

		r.logger.Debug("run loop stopped", "reason", result.Reason, "steps", result.StepsExecuted)
		if result.Reason == StopFault {
			r.logger.Error("execution fault", "position", result.Status.Position, "error", result.Status.Err)
		}
		if onStop != nil {
			onStop(result)
		}
	}()
}

// stopLoop cancels the active loop and waits for its in-flight step. Returns
// true if a loop was active.
func (r *Runner) stopLoop() bool {
	r.loopMu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.loopMu.Unlock()

	if cancel == nil {
		return false
	}
	cancel()
	<-done
	return true
}

// loop steps the engine until it stops. detach is nil for synchronous runs;
// auto-run loops pass it to be detached before the last step is reported.
func (r *Runner) loop(ctx context.Context, delay time.Duration, maxSteps int, detach func()) RunResult {
	result := RunResult{}
	stop := func(reason StopReason) RunResult {
		result.Reason = reason
		if detach != nil {
			detach()
		}
		return result
	}

	var tick <-chan time.Time
	if delay > 0 {
		ticker := time.NewTicker(delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	for first := true; ; first = false {
		if maxSteps > 0 && result.StepsExecuted >= maxSteps {
			r.mu.Lock()
			_ = r.engine.Pause()
			r.mu.Unlock()
			return stop(StopMaxSteps)
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				result.Reason = StopCancelled
				return result
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				result.Reason = StopCancelled
				return result
			default:
			}
		}

		r.mu.Lock()
		if r.engine.State() == StatePaused {
			r.mu.Unlock()
			return stop(StopPaused)
		}
		// a loop started on a breakpoint steps over it
		if !first {
			next := r.engine.Program().NextInstruction(r.engine.Cursor())
			if r.breakpoints[next] && !r.engine.State().IsTerminal() {
				_ = r.engine.Pause()
				r.mu.Unlock()
				result.Breakpoint = next
				return stop(StopBreakpoint)
			}
		}
		status := r.engine.Step()
		if status.Kind == StatusAwaitingInput && detach != nil {
			r.resumeRunning = true
		}
		r.mu.Unlock()

		result.Status = status
		if status.Kind != StatusHalted && status.Kind != StatusFault {
			result.StepsExecuted++
		}

		reason := StopNone
		switch status.Kind {
		case StatusHalted:
			reason = StopHalted
		case StatusFault:
			reason = StopFault
		case StatusAwaitingInput:
			reason = StopAwaitingInput
		}
		if reason != StopNone && detach != nil {
			detach()
		}

		r.loopMu.Lock()
		onStep := r.onStep
		r.loopMu.Unlock()
		if onStep != nil {
			onStep(status)
		}

		if reason != StopNone {
			result.Reason = reason
			return result
		}
	}
}
