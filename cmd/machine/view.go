package machine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Manu343726/cinta/pkg/machine/interpreter"
	"github.com/Manu343726/cinta/pkg/machine/program"
	"github.com/Manu343726/cinta/pkg/machine/window"
	"github.com/Manu343726/cinta/pkg/utils"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	cellWidth    = 5
	cursorRegion = "cursor"
)

// tview color tags for each instruction category
var categoryTags = map[program.Category]string{
	program.CategoryNone:       "[gray]",
	program.CategoryMove:       "[teal]",
	program.CategoryArithmetic: "[yellow]",
	program.CategoryIO:         "[green]",
	program.CategoryControl:    "[fuchsia::b]",
}

const helpHint = "r:run s:step p:pause c:continue x:stop b:breakpoint +/-:speed q:quit"

// view is the terminal host of a runner: it renders the tape window, the
// program and the output, and turns key presses into runner calls.
//
// Engine hooks run on the goroutine that steps the engine, so they only
// record what changed and signal the redraw pump. The pump queues renders on
// the tview goroutine, which reads the engine through Runner.Inspect. Nothing
// that holds the engine lock or runs on the tview goroutine ever waits for the
// tview event queue.
type view struct {
	app     *tview.Application
	runner  *interpreter.Runner
	program *program.Program
	window  *window.Window
	name    string
	logger  *slog.Logger

	header *tview.TextView
	tape   *tview.TextView
	source *tview.TextView
	output *tview.TextView
	input  *tview.InputField
	status *tview.TextView
	main   *tview.Flex

	// mu guards the fields below, written from engine hooks
	mu         sync.Mutex
	out        strings.Builder
	message    string
	awaiting   bool
	focusInput bool

	redraw   chan struct{}
	done     chan struct{}
	unfollow func()
}

func newView(runner *interpreter.Runner, p *program.Program, name string, windowSize int, logger *slog.Logger) (*view, error) {
	v := &view{
		app:     tview.NewApplication(),
		runner:  runner,
		program: p,
		name:    name,
		logger:  logger,
		redraw:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	var err error
	runner.Inspect(func(e *interpreter.Engine) {
		v.window, err = window.Centered(e, windowSize, e.Pointer())
		if err != nil {
			return
		}
		v.unfollow = window.Follow(e, v.window, func(window.Event) { v.requestDraw() })
		e.Subscribe(interpreter.Hooks{
			OnOutput:       v.onOutput,
			OnInputRequest: v.onInputRequest,
			OnReset:        v.onReset,
		})
	})
	if err != nil {
		return nil, err
	}

	runner.OnStep(func(interpreter.Status) { v.requestDraw() })
	runner.OnStop(v.onStop)

	v.build()
	return v, nil
}

func (v *view) build() {
	v.header = tview.NewTextView().SetDynamicColors(true)

	v.tape = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	v.tape.SetBorder(true).SetTitle(" Tape ")

	v.source = tview.NewTextView().SetDynamicColors(true).SetRegions(true)
	v.source.SetBorder(true).SetTitle(fmt.Sprintf(" %s ", tview.Escape(v.name)))

	v.output = tview.NewTextView().SetDynamicColors(true)
	v.output.SetBorder(true).SetTitle(" Output ")

	v.input = tview.NewInputField().
		SetLabel("input: ").
		SetFieldWidth(8).
		SetDoneFunc(v.onInputDone)

	v.status = tview.NewTextView().SetDynamicColors(true)

	v.main = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.header, 1, 0, false).
		AddItem(v.tape, 6, 0, false).
		AddItem(v.source, 0, 2, true).
		AddItem(v.output, 0, 1, false).
		AddItem(v.input, 1, 0, false).
		AddItem(v.status, 1, 0, false)

	v.app.SetRoot(v.main, true)
	v.app.SetInputCapture(v.captureInput)
	v.render()
}

// Run blocks until the user quits
func (v *view) Run() error {
	go v.pump()
	defer close(v.done)
	defer v.unfollow()
	defer v.runner.Pause()
	return v.app.Run()
}

// pump turns redraw signals into renders on the tview goroutine
func (v *view) pump() {
	for {
		select {
		case <-v.done:
			return
		case <-v.redraw:
			v.app.QueueUpdateDraw(v.render)
		}
	}
}

// --- Engine and runner notifications ---

func (v *view) onOutput(value byte) {
	v.mu.Lock()
	v.out.WriteByte(value)
	v.mu.Unlock()
}

func (v *view) onInputRequest(cell interpreter.CellSnapshot) {
	v.mu.Lock()
	v.awaiting = true
	v.focusInput = true
	v.message = fmt.Sprintf("[yellow]input requested for cell %d, type one character and press enter[-]", cell.Index)
	v.mu.Unlock()
	v.requestDraw()
}

func (v *view) onReset() {
	v.mu.Lock()
	v.out.Reset()
	v.awaiting = false
	v.mu.Unlock()
}

func (v *view) onStop(result interpreter.RunResult) {
	var message string
	switch result.Reason {
	case interpreter.StopHalted:
		message = "[green]program finished[-]"
	case interpreter.StopFault:
		message = fmt.Sprintf("[red]fault at %d: %s[-]", result.Status.Position, tview.Escape(result.Status.Message()))
	case interpreter.StopBreakpoint:
		message = fmt.Sprintf("[red]breakpoint at %d[-]", result.Breakpoint)
	case interpreter.StopAwaitingInput:
		// onInputRequest already set the message
		return
	default:
		message = result.Reason.String()
	}
	v.setMessage(message)
}

func (v *view) setMessage(message string) {
	v.mu.Lock()
	v.message = message
	v.mu.Unlock()
	v.requestDraw()
}

// requestDraw asks for one redraw without blocking. Requests made while one
// is pending are merged, so a fast run loop never floods the tview event queue.
func (v *view) requestDraw() {
	select {
	case v.redraw <- struct{}{}:
	default:
	}
}

// --- Input handling ---

func (v *view) captureInput(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		v.app.Stop()
		return nil
	}
	if v.app.GetFocus() == v.input {
		return event
	}
	if event.Key() != tcell.KeyRune {
		return event
	}

	switch event.Rune() {
	case 'q', 'Q':
		v.app.Stop()
	case 'r':
		v.run()
	case 'c':
		v.resume()
	case 's':
		v.step()
	case 'p':
		v.runner.Pause()
		v.setMessage("paused")
	case 'x':
		v.runner.Stop()
		v.setMessage("stopped")
	case 'b':
		v.toggleBreakpoint()
	case '+', '=':
		v.runner.SetDelay(decreaseDelay(v.runner.Delay()))
		v.setMessage(fmt.Sprintf("speed: %s", getSpeedName(v.runner.Delay())))
	case '-':
		v.runner.SetDelay(increaseDelay(v.runner.Delay()))
		v.setMessage(fmt.Sprintf("speed: %s", getSpeedName(v.runner.Delay())))
	case 'i':
		if v.isAwaiting() {
			v.app.SetFocus(v.input)
		}
	default:
		return event
	}
	return nil
}

func (v *view) run() {
	var state interpreter.State
	v.runner.Inspect(func(e *interpreter.Engine) { state = e.State() })

	if state.IsTerminal() {
		v.runner.Stop()
	}
	if err := v.runner.Start(); err != nil {
		v.setMessage(v.errorMessage(err))
		return
	}
	v.setMessage("running")
}

func (v *view) resume() {
	var state interpreter.State
	v.runner.Inspect(func(e *interpreter.Engine) { state = e.State() })

	if state != interpreter.StatePaused {
		v.setMessage(fmt.Sprintf("nothing to continue while %s", state))
		return
	}
	if err := v.runner.Start(); err != nil {
		v.setMessage(v.errorMessage(err))
		return
	}
	v.setMessage("running")
}

func (v *view) step() {
	status, err := v.runner.Step()
	if err != nil {
		v.setMessage(v.errorMessage(err))
		return
	}

	switch status.Kind {
	case interpreter.StatusHalted:
		v.setMessage("[green]program finished[-]")
	case interpreter.StatusFault:
		v.setMessage(fmt.Sprintf("[red]fault: %s[-]", tview.Escape(status.Message())))
	case interpreter.StatusAwaitingInput:
		// onInputRequest already set the message
	default:
		v.setMessage(fmt.Sprintf("step %s %s", tview.Escape(status.Instruction.String()), status.Instruction.Mnemonic()))
	}
	v.requestDraw()
}

func (v *view) toggleBreakpoint() {
	var cursor int
	v.runner.Inspect(func(e *interpreter.Engine) { cursor = e.Program().NextInstruction(e.Cursor()) })

	set, err := v.runner.ToggleBreakpoint(cursor)
	if err != nil {
		v.setMessage(v.errorMessage(err))
		return
	}
	if set {
		v.setMessage(fmt.Sprintf("breakpoint set at %d", cursor))
	} else {
		v.setMessage(fmt.Sprintf("breakpoint removed at %d", cursor))
	}
}

func (v *view) onInputDone(key tcell.Key) {
	switch key {
	case tcell.KeyEnter:
		if err := v.runner.Resume(v.input.GetText()); err != nil {
			if errors.Is(err, interpreter.ErrInput) {
				v.setMessage("[red]type exactly one character[-]")
			} else {
				v.setMessage(v.errorMessage(err))
			}
			return
		}
		v.mu.Lock()
		v.awaiting = false
		v.message = ""
		v.mu.Unlock()
		v.input.SetText("")
		v.app.SetFocus(v.source)
		v.render()
	case tcell.KeyEscape:
		v.app.SetFocus(v.source)
	}
}

func (v *view) isAwaiting() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.awaiting
}

func (v *view) errorMessage(err error) string {
	v.logger.Debug("visualizer command failed", "error", err)
	return fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error()))
}

// --- Rendering ---

// render refreshes every pane. It must run on the tview goroutine.
func (v *view) render() {
	var snapshot interpreter.Snapshot
	var slots []window.Slot
	v.runner.Inspect(func(e *interpreter.Engine) {
		snapshot = e.Snapshot()
		slots = v.window.Slots()
	})
	breakpoints := v.runner.Breakpoints()

	v.mu.Lock()
	out := v.out.String()
	message := v.message
	focusInput := v.focusInput
	v.focusInput = false
	v.mu.Unlock()

	if focusInput {
		v.app.SetFocus(v.input)
	}

	delay := v.runner.Delay()
	header := fmt.Sprintf(" [::b]cinta[::-]  state: [yellow]%s[-]  speed: %s (%v)  steps: %d  pointer: %d  cursor: %d",
		snapshot.State, getSpeedName(delay), delay, snapshot.Steps, snapshot.Pointer, snapshot.Cursor)
	if len(breakpoints) > 0 {
		header += "  breakpoints: [red]" + utils.FormatSlice(breakpoints, ",") + "[-]"
	}
	v.header.SetText(header)

	v.tape.SetText(renderTape(slots, snapshot.Pointer))

	v.source.SetText(renderSource(v.program, snapshot.Cursor, breakpoints))
	v.source.Highlight(cursorRegion).ScrollToHighlight()

	v.output.SetText(tview.Escape(out))
	v.output.ScrollToEnd()

	if message == "" {
		message = "[gray]" + helpHint + "[-]"
	}
	v.status.SetText(" " + message)
}

// renderTape draws three rows (indices, values, characters) for the window
// slots plus a marker row under the pointer
func renderTape(slots []window.Slot, pointer int) string {
	var indices, values, chars, marker strings.Builder

	for _, s := range slots {
		indices.WriteString(fmt.Sprintf("[gray]%*d[-]", cellWidth, s.Index))

		if !s.Populated {
			values.WriteString(fmt.Sprintf("[gray]%*s[-]", cellWidth, "."))
			chars.WriteString(strings.Repeat(" ", cellWidth))
			marker.WriteString(strings.Repeat(" ", cellWidth))
			continue
		}

		tag := "[white]"
		if s.Index == pointer {
			tag = "[black:yellow]"
		}
		values.WriteString(fmt.Sprintf("%s%*d[-:-]", tag, cellWidth, s.Value))
		chars.WriteString(fmt.Sprintf("[teal]%*s[-]", cellWidth, tview.Escape(utils.FormatByteChar(s.Value))))

		if s.Index == pointer {
			marker.WriteString(fmt.Sprintf("[yellow]%*s[-]", cellWidth, "^"))
		} else {
			marker.WriteString(strings.Repeat(" ", cellWidth))
		}
	}

	return strings.Join([]string{indices.String(), values.String(), chars.String(), marker.String()}, "\n")
}

// renderSource colors the program one character at a time. The character at
// cursor is wrapped in a region so the view can scroll to it.
func renderSource(p *program.Program, cursor int, breakpoints []int) string {
	marked := make(map[int]bool, len(breakpoints))
	for _, b := range breakpoints {
		marked[b] = true
	}

	source := p.Source()
	var builder strings.Builder
	for i, c := range source {
		text := tview.Escape(string(c))

		switch {
		case i == cursor:
			builder.WriteString(fmt.Sprintf(`["%s"][black:green]%s[-:-:-][""]`, cursorRegion, text))
		case marked[i]:
			builder.WriteString(fmt.Sprintf("[red::u]%s[-:-:-]", text))
		default:
			builder.WriteString(categoryTags[program.Instruction(source[i]).Category()])
			builder.WriteString(text)
			builder.WriteString("[-:-:-]")
		}
	}

	if cursor >= len(source) {
		builder.WriteString(fmt.Sprintf(`["%s"][black:green] [-:-:-][""]`, cursorRegion))
	}
	return builder.String()
}
