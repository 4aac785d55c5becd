package machine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/Manu343726/cinta/pkg/config"
	"github.com/Manu343726/cinta/pkg/machine/interpreter"
	"github.com/Manu343726/cinta/pkg/machine/window"
	"github.com/Manu343726/cinta/pkg/utils"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	runExpression string
	runDelay      time.Duration
	runTrace      bool
	runDump       bool
	runVerbose    bool
)

// RunCmd executes a program from start to end
var RunCmd = &cobra.Command{
	Use:   "run <file|->",
	Short: "Run a tape machine program",
	Long: `Loads and executes a program until it halts.

Program output is written to stdout. Each input instruction reads one byte
from stdin; once stdin is exhausted the cell receives 0. When stdin is a
terminal a prompt is shown before reading.

Example:
  cinta run hello.b
  cinta run -e '++++++++[>++++++++<-]>+.'
  echo hi | cinta run echo.b`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	RunCmd.Flags().StringVarP(&runExpression, "expression", "e", "", "Program source given inline instead of a file")
	RunCmd.Flags().DurationVarP(&runDelay, "delay", "d", 0, "Delay between two instructions")
	RunCmd.Flags().IntP("max-steps", "n", 0, "Maximum number of instructions to execute (0 = unlimited)")
	RunCmd.Flags().BoolVarP(&runTrace, "trace", "t", false, "Trace each instruction execution to stderr")
	RunCmd.Flags().BoolVar(&runDump, "dump", false, "Print the tape around the pointer once the program stops")
	RunCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print execution details")
}

func runRun(cmd *cobra.Command, args []string) {
	bindFlags(cmd.Flags(), map[string]string{config.KeyMaxSteps: "max-steps"})
	cfg := loadConfig()
	logger, closer := openLogger(cfg, false)
	defer closer.Close()

	p, name := loadProgram(args, runExpression)
	if runVerbose {
		fmt.Fprintf(os.Stderr, "Loaded %s: %d instructions, %d brackets\n", name, p.InstructionCount(), len(p.Brackets()))
	}

	engine := interpreter.NewEngine(p)
	runner := interpreter.NewRunner(engine, logger)
	runner.SetDelay(runDelay)

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	runner.OnStep(func(status interpreter.Status) {
		if status.Kind == interpreter.StatusOutput {
			stdout.WriteByte(status.Value)
			if runDelay > 0 || status.Value == '\n' {
				stdout.Flush()
			}
		}
		if runTrace {
			traceStep(runner, status)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	input := newInputReader(os.Stdin)
	remaining := cfg.MaxSteps

	var result interpreter.RunResult
	for {
		var err error
		result, err = runner.RunSync(ctx, remaining)
		if err != nil {
			fail(exitUsage, "%v", err)
		}
		if cfg.MaxSteps > 0 {
			remaining -= result.StepsExecuted
			if remaining <= 0 && result.Reason == interpreter.StopAwaitingInput {
				// the input instruction consumed the last step
				result.Reason = interpreter.StopMaxSteps
				break
			}
		}
		if result.Reason != interpreter.StopAwaitingInput {
			break
		}

		stdout.Flush()
		value := input.next()
		if err := runner.Resume(string([]byte{value})); err != nil {
			fail(exitInput, "%v", err)
		}
	}
	stdout.Flush()

	if runDump {
		runner.Inspect(func(e *interpreter.Engine) {
			fmt.Fprint(os.Stderr, dumpTape(e, cfg.Window.Size))
		})
	}

	steps := 0
	runner.Inspect(func(e *interpreter.Engine) { steps = e.Steps() })
	if runVerbose {
		fmt.Fprintf(os.Stderr, "\n=== Execution %s ===\n", result.Reason)
		fmt.Fprintf(os.Stderr, "Steps executed: %d\n", steps)
	}

	switch result.Reason {
	case interpreter.StopHalted:
		return
	case interpreter.StopFault:
		fail(exitFault, "execution fault at position %d: %s", result.Status.Position, result.Status.Message())
	case interpreter.StopMaxSteps:
		colorWarning.Fprintf(os.Stderr, "Stopped after %d steps (max steps reached)\n", steps)
		os.Exit(exitMaxSteps)
	case interpreter.StopCancelled:
		colorWarning.Fprintf(os.Stderr, "Interrupted after %d steps\n", steps)
		os.Exit(exitInterrupted)
	}
}

// traceStep prints one trace line for a dispatched instruction
func traceStep(runner *interpreter.Runner, status interpreter.Status) {
	if status.Kind == interpreter.StatusHalted {
		return
	}
	runner.Inspect(func(e *interpreter.Engine) {
		value, _ := e.Get(e.Pointer())
		fmt.Fprintf(os.Stderr, "[%6d] pos=%-5d %c %-5s ptr=%-4d cell=%s %s\n",
			e.Steps(), status.Position, status.Instruction, status.Instruction.Mnemonic(),
			e.Pointer(), utils.FormatByteHex(value), status)
	})
}

// dumpTape draws the cells around the pointer, marking the pointer cell
func dumpTape(e *interpreter.Engine, size int) string {
	w, err := window.Centered(e, size, e.Pointer())
	if err != nil {
		return ""
	}

	cells := utils.Map(w.Slots(), func(s window.Slot) utils.AsciiCell {
		cell := utils.AsciiCell{Header: strconv.Itoa(s.Index), Marked: s.Index == e.Pointer()}
		if s.Populated {
			cell.Body = strconv.Itoa(int(s.Value))
		}
		return cell
	})
	return utils.AsciiCells(cells, "^", 0)
}

// inputReader feeds input instructions one byte at a time
type inputReader struct {
	reader      *bufio.Reader
	interactive bool
	eof         bool
}

func newInputReader(file *os.File) *inputReader {
	return &inputReader{
		reader:      bufio.NewReader(file),
		interactive: term.IsTerminal(int(file.Fd())),
	}
}

// next returns the next input byte, 0 once the input is exhausted
func (r *inputReader) next() byte {
	if r.eof {
		return 0
	}
	if r.interactive {
		colorIndex.Fprint(os.Stderr, "input> ")
	}

	value, err := r.reader.ReadByte()
	if err != nil {
		if err != io.EOF {
			colorWarning.Fprintf(os.Stderr, "reading input: %v\n", err)
		}
		r.eof = true
		return 0
	}
	return value
}
