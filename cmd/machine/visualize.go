package machine

import (
	"os"

	"github.com/Manu343726/cinta/pkg/config"
	"github.com/Manu343726/cinta/pkg/machine/interpreter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var visualizeExpression string

// VisualizeCmd steps a program in an interactive terminal view
var VisualizeCmd = &cobra.Command{
	Use:     "visualize <file|->",
	Aliases: []string{"vis", "debug"},
	Short:   "Step through a program in an interactive terminal view",
	Long: `Opens a terminal view showing a window of the tape that follows the pointer,
the program with the current instruction highlighted and the program output.

Keys:
  r      run (restarts a finished program)
  s      execute a single instruction
  p      pause the run loop, tape and cursor are kept
  c      continue a paused program
  x      stop: pause and reset the machine
  b      toggle a breakpoint at the current instruction
  + / -  faster / slower (presets: instant, very fast, fast, normal, slow, very slow, ultra slow)
  i      focus the input field while the program waits for input
  q      quit`,
	Args: cobra.MaximumNArgs(1),
	Run:  runVisualize,
}

func init() {
	VisualizeCmd.Flags().StringVarP(&visualizeExpression, "expression", "e", "", "Program source given inline instead of a file")
	VisualizeCmd.Flags().DurationP("delay", "d", interpreter.DefaultDelay, "Initial delay between two instructions")
	VisualizeCmd.Flags().IntP("window", "w", config.Defaults().Window.Size, "Number of tape cells shown")
}

func runVisualize(cmd *cobra.Command, args []string) {
	bindFlags(cmd.Flags(), map[string]string{
		config.KeyDelay:      "delay",
		config.KeyWindowSize: "window",
	})
	cfg := loadConfig()

	// the terminal belongs to the view, logs only go to the log file
	logger, closer := openLogger(cfg, true)
	defer closer.Close()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fail(exitUsage, "visualize needs an interactive terminal")
	}

	p, name := loadProgram(args, visualizeExpression)

	runner := interpreter.NewRunner(interpreter.NewEngine(p), logger)
	runner.SetDelay(cfg.Delay)

	v, err := newView(runner, p, name, cfg.Window.Size, logger)
	if err != nil {
		fail(exitUsage, "%v", err)
	}

	logger.Info("visualizer started", "program", name, "delay", cfg.Delay, "window", cfg.Window.Size)
	if err := v.Run(); err != nil {
		fail(exitUsage, "%v", err)
	}
}
