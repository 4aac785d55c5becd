// Package machine contains the commands that load and execute tape machine
// programs: run, check and visualize.
package machine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Manu343726/cinta/pkg/config"
	"github.com/Manu343726/cinta/pkg/logging"
	"github.com/Manu343726/cinta/pkg/machine/program"
	"github.com/Manu343726/cinta/pkg/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Exit codes
const (
	exitOK = iota
	exitUsage
	exitSyntax
	exitFault
	exitMaxSteps
	exitInput

	exitInterrupted = 130
)

var (
	colorError   = color.New(color.FgRed, color.Bold)
	colorWarning = color.New(color.FgYellow)
	colorSuccess = color.New(color.FgGreen)
	colorHeader  = color.New(color.FgWhite, color.Bold, color.Underline)
	colorIndex   = color.New(color.FgCyan)
)

// fail prints a coloured error message and exits with the given code
func fail(code int, format string, args ...any) {
	colorError.Fprint(os.Stderr, "Error: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}

// readSource returns the program text and a name for it: the -e expression if
// set, stdin for "-", or the contents of the file named by args[0]
func readSource(args []string, expression string) (source string, name string, err error) {
	if expression != "" {
		if len(args) > 0 {
			return "", "", errors.New("a program file and -e are mutually exclusive")
		}
		return expression, "<expression>", nil
	}
	if len(args) != 1 {
		return "", "", errors.New("expected a program file or -e <source>")
	}
	if args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), "<stdin>", err
	}

	data, err := os.ReadFile(args[0])
	return string(data), args[0], err
}

// loadProgram reads and parses a program, exiting on failure
func loadProgram(args []string, expression string) (*program.Program, string) {
	source, name, err := readSource(args, expression)
	if err != nil {
		fail(exitUsage, "%v", err)
	}

	p, err := program.Parse(source)
	if err != nil {
		var syntaxErr *program.SyntaxError
		if errors.As(err, &syntaxErr) {
			fail(exitSyntax, "%s: %v\n  %s", name, err, excerpt(source, syntaxErr.Position))
		}
		fail(exitSyntax, "%s: %v", name, err)
	}
	return p, name
}

// excerpt returns a short piece of source around position with a marker
func excerpt(source string, position int) string {
	const radius = 20

	position = utils.Clamp(position, 0, len(source))
	from := utils.Clamp(position-radius, 0, len(source))
	to := utils.Clamp(position+radius+1, 0, len(source))
	line := []rune{}
	for _, c := range source[from:to] {
		if c == '\n' || c == '\t' || c == '\r' {
			c = ' '
		}
		line = append(line, c)
	}

	before := []rune(source[from:position])
	return fmt.Sprintf("%s\n  %*s%s", string(line), len(before), "", colorError.Sprint("^"))
}

// bindFlags binds command flags to config keys. Binding happens when the
// command runs so several commands can share a key.
func bindFlags(flags *pflag.FlagSet, bindings map[string]string) {
	for key, name := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(name)))
	}
}

// loadConfig loads the effective configuration, exiting on failure
func loadConfig() config.Config {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		fail(exitUsage, "%v", err)
	}
	return cfg
}

// openLogger creates the logger for a command. Logs go to stderr unless
// quiet is set, in which case only the log file (if any) receives them.
func openLogger(cfg config.Config, quiet bool) (*slog.Logger, io.Closer) {
	var terminal io.Writer = os.Stderr
	if quiet {
		terminal = nil
	}
	logger, closer, err := logging.Open(cfg.Log, terminal)
	if err != nil {
		fail(exitUsage, "%v", err)
	}
	return logger, closer
}
