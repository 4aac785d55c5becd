package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/cinta/pkg/config"
	"github.com/Manu343726/cinta/pkg/machine/program"
	"github.com/Manu343726/cinta/pkg/utils"
	"github.com/spf13/cobra"
)

var supportedModules = map[string]func() (string, error){
	"language": func() (string, error) { return program.DocString(), nil },
	"config": func() (string, error) {
		defaults := config.Defaults()
		text, err := defaults.YAML()
		return string(text), err
	},
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show cinta documentation",
	Long: `Dumps the documentation of the specified cinta module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(utils.SortedKeys(supportedModules), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.ExactArgs(1)),
	ValidArgs: utils.SortedKeys(supportedModules),
	Run: func(cmd *cobra.Command, args []string) {
		docs, err := supportedModules[args[0]]()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error generating documentation:", err)
			os.Exit(1)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile == "" {
			fmt.Println(docs)
			return
		}

		file, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error creating file:", err)
			os.Exit(1)
		}
		defer file.Close()
		fmt.Fprintln(file, docs)
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
