package tools

import (
	"fmt"
	"os"

	"github.com/Manu343726/cinta/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration cinta would use, merging defaults, the config file
($HOME/.cinta.yaml or --config) and CINTA_* environment variables. The output
is valid YAML and can be used as a starting config file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

		text, err := cfg.YAML()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		os.Stdout.Write(text)
	},
}

func init() {
	ToolsCmd.AddCommand(configCmd)
}
