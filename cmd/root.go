package cmd

import (
	"fmt"
	"os"

	"github.com/Manu343726/cinta/cmd/machine"
	"github.com/Manu343726/cinta/cmd/tools"
	"github.com/Manu343726/cinta/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cinta",
	Short: "A single-step tape machine interpreter",
	Long: `Cinta runs programs for an eight instruction tape machine: an unbounded tape of
8 bit cells, a pointer and the instructions > < + - . , [ ].

Programs can be run straight from the command line or stepped interactively in a
terminal visualizer that follows the pointer along the tape.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(tools.ToolsCmd, machine.RunCmd, machine.CheckCmd, machine.VisualizeCmd)
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cinta.yaml)")
	RootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	RootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to this file")
	cobra.CheckErr(viper.BindPFlag(config.KeyLogLevel, RootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag(config.KeyLogFile, RootCmd.PersistentFlags().Lookup("log-file")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".cinta" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cinta")
	}

	config.BindEnv(viper.GetViper()) // read in CINTA_* environment variables

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		cobra.CheckErr(err)
	}
}
