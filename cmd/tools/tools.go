package tools

import (
	"github.com/spf13/cobra"
)

// ToolsCmd groups the helper commands that do not run programs
var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Cinta miscellaneous tools",
}
