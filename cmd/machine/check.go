package machine

import (
	"fmt"

	"github.com/Manu343726/cinta/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	checkExpression string
	checkJumps      bool
	checkPrint      bool
)

// CheckCmd validates a program without running it
var CheckCmd = &cobra.Command{
	Use:   "check <file|->",
	Short: "Validate the brackets of a program",
	Long: `Parses a program and reports unmatched brackets with their position.

With --jumps the bracket table is printed: every '[' with the position of its
matching ']'. With --print the program is echoed with syntax highlighting.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, name := loadProgram(args, checkExpression)

		loops := len(p.Brackets()) / 2
		colorSuccess.Printf("%s: ok", name)
		fmt.Printf(" (%d instructions, %d loops, %d characters)\n", p.InstructionCount(), loops, p.Len())

		if checkJumps && loops > 0 {
			colorHeader.Println("Bracket table:")
			jumps := p.Jumps()
			for _, open := range utils.SortedKeys(jumps) {
				end := jumps[open]
				if open > end {
					continue
				}
				fmt.Printf("  %s [ <-> ] %s\n", colorIndex.Sprintf("%6d", open), colorIndex.Sprintf("%-6d", end))
			}
		}

		if checkPrint {
			fmt.Println(p.Highlight(-1))
		}
	},
}

func init() {
	CheckCmd.Flags().StringVarP(&checkExpression, "expression", "e", "", "Program source given inline instead of a file")
	CheckCmd.Flags().BoolVarP(&checkJumps, "jumps", "j", false, "Print the bracket table")
	CheckCmd.Flags().BoolVarP(&checkPrint, "print", "p", false, "Print the program with syntax highlighting")
}
