package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/bunpou/internal/quizgen"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the JLPT levels accepted by --level and ?lv=",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range quizgen.Levels {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", l, l.Description())
		}
	},
}
