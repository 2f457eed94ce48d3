package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/softskill/apps/go-server/internal/bank"
	"github.com/robalobadob/softskill/apps/go-server/internal/game/quiz"
)

var bankCmd = &cobra.Command{
	Use:   "bank [file]",
	Short: "Validate a question bank and print its contents summary",
	Long:  "Without a file the embedded default bank is checked.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			b   *bank.Bank
			err error
		)
		if len(args) == 1 {
			b, err = bank.Load(args[0])
		} else {
			b, err = bank.Default()
		}
		if err != nil {
			return err
		}
		symbols, questions, per := b.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "symbols: %d\nquestions: %d\n", symbols, questions)
		for _, c := range quiz.Categories {
			fmt.Fprintf(out, "  %s: %d\n", c.Label(), per[c])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bankCmd)
}
