package commands

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/mrzscan"
)

func parseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse LINE1 LINE2",
		Short: "Parse two MRZ lines",
		Long: "Parse the two lines of a TD3 machine readable zone, correcting " +
			"letters misread for digits until the check digits match.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, a.configure(mrzscan.Lines(args[0], args[1])), "")
		},
	}
	return cmd
}
