package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/mrzscan/checksum"
)

func checksumCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checksum FIELD [DIGIT]",
		Short: "Compute or verify a check digit",
		Long: "Print the ICAO 9303 check digit of FIELD. When DIGIT is given, " +
			"verify it instead and fail if it does not match.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := strings.ToUpper(args[0])
			d, err := checksum.Digit(field)
			if err != nil {
				return fmt.Errorf("failed to compute check digit of %q: %w", field, err)
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				fmt.Fprintf(out, "%c\n", d)
				return nil
			}

			want := args[1]
			if len(want) != 1 || !checksum.IsValid(field, want[0]) {
				a.log.Debug().Str("field", field).Str("digit", want).Msg("check digit mismatch")
				return fmt.Errorf("check digit of %q is %c, not %s", field, d, want)
			}
			fmt.Fprintln(out, "valid")
			return nil
		},
	}
	return cmd
}
