package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsawler/mrzscan"
)

// errChecksums is returned in strict mode when a result fails its checks.
var errChecksums = errors.New("MRZ check digits do not match")

func scanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan FILE",
		Short: "Read the MRZ from a file",
		Long: "Read the MRZ from an image, an hOCR document or a text file. " +
			"Use - to read text from stdin. Images need a binary built with " +
			"the ocr tag.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *mrzscan.Scanner
			if args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				s = mrzscan.FromText(string(data))
			} else {
				s = mrzscan.Open(args[0])
			}
			return a.run(cmd, a.configure(s), args[0])
		},
	}
	return cmd
}

// run scans, logs the outcome and writes the result.
func (a *app) run(cmd *cobra.Command, s *mrzscan.Scanner, source string) error {
	res, warnings, err := s.Scan()
	if err != nil {
		a.log.Error().Err(err).Str("source", source).Msg("scan failed")
		return err
	}

	ev := a.log.Debug().
		Str("stage", res.Report.Stage.String()).
		Int("attempts", res.Report.Attempts)
	if source != "" {
		ev = ev.Str("source", source)
	}
	if res.Report.Corrected() {
		ev = ev.Strs("substitutions", substitutions(res.Report))
	}
	ev.Bool("valid", res.MRZ.ChecksumsValid).Msg("scanned")

	for _, w := range warnings {
		a.log.Warn().Str("type", w.Type.String()).Msg(w.Message)
	}

	if err := writeResult(cmd.OutOrStdout(), a.cfg.Output, newRecord(res, warnings)); err != nil {
		return err
	}
	if a.strict && !res.MRZ.ChecksumsValid {
		return errChecksums
	}
	return nil
}
