package commands

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/mrzscan"
	"github.com/tsawler/mrzscan/internal/config"
	"github.com/tsawler/mrzscan/internal/logger"
)

// app holds the state shared by subcommands once the root command has run.
type app struct {
	envFile   string
	noCorrect bool
	strict    bool

	// flag values, applied over the loaded configuration when set
	budget    int
	output    string
	lang      string
	band      float64
	minHeight int

	cfg config.Config
	log logger.Logger
}

// Execute runs the mrzscan command line.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{log: logger.Nop()}

	root := &cobra.Command{
		Use:          "mrzscan",
		Short:        "Read and correct TD3 passport machine readable zones",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", "", "load settings from this file (default .env when present)")
	flags.IntVar(&a.budget, "budget", 0, "maximum correction trials (default 200)")
	flags.StringVarP(&a.output, "output", "o", "", "output format: text, json or csv (default text)")
	flags.BoolVar(&a.noCorrect, "no-correct", false, "parse as recognized, without correction")
	flags.BoolVar(&a.strict, "strict", false, "exit with an error when a check digit fails")
	flags.Float64Var(&a.band, "band", 0, "recognize only this bottom fraction of an image (0 = whole image)")
	flags.StringVar(&a.lang, "lang", "", "Tesseract language (default eng)")
	flags.IntVar(&a.minHeight, "min-height", 0, "upscale images to at least this height in pixels (default 300)")

	root.AddCommand(parseCmd(a), scanCmd(a), checksumCmd(a))
	return root
}

// setup loads the configuration, applies flags given on the command line
// and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("budget") {
		cfg.Budget = a.budget
	}
	if flags.Changed("output") {
		cfg.Output = a.output
	}
	if flags.Changed("lang") {
		cfg.Language = a.lang
	}
	if flags.Changed("band") {
		cfg.Band = a.band
	}
	if flags.Changed("min-height") {
		cfg.MinHeight = a.minHeight
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.New(logger.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: cmd.Name(),
		Writer:    cmd.ErrOrStderr(),
	})
	return nil
}

// configure applies the loaded configuration to s.
func (a *app) configure(s *mrzscan.Scanner) *mrzscan.Scanner {
	s = s.Budget(a.cfg.Budget).
		Language(a.cfg.Language).
		MRZBand(a.cfg.Band).
		MinHeight(a.cfg.MinHeight)
	if a.noCorrect {
		s = s.NoCorrection()
	}
	return s
}
