package cli

import (
	"github.com/arthur-debert/cargo-acap/pkg/acap"
	"github.com/arthur-debert/cargo-acap/pkg/cargo"
	"github.com/arthur-debert/cargo-acap/pkg/config"
	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/logging"
	"github.com/arthur-debert/cargo-acap/pkg/ui"
	"github.com/spf13/cobra"
)

type buildOptions struct {
	archs       []string
	format      string
	sdkLocation string
	cargoPath   string
}

func newBuildCmd(global *globalOptions) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:     "build [flags] [-- cargo-args...]",
		Short:   MsgBuildShort,
		Long:    MsgBuildLong,
		Example: MsgBuildExample,
		GroupID: "core",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dash := cmd.ArgsLenAtDash(); len(args) > 0 && dash != 0 {
				n := dash
				if n < 0 {
					n = len(args)
				}
				return errors.Newf(errors.ErrInvalidInput, MsgErrArgsBeforeDash, args[:n])
			}

			cfg, err := loadConfig(cmd, global, map[string]flagKey{
				"arch":         {key: "build.architectures", value: func() interface{} { return opts.archs }},
				"format":       {key: "output.format", value: func() interface{} { return opts.format }},
				"sdk-location": {key: "sdk.location", value: func() interface{} { return opts.sdkLocation }},
				"cargo":        {key: "cargo.path", value: func() interface{} { return opts.cargoPath }},
			})
			if err != nil {
				return err
			}
			return runBuild(cmd, cfg, args)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.archs, "arch", "a", nil, MsgFlagArch)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", MsgFlagFormat)
	cmd.Flags().StringVar(&opts.sdkLocation, "sdk-location", "", MsgFlagSDKLocation)
	cmd.Flags().StringVar(&opts.cargoPath, "cargo", "", MsgFlagCargo)

	return cmd
}

func runBuild(cmd *cobra.Command, cfg *config.Config, args []string) error {
	logger := logging.GetLogger("cli.build")

	archs, err := cfg.Architectures()
	if err != nil {
		return err
	}

	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if err := cargo.CheckTool(cfg.Cargo.Path); err != nil {
		return renderFailure(renderer, format, err)
	}

	pipeline := acap.NewPipeline(cfg.Cargo.Path, cfg.SDK.Location)
	passthrough := append(append([]string{}, cfg.Build.Args...), args...)

	reports := make([]*acap.Report, 0, len(archs))
	for _, arch := range archs {
		logger.Info().Str("arch", arch.Nickname()).Strs("args", passthrough).Msg("Building")
		report, err := pipeline.Run(cmd.Context(), arch, passthrough)
		if err != nil {
			return renderFailure(renderer, format, err)
		}
		reports = append(reports, report)
	}

	if len(reports) == 1 {
		return renderer.RenderResult(reports[0])
	}
	return renderer.RenderResult(reports)
}

// renderFailure writes err to the output when the format is meant for
// machines, so consumers always get a parseable document.
func renderFailure(renderer ui.Renderer, format ui.Format, err error) error {
	if format != ui.FormatJSON && format != ui.FormatYAML {
		return err
	}
	if rerr := renderer.RenderError(err); rerr != nil {
		return err
	}
	return &renderedError{err: err}
}

// flagKey maps a command line flag onto a configuration key.
type flagKey struct {
	key   string
	value func() interface{}
}

// loadConfig loads the configuration with the flags the user actually set
// as the top layer.
func loadConfig(cmd *cobra.Command, global *globalOptions, flags map[string]flagKey) (*config.Config, error) {
	overrides := make(map[string]interface{})
	for name, fk := range flags {
		if cmd.Flags().Changed(name) {
			overrides[fk.key] = fk.value()
		}
	}
	return config.Load(config.Options{File: global.configFile, Overrides: overrides})
}
