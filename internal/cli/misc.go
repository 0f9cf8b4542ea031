package cli

import (
	"fmt"

	"github.com/arthur-debert/cargo-acap/internal/version"
	"github.com/arthur-debert/cargo-acap/pkg/config"
	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/types"
	"github.com/arthur-debert/cargo-acap/pkg/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "targets",
		Short:   MsgTargetsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range types.AllArchitectures() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), MsgTargetFormat, a.Nickname(), a.Triple()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newGenConfigCmd(global *globalOptions) *cobra.Command {
	var write, force, defaults bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := configContent(global, defaults)
			if err != nil {
				return err
			}

			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			path := config.ProjectFile
			exists, err := afero.Exists(global.fs, path)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to check %s", path)
			}
			if exists && !force {
				return errors.Newf(errors.ErrFileAccess, MsgErrConfigExists, path).WithDetail("path", path)
			}
			if err := afero.WriteFile(global.fs, path, []byte(content), 0o644); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", path)
			}

			renderer, err := ui.NewRenderer(ui.FormatText, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return renderer.RenderMessage(fmt.Sprintf(MsgConfigWritten, path))
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)

	return cmd
}

// configContent returns the embedded defaults verbatim, or the effective
// configuration rendered as TOML.
func configContent(global *globalOptions, defaults bool) (string, error) {
	if defaults {
		return config.DefaultsContent(), nil
	}
	cfg, err := config.Load(config.Options{File: global.configFile})
	if err != nil {
		return "", err
	}
	return config.GenerateConfigContent(cfg)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cargo-acap-build version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "CARGO-ACAP-BUILD",
				Section: "1",
				Source:  "cargo-acap-build " + version.Version,
				Manual:  "cargo-acap-build manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
