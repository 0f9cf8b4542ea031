// Package cli wires the cargo-acap-build commands.
package cli

import (
	stderrors "errors"

	"github.com/arthur-debert/cargo-acap/internal/version"
	"github.com/arthur-debert/cargo-acap/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// SubcommandName is the first argument cargo passes when the binary runs as
// `cargo acap-build`.
const SubcommandName = "acap-build"

type globalOptions struct {
	verbosity  int
	configFile string
	fs         afero.Fs
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

// newRootCmd builds the command tree. Files the commands write go to fs.
func newRootCmd(fs afero.Fs) *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{fs: fs}

	rootCmd := &cobra.Command{
		Use:     "cargo-acap-build",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerWithOutput(opts.verbosity, cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.SetCompletionCommandGroupID("misc")

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newBuildCmd(opts))
	rootCmd.AddCommand(newTargetsCmd())
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// NormalizeArgs drops the subcommand name cargo inserts when it runs
// cargo-acap-build on behalf of `cargo acap-build`.
func NormalizeArgs(args []string) []string {
	if len(args) > 0 && args[0] == SubcommandName {
		return args[1:]
	}
	return args
}

// renderedError is an error the command already rendered to its output.
type renderedError struct {
	err error
}

func (e *renderedError) Error() string { return e.err.Error() }
func (e *renderedError) Unwrap() error { return e.err }

// IsRendered reports whether err was already written to the command output
// in a machine-readable format, so it must not be printed again.
func IsRendered(err error) bool {
	var r *renderedError
	return stderrors.As(err, &r)
}
