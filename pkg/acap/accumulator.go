package acap

import (
	"github.com/arthur-debert/cargo-acap/pkg/cargo"
	"github.com/rs/zerolog"
)

// Unit is an executable produced by the build, ready to be classified.
type Unit struct {
	PackageID    string
	ManifestPath string
	// OutDir is the build script output directory, empty if there is none.
	OutDir     string
	Executable string
	TargetName string
}

// Accumulation is what the accumulator extracted from a build's messages.
type Accumulation struct {
	Units       []Unit
	OutDirs     map[string]string
	Diagnostics []cargo.Diagnostic
}

// Accumulate processes the complete message sequence of one build. Out dirs
// are indexed before any artifact is looked at, so the order in which cargo
// reports a build script and its artifact does not matter.
func Accumulate(logger zerolog.Logger, messages []cargo.Message) *Accumulation {
	acc := &Accumulation{OutDirs: make(map[string]string)}

	for _, m := range messages {
		switch m := m.(type) {
		case *cargo.BuildScriptExecuted:
			logger.Debug().Str("package_id", m.PackageID).Msg("Received build-script-executed message")
			if previous, ok := acc.OutDirs[m.PackageID]; ok {
				logger.Warn().
					Str("package_id", m.PackageID).
					Str("out_dir", previous).
					Msg("Discarding out dir")
				acc.Diagnostics = append(acc.Diagnostics, cargo.Diagnostic{
					Kind:   cargo.DiagnosticDiscardedOutDir,
					Detail: previous + " (" + m.PackageID + ")",
				})
			}
			acc.OutDirs[m.PackageID] = m.OutDir
		case *cargo.CompilerMessage:
			// Already rendered on stderr by cargo.
			logger.Error().
				Str("package_id", m.PackageID).
				Str("level", m.Level).
				Msgf("Received compiler-message: %s", m.Text)
			acc.Diagnostics = append(acc.Diagnostics, cargo.Diagnostic{
				Kind:   cargo.DiagnosticCompilerMessage,
				Detail: m.Text,
			})
		case *cargo.BuildFinished:
			logger.Debug().Bool("success", m.Success).Msg("Received build-finished message")
		}
	}

	for _, m := range messages {
		artifact, ok := m.(*cargo.CompilerArtifact)
		if !ok {
			continue
		}
		executable, ok := artifact.ExecutablePath()
		if !ok {
			logger.Debug().Str("package_id", artifact.PackageID).Msg("Artifact is not an executable, skipping")
			continue
		}
		acc.Units = append(acc.Units, Unit{
			PackageID:    artifact.PackageID,
			ManifestPath: artifact.ManifestPath,
			OutDir:       acc.OutDirs[artifact.PackageID],
			Executable:   executable,
			TargetName:   artifact.Target.Name,
		})
	}

	return acc
}
