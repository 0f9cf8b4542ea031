package acap

import (
	"context"

	"github.com/arthur-debert/cargo-acap/pkg/cargo"
	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/logging"
	"github.com/arthur-debert/cargo-acap/pkg/packager"
	"github.com/arthur-debert/cargo-acap/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Runner builds a workspace for one architecture.
type Runner interface {
	Build(ctx context.Context, arch types.Architecture, args []string) (*cargo.BuildOutput, error)
}

// MetadataSource reports where build products go.
type MetadataSource interface {
	TargetDirectory(ctx context.Context) (string, error)
}

// Pipeline builds a workspace and packages the applications it contains.
type Pipeline struct {
	Runner   Runner
	Metadata MetadataSource
	Packager packager.Packager
	FS       afero.Fs

	// SDKLocation is handed to the packager unchanged.
	SDKLocation string
}

// NewPipeline wires the cargo driver, the metadata query and the built-in
// EAP packager on the OS filesystem.
func NewPipeline(cargoPath, sdkLocation string) *Pipeline {
	fs := afero.NewOsFs()
	return &Pipeline{
		Runner:      cargo.NewDriver(cargoPath),
		Metadata:    cargo.NewMetadataQuery(cargoPath),
		Packager:    packager.NewEAPBuilder(fs),
		FS:          fs,
		SDKLocation: sdkLocation,
	}
}

// Run builds for arch and returns one artifact per executable produced:
// a bundle for every application and the executable itself for everything
// else. No report is returned when any step fails.
func (p *Pipeline) Run(ctx context.Context, arch types.Architecture, args []string) (*Report, error) {
	runID := uuid.NewString()
	logger := logging.GetLogger("acap.pipeline").With().
		Str("run_id", runID).
		Str("arch", arch.Nickname()).
		Logger()
	done := logging.LogOperationStart(logger, "build")
	defer done()

	output, err := p.Runner.Build(ctx, arch, args)
	if err != nil {
		return nil, err
	}

	targetDir, err := p.Metadata.TargetDirectory(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("target_directory", targetDir).Msg("Resolved target directory")

	acc := Accumulate(logger, output.Messages)

	report := &Report{
		Architecture: arch,
		RunID:        runID,
		Artifacts:    []Artifact{},
	}
	report.Diagnostics = append(report.Diagnostics, output.Diagnostics...)
	report.Diagnostics = append(report.Diagnostics, acc.Diagnostics...)

	for _, unit := range acc.Units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !IsApp(p.FS, logger, unit.ManifestPath, unit.OutDir) {
			logger.Info().Str("path", unit.Executable).Msg("Found executable")
			report.Artifacts = append(report.Artifacts, NewExecutable(unit.Executable))
			continue
		}

		path, err := p.pack(ctx, logger, targetDir, arch, unit)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", path).Str("app", unit.TargetName).Msg("Packaged application")
		report.Artifacts = append(report.Artifacts, NewBundle(path, unit.TargetName))
	}

	return report, nil
}

func (p *Pipeline) pack(ctx context.Context, logger zerolog.Logger, targetDir string, arch types.Architecture, unit Unit) (string, error) {
	stagingDir, err := Stage(p.FS, targetDir, arch, unit.Executable)
	if err != nil {
		return "", err
	}

	in, err := ResolveInputs(p.FS, unit, stagingDir, arch)
	if err != nil {
		return "", err
	}
	in.SDKLocation = p.SDKLocation

	logger.Debug().
		Str("staging_dir", stagingDir).
		Str("manifest", in.Manifest).
		Str("license", in.License).
		Msg("Handing off to packager")

	path, err := p.Packager.Pack(ctx, in)
	if err != nil {
		if errors.GetErrorCode(err) != errors.ErrUnknown {
			return "", err
		}
		return "", errors.Wrapf(err, errors.ErrPackaging, "packaging %s", unit.TargetName).
			WithDetail("staging_dir", stagingDir)
	}
	return path, nil
}
