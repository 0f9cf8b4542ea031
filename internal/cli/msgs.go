package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Build and package ACAP applications with cargo"
	MsgBuildShort      = "Build the workspace and package its applications"
	MsgGenConfigShort  = "Print the effective configuration as acap.toml"
	MsgTargetsShort    = "List supported architectures"
	MsgVersionShort    = "Print version information"
	MsgManShort        = "Generate man page"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Configuration file (default ./acap.toml when present)"
	MsgFlagArch        = "Architectures to build: aarch64, armv7hf or all (repeatable, comma separated)"
	MsgFlagFormat      = "Output format: auto, term, text, json or yaml"
	MsgFlagSDKLocation = "Native SDK installation handed to the packager"
	MsgFlagCargo       = "cargo executable"
	MsgFlagWrite       = "Write ./acap.toml instead of printing"
	MsgFlagForce       = "Overwrite an existing ./acap.toml"
	MsgFlagDefaults    = "Print the built-in defaults instead of the effective configuration"

	// Status messages
	MsgConfigWritten = "Wrote %s"
	MsgTargetFormat  = "%-8s %s\n"

	// Error messages
	MsgErrArgsBeforeDash = "cargo arguments must follow --, got %q"
	MsgErrConfigExists   = "%s already exists, use --force to overwrite"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/build-long.txt
	msgBuildLongRaw string
	MsgBuildLong    = strings.TrimSpace(msgBuildLongRaw)

	//go:embed msgs/build-example.txt
	msgBuildExampleRaw string
	MsgBuildExample    = strings.TrimRight(msgBuildExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
