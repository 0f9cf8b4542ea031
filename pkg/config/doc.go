// Package config loads cargo-acap-build settings.
//
// Sources are layered, later ones winning: the embedded defaults, the
// project file (acap.toml or --config), the environment (CARGO_ACAP_*
// plus ACAP_SDK_LOCATION and CARGO) and finally command line flags.
package config
