// Package acap turns the executables of a cargo build into ACAP application
// packages.
//
// A pipeline run builds one architecture:
//
//	cargo.Driver -> accumulator -> classifier -> resolver -> staging -> packager.Packager
//
// An executable becomes an application when a manifest.json sits next to
// its Cargo.toml or in the OUT_DIR of its build script. Companion files are
// looked up in the same two places; a file present in both is an error,
// never a choice.
package acap
