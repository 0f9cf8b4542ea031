// Package cargo drives the cargo build tool and models its structured output.
//
// A build is run with --message-format json-render-diagnostics so that cargo
// renders human readable diagnostics on stderr while emitting one JSON
// message per line on stdout. Only four message kinds are understood:
//
//	compiler-artifact        a build unit produced files (maybe an executable)
//	compiler-message         a compiler diagnostic, already rendered on stderr
//	build-finished           the build is over (the exit status is what counts)
//	build-script-executed    a build script ran and declared an OUT_DIR
//
// Lines that cannot be taken or decoded never abort a build; they are
// returned as Diagnostics next to the decoded messages.
package cargo
