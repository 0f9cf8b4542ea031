// Package types defines the small set of shared value types used across
// cargo-acap: the target architectures an ACAP application can be built for.
package types
