package types

import (
	"fmt"
	"sort"
	"strings"
)

// Architecture is a device architecture an application can be built for.
type Architecture string

const (
	// Aarch64 targets 64 bit ARM devices
	Aarch64 Architecture = "aarch64"

	// Armv7hf targets 32 bit ARM devices with hardware floating point
	Armv7hf Architecture = "armv7hf"
)

var triples = map[Architecture]string{
	Aarch64: "aarch64-unknown-linux-gnu",
	Armv7hf: "thumbv7neon-unknown-linux-gnueabihf",
}

// Triple returns the rust target triple cargo is asked to build for.
func (a Architecture) Triple() string {
	return triples[a]
}

// Nickname is the short name used for staging directories and package names.
func (a Architecture) Nickname() string {
	return string(a)
}

// String implements fmt.Stringer
func (a Architecture) String() string {
	return string(a)
}

// Valid reports whether a is one of the supported architectures.
func (a Architecture) Valid() bool {
	_, ok := triples[a]
	return ok
}

// AllArchitectures returns every supported architecture in a stable order.
func AllArchitectures() []Architecture {
	all := make([]Architecture, 0, len(triples))
	for a := range triples {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// ParseArchitecture accepts a nickname or a target triple.
func ParseArchitecture(s string) (Architecture, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for a, triple := range triples {
		if s == string(a) || s == triple {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown architecture %q (supported: %s)", s, strings.Join(nicknames(), ", "))
}

// ParseArchitectures parses a list of names. The single name "all" expands
// to every supported architecture. Duplicates are dropped, order is kept.
func ParseArchitectures(names []string) ([]Architecture, error) {
	var result []Architecture
	seen := make(map[Architecture]struct{})

	add := func(a Architecture) {
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		result = append(result, a)
	}

	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			for _, a := range AllArchitectures() {
				add(a)
			}
			continue
		}
		a, err := ParseArchitecture(name)
		if err != nil {
			return nil, err
		}
		add(a)
	}
	return result, nil
}

func nicknames() []string {
	var names []string
	for _, a := range AllArchitectures() {
		names = append(names, a.Nickname())
	}
	return names
}
