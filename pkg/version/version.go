// Package version provides lapwatch release version parsing and comparison.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the lapwatch release implemented by this module.
const Current = "1.0"

// EventFormat is the major version of the .swlog event encoding. Readers
// accept files written by any release with the same EventFormat.
const EventFormat uint16 = 1

// Version represents a parsed "major.minor" release version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// Newer returns true if v is strictly newer than other.
func (v Version) Newer(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor > other.Minor
}

// Banner returns the one-line version string printed by the commands.
// Format: "<cmd> <release> (event format v<N>)"
func Banner(cmd string) string {
	return fmt.Sprintf("%s %s (event format v%d)", cmd, Current, EventFormat)
}
