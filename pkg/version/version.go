// Package version provides HTTP API version parsing, comparison and path
// helpers.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the API version served by mtimer-web.
const Current = "1.0"

// APIVersion represents a parsed "major.minor" API version.
type APIVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (APIVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return APIVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return APIVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return APIVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return APIVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// MustCurrent returns Current parsed.
func MustCurrent() APIVersion {
	v, err := Parse(Current)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor".
func (v APIVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v APIVersion) Compatible(other APIVersion) bool {
	return v.Major == other.Major
}

// PathPrefix returns the URL prefix for a major version: "/api/vN".
func PathPrefix(major uint16) string {
	return fmt.Sprintf("/api/v%d", major)
}

// MajorFromPath extracts the major version from an API path prefix.
func MajorFromPath(path string) (uint16, error) {
	if !strings.HasPrefix(path, "/api/v") {
		return 0, fmt.Errorf("not an API path: %q", path)
	}

	suffix := strings.TrimSuffix(path[len("/api/v"):], "/")
	if suffix == "" {
		return 0, fmt.Errorf("empty major version in path: %q", path)
	}

	major, err := strconv.ParseUint(suffix, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid major version in path %q: %w", path, err)
	}

	return uint16(major), nil
}
