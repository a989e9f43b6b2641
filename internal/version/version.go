// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Release is the framework release this binary was built as. It is
// overridden at link time with:
//
//	-ldflags "-X github.com/specialistvlad/modulegrid/internal/version.Release=22.11.0"
var Release = "22.11.0"

// ErrMalformed is returned when a version cannot be built from its input.
var ErrMalformed = errors.New("malformed version")

// Version is an immutable (major, minor, patch) triple.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// New returns the version major.minor.patch.
func New(major, minor, patch uint32) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// FromComponents builds a Version from exactly three components.
func FromComponents(parts []uint) (Version, error) {
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: expected 3 components (major, minor, patch), got %d", ErrMalformed, len(parts))
	}
	for i, p := range parts {
		if uint64(p) > uint64(^uint32(0)) {
			return Version{}, fmt.Errorf("%w: component %d out of range: %d", ErrMalformed, i, p)
		}
	}
	return New(uint32(parts[0]), uint32(parts[1]), uint32(parts[2])), nil
}

// Parse reads "X.Y.Z" or "vX.Y.Z". Pre-release and build suffixes are
// rejected; a release identifier is always a plain triple.
func Parse(s string) (Version, error) {
	v := strings.TrimSpace(s)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return Version{}, fmt.Errorf("%w: %q is not a semantic version", ErrMalformed, s)
	}
	if semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return Version{}, fmt.Errorf("%w: %q carries a pre-release or build suffix", ErrMalformed, s)
	}
	// semver.IsValid accepts shorthand like "v22.11"; require the full triple.
	if semver.Canonical(v) != v {
		return Version{}, fmt.Errorf("%w: %q must have major, minor and patch", ErrMalformed, s)
	}

	fields := strings.Split(strings.TrimPrefix(v, "v"), ".")
	var parts [3]uint32
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
		}
		parts[i] = uint32(n)
	}
	return New(parts[0], parts[1], parts[2]), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Current returns the parsed Release.
func Current() Version {
	return MustParse(Release)
}

// String returns "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Components returns the version as a three element slice.
func (v Version) Components() []uint {
	return []uint{uint(v.Major), uint(v.Minor), uint(v.Patch)}
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after other.
func (v Version) Compare(other Version) int {
	return semver.Compare("v"+v.String(), "v"+other.String())
}

// Accepts reports whether candidate is compatible with release v: same major,
// same minor, and a patch no newer than v's.
func (v Version) Accepts(candidate Version) bool {
	return candidate.Major == v.Major &&
		candidate.Minor == v.Minor &&
		candidate.Patch <= v.Patch
}

// AcceptsComponents applies Accepts to a raw component slice. Anything other
// than three components is incompatible.
func (v Version) AcceptsComponents(candidate []uint) bool {
	c, err := FromComponents(candidate)
	if err != nil {
		return false
	}
	return v.Accepts(c)
}
