package shaderop

import (
	"fmt"
	"strconv"
	"strings"
)

// TargetProfile is a parsed shader target such as "cs_6_0": a stage
// prefix and a shader-model version.
type TargetProfile struct {
	Stage string
	Major int
	Minor int
}

// ParseTargetProfile splits a target string of the form stage_major_minor.
func ParseTargetProfile(s string) (TargetProfile, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "_")
	if len(parts) != 3 {
		return TargetProfile{}, fmt.Errorf("%w: bad target profile %q", ErrInvalidArgument, s)
	}
	major, err := strconv.Atoi(parts[1])
	if err != nil {
		return TargetProfile{}, fmt.Errorf("%w: bad target profile %q", ErrInvalidArgument, s)
	}
	minor, err := strconv.Atoi(parts[2])
	if err != nil {
		return TargetProfile{}, fmt.Errorf("%w: bad target profile %q", ErrInvalidArgument, s)
	}
	return TargetProfile{Stage: parts[0], Major: major, Minor: minor}, nil
}

// Modern reports whether the profile routes to the modern compiler
// toolchain (shader model 6 and later).
func (p TargetProfile) Modern() bool { return p.Major >= 6 }

// String returns the canonical stage_major_minor form.
func (p TargetProfile) String() string {
	return fmt.Sprintf("%s_%d_%d", p.Stage, p.Major, p.Minor)
}

// TargetModern reports whether a raw target string names a shader model 6
// or later profile. A malformed target is treated as legacy.
func TargetModern(target string) bool {
	p, err := ParseTargetProfile(target)
	if err != nil {
		return false
	}
	return p.Modern()
}
