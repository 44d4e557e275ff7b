package shaderop

import (
	"errors"
	"testing"
)

func TestParseTargetProfile(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   TargetProfile
	}{
		{"compute sm6", "cs_6_0", TargetProfile{Stage: "cs", Major: 6, Minor: 0}},
		{"vertex sm5", "vs_5_1", TargetProfile{Stage: "vs", Major: 5, Minor: 1}},
		{"uppercase", "PS_6_4", TargetProfile{Stage: "ps", Major: 6, Minor: 4}},
		{"padded", "  lib_6_3 ", TargetProfile{Stage: "lib", Major: 6, Minor: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTargetProfile(tt.target)
			if err != nil {
				t.Fatalf("ParseTargetProfile(%q) error: %v", tt.target, err)
			}
			if got != tt.want {
				t.Errorf("ParseTargetProfile(%q) = %+v, want %+v", tt.target, got, tt.want)
			}
		})
	}
}

func TestParseTargetProfileMalformed(t *testing.T) {
	for _, target := range []string{"", "cs", "cs_6", "cs_x_0", "cs_6_y"} {
		if _, err := ParseTargetProfile(target); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseTargetProfile(%q) error = %v, want ErrInvalidArgument", target, err)
		}
	}
}

func TestTargetModern(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"cs_6_0", true},
		{"ps_6_7", true},
		{"vs_5_1", false},
		{"vs_4_0", false},
		// Malformed targets route to the legacy path.
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := TargetModern(tt.target); got != tt.want {
			t.Errorf("TargetModern(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestTargetProfileString(t *testing.T) {
	p := TargetProfile{Stage: "cs", Major: 6, Minor: 2}
	if got := p.String(); got != "cs_6_2" {
		t.Errorf("String() = %q, want cs_6_2", got)
	}
}
