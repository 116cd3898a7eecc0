// Package quota decides whether the storage quota banner is shown and renders
// it for the terminal and for HTML pages.
package quota

import (
	"errors"
	"strings"
)

// Gate selects the predicate used to derive the banner flags.
type Gate string

const (
	// GateLegacyRoot derives both flags from user_type == "root". It keeps the
	// console's historical behavior, which shows the banner to root users
	// regardless of plan.
	GateLegacyRoot Gate = "legacy-root"
	// GateFreePlan requires an explicit free plan and a root user.
	GateFreePlan Gate = "free-plan"
)

// RootUserType is the user_type value of the account owner.
const RootUserType = "root"

// FreePlan is the plan value of accounts on the free tier.
const FreePlan = "free"

// ErrUnknownGate is returned by ParseGate for unsupported values.
var ErrUnknownGate = errors.New("quota: unknown gate")

// ParseGate normalises a gate name. Empty input selects the legacy gate.
func ParseGate(raw string) (Gate, error) {
	switch Gate(strings.ToLower(strings.TrimSpace(raw))) {
	case "", GateLegacyRoot:
		return GateLegacyRoot, nil
	case GateFreePlan:
		return GateFreePlan, nil
	default:
		return "", ErrUnknownGate
	}
}

// Legacy reports whether g reproduces the historical root-only predicate.
func (g Gate) Legacy() bool {
	return g == "" || g == GateLegacyRoot
}

// UserState is the slice of shared application state the banner reads.
type UserState struct {
	UserType string `json:"user_type" yaml:"user_type"`
	Plan     string `json:"plan,omitempty" yaml:"plan,omitempty"`
}

// Flags are the two booleans the banner is gated on.
type Flags struct {
	IsFreePlan bool `json:"is_free_plan"`
	IsRoot     bool `json:"is_root"`
}

// Show reports whether the banner should be displayed.
func (f Flags) Show() bool {
	return f.IsFreePlan && f.IsRoot
}

// Flags derives the banner flags for user under g.
func (g Gate) Flags(user UserState) Flags {
	root := strings.EqualFold(strings.TrimSpace(user.UserType), RootUserType)
	if g.Legacy() {
		return Flags{IsFreePlan: root, IsRoot: root}
	}
	return Flags{
		IsFreePlan: strings.EqualFold(strings.TrimSpace(user.Plan), FreePlan),
		IsRoot:     root,
	}
}

// Visible is shorthand for g.Flags(user).Show().
func (g Gate) Visible(user UserState) bool {
	return g.Flags(user).Show()
}
