package building

import (
	"fmt"
	"strings"
)

// Mode is the operating mode of the building.
type Mode uint8

const (
	// ModeClosed means the building is locked and dark.
	ModeClosed Mode = iota + 1
	// ModeOpen means the building is open to occupants.
	ModeOpen
	// ModeOutOfHours is the intermediate mode between closed and open.
	ModeOutOfHours
	// ModeFireAlarm is the emergency mode raised by a real alarm.
	ModeFireAlarm
	// ModeFireDrill is the emergency mode used for evacuation drills.
	ModeFireDrill
)

// DefaultMode is the mode a controller starts in when none is given.
const DefaultMode = ModeOutOfHours

// modeNames maps every valid mode to its external name.
//
//nolint:gochecknoglobals // Immutable lookup table.
var modeNames = map[Mode]string{
	ModeClosed:     "closed",
	ModeOpen:       "open",
	ModeOutOfHours: "out of hours",
	ModeFireAlarm:  "fire alarm",
	ModeFireDrill:  "fire drill",
}

// String returns the external name of the mode, e.g. "out of hours".
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("mode(%d)", uint8(m))
}

// IsValid reports whether m is one of the five known modes.
func (m Mode) IsValid() bool {
	_, ok := modeNames[m]

	return ok
}

// IsNormal reports whether m is a non-emergency mode.
func (m Mode) IsNormal() bool {
	return m == ModeClosed || m == ModeOpen || m == ModeOutOfHours
}

// IsEmergency reports whether m is fire alarm or fire drill.
func (m Mode) IsEmergency() bool {
	return m == ModeFireAlarm || m == ModeFireDrill
}

// Modes returns all valid modes in declaration order.
func Modes() []Mode {
	return []Mode{ModeClosed, ModeOpen, ModeOutOfHours, ModeFireAlarm, ModeFireDrill}
}

// NormalModes returns the modes a controller may be started in.
func NormalModes() []Mode {
	return []Mode{ModeClosed, ModeOpen, ModeOutOfHours}
}

// ParseMode converts an external mode name into a Mode.
// Matching is case-insensitive; no other normalization is applied.
func ParseMode(s string) (Mode, error) {
	normalized := strings.ToLower(s)
	if normalized == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownMode)
	}

	for mode, name := range modeNames {
		if name == normalized {
			return mode, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// forbiddenTransitions lists the normal mode pairs that may not be crossed directly.
//
//nolint:gochecknoglobals // Immutable lookup table.
var forbiddenTransitions = map[Mode]Mode{
	ModeClosed: ModeOpen,
	ModeOpen:   ModeClosed,
}

// canTransition reports whether a controller in mode from, whose resume mode is
// previous, may move to target. from and target are assumed to differ.
func canTransition(from, previous, target Mode) bool {
	if from.IsEmergency() {
		return target == previous
	}

	if forbidden, ok := forbiddenTransitions[from]; ok && forbidden == target {
		return false
	}

	return true
}
