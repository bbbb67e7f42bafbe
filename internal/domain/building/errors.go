package building

import "errors"

// invalidStartModeMessage is the fixed text reported when construction is rejected.
const invalidStartModeMessage = "Argument Exception: BuildingController can only be initialised " +
	"to the following states 'open', 'closed', 'out of hours'"

var (
	// ErrInvalidStartMode is returned by New when the start mode is not a normal mode.
	ErrInvalidStartMode = errors.New(invalidStartModeMessage)
	// ErrUnknownMode is returned when a name does not match any mode.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrIllegalTransition is returned when the transition table forbids a change.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrSideEffectFailed is returned when a device refuses a command required by the target mode.
	ErrSideEffectFailed = errors.New("side effect failed")
)
