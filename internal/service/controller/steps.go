package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oshokin/building-controller/internal/domain/building"
)

// StepKind is the action performed by one script step.
type StepKind uint8

const (
	// StepMode requests a mode change.
	StepMode StepKind = iota + 1
	// StepReport runs a status sweep.
	StepReport
	// StepFault marks a device faulty.
	StepFault
	// StepRepair marks a device healthy.
	StepRepair
)

// Step is one parsed script instruction.
type Step struct {
	// Kind selects the action.
	Kind StepKind
	// Mode is the requested mode name for StepMode, passed to the controller verbatim.
	Mode string
	// Manager is the device bank name for StepFault and StepRepair, e.g. "Doors".
	Manager string
	// Device is the device number within the bank.
	Device int
	// Raw is the original text of the step.
	Raw string
}

var (
	// errInvalidStep is returned for unparsable script steps.
	errInvalidStep = errors.New("invalid step")
	// errDeviceFormat is returned when a device reference is not "<manager>:<n>".
	errDeviceFormat = errors.New("expected <manager>:<device>")
	// errUnknownManager is returned for an unrecognized manager name.
	errUnknownManager = errors.New("unknown manager")
)

// ParseSteps parses script steps of the form "mode=<name>", "report",
// "fault=<manager>:<n>" and "repair=<manager>:<n>".
func ParseSteps(raw []string) ([]Step, error) {
	steps := make([]Step, 0, len(raw))

	for _, s := range raw {
		step, err := parseStep(s)
		if err != nil {
			return nil, err
		}

		steps = append(steps, step)
	}

	return steps, nil
}

func parseStep(s string) (Step, error) {
	if s == "report" {
		return Step{Kind: StepReport, Raw: s}, nil
	}

	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return Step{}, fmt.Errorf("%w: %q", errInvalidStep, s)
	}

	switch key {
	case "mode":
		return Step{Kind: StepMode, Mode: value, Raw: s}, nil
	case "fault", "repair":
		manager, device, err := parseDevice(value)
		if err != nil {
			return Step{}, fmt.Errorf("%w: %q: %w", errInvalidStep, s, err)
		}

		kind := StepFault
		if key == "repair" {
			kind = StepRepair
		}

		return Step{Kind: kind, Manager: manager, Device: device, Raw: s}, nil
	default:
		return Step{}, fmt.Errorf("%w: %q", errInvalidStep, s)
	}
}

// parseDevice splits "<manager>:<n>" and canonicalizes the manager name.
func parseDevice(value string) (string, int, error) {
	name, index, ok := strings.Cut(value, ":")
	if !ok {
		return "", 0, errDeviceFormat
	}

	var manager string

	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "lights", "lighting":
		manager = building.LightsManagerName
	case "doors":
		manager = building.DoorsManagerName
	case "firealarm", "firealarms":
		manager = building.FireAlarmManagerName
	default:
		return "", 0, fmt.Errorf("%w: %q", errUnknownManager, name)
	}

	device, err := strconv.Atoi(index)
	if err != nil {
		return "", 0, fmt.Errorf("device number: %w", err)
	}

	return manager, device, nil
}
