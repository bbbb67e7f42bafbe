package device

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oshokin/building-controller/internal/domain/building"
)

var (
	// ErrUnknownDevice is returned for a device number outside the bank.
	ErrUnknownDevice = errors.New("unknown device")
	// ErrDeviceFault is returned when a faulty device cannot execute a command.
	ErrDeviceFault = errors.New("device fault")
)

// bank holds the health of a numbered set of devices. Devices are numbered from 0.
type bank struct {
	// name prefixes the status line, e.g. "Lights".
	name string
	// faults marks which devices are broken.
	faults []bool
	// engineerRequired is set once a status sweep finds the bank faulty.
	engineerRequired bool
	// mu protects every field of the embedding manager.
	mu sync.Mutex
}

// setup sizes the bank; a negative count yields an empty bank.
func (b *bank) setup(name string, count int) {
	b.name = name
	b.faults = make([]bool, max(count, 0))
}

// GetStatus renders the status line, one OK or FAULT token per device.
func (b *bank) GetStatus(context.Context) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	tokens := make([]string, len(b.faults))
	for i, faulty := range b.faults {
		tokens[i] = building.StatusOK
		if faulty {
			tokens[i] = building.StatusFault
		}
	}

	return building.FormatStatus(b.name, tokens)
}

// SetEngineerRequired records whether an engineer has been requested for the bank.
func (b *bank) SetEngineerRequired(_ context.Context, required bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.engineerRequired = required

	return nil
}

// EngineerRequired reports whether an engineer has been requested.
func (b *bank) EngineerRequired() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.engineerRequired
}

// Count returns the number of devices in the bank.
func (b *bank) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.faults)
}

// SetFault marks a device broken or repaired.
func (b *bank) SetFault(id int, faulty bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.check(id); err != nil {
		return err
	}

	b.faults[id] = faulty

	return nil
}

// check validates a device number. Callers hold mu.
func (b *bank) check(id int) error {
	if id < 0 || id >= len(b.faults) {
		return fmt.Errorf("%w: %s %d", ErrUnknownDevice, b.name, id)
	}

	return nil
}

// apply runs fn for every healthy device and collects an error per faulty one.
// Callers hold mu.
func (b *bank) apply(fn func(id int)) error {
	var errs []error

	for id, faulty := range b.faults {
		if faulty {
			errs = append(errs, fmt.Errorf("%w: %s %d", ErrDeviceFault, b.name, id))
			continue
		}

		fn(id)
	}

	return errors.Join(errs...)
}

// single runs fn for one device if it exists and is healthy. Callers hold mu.
func (b *bank) single(id int, fn func()) error {
	if err := b.check(id); err != nil {
		return err
	}

	if b.faults[id] {
		return fmt.Errorf("%w: %s %d", ErrDeviceFault, b.name, id)
	}

	fn()

	return nil
}
