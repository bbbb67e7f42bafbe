package device

import (
	"context"

	"github.com/oshokin/building-controller/internal/domain/building"
)

// FireAlarm is an in-memory fire alarm manager. The alarm sounds if any healthy
// sounder is active.
type FireAlarm struct {
	bank

	// sounding holds the state of each sounder.
	sounding []bool
}

var (
	_ building.FireAlarmManager = (*FireAlarm)(nil)
	_ building.EngineerFlagger  = (*FireAlarm)(nil)
)

// NewFireAlarm creates count silent, healthy sounders.
func NewFireAlarm(count int) *FireAlarm {
	f := new(FireAlarm)
	f.setup(building.FireAlarmManagerName, count)
	f.sounding = make([]bool, len(f.faults))

	return f
}

// SetAlarm raises or silences every healthy sounder.
func (f *FireAlarm) SetAlarm(_ context.Context, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.apply(func(id int) { f.sounding[id] = on })
}

// IsSounding reports whether any sounder is active.
func (f *FireAlarm) IsSounding() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, on := range f.sounding {
		if on {
			return true
		}
	}

	return false
}
