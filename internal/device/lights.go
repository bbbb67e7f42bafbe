package device

import (
	"context"

	"github.com/oshokin/building-controller/internal/domain/building"
)

// Lights is an in-memory lighting manager.
type Lights struct {
	bank

	// on holds the switch state of each light.
	on []bool
}

var (
	_ building.LightingManager = (*Lights)(nil)
	_ building.EngineerFlagger = (*Lights)(nil)
)

// NewLights creates a bank of count lights, all off and healthy.
func NewLights(count int) *Lights {
	l := new(Lights)
	l.setup(building.LightsManagerName, count)
	l.on = make([]bool, len(l.faults))

	return l
}

// SetAll switches every healthy light. Faulty lights keep their state and are reported.
func (l *Lights) SetAll(_ context.Context, on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.apply(func(id int) { l.on[id] = on })
}

// SetLight switches a single light.
func (l *Lights) SetLight(_ context.Context, id int, on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.single(id, func() { l.on[id] = on })
}

// IsOn reports whether the light is switched on.
func (l *Lights) IsOn(id int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.check(id); err != nil {
		return false, err
	}

	return l.on[id], nil
}
