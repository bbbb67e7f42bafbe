package device

import (
	"context"

	"github.com/oshokin/building-controller/internal/domain/building"
)

// DoorState is the position of a single door.
type DoorState uint8

const (
	// DoorLocked is the initial state of every door.
	DoorLocked DoorState = iota
	// DoorOpen means the door is held open.
	DoorOpen
)

// String returns "locked" or "open".
func (s DoorState) String() string {
	if s == DoorOpen {
		return "open"
	}

	return "locked"
}

// Doors is an in-memory door manager.
type Doors struct {
	bank

	// states holds the position of each door.
	states []DoorState
}

var (
	_ building.DoorManager     = (*Doors)(nil)
	_ building.EngineerFlagger = (*Doors)(nil)
)

// NewDoors creates a bank of count doors, all locked and healthy.
func NewDoors(count int) *Doors {
	d := new(Doors)
	d.setup(building.DoorsManagerName, count)
	d.states = make([]DoorState, len(d.faults))

	return d
}

// OpenAll opens every healthy door. Any faulty door makes the call fail.
func (d *Doors) OpenAll(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.apply(func(id int) { d.states[id] = DoorOpen })
}

// LockAll locks every healthy door. Any faulty door makes the call fail.
func (d *Doors) LockAll(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.apply(func(id int) { d.states[id] = DoorLocked })
}

// OpenDoor opens a single door.
func (d *Doors) OpenDoor(_ context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.single(id, func() { d.states[id] = DoorOpen })
}

// LockDoor locks a single door.
func (d *Doors) LockDoor(_ context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.single(id, func() { d.states[id] = DoorLocked })
}

// State returns the position of a door.
func (d *Doors) State(id int) (DoorState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.check(id); err != nil {
		return DoorLocked, err
	}

	return d.states[id], nil
}
