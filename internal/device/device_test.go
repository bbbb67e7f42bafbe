package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/building-controller/internal/domain/building"
)

// TestLights_StatusAndSwitching verifies status rendering and that faulty lights ignore commands.
func TestLights_StatusAndSwitching(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lights := NewLights(3)

	require.Equal(t, 3, lights.Count())
	require.Equal(t, "Lights,OK,OK,OK,", lights.GetStatus(ctx))
	require.NoError(t, lights.SetAll(ctx, true))

	for id := 0; id < 3; id++ {
		on, err := lights.IsOn(id)
		require.NoError(t, err)
		require.True(t, on)
	}

	require.NoError(t, lights.SetFault(1, true))
	require.Equal(t, "Lights,OK,FAULT,OK,", lights.GetStatus(ctx))

	err := lights.SetAll(ctx, false)
	require.ErrorIs(t, err, ErrDeviceFault)

	on, err := lights.IsOn(0)
	require.NoError(t, err)
	require.False(t, on)

	on, err = lights.IsOn(1)
	require.NoError(t, err)
	require.True(t, on)

	require.ErrorIs(t, lights.SetLight(ctx, 1, false), ErrDeviceFault)
	require.ErrorIs(t, lights.SetLight(ctx, 7, false), ErrUnknownDevice)
	require.NoError(t, lights.SetLight(ctx, 2, true))

	_, err = lights.IsOn(-1)
	require.ErrorIs(t, err, ErrUnknownDevice)
}

// TestDoors_OpenAndLock verifies bulk and single door commands.
func TestDoors_OpenAndLock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	doors := NewDoors(2)

	require.Equal(t, "Doors,OK,OK,", doors.GetStatus(ctx))
	require.NoError(t, doors.OpenAll(ctx))

	state, err := doors.State(1)
	require.NoError(t, err)
	require.Equal(t, DoorOpen, state)
	require.Equal(t, "open", state.String())

	require.NoError(t, doors.LockDoor(ctx, 1))

	state, err = doors.State(1)
	require.NoError(t, err)
	require.Equal(t, DoorLocked, state)

	require.NoError(t, doors.SetFault(0, true))
	require.ErrorIs(t, doors.LockAll(ctx), ErrDeviceFault)
	require.ErrorIs(t, doors.OpenDoor(ctx, 0), ErrDeviceFault)
	require.NoError(t, doors.OpenDoor(ctx, 1))
	require.ErrorIs(t, doors.SetFault(2, true), ErrUnknownDevice)

	require.NoError(t, doors.SetFault(0, false))
	require.NoError(t, doors.LockAll(ctx))
}

// TestFireAlarm_Sounding verifies the alarm sounds while at least one healthy sounder is active.
func TestFireAlarm_Sounding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	alarm := NewFireAlarm(1)

	require.Equal(t, "FireAlarm,OK,", alarm.GetStatus(ctx))
	require.False(t, alarm.IsSounding())
	require.NoError(t, alarm.SetAlarm(ctx, true))
	require.True(t, alarm.IsSounding())
	require.NoError(t, alarm.SetAlarm(ctx, false))
	require.False(t, alarm.IsSounding())
}

// TestEngineerRequiredFlag ensures the flag set by the controller sweep is visible.
func TestEngineerRequiredFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	doors := NewDoors(1)

	require.False(t, doors.EngineerRequired())
	require.NoError(t, doors.SetEngineerRequired(ctx, true))
	require.True(t, doors.EngineerRequired())
}

// TestNegativeCountIsEmpty treats a negative size as an empty bank.
func TestNegativeCountIsEmpty(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Lights,", NewLights(-2).GetStatus(context.Background()))
}

// TestManagersDriveController runs the controller against the in-memory managers.
func TestManagersDriveController(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var (
		lights = NewLights(2)
		doors  = NewDoors(2)
		alarm  = NewFireAlarm(1)
	)

	c, err := building.New("Main",
		building.WithLightingManager(lights),
		building.WithDoorManager(doors),
		building.WithFireAlarmManager(alarm),
	)
	require.NoError(t, err)

	require.True(t, c.SetMode(ctx, "open"))
	require.True(t, c.SetMode(ctx, "fire alarm"))
	require.True(t, alarm.IsSounding())

	on, err := lights.IsOn(0)
	require.NoError(t, err)
	require.True(t, on)

	// A stuck door blocks reopening but not the emergency exit path.
	require.True(t, c.SetMode(ctx, "open"))
	require.True(t, c.SetMode(ctx, "out of hours"))
	require.NoError(t, doors.SetFault(1, true))
	require.False(t, c.SetMode(ctx, "open"))
	require.Equal(t, building.ModeOutOfHours, c.Mode())

	report := c.StatusReport(ctx)
	require.Equal(t, "Lights,OK,OK,Doors,OK,FAULT,FireAlarm,OK,", report)
	require.True(t, doors.EngineerRequired())
	require.False(t, lights.EngineerRequired())
}
