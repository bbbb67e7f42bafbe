package building

import "context"

// LightingManager controls every light in the building.
type LightingManager interface {
	// GetStatus returns the manager status line, e.g. "Lights,OK,FAULT,".
	GetStatus(ctx context.Context) string
	// SetAll switches every light on or off.
	SetAll(ctx context.Context, on bool) error
}

// DoorManager controls every door in the building.
type DoorManager interface {
	// GetStatus returns the manager status line, e.g. "Doors,OK,OK,".
	GetStatus(ctx context.Context) string
	// OpenAll opens every door. An error means at least one door stayed shut.
	OpenAll(ctx context.Context) error
	// LockAll locks every door.
	LockAll(ctx context.Context) error
}

// FireAlarmManager controls the fire alarm sounders.
type FireAlarmManager interface {
	// GetStatus returns the manager status line, e.g. "FireAlarm,OK,".
	GetStatus(ctx context.Context) string
	// SetAlarm raises or silences the alarm.
	SetAlarm(ctx context.Context, on bool) error
}

// EngineerFlagger is implemented by managers that can record that an engineer is required.
// A faulty manager implementing it is flagged during a status sweep.
type EngineerFlagger interface {
	SetEngineerRequired(ctx context.Context, required bool) error
}

// WebNotifier reports building events to the web logging service.
type WebNotifier interface {
	// LogFireAlarm records that the building entered the given emergency mode.
	LogFireAlarm(ctx context.Context, modeName string) error
	// LogEngineerRequired records the faulty managers, e.g. "Lights" or "Lights,Doors,".
	LogEngineerRequired(ctx context.Context, deviceListing string) error
}

// EmailNotifier sends operator emails.
type EmailNotifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}
