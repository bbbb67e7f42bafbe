package building

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/building-controller/internal/logger"
)

const (
	// AlarmReportRecipient receives the email sent when a fire alarm cannot be logged.
	AlarmReportRecipient = "smartbuilding@uclan.ac.uk"
	// AlarmReportSubject is the subject of that email.
	AlarmReportSubject = "failed to log alarm"
)

// Controller owns the operating mode of one building.
// It is not safe for concurrent use; callers serialize access.
type Controller struct {
	// id is the lowercase building identifier.
	id string
	// current is the active mode.
	current Mode
	// previous is the normal mode left most recently, the only exit from an emergency.
	previous Mode

	lights    LightingManager
	doors     DoorManager
	fireAlarm FireAlarmManager
	web       WebNotifier
	email     EmailNotifier
}

// options collects constructor arguments before they are validated.
type options struct {
	startMode    string
	hasStartMode bool
	lights       LightingManager
	doors        DoorManager
	fireAlarm    FireAlarmManager
	web          WebNotifier
	email        EmailNotifier
}

// Option configures a Controller at construction time.
type Option func(*options)

// WithStartMode sets the initial mode by name. Only normal modes are accepted.
func WithStartMode(name string) Option {
	return func(o *options) {
		o.startMode = name
		o.hasStartMode = true
	}
}

// WithLightingManager binds the lighting manager.
func WithLightingManager(m LightingManager) Option {
	return func(o *options) { o.lights = m }
}

// WithDoorManager binds the door manager.
func WithDoorManager(m DoorManager) Option {
	return func(o *options) { o.doors = m }
}

// WithFireAlarmManager binds the fire alarm manager.
func WithFireAlarmManager(m FireAlarmManager) Option {
	return func(o *options) { o.fireAlarm = m }
}

// WithWebNotifier binds the web logging service.
func WithWebNotifier(n WebNotifier) Option {
	return func(o *options) { o.web = n }
}

// WithEmailNotifier binds the email service.
func WithEmailNotifier(n EmailNotifier) Option {
	return func(o *options) { o.email = n }
}

// New creates a controller for the building with the given id.
// Without WithStartMode the controller starts out of hours. A start mode that is
// not closed, open or out of hours yields ErrInvalidStartMode.
func New(id string, opts ...Option) (*Controller, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	start := DefaultMode

	if o.hasStartMode {
		mode, err := ParseMode(o.startMode)
		if err != nil || !mode.IsNormal() {
			return nil, ErrInvalidStartMode
		}

		start = mode
	}

	c := &Controller{
		current:   start,
		previous:  DefaultMode,
		lights:    o.lights,
		doors:     o.doors,
		fireAlarm: o.fireAlarm,
		web:       o.web,
		email:     o.email,
	}

	c.SetID(id)

	return c, nil
}

// ID returns the building identifier.
func (c *Controller) ID() string {
	return c.id
}

// SetID replaces the building identifier, lowercasing it.
func (c *Controller) SetID(id string) {
	c.id = strings.ToLower(id)
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.current
}

// PreviousMode returns the normal mode an emergency will resume to.
func (c *Controller) PreviousMode() Mode {
	return c.previous
}

// SetMode requests a transition to the named mode and reports whether the
// building is in that mode afterwards. A rejected request leaves the state unchanged.
func (c *Controller) SetMode(ctx context.Context, name string) bool {
	return c.Transition(ctx, name) == nil
}

// Transition is SetMode with the rejection reason: ErrUnknownMode,
// ErrIllegalTransition or ErrSideEffectFailed.
func (c *Controller) Transition(ctx context.Context, name string) error {
	target, err := ParseMode(name)
	if err != nil {
		logger.WarnKV(ctx, "Mode change rejected", "building_id", c.id, "requested", name, "error", err)

		return err
	}

	if target == c.current {
		return nil
	}

	if !canTransition(c.current, c.previous, target) {
		logger.WarnKV(ctx, "Mode change rejected",
			"building_id", c.id,
			"from", c.current.String(),
			"to", target.String(),
			"resume_mode", c.previous.String(),
		)

		return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, c.current, target)
	}

	if err = c.enter(ctx, target); err != nil {
		logger.WarnKV(ctx, "Mode change aborted",
			"building_id", c.id,
			"from", c.current.String(),
			"to", target.String(),
			"error", err,
		)

		return fmt.Errorf("%w: entering %s: %w", ErrSideEffectFailed, target, err)
	}

	if c.current.IsNormal() {
		c.previous = c.current
	}

	logger.InfoKV(ctx, "Mode changed", "building_id", c.id, "from", c.current.String(), "to", target.String())

	c.current = target

	return nil
}

// enter runs the device commands required by the target mode.
// Only a failure to open the doors for ModeOpen is returned.
func (c *Controller) enter(ctx context.Context, target Mode) error {
	switch target {
	case ModeOpen:
		if c.doors == nil {
			return nil
		}

		return c.doors.OpenAll(ctx)
	case ModeClosed:
		if c.doors != nil {
			ignore(ctx, "lock doors", c.doors.LockAll(ctx))
		}

		if c.lights != nil {
			ignore(ctx, "switch lights off", c.lights.SetAll(ctx, false))
		}
	case ModeFireAlarm:
		c.raiseFireAlarm(ctx)
	case ModeOutOfHours, ModeFireDrill:
	}

	return nil
}

// raiseFireAlarm sounds the alarm, opens the doors for egress, lights the
// building and logs the event. A logging failure is reported by email.
func (c *Controller) raiseFireAlarm(ctx context.Context) {
	if c.fireAlarm != nil {
		ignore(ctx, "sound fire alarm", c.fireAlarm.SetAlarm(ctx, true))
	}

	if c.doors != nil {
		ignore(ctx, "open doors", c.doors.OpenAll(ctx))
	}

	if c.lights != nil {
		ignore(ctx, "switch lights on", c.lights.SetAll(ctx, true))
	}

	if c.web == nil {
		return
	}

	err := c.web.LogFireAlarm(ctx, ModeFireAlarm.String())
	if err == nil {
		return
	}

	logger.ErrorKV(ctx, "Failed to log fire alarm", "building_id", c.id, "error", err)

	if c.email == nil {
		return
	}

	if mailErr := c.email.SendEmail(ctx, AlarmReportRecipient, AlarmReportSubject, err.Error()); mailErr != nil {
		logger.ErrorKV(ctx, "Failed to email fire alarm log failure", "building_id", c.id, "error", mailErr)
	}
}

// ignore logs a device command failure that does not affect the transition.
func ignore(ctx context.Context, action string, err error) {
	if err != nil {
		logger.WarnKV(ctx, "Device command failed", "action", action, "error", err)
	}
}
