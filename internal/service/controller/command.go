package controller

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/oshokin/building-controller/internal/config"
	"github.com/oshokin/building-controller/internal/device"
	"github.com/oshokin/building-controller/internal/domain/building"
	"github.com/oshokin/building-controller/internal/logger"
	"github.com/oshokin/building-controller/internal/notify/email"
	"github.com/oshokin/building-controller/internal/notify/weblog"
)

// Options controls one controller run.
type Options struct {
	// ConfigPath is the settings YAML file; empty uses built-in defaults.
	ConfigPath string
	// Steps is the script to execute, see ParseSteps.
	Steps []string
	// Loopback starts an in-process web log recorder instead of using WebLogAddress.
	Loopback bool
	// Output receives one line per step; defaults to stdout.
	Output io.Writer
}

// faulter is implemented by every in-memory device bank.
type faulter interface {
	SetFault(id int, faulty bool) error
}

// plant holds the device managers of the simulated building.
type plant struct {
	lights    *device.Lights
	doors     *device.Doors
	fireAlarm *device.FireAlarm
}

// byName returns the bank matching a canonical manager name.
func (p *plant) byName(name string) faulter {
	switch name {
	case building.LightsManagerName:
		return p.lights
	case building.DoorsManagerName:
		return p.doors
	default:
		return p.fireAlarm
	}
}

// Run executes the step script against a controller built from the settings.
// Rejected mode changes are reported in the output, not returned as errors.
//
//nolint:cyclop,funlen // Wiring reads top to bottom; splitting would scatter it.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "building-controller")

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	steps, err := ParseSteps(opts.Steps)
	if err != nil {
		return err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	p := &plant{
		lights:    device.NewLights(cfg.Lights),
		doors:     device.NewDoors(cfg.Doors),
		fireAlarm: device.NewFireAlarm(cfg.FireAlarms),
	}

	controllerOptions := []building.Option{
		building.WithLightingManager(p.lights),
		building.WithDoorManager(p.doors),
		building.WithFireAlarmManager(p.fireAlarm),
	}

	if cfg.StartMode != "" {
		controllerOptions = append(controllerOptions, building.WithStartMode(cfg.StartMode))
	}

	webLogAddress := cfg.WebLogAddress

	if opts.Loopback {
		recorderCtx, stopRecorder := context.WithCancel(ctx)
		defer stopRecorder()

		webLogAddress, err = startRecorder(recorderCtx)
		if err != nil {
			return err
		}
	}

	if webLogAddress != "" {
		client, dialErr := weblog.Dial(ctx, webLogAddress,
			weblog.WithBuildingID(cfg.BuildingID),
			weblog.WithCallTimeout(cfg.Timeout),
		)
		if dialErr != nil {
			return fmt.Errorf("dial web log: %w", dialErr)
		}

		defer func() {
			_ = client.Close()
		}()

		controllerOptions = append(controllerOptions, building.WithWebNotifier(client))
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		return fmt.Errorf("initialise email: %w", err)
	}

	controllerOptions = append(controllerOptions, building.WithEmailNotifier(mailer))

	c, err := building.New(cfg.BuildingID, controllerOptions...)
	if err != nil {
		return fmt.Errorf("initialise controller: %w", err)
	}

	ctx = logger.WithKV(ctx, "building_id", c.ID())
	logger.InfoKV(ctx, "Controller started", "mode", c.Mode().String(), "steps", len(steps))

	for _, step := range steps {
		if err = execute(ctx, c, p, step, out); err != nil {
			return err
		}
	}

	return nil
}

// execute performs one step and writes its outcome.
func execute(ctx context.Context, c *building.Controller, p *plant, step Step, out io.Writer) error {
	var line string

	switch step.Kind {
	case StepMode:
		if err := c.Transition(ctx, step.Mode); err != nil {
			line = fmt.Sprintf("%s: rejected (%v), mode %s", step.Raw, err, c.Mode())
		} else {
			line = fmt.Sprintf("%s: ok, mode %s", step.Raw, c.Mode())
		}
	case StepReport:
		line = fmt.Sprintf("%s: %s", step.Raw, c.StatusReport(ctx))
	case StepFault, StepRepair:
		if err := p.byName(step.Manager).SetFault(step.Device, step.Kind == StepFault); err != nil {
			return fmt.Errorf("%s: %w", step.Raw, err)
		}

		line = step.Raw + ": ok"
	}

	if _, err := fmt.Fprintln(out, line); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// loadConfig reads settings from path, or returns defaults for an empty path.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}

// newMailer selects Postmark when credentials are configured.
//
//nolint:ireturn // Callers only need the notifier capability.
func newMailer(cfg *config.Config) (building.EmailNotifier, error) {
	if !cfg.Email.Enabled() {
		return email.LogSender{}, nil
	}

	sender, err := email.NewPostmarkSender(email.Config{
		ServerToken:  cfg.Email.ServerToken,
		AccountToken: cfg.Email.AccountToken,
		Sender:       cfg.Email.Sender,
	})
	if err != nil {
		return nil, err
	}

	return sender, nil
}

// startRecorder serves an in-process web log recorder on a loopback port until
// ctx is canceled and returns its address.
func startRecorder(ctx context.Context) (string, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("listen for web log recorder: %w", err)
	}

	go func() {
		if serveErr := weblog.Serve(ctx, lis, weblog.NewRecorder()); serveErr != nil {
			logger.ErrorKV(ctx, "Web log recorder stopped", "error", serveErr)
		}
	}()

	return lis.Addr().String(), nil
}
