package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/building-controller/internal/logger"
	"github.com/oshokin/building-controller/internal/service/controller"
	"github.com/oshokin/building-controller/internal/version"
)

var (
	// configPath to the configuration YAML file; empty uses built-in defaults.
	configPath string
	// loopback starts an in-process web log recorder.
	loopback bool

	// rootCmd is the base command; it only hosts subcommands.
	rootCmd = &cobra.Command{
		Use:           "building-controller",
		Short:         "Control the operating mode of a smart building.",
		SilenceUsage: true,
	}

	// runCmd executes a step script against a simulated building.
	runCmd = &cobra.Command{
		Use:   "run [step...]",
		Short: "Run a script of mode changes and status sweeps.",
		Long: `Builds a controller with in-memory lights, doors and fire alarm managers
and executes the given steps in order:

  mode=<name>             request a mode: closed, open, out of hours, fire alarm, fire drill
  report                  print the status report and notify faulty managers
  fault=<manager>:<n>     mark device n of lights, doors or fire-alarm as faulty
  repair=<manager>:<n>    mark it healthy again

Rejected mode changes are printed and do not stop the script.
Events go to the web log service from the configuration, or to an in-process
recorder with --loopback.`,
		Example: `  building-controller run "mode=closed" "mode=fire alarm" "mode=closed" report
  building-controller run -c building.yaml --loopback "fault=doors:0" report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			options := &controller.Options{
				ConfigPath: configPath,
				Steps:      args,
				Loopback:   loopback,
				Output:     cmd.OutOrStdout(),
			}

			return controller.Run(ctx, options)
		},
	}
)

// Execute runs the building-controller CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (defaults built in)")
	runCmd.Flags().BoolVar(&loopback, "loopback", false, "log web events to an in-process recorder")

	rootCmd.AddCommand(runCmd)
}
