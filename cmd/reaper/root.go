package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"reaper/internal/dispatch"
	"reaper/internal/fixture"
	"reaper/internal/interactive"
	"reaper/pkg/aws"
	"reaper/pkg/errors"
	"reaper/pkg/filter"
	"reaper/pkg/instance"
	"reaper/pkg/logging"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// Version can be set at build time using -ldflags "-X main.Version=X.Y.Z"
var Version = "0.1.0"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// options holds everything parsed from the command line.
type options struct {
	includes []filter.Spec
	excludes []filter.Spec
	action   dispatch.Action
	verbose  int

	region     string
	profile    string
	configFile string
	fixture    string

	table      bool
	pick       bool
	open       bool
	initConfig bool
}

// instanceProvider lists the instances of a region and accepts lifecycle
// requests for them.
type instanceProvider interface {
	ListInstances(ctx context.Context, region string) ([]*instance.Instance, error)
	instance.Controller
}

// providerSource describes where instances come from for one run.
type providerSource struct {
	Region  string
	Profile string
	Fixture string
	Logger  *logging.Logger
}

// app holds the process-level dependencies of a run.
type app struct {
	stdout      io.Writer
	stderr      io.Writer
	providerFor func(ctx context.Context, src providerSource) (instanceProvider, error)
	selector    func() interactive.InstanceSelector
	openURL     func(url string) error
}

func newApp() *app {
	return &app{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		providerFor: defaultProvider,
		selector:    newSelector,
		openURL:     browser.OpenURL,
	}
}

func newSelector() interactive.InstanceSelector {
	return interactive.NewFuzzyInstanceSelector()
}

func defaultProvider(ctx context.Context, src providerSource) (instanceProvider, error) {
	if src.Fixture != "" {
		return fixture.LoadProvider(src.Fixture, src.Logger)
	}

	client, err := aws.NewClient(ctx, aws.ClientOptions{Region: src.Region, Profile: src.Profile})
	if err != nil {
		return nil, err
	}
	return aws.NewInstanceServiceFromClient(client, src.Logger), nil
}

func newRootCmd(a *app) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "reaper [flags]",
		Short: "Select EC2 instances by attribute and tag filters and act on them",
		Long: `reaper lists the EC2 instances of one region, narrows them with include and
exclude filters, and optionally starts, stops or terminates what is left.

Filters take the form KEY=VALUE (-i, -x) or KEY=REGEX (-I, -X). KEY is an
instance attribute such as id, state or instance_type, or a tag written as
tags.NAME. A bare KEY matches any instance where that attribute is non-empty.
An instance is selected when it matches at least one include (or there are
none) and no exclude.

Without an action flag the selected instances are listed.`,
		Example: `  reaper -r use1
  reaper -r ap-southeast-2 -I id=i-e48f12d[ab] -X tags.name=Sample2
  reaper -r use1 -i tags.env=staging -x state=terminated --stop -v`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errors.NewUsageError(fmt.Sprintf("unexpected argument %q", args[0]))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), opts)
		},
	}

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewUsageError(err.Error())
	})

	flags := cmd.Flags()
	addFilterFlags(flags, opts)
	addActionFlags(flags, opts)
	flags.CountVarP(&opts.verbose, "verbose", "v", "report per-instance decisions (-vv adds debug output)")
	flags.StringVarP(&opts.region, "region", "r", "", "AWS region or shortcode (e.g. us-east-1, use1)")
	flags.StringVar(&opts.profile, "profile", "", "AWS shared config profile")
	flags.StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.reaper.yaml)")
	flags.StringVar(&opts.fixture, "fixture", "", "read instances from a YAML or JSON fixture file instead of EC2")
	flags.BoolVar(&opts.table, "table", false, "list the selected instances as a table")
	flags.BoolVar(&opts.pick, "pick", false, "narrow the selection interactively with a fuzzy finder")
	flags.BoolVar(&opts.open, "open", false, "open the selected instances in the EC2 console")
	flags.BoolVar(&opts.initConfig, "init-config", false, "write a sample config file to --config (default $HOME/.reaper.yaml) and exit")

	return cmd
}

// execute runs the command line and maps the outcome to an exit code.
// Console diagnostics go to the app's stderr for the duration of the run.
func execute(ctx context.Context, args []string, a *app) int {
	defer logging.SetConsoleOutput(logging.SetConsoleOutput(a.stderr))
	defer logging.CloseLogger()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		logging.LogError("%v", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errors.ErrTypeUsage):
		return exitUsage
	default:
		return exitError
	}
}
