package main

import (
	"context"
	stderrors "errors"
	"fmt"

	"reaper/internal/config"
	"reaper/internal/dispatch"
	"reaper/internal/interactive"
	"reaper/pkg/aws"
	"reaper/pkg/colors"
	"reaper/pkg/errors"
	"reaper/pkg/filter"
	"reaper/pkg/instance"
	"reaper/pkg/logging"
)

func (a *app) run(ctx context.Context, opts *options) error {
	if opts.initConfig {
		path, err := config.InitFile(opts.configFile)
		if err != nil {
			return err
		}
		colors.FprintSuccess(a.stdout, "Wrote sample configuration to %s\n", path)
		return nil
	}

	if opts.action != dispatch.ActionNone && (opts.table || opts.open) {
		return errors.NewUsageError(fmt.Sprintf("--table and --open only apply when listing, not with --%s", opts.action))
	}

	configFile, err := config.Setup(opts.configFile)
	if err != nil {
		return err
	}
	if err := config.Load(); err != nil {
		return err
	}
	cfg := config.Get()

	verbosity := max(opts.verbose, cfg.Verbosity())
	logging.Init(cfg.LoggingOptions())
	logger := logging.NewLogger(verbosity)
	if configFile != "" {
		logger.Debug("Using config file", "file", configFile)
	}
	if path := logging.LogFilePath(); path != "" {
		logger.Debug("Logging to file", "path", path)
	}

	region, err := aws.ResolveRegion(firstNonEmpty(opts.region, cfg.Region))
	if err != nil {
		if errors.Is(err, errors.ErrTypeUsage) {
			return err
		}
		return errors.Wrap(errors.ErrTypeUsage, "invalid region", err)
	}

	criteria, err := filter.CompileCriteria(opts.includes, opts.excludes)
	if err != nil {
		return err
	}
	if verbosity >= logging.DebugVerbosity {
		fmt.Fprintln(a.stdout, criteria.Describe())
	}

	src := providerSource{
		Region:  region,
		Profile: firstNonEmpty(opts.profile, cfg.Profile),
		Fixture: firstNonEmpty(opts.fixture, cfg.Fixture),
		Logger:  logger,
	}
	provider, err := a.providerFor(ctx, src)
	if err != nil {
		return err
	}
	logger.Debug("Listing instances", "region", region, "fixture", src.Fixture)

	instances, err := provider.ListInstances(ctx, region)
	if err != nil {
		return err
	}
	selected := criteria.Select(instances)
	logger.Debug("Filtered instances", "listed", len(instances), "selected", len(selected))

	if opts.pick {
		selected, err = a.selector().SelectInstances(selected)
		if stderrors.Is(err, interactive.ErrSelectionCancelled) {
			logger.Warn("Selection cancelled, nothing to do")
			return nil
		}
		if err != nil {
			return err
		}
	}

	d := &dispatch.Dispatcher{
		Action:     opts.action,
		Controller: provider,
		Out:        a.stdout,
		Verbosity:  verbosity,
		Logger:     logger,
	}

	if opts.action == dispatch.ActionNone {
		return a.list(ctx, d, opts, region, selected, logger)
	}

	decisions, err := d.Run(ctx, selected)
	logger.Debug("Dispatch finished", "action", opts.action, "decisions", len(decisions), "invoked", dispatch.Invoked(decisions))
	return err
}

func (a *app) list(ctx context.Context, d *dispatch.Dispatcher, opts *options, region string, selected []*instance.Instance, logger *logging.Logger) error {
	if opts.table {
		a.printTable(selected)
	} else if _, err := d.Run(ctx, selected); err != nil {
		return err
	}

	if !opts.open {
		return nil
	}
	if len(selected) == 0 {
		logger.Warn("No instances selected, nothing to open")
		return nil
	}

	ids := make([]string, 0, len(selected))
	for _, inst := range selected {
		if id := inst.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	url := aws.ConsoleURL(region, ids)
	if err := a.openURL(url); err != nil {
		return fmt.Errorf("failed to open the EC2 console: %w", err)
	}
	logger.Info("Opened EC2 console", "instances", len(ids), "url", url)
	return nil
}

func (a *app) printTable(selected []*instance.Instance) {
	if len(selected) == 0 {
		colors.FprintMuted(a.stderr, "No instances selected\n")
		return
	}

	ids := make([]string, len(selected))
	names := make([]string, len(selected))
	states := make([]string, len(selected))
	types := make([]string, len(selected))
	ips := make([]string, len(selected))
	for i, inst := range selected {
		ids[i] = valueOr(inst.ID(), true)
		names[i] = valueOr(inst.Name())
		state, ok := inst.State()
		states[i] = colors.ColorState(valueOr(state, ok))
		types[i] = valueOr(inst.Attribute("instance_type"))
		ips[i] = valueOr(inst.Attribute("private_ip_address"))
	}

	formatter := NewTableFormatter(2)
	formatter.AddColumn("Instance ID", ids, 12)
	formatter.AddColumn("Name", names, 8)
	formatter.AddColumn("State", states, 8)
	formatter.AddColumn("Type", types, 8)
	formatter.AddColumn("Private IP", ips, 10)

	colors.FprintHeader(a.stdout, "%s\n", formatter.FormatHeader())
	for i := 0; i < formatter.GetRowCount(); i++ {
		fmt.Fprintln(a.stdout, formatter.FormatRow(i))
	}
}

func valueOr(v string, ok bool) string {
	if !ok || v == "" {
		return "-"
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
