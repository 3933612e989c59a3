package main

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"reaper/internal/dispatch"
	"reaper/pkg/filter"
)

// filterValue appends every occurrence of its flag to a shared spec list,
// so -i and -I (or -x and -X) interleave in command line order.
type filterValue struct {
	specs   *[]filter.Spec
	isRegex bool
}

var _ pflag.Value = (*filterValue)(nil)

func (f *filterValue) Set(token string) error {
	*f.specs = append(*f.specs, filter.ParseSpec(token, f.isRegex))
	return nil
}

func (f *filterValue) Type() string {
	if f.isRegex {
		return "KEY=REGEX"
	}
	return "KEY=VALUE"
}

func (f *filterValue) String() string {
	var parts []string
	for _, spec := range *f.specs {
		if spec.IsRegex != f.isRegex {
			continue
		}
		if spec.Value == nil {
			parts = append(parts, spec.Keyword)
			continue
		}
		parts = append(parts, spec.Keyword+"="+*spec.Value)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// actionValue backs --start, --stop and --terminate. All three write the
// same target, so the last one given wins.
type actionValue struct {
	target *dispatch.Action
	action dispatch.Action
}

var _ pflag.Value = (*actionValue)(nil)

func (a *actionValue) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*a.target = a.action
	} else if *a.target == a.action {
		*a.target = dispatch.ActionNone
	}
	return nil
}

func (a *actionValue) Type() string {
	return "bool"
}

func (a *actionValue) String() string {
	return strconv.FormatBool(a.target != nil && *a.target == a.action)
}

func addFilterFlags(fs *pflag.FlagSet, opts *options) {
	fs.VarP(&filterValue{specs: &opts.includes}, "include", "i",
		"include instances whose attribute matches exactly (repeatable; bare KEY tests for a non-empty value)")
	fs.VarP(&filterValue{specs: &opts.excludes}, "exclude", "x",
		"exclude instances whose attribute matches exactly (repeatable)")
	fs.VarP(&filterValue{specs: &opts.includes, isRegex: true}, "includer", "I",
		"include instances whose attribute matches a regular expression from its start (repeatable)")
	fs.VarP(&filterValue{specs: &opts.excludes, isRegex: true}, "excluder", "X",
		"exclude instances whose attribute matches a regular expression from its start (repeatable)")
}

func addActionFlags(fs *pflag.FlagSet, opts *options) {
	usage := map[dispatch.Action]string{
		dispatch.ActionStart:     "start the selected instances that are not running, pending or terminated",
		dispatch.ActionStop:      "stop the selected instances that are pending or running",
		dispatch.ActionTerminate: "terminate the selected instances that are not already terminated",
	}
	for _, action := range []dispatch.Action{dispatch.ActionStart, dispatch.ActionStop, dispatch.ActionTerminate} {
		flag := fs.VarPF(&actionValue{target: &opts.action, action: action}, action.String(), "", usage[action])
		flag.NoOptDefVal = "true"
	}
}
