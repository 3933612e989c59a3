package interactive

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"reaper/pkg/colors"
	"reaper/pkg/errors"
	"reaper/pkg/instance"

	"github.com/ktr0731/go-fuzzyfinder"
	"golang.org/x/term"
)

// ErrSelectionCancelled is returned when the user aborts the finder.
var ErrSelectionCancelled = stderrors.New("instance selection cancelled")

// InstanceSelector narrows a selection down to the instances a user picks.
type InstanceSelector interface {
	SelectInstances(instances []*instance.Instance) ([]*instance.Instance, error)
}

type findMultiFunc func(items interface{}, itemFunc func(i int) string, header string, previewFunc func(i, w, h int) string) ([]int, error)

// FuzzyInstanceSelector picks instances with a multi-select fuzzy finder.
type FuzzyInstanceSelector struct {
	find       findMultiFunc
	isTerminal func() bool
	out        io.Writer
}

var _ InstanceSelector = (*FuzzyInstanceSelector)(nil)

// NewFuzzyInstanceSelector returns a selector reading from the terminal on stdin.
func NewFuzzyInstanceSelector() *FuzzyInstanceSelector {
	return &FuzzyInstanceSelector{
		find: FuzzyFindMulti,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) // #nosec G115
		},
		out: os.Stderr,
	}
}

// SelectInstances shows the finder and returns the chosen instances in
// their original order. An empty input is returned unchanged.
func (s *FuzzyInstanceSelector) SelectInstances(instances []*instance.Instance) ([]*instance.Instance, error) {
	if len(instances) == 0 {
		return instances, nil
	}
	if s.isTerminal != nil && !s.isTerminal() {
		return nil, errors.NewUsageError("--pick needs an interactive terminal on stdin")
	}

	idxs, err := s.find(instances,
		func(i int) string { return itemLabel(instances[i]) },
		fmt.Sprintf("Select instances (%d matched)", len(instances)),
		func(i, w, h int) string {
			if i < 0 || i >= len(instances) {
				return ""
			}
			return preview(instances[i])
		},
	)
	if err != nil {
		if stderrors.Is(err, fuzzyfinder.ErrAbort) {
			colors.FprintError(s.writer(), "❌ Instance selection cancelled\n")
			return nil, ErrSelectionCancelled
		}
		return nil, fmt.Errorf("instance selection failed: %w", err)
	}

	sort.Ints(idxs)
	selected := make([]*instance.Instance, 0, len(idxs))
	seen := make(map[int]bool, len(idxs))
	for _, i := range idxs {
		if i < 0 || i >= len(instances) || seen[i] {
			continue
		}
		seen[i] = true
		selected = append(selected, instances[i])
	}

	colors.FprintSuccess(s.writer(), "✅ Selected %d of %d instances\n", len(selected), len(instances))
	return selected, nil
}

func (s *FuzzyInstanceSelector) writer() io.Writer {
	if s.out == nil {
		return io.Discard
	}
	return s.out
}

func itemLabel(inst *instance.Instance) string {
	name, ok := inst.Name()
	if !ok || name == "" {
		name = "N/A"
	}
	state, ok := inst.State()
	if !ok {
		state = instance.NoState
	}
	return fmt.Sprintf("%s (%s) %s", name, inst.ID(), state)
}

func preview(inst *instance.Instance) string {
	get := func(name string) string {
		if v, ok := inst.Attribute(name); ok && v != "" {
			return v
		}
		return "N/A"
	}

	name, ok := inst.Name()
	if !ok || name == "" {
		name = "N/A"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name:         %s\n", name)
	fmt.Fprintf(&b, "Instance ID:  %s\n", get(instance.AttrID))
	fmt.Fprintf(&b, "State:        %s\n", colors.ColorState(get(instance.AttrState)))
	fmt.Fprintf(&b, "Type:         %s\n", get("instance_type"))
	fmt.Fprintf(&b, "Private IP:   %s\n", get("private_ip_address"))
	fmt.Fprintf(&b, "Public IP:    %s\n", get("ip_address"))
	fmt.Fprintf(&b, "Zone:         %s", get("placement"))

	tags := inst.Tags()
	if len(tags) > 0 {
		keys := make([]string, 0, len(tags))
		for k := range tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n\nTags:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s = %s", k, tags[k])
		}
	}

	return b.String()
}
