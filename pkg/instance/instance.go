package instance

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Well-known attribute names.
const (
	AttrID    = "id"
	AttrState = "state"
)

// Lifecycle states reported by EC2 plus the optimistic states recorded
// locally after a request.
const (
	StatePending    = "pending"
	StateRunning    = "running"
	StateStopping   = "stopping"
	StateStopped    = "stopped"
	StateTerminated = "terminated"

	StateStarted = "started"
)

// Placeholders used by Summary for missing values.
const (
	NoID    = "(no id)"
	NoName  = "(no name)"
	NoState = "(no state)"
)

// Instance is the uniform, filterable view of a compute instance. Plain
// attributes are looked up by name; tags live in their own lowercase-keyed map.
type Instance struct {
	attributes map[string]string
	tags       map[string]string
}

// Controller issues lifecycle requests for an instance, identified by its ID.
type Controller interface {
	StartInstance(ctx context.Context, instanceID string) error
	StopInstance(ctx context.Context, instanceID string) error
	TerminateInstance(ctx context.Context, instanceID string) error
}

func newInstance(attributes, tags map[string]string) *Instance {
	inst := &Instance{
		attributes: make(map[string]string, len(attributes)),
		tags:       make(map[string]string, len(tags)),
	}
	for k, v := range attributes {
		inst.attributes[k] = v
	}

	// Keys that collide once lowercased resolve to the one sorting last,
	// so "name" wins over "Name".
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		inst.tags[strings.ToLower(k)] = tags[k]
	}
	return inst
}

// ID returns the instance identifier, or "" if the record had none.
func (i *Instance) ID() string {
	return i.attributes[AttrID]
}

// State returns the current lifecycle state and whether one is known.
func (i *Instance) State() (string, bool) {
	s, ok := i.attributes[AttrState]
	return s, ok
}

// Attribute looks up a plain attribute by name.
func (i *Instance) Attribute(name string) (string, bool) {
	v, ok := i.attributes[name]
	return v, ok
}

// Tag looks up a tag by name. Names are matched case-insensitively.
func (i *Instance) Tag(name string) (string, bool) {
	v, ok := i.tags[strings.ToLower(name)]
	return v, ok
}

// Name returns the value of the "name" tag.
func (i *Instance) Name() (string, bool) {
	return i.Tag("name")
}

// AttributeNames returns the sorted attribute names present on the instance.
func (i *Instance) AttributeNames() []string {
	names := make([]string, 0, len(i.attributes))
	for k := range i.attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Tags returns a copy of the tag map.
func (i *Instance) Tags() map[string]string {
	out := make(map[string]string, len(i.tags))
	for k, v := range i.tags {
		out[k] = v
	}
	return out
}

// Summary renders the identifying line used by listing mode and verbose output.
func (i *Instance) Summary() string {
	id, ok := i.Attribute(AttrID)
	if !ok {
		id = NoID
	}
	name, ok := i.Name()
	if !ok {
		name = NoName
	}
	state, ok := i.State()
	if !ok {
		state = NoState
	}
	return fmt.Sprintf("id:%s name:'%s' State:%s", id, name, state)
}

func (i *Instance) String() string {
	return i.Summary()
}

// RequestStart asks the controller to start the instance and records
// "started" locally. The local state is not confirmed against the provider.
func (i *Instance) RequestStart(ctx context.Context, c Controller) error {
	if err := c.StartInstance(ctx, i.ID()); err != nil {
		return err
	}
	i.attributes[AttrState] = StateStarted
	return nil
}

// RequestStop asks the controller to stop the instance and records "stopped" locally.
func (i *Instance) RequestStop(ctx context.Context, c Controller) error {
	if err := c.StopInstance(ctx, i.ID()); err != nil {
		return err
	}
	i.attributes[AttrState] = StateStopped
	return nil
}

// RequestTerminate asks the controller to terminate the instance and records
// "terminated" locally.
func (i *Instance) RequestTerminate(ctx context.Context, c Controller) error {
	if err := c.TerminateInstance(ctx, i.ID()); err != nil {
		return err
	}
	i.attributes[AttrState] = StateTerminated
	return nil
}

// NoopController accepts every request without side effects. Fixture runs
// use it so that actions only change the local state.
type NoopController struct{}

func (NoopController) StartInstance(context.Context, string) error     { return nil }
func (NoopController) StopInstance(context.Context, string) error      { return nil }
func (NoopController) TerminateInstance(context.Context, string) error { return nil }

var _ Controller = NoopController{}
