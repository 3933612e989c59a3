package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"

	"reaper/pkg/colors"
	"reaper/pkg/errors"
	"reaper/pkg/instance"
	"reaper/pkg/logging"
)

// Decision records what the dispatcher did with one instance.
type Decision struct {
	InstanceID string
	Action     Action
	// Invoked is true when the controller was asked to change the instance.
	Invoked bool
	// PriorState is the state before the decision, "" when unknown.
	PriorState string
	Summary    string
}

// Dispatcher applies one Action to a sequence of selected instances.
type Dispatcher struct {
	Action     Action
	Controller instance.Controller
	Out        io.Writer
	Verbosity  int
	Logger     *logging.Logger
}

// shouldInvoke reports whether the action applies to an instance in state.
// An unknown state is treated as "".
func shouldInvoke(action Action, state string) bool {
	switch action {
	case ActionStart:
		switch state {
		case instance.StateRunning, instance.StatePending, instance.StateTerminated:
			return false
		}
		return true
	case ActionStop:
		return state == instance.StatePending || state == instance.StateRunning
	case ActionTerminate:
		return state != instance.StateTerminated
	default:
		return false
	}
}

// Dispatch decides and, where needed, requests the action for one instance.
// With ActionNone it writes the instance summary instead. A controller
// failure is returned as a provider error and the instance state is left
// unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, inst *instance.Instance) (Decision, error) {
	state, _ := inst.State()
	decision := Decision{
		InstanceID: inst.ID(),
		Action:     d.Action,
		PriorState: state,
		Summary:    inst.Summary(),
	}

	if d.Action == ActionNone {
		fmt.Fprintln(d.out(), decision.Summary)
		return decision, nil
	}

	verb := verbs[d.Action]
	if !shouldInvoke(d.Action, state) {
		if d.Verbosity >= 1 {
			colors.FprintMuted(d.out(), "Not %s %s\n", verb[1], decision.Summary)
		}
		d.logger().Debug("skipped instance", "instance_id", decision.InstanceID, "action", d.Action, "state", state)
		return decision, nil
	}

	if d.Verbosity >= 1 {
		fmt.Fprintf(d.out(), "%s %s\n", verb[0], decision.Summary)
	}

	if err := d.request(ctx, inst); err != nil {
		d.logger().Error(fmt.Sprintf("Failed to %s instance", d.Action), "instance_id", decision.InstanceID, "error", err)
		if errors.Is(err, errors.ErrTypeProvider) {
			return decision, err
		}
		return decision, errors.NewProviderError(
			fmt.Sprintf("failed to %s instance %s", d.Action, decision.InstanceID), err).
			WithContext("instance_id", decision.InstanceID)
	}

	decision.Invoked = true
	d.logger().Info(fmt.Sprintf("Requested %s", d.Action), "instance_id", decision.InstanceID, "from", state)
	return decision, nil
}

func (d *Dispatcher) request(ctx context.Context, inst *instance.Instance) error {
	switch d.Action {
	case ActionStart:
		return inst.RequestStart(ctx, d.Controller)
	case ActionStop:
		return inst.RequestStop(ctx, d.Controller)
	case ActionTerminate:
		return inst.RequestTerminate(ctx, d.Controller)
	default:
		return nil
	}
}

// Run dispatches every instance in order and stops at the first failure.
// The decisions made before the failure are returned alongside it.
func (d *Dispatcher) Run(ctx context.Context, instances []*instance.Instance) ([]Decision, error) {
	decisions := make([]Decision, 0, len(instances))
	for _, inst := range instances {
		decision, err := d.Dispatch(ctx, inst)
		if err != nil {
			return decisions, err
		}
		decisions = append(decisions, decision)
	}
	return decisions, nil
}

// Invoked counts the decisions that reached the controller.
func Invoked(decisions []Decision) int {
	n := 0
	for _, d := range decisions {
		if d.Invoked {
			n++
		}
	}
	return n
}

func (d *Dispatcher) logger() *logging.Logger {
	if d.Logger == nil {
		return logging.NewNoOpLogger()
	}
	return d.Logger
}

func (d *Dispatcher) out() io.Writer {
	if d.Out == nil {
		return os.Stdout
	}
	return d.Out
}
