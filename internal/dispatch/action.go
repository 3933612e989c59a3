package dispatch

import "fmt"

// Action is the lifecycle change requested for the selected instances.
type Action int

const (
	// ActionNone lists the selection without changing it.
	ActionNone Action = iota
	ActionStart
	ActionStop
	ActionTerminate
)

var actionNames = map[Action]string{
	ActionNone:      "none",
	ActionStart:     "start",
	ActionStop:      "stop",
	ActionTerminate: "terminate",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// verbs holds the progressive and base forms used in verbose output.
var verbs = map[Action][2]string{
	ActionStart:     {"Starting", "starting"},
	ActionStop:      {"Stopping", "stopping"},
	ActionTerminate: {"Terminating", "terminating"},
}
