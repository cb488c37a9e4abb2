package models

import "time"

// ActionKind identifies what the worker is doing.
type ActionKind string

const (
	ActionBreak ActionKind = "break"
	ActionMake  ActionKind = "make"
	ActionServe ActionKind = "serve"
)

// Label returns the human readable text used in the rendered log.
func (k ActionKind) Label() string {
	switch k {
	case ActionMake:
		return "Make Sandwich"
	case ActionServe:
		return "Serve Sandwich"
	case ActionBreak:
		return "Take a break."
	default:
		return string(k)
	}
}

// Action is one line of the worker's timeline. OrderNumber is zero for breaks.
type Action struct {
	Sequence    int        `json:"sequence"`
	Time        time.Time  `json:"time"`
	Kind        ActionKind `json:"kind"`
	OrderNumber int        `json:"order_number,omitempty"`
}

func (a Action) HasOrder() bool {
	return a.OrderNumber > 0
}

// Summary aggregates a replayed timeline.
type Summary struct {
	Orders int
	Breaks int
	End    time.Time // worker clock at the terminal break
}

func Summarize(actions []Action) Summary {
	var s Summary
	for _, a := range actions {
		switch a.Kind {
		case ActionServe:
			s.Orders++
		case ActionBreak:
			s.Breaks++
		}
	}
	if len(actions) > 0 {
		s.End = actions[len(actions)-1].Time
	}
	return s
}
