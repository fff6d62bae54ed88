package chart

import (
	"fmt"

	"github.com/vanderheijden86/bubbles/pkg/model"
)

// EventKind is a pointer interaction with a single bubble.
type EventKind int

const (
	PointerEnter EventKind = iota
	PointerLeave
	Click
)

func (k EventKind) String() string {
	switch k {
	case PointerEnter:
		return "pointer-enter"
	case PointerLeave:
		return "pointer-leave"
	case Click:
		return "click"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event targets the bubble of PointID. Point is informational; the
// controller always resolves the data point from its own copy.
type Event struct {
	Kind    EventKind
	PointID model.PointID
	Point   model.DataPoint
}

// StateKind is the interaction state of the chart.
type StateKind int

const (
	Idle StateKind = iota
	Hovering
	Selected
)

func (k StateKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Selected:
		return "selected"
	}
	return fmt.Sprintf("StateKind(%d)", int(k))
}

// State reports the interaction state. Hovering takes precedence over
// Selected; PointID is the bubble the state refers to.
type State struct {
	Kind    StateKind
	PointID model.PointID
}

func (s State) String() string {
	if s.Kind == Idle {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.PointID)
}
