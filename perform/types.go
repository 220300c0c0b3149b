package perform

import (
	"fmt"

	"steplift/express"
	"steplift/stepgraph"
)

// PerformedEvent pairs one source ExpressedChart step with the target
// GraphLinkInstance chosen to realize it.
type PerformedEvent struct {
	Time     express.Time
	Instance stepgraph.Instance
}

// PerformedChart is the Performer's output: the target pad's body-motion
// realization of an ExpressedChart, ready for the Emitter.
type PerformedChart struct {
	Events []PerformedEvent
}

// ErrNoPathFound reports that every starting tier of the target pad was
// exhausted without a complete cover.
type ErrNoPathFound struct {
	Reason string
}

func (e *ErrNoPathFound) Error() string {
	return fmt.Sprintf("no path found: %s", e.Reason)
}
