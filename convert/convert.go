// Package convert composes the Expressor, Performer, and Emitter into
// the core's single public one-shot operation.
package convert

import (
	"context"
	"fmt"

	"steplift/emit"
	"steplift/express"
	"steplift/pad"
	"steplift/perform"
	"steplift/stepgraph"
)

// ErrConfigInvalid wraps a configuration error detected at conversion
// entry: inverted thresholds, an unknown step kind in a
// replacement table, or a pad referenced with no loaded PadModel.
type ErrConfigInvalid struct {
	Reason string
	Err    error
}

func (e *ErrConfigInvalid) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config invalid: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("config invalid: %s", e.Reason)
}

func (e *ErrConfigInvalid) Unwrap() error { return e.Err }

// ErrInfeasible wraps CannotExpress/NoPathFound: the conversion's
// inputs are well-shaped but no realization exists.
type ErrInfeasible struct {
	Stage string
	Err   error
}

func (e *ErrInfeasible) Error() string {
	return fmt.Sprintf("%s: infeasible: %v", e.Stage, e.Err)
}

func (e *ErrInfeasible) Unwrap() error { return e.Err }

// ErrShape wraps an input-shape error: non-monotonic times or an
// unmatched HoldEnd/RollEnd, detected before any search begins.
type ErrShape struct {
	Err error
}

func (e *ErrShape) Error() string {
	return fmt.Sprintf("input shape: %v", e.Err)
}

func (e *ErrShape) Unwrap() error { return e.Err }

// Convert runs the full source-note-stream to target-note-stream
// pipeline: Express over the source StepGraph, Perform over the
// target StepGraph, then Emit. The
// context cancels a long conversion between events; a cancelled
// conversion returns the context's error unwrapped.
func Convert(
	ctx context.Context,
	notes []express.NoteEvent,
	sourcePad *pad.Model,
	sourceGraph *stepgraph.Graph,
	targetPad *pad.Model,
	targetGraph *stepgraph.Graph,
	expressCfg express.Config,
	performCfg perform.Config,
	seed uint64,
) ([]express.NoteEvent, error) {
	if sourcePad == nil || sourceGraph == nil || targetPad == nil || targetGraph == nil {
		return nil, &ErrConfigInvalid{Reason: "pad model not loaded"}
	}
	if err := performCfg.Validate(); err != nil {
		return nil, &ErrConfigInvalid{Reason: "performance config", Err: err}
	}

	expressed, err := express.Express(ctx, notes, sourceGraph, expressCfg)
	if err != nil {
		switch err.(type) {
		case *express.ErrInputShape:
			return nil, &ErrShape{Err: err}
		case *express.ErrCannotExpress:
			return nil, &ErrInfeasible{Stage: "express", Err: err}
		default:
			return nil, err
		}
	}

	performed, err := perform.Perform(ctx, expressed, targetPad, targetGraph, performCfg, seed)
	if err != nil {
		switch err.(type) {
		case *perform.ErrConfigInvalid:
			return nil, &ErrConfigInvalid{Reason: "performance config", Err: err}
		case *perform.ErrNoPathFound:
			return nil, &ErrInfeasible{Stage: "perform", Err: err}
		default:
			return nil, err
		}
	}

	return emit.Emit(expressed, performed), nil
}
