package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-ai/inkwell/catalog"
	"github.com/inkwell-ai/inkwell/editor"
	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/logger"
)

// Interactor asks the user the questions a suspension raises. An error
// from any method cancels the whole run.
type Interactor interface {
	PickPrompt(prompts []*catalog.Prompt) (string, error)
	PickEndpoint(endpoints []*catalog.Endpoint) (string, error)
	AskText(caption, placeholder string) (string, error)
	PickList(caption string, rows [][]string) (int, error)
	Progress(message string)
}

// Runner drives the controller loop: stepping, interacting, dispatching,
// and resuming suspended parents until the final output is applied.
type Runner struct {
	Snapshot   *catalog.Snapshot
	Transport  Transport
	Interactor Interactor
}

// Run executes one full prompt invocation against the view. Each region of
// a multi-selection gets its own invocation; all of them are awaited and
// applied.
func (r *Runner) Run(ctx context.Context, v editor.View, w editor.Window, args Args) error {
	for {
		c := r.Snapshot.Catalog()
		state := editor.StateFor(v, primaryRegion(v))

		plan, susp, err := Step(c, state, args)
		if err != nil {
			return err
		}
		if susp != nil {
			args, err = r.interact(susp)
			if err != nil {
				return err
			}
			continue
		}

		invocations, err := r.dispatch(v, plan)
		if err != nil {
			return err
		}

		results := make([]map[string]interface{}, len(invocations))
		for i, inv := range invocations {
			results[i] = r.await(ctx, inv)
		}

		if len(plan.Args.Stack) > 0 {
			args, err = r.resume(plan, results[0])
			if err != nil {
				return err
			}
			continue
		}

		return r.apply(v, w, plan, invocations, results)
	}
}

func (r *Runner) interact(susp *Suspension) (Args, error) {
	args := susp.Args
	switch susp.Kind {
	case SuspendPickPrompt:
		id, err := r.Interactor.PickPrompt(susp.Prompts)
		if err != nil {
			return args, err
		}
		args.PromptID = id
	case SuspendPickEndpoint:
		key, err := r.Interactor.PickEndpoint(susp.Endpoints)
		if err != nil {
			return args, err
		}
		args.EndpointID = key
	case SuspendAskText:
		value, err := r.Interactor.AskText(susp.Caption, susp.Placeholder)
		if err != nil {
			return args, err
		}
		args = args.WithInput(susp.Slot, value)
	case SuspendPickList:
		idx, err := r.Interactor.PickList(susp.Caption, susp.Options)
		if err != nil {
			return args, err
		}
		if idx < 0 || idx >= len(susp.Values) {
			return args, errors.Newf("pick index %d out of range", idx)
		}
		args = args.WithInput(susp.Slot, susp.Values[idx])
	}
	return args, nil
}

// dispatch starts one invocation per selection region. Regions whose
// selection is empty are skipped when the prompt requires text.
func (r *Runner) dispatch(v editor.View, plan *Plan) ([]*Invocation, error) {
	regions := v.Selections()
	if len(regions) == 0 {
		regions = []editor.Region{{Begin: 0, End: v.Size()}}
	}
	needText := requiresText(plan.Prompt)

	extra := map[string]string{"syntax": v.Syntax()}
	for k, val := range plan.Args.Inputs {
		extra[k] = val
	}

	var invocations []*Invocation
	for _, region := range regions {
		ectx := editor.GetContext(v, region, plan.Prompt.RequiredContext)
		if needText && ectx.Text == "" {
			logger.Debugw("skipping empty selection", "prompt", plan.Prompt.ID)
			continue
		}
		invocations = append(invocations,
			StartInvocation(r.Transport, plan.Prompt, plan.Endpoint, region, ectx, extra))
	}
	if len(invocations) == 0 {
		return nil, errors.New("nothing to send: every selection is empty")
	}
	return invocations, nil
}

func (r *Runner) await(ctx context.Context, inv *Invocation) map[string]interface{} {
	timeout := time.Duration(inv.Endpoint.Timeout) * time.Second
	if timeout <= 0 {
		timeout = catalog.DefaultTimeout * time.Second
	}
	// grace over the call's own timeout so the transport error surfaces
	// before abandonment does
	awaitCtx, cancel := context.WithTimeout(ctx, timeout+5*time.Second)
	defer cancel()

	return inv.Await(awaitCtx, func(elapsed time.Duration) {
		if r.Interactor != nil {
			r.Interactor.Progress(fmt.Sprintf("waiting for %s (%ds)",
				inv.Endpoint.Key(), int(elapsed.Seconds())))
		}
	})
}

// resume feeds a nested prompt's result back into the suspended parent.
func (r *Runner) resume(plan *Plan, result map[string]interface{}) (Args, error) {
	frame := plan.Args.Stack[len(plan.Args.Stack)-1]

	var output string
	var rows [][]string
	switch frame.Marker {
	case MarkListTo:
		var ok bool
		rows, ok = ListResult(result)
		if !ok || len(rows) == 0 {
			if _, err := Output(result); err != nil {
				return plan.Args, err
			}
			return plan.Args, errors.Newf("prompt %q produced no list for input %q", plan.Prompt.ID, frame.Slot)
		}
	default:
		var err error
		output, err = Output(result)
		if err != nil {
			return plan.Args, err
		}
	}

	args, ok := plan.Args.Resume(output, rows)
	if !ok {
		return args, errors.New("no suspended parent to resume")
	}
	logger.Debugw("resuming parent prompt",
		"parent", args.PromptID, "slot", frame.Slot, "marker", frame.Marker)
	return args, nil
}

// apply writes each invocation's output back to the view. Later regions
// are applied first so earlier edits cannot shift the pending ones.
func (r *Runner) apply(v editor.View, w editor.Window, plan *Plan,
	invocations []*Invocation, results []map[string]interface{}) error {

	var firstErr error
	for i := len(invocations) - 1; i >= 0; i-- {
		out, err := Output(results[i])
		if err != nil {
			logger.Errorw("invocation failed",
				"prompt", plan.Prompt.ID, "endpoint", plan.Endpoint.Key(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := editor.ApplyOutput(v, w, invocations[i].Region, plan.Prompt.Command, out); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func requiresText(p *catalog.Prompt) bool {
	for _, name := range p.RequiredInputs {
		if name == "text" {
			return true
		}
	}
	return false
}

func primaryRegion(v editor.View) editor.Region {
	if sel := v.Selections(); len(sel) > 0 {
		return sel[0]
	}
	return editor.Region{Begin: 0, End: v.Size()}
}
