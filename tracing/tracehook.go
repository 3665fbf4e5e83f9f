package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/casesim/caseactor"
	"github.com/sarchlab/casesim/modeling"
	"github.com/sarchlab/casesim/sim"
)

var phaseNames = map[*sim.HookPos]string{
	caseactor.HookPosSelected:  "select",
	caseactor.HookPosSkipped:   "skip",
	caseactor.HookPosFired:     "run",
	caseactor.HookPosFinalized: "finalize",
}

var stepNames = map[*sim.HookPos]string{
	modeling.HookPosPortAdded:          "port added",
	modeling.HookPosRelationCreated:    "relation created",
	modeling.HookPosPortLinked:         "port linked",
	modeling.HookPosFlagsMirrored:      "flags mirrored",
	modeling.HookPosRefinementAttached: "refinement attached",
}

// CollectTrace lets the tracer collect events from a domain. The time teller
// may be nil, in which case all events happen at time 0.
func CollectTrace(
	domain NamedHookable,
	tracer Tracer,
	timeTeller sim.TimeTeller,
) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	h := &traceHook{
		t:          tracer,
		domainName: domain.Name(),
		timeTeller: timeTeller,
	}
	domain.AcceptHook(h)
}

// A traceHook turns case hooks into tracer events.
type traceHook struct {
	t          Tracer
	domainName string
	timeTeller sim.TimeTeller
}

func (h *traceHook) now() sim.VTimeInSec {
	if h.timeTeller == nil {
		return 0
	}

	return h.timeTeller.CurrentTime()
}

// Func calls the tracer when the hook is triggered.
func (h *traceHook) Func(ctx sim.HookCtx) {
	if phase, ok := phaseNames[ctx.Pos]; ok {
		h.t.TraceCycle(h.cycleEvent(ctx, phase))
		return
	}

	if step, ok := stepNames[ctx.Pos]; ok {
		h.t.TraceEdit(h.editEvent(ctx, step))
	}
}

func (h *traceHook) cycleEvent(ctx sim.HookCtx, phase string) CycleEvent {
	detail := ctx.Detail.(caseactor.CycleDetail)

	e := CycleEvent{
		Time:     h.now(),
		Case:     h.domainName,
		Cycle:    detail.Cycle,
		Phase:    phase,
		Ready:    detail.Ready,
		Continue: detail.Continue,
		Err:      detail.Err,
	}

	if actor, ok := ctx.Item.(caseactor.Actor); ok {
		e.Candidate = actor.Name()
	}

	return e
}

func (h *traceHook) editEvent(ctx sim.HookCtx, step string) EditEvent {
	detail := ctx.Detail.(modeling.MirrorDetail)

	e := EditEvent{
		Time:       h.now(),
		Container:  h.domainName,
		Step:       step,
		Entity:     detail.Entity,
		Origin:     detail.Origin,
		Propagated: detail.Propagated,
		Relation:   detail.Relation,
	}

	switch item := ctx.Item.(type) {
	case modeling.Port:
		e.Item = item.Name
	case modeling.Relation:
		e.Item = item.Name
	case *modeling.Refinement:
		e.Item = item.Name()
	}

	return e
}
