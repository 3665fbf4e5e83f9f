package sim

// HookPos names a place where hooks fire. Positions are compared by pointer.
type HookPos struct {
	Name string
}

// HookCtx describes one firing of a hook.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos

	// Item is the subject of the hook, such as an event, a port or a
	// candidate.
	Item any

	// Detail is optional position-specific data.
	Detail any
}

// Hookable is implemented by everything that can be instrumented with hooks.
type Hookable interface {
	// AcceptHook registers a hook. Hooks are registered while the simulation
	// is being configured and cannot be removed.
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
	InvokeHook(ctx HookCtx)
}

// Event hook positions of engines.
var (
	HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}
	HookPosAfterEvent  = &HookPos{Name: "AfterEvent"}
)

// Hook is a piece of code invoked by a hookable object.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc turns a function into a Hook. The function value must be
// registered through a pointer, since functions are not comparable.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f *HookFunc) Func(ctx HookCtx) {
	(*f)(ctx)
}

// NewHookFunc wraps f as a Hook.
func NewHookFunc(f func(ctx HookCtx)) Hook {
	h := HookFunc(f)
	return &h
}

// HookableBase implements Hookable and is embedded by hookable types.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates a HookableBase without hooks.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks returns the registered hooks in registration order.
func (h *HookableBase) Hooks() []Hook {
	return append([]Hook(nil), h.hooks...)
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	for _, registered := range h.hooks {
		if registered == hook {
			panic("duplicated hook")
		}
	}

	h.hooks = append(h.hooks, hook)
}

// InvokeHook calls every hook in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
