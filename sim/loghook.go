package sim

import (
	"fmt"

	"github.com/rs/zerolog"
)

// A LogHook is a hook that writes every invocation it receives as a
// structured log entry.
type LogHook struct {
	logger zerolog.Logger
	level  zerolog.Level
	filter map[*HookPos]bool
}

// NewLogHook creates a LogHook that writes to the given logger at debug level.
func NewLogHook(logger zerolog.Logger) *LogHook {
	return &LogHook{
		logger: logger,
		level:  zerolog.DebugLevel,
	}
}

// WithLevel sets the level used for the entries.
func (h *LogHook) WithLevel(level zerolog.Level) *LogHook {
	h.level = level
	return h
}

// OnlyAt restricts the hook to the given positions. Without a restriction,
// every position is logged.
func (h *LogHook) OnlyAt(positions ...*HookPos) *LogHook {
	if h.filter == nil {
		h.filter = make(map[*HookPos]bool)
	}

	for _, p := range positions {
		h.filter[p] = true
	}

	return h
}

// Func writes the hook context to the logger.
func (h *LogHook) Func(ctx HookCtx) {
	if h.filter != nil && !h.filter[ctx.Pos] {
		return
	}

	entry := h.logger.WithLevel(h.level).Str("pos", ctx.Pos.Name)

	if named, ok := ctx.Domain.(Named); ok {
		entry = entry.Str("domain", named.Name())
	}

	if ctx.Item != nil {
		entry = entry.Str("item", describeItem(ctx.Item))
	}

	if ctx.Detail != nil {
		entry = entry.Interface("detail", ctx.Detail)
	}

	entry.Msg("hook")
}

func describeItem(item any) string {
	switch v := item.(type) {
	case Named:
		return v.Name()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
