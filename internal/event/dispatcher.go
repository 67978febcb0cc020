package event

import (
	"log/slog"
)

// Handler processes one event. A returned error propagates out of Dispatch;
// the dispatcher never swallows handler failures.
type Handler func(Event) error

// Dispatcher routes decoded events to registered handlers, synchronously and
// in registration order. It is not safe for concurrent use: the session's
// single intake loop is the only caller, so no two handlers ever run at once.
type Dispatcher struct {
	handlers map[Kind][]Handler
	logger   *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[Kind][]Handler),
		logger:   logger,
	}
}

// Register appends a handler for a kind. Handlers for the same kind run in
// the order they were registered.
func (d *Dispatcher) Register(kind Kind, h Handler) {
	d.handlers[kind] = append(d.handlers[kind], h)
}

// Dispatch invokes every handler registered for the event's kind. A kind with
// no handlers is a no-op, which keeps older clients compatible with servers
// that ship new event kinds. The first handler error stops the fanout and is
// returned to the caller.
func (d *Dispatcher) Dispatch(ev Event) error {
	handlers, ok := d.handlers[ev.Kind]
	if !ok {
		d.logger.Debug("no handlers for event kind", "kind", ev.Kind)
		return nil
	}
	for _, h := range handlers {
		if err := h(ev); err != nil {
			return err
		}
	}
	return nil
}
