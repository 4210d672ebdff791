package emit

import "context"

// HandlerFunc is the function signature of an event handler. Returning an
// error reports a failure to the caller of Emit or EmitAsync.
type HandlerFunc[P any] func(ctx context.Context, payload P) error

// Handler is a registered unit of work. Dispatchers compare handlers by
// pointer, so keep the *Handler returned from DefineHandler around if it
// needs to be removed later with Off.
type Handler[P any] struct {
	fn HandlerFunc[P]
}

// DefineHandler gives fn a stable identity that can be registered with On
// and removed with Off. Calling DefineHandler twice with the same function
// yields two distinct handlers.
func DefineHandler[P any](fn HandlerFunc[P]) *Handler[P] {
	return &Handler[P]{fn: fn}
}

// Call invokes the handler directly, bypassing any dispatcher.
func (h *Handler[P]) Call(ctx context.Context, payload P) error {
	return h.fn(ctx, payload)
}

func (h *Handler[P]) valid() bool {
	return h != nil && h.fn != nil
}

// Handlers maps event keys to the handlers registered for them.
type Handlers[K comparable, P any] map[K][]*Handler[P]

// DefineHandlers returns m unchanged. It exists so that a handler map can be
// declared next to its dispatcher with the key and payload types checked by
// the compiler:
//
//	initial := emit.DefineHandlers(emit.Handlers[string, Order]{
//	    "order.created": {notify, audit},
//	})
func DefineHandlers[K comparable, P any](m Handlers[K, P]) Handlers[K, P] {
	return m
}
