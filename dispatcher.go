package emit

import (
	"context"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Wrapper runs around a whole fan-out. It must call next to let the
// handlers run; returning without calling next skips them.
type Wrapper[K comparable, P any] func(ctx context.Context, key K, payload P, next func(context.Context) error) error

// Dispatcher maps event keys of type K to ordered lists of handlers that
// accept payloads of type P.
//
// The zero value is ready to use with the default options. A Dispatcher is
// safe for concurrent use; handlers are always invoked outside of its lock,
// so a handler may register or remove handlers on the dispatcher that is
// calling it. Such changes apply to the next emission.
type Dispatcher[K comparable, P any] struct {
	l sync.RWMutex

	cfg      config
	handlers map[K][]*Handler[P]
	wrappers []Wrapper[K, P]
}

// New creates a Dispatcher. The handlers in initial are installed as given,
// without applying the handler limit; nil handlers and repeated references
// are skipped. initial is copied and may be nil.
func New[K comparable, P any](initial Handlers[K, P], opts ...Option) *Dispatcher[K, P] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &Dispatcher[K, P]{
		cfg:      cfg,
		handlers: make(map[K][]*Handler[P], len(initial)),
	}
	for key, hs := range initial {
		var list []*Handler[P]
		for _, h := range hs {
			if !h.valid() || slices.Contains(list, h) {
				continue
			}
			list = append(list, h)
		}
		if len(list) > 0 {
			d.handlers[key] = list
		}
	}
	return d
}

func (d *Dispatcher[K, P]) init() {
	if d.handlers == nil {
		d.handlers = map[K][]*Handler[P]{}
	}
	if d.cfg.maxHandlers == 0 {
		d.cfg.maxHandlers = DefaultMaxHandlers
	}
	if d.cfg.logger == nil {
		d.cfg.logger = slog.New(slog.DiscardHandler)
	}
}

// On registers handler for key. Registering a handler that is already
// present for key does nothing. On fails with ErrInvalidHandler for a nil
// handler and with a *LimitError once key holds MaxHandlers handlers.
func (d *Dispatcher[K, P]) On(key K, handler *Handler[P]) error {
	if !handler.valid() {
		return ErrInvalidHandler
	}

	d.l.Lock()
	defer d.l.Unlock()
	d.init()

	hs := d.handlers[key]
	if slices.Contains(hs, handler) {
		return nil
	}
	if len(hs) >= d.cfg.maxHandlers {
		return &LimitError{Key: key, Limit: d.cfg.maxHandlers}
	}
	d.handlers[key] = append(hs, handler)
	d.cfg.logger.Debug("handler registered", "event", key, "handlers", len(hs)+1)
	return nil
}

// Off removes the given handlers from key, keeping the remaining handlers
// in their original order. Without any handler argument every handler for
// key is removed. Unknown handlers are ignored.
func (d *Dispatcher[K, P]) Off(key K, handlers ...*Handler[P]) {
	d.l.Lock()
	defer d.l.Unlock()
	d.init()

	hs, ok := d.handlers[key]
	if !ok {
		return
	}
	if len(handlers) == 0 {
		delete(d.handlers, key)
		d.cfg.logger.Debug("handlers removed", "event", key, "removed", len(hs))
		return
	}

	kept := make([]*Handler[P], 0, len(hs))
	for _, h := range hs {
		if !slices.Contains(handlers, h) {
			kept = append(kept, h)
		}
	}
	if len(kept) == 0 {
		delete(d.handlers, key)
	} else {
		d.handlers[key] = kept
	}
	d.cfg.logger.Debug("handlers removed", "event", key, "removed", len(hs)-len(kept))
}

// Use adds a wrapper around every emission. The wrapper added last is the
// outermost. Wrappers only run for keys that have at least one handler.
func (d *Dispatcher[K, P]) Use(wrapper Wrapper[K, P]) {
	if wrapper == nil {
		return
	}
	d.l.Lock()
	defer d.l.Unlock()
	d.init()
	d.wrappers = append(d.wrappers, wrapper)
}

// Emit calls every handler for key in registration order on the calling
// goroutine. The first handler error is returned as is and the handlers
// after it are not called. Panics are not recovered.
func (d *Dispatcher[K, P]) Emit(ctx context.Context, key K, payload P) error {
	handlers, wrappers, logger := d.snapshot(key)
	if len(handlers) == 0 {
		return nil
	}
	logger.Debug("emit", "event", key, "handlers", len(handlers))

	top := func(ctx context.Context) error {
		for _, h := range handlers {
			if err := h.fn(ctx, payload); err != nil {
				return err
			}
		}
		return nil
	}
	return wrap(top, wrappers, key, payload)(ctx)
}

// EmitAsync calls every handler for key and returns once all of them have
// settled. In Concurrent mode (the default) each handler runs on its own
// goroutine and any failures are returned together as an *AggregateError
// in registration order. In Sequential mode handlers run one at a time and
// the first failure is returned unwrapped, skipping the rest.
//
// Panicking handlers are reported as *PanicError. ctx is handed to the
// handlers; EmitAsync itself never abandons a handler it has started.
func (d *Dispatcher[K, P]) EmitAsync(ctx context.Context, key K, payload P, opts ...EmitOption) error {
	var ec emitConfig
	for _, opt := range opts {
		opt(&ec)
	}

	handlers, wrappers, logger := d.snapshot(key)
	if len(handlers) == 0 {
		return nil
	}
	logger.Debug("emit async", "event", key, "mode", ec.mode, "handlers", len(handlers))

	var top func(context.Context) error
	switch ec.mode {
	case Sequential:
		top = func(ctx context.Context) error {
			for _, h := range handlers {
				if err := call(ctx, key, h, payload); err != nil {
					return err
				}
			}
			return nil
		}
	default:
		top = func(ctx context.Context) error {
			errs := make([]error, len(handlers))
			var g errgroup.Group
			for i, h := range handlers {
				g.Go(func() error {
					errs[i] = call(ctx, key, h, payload)
					return nil
				})
			}
			_ = g.Wait()

			var failed []error
			for _, err := range errs {
				if err != nil {
					failed = append(failed, err)
				}
			}
			if len(failed) == 0 {
				return nil
			}
			return &AggregateError{Key: key, Errors: failed}
		}
	}

	err := wrap(top, wrappers, key, payload)(ctx)
	logger.Debug("emit async settled", "event", key, "mode", ec.mode, "failed", err != nil)
	return err
}

// Go runs EmitAsync on a new goroutine. The returned channel receives the
// result exactly once and is then closed.
func (d *Dispatcher[K, P]) Go(ctx context.Context, key K, payload P, opts ...EmitOption) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- d.EmitAsync(ctx, key, payload, opts...)
	}()
	return done
}

// Len reports how many handlers are registered for key.
func (d *Dispatcher[K, P]) Len(key K) int {
	d.l.RLock()
	defer d.l.RUnlock()
	return len(d.handlers[key])
}

// Keys returns every key that has at least one handler, in no particular
// order.
func (d *Dispatcher[K, P]) Keys() []K {
	d.l.RLock()
	defer d.l.RUnlock()
	keys := make([]K, 0, len(d.handlers))
	for k, hs := range d.handlers {
		if len(hs) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

// Handlers returns a copy of the handlers registered for key.
func (d *Dispatcher[K, P]) Handlers(key K) []*Handler[P] {
	d.l.RLock()
	defer d.l.RUnlock()
	return slices.Clone(d.handlers[key])
}

func (d *Dispatcher[K, P]) MaxHandlers() int {
	d.l.RLock()
	defer d.l.RUnlock()
	if d.cfg.maxHandlers == 0 {
		return DefaultMaxHandlers
	}
	return d.cfg.maxHandlers
}

func (d *Dispatcher[K, P]) snapshot(key K) ([]*Handler[P], []Wrapper[K, P], *slog.Logger) {
	d.l.RLock()
	defer d.l.RUnlock()
	logger := d.cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return slices.Clone(d.handlers[key]), slices.Clone(d.wrappers), logger
}

func wrap[K comparable, P any](top func(context.Context) error, wrappers []Wrapper[K, P], key K, payload P) func(context.Context) error {
	for _, w := range wrappers {
		next := top
		top = func(ctx context.Context) error {
			return w(ctx, key, payload, next)
		}
	}
	return top
}

func call[K comparable, P any](ctx context.Context, key K, h *Handler[P], payload P) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Key: key, Value: r, Stack: debug.Stack()}
		}
	}()
	return h.fn(ctx, payload)
}
