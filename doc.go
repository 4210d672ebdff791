// Package emit implements an in-process event dispatcher. Handlers are
// registered against event keys and every handler of a key is triggered
// when that key is emitted, either on the calling goroutine or
// concurrently.
//
// # Register handlers
//
// A Dispatcher is parameterized by its key type and payload type. Handlers
// are defined once with DefineHandler, which gives them an identity that
// On and Off compare against:
//
//	d := emit.New[string, Order](nil)
//
//	notify := emit.DefineHandler(func(ctx context.Context, o Order) error {
//	    fmt.Println("order placed:", o.ID)
//	    return nil
//	})
//	if err := d.On("order.placed", notify); err != nil {
//	    return err
//	}
//
// Registering the same handler twice is a no-op. Each key accepts at most
// WithMaxHandlers handlers (10 by default); hitting the limit usually means
// a fresh closure is being registered on every call.
//
// # Emit events
//
// Emit calls the handlers in registration order and stops at the first
// error:
//
//	err := d.Emit(ctx, "order.placed", order) // order placed: 42
//
// EmitAsync runs all handlers concurrently and reports every failure at
// once in an *AggregateError, or one at a time with fail-fast semantics:
//
//	err := d.EmitAsync(ctx, "order.placed", order)
//	err = d.EmitAsync(ctx, "order.placed", order, emit.WithMode(emit.Sequential))
//
// Keys that must not collide with event names chosen elsewhere can use
// *Symbol, which is only ever equal to itself:
//
//	var Shutdown = emit.NewSymbol("shutdown")
//	d := emit.New[*emit.Symbol, struct{}](nil)
package emit
